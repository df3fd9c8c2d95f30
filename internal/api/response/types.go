package response

import (
	"maps"
	"slices"
	"time"

	"github.com/mcoot/tourney/internal/model"
	"github.com/mcoot/tourney/internal/services/oplog"
	"github.com/mcoot/tourney/internal/services/tournament"
)

// Tournament is the summary of a tournament in API responses
type Tournament struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Format          string `json:"format"`
	Status          string `json:"status"`
	Pairing         string `json:"pairing"`
	Scoring         string `json:"scoring"`
	RegOpen         bool   `json:"reg_open"`
	RequireCheckIn  bool   `json:"require_check_in"`
	RequireDeckReg  bool   `json:"require_deck_reg"`
	UseTableNumbers bool   `json:"use_table_numbers"`
	GameSize        uint8  `json:"game_size"`
	MinDeckCount    uint8  `json:"min_deck_count"`
	MaxDeckCount    uint8  `json:"max_deck_count"`
	PlayerCount     int    `json:"player_count"`
	RoundCount      int    `json:"round_count"`
}

// TournamentFromModel converts a tournament snapshot
func TournamentFromModel(t *tournament.Tournament) Tournament {
	return Tournament{
		ID:              t.ID.String(),
		Name:            t.Name,
		Format:          t.Format,
		Status:          string(t.Status),
		Pairing:         string(t.Pairing.Kind()),
		Scoring:         string(t.Scoring.Kind()),
		RegOpen:         t.RegOpen,
		RequireCheckIn:  t.RequireCheckIn,
		RequireDeckReg:  t.RequireDeckReg,
		UseTableNumbers: t.UseTableNumbers,
		GameSize:        t.GameSize,
		MinDeckCount:    t.MinDeckCount,
		MaxDeckCount:    t.MaxDeckCount,
		PlayerCount:     t.Players.Len(),
		RoundCount:      t.Rounds.Len(),
	}
}

// TournamentList is the response for listing tournaments
type TournamentList struct {
	Tournaments []Tournament `json:"tournaments"`
}

// Player represents a player in API responses
type Player struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	GameName string   `json:"game_name,omitempty"`
	Status   string   `json:"status"`
	Decks    []string `json:"decks"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	resp := Player{
		ID:     p.ID.String(),
		Name:   p.Name,
		Status: string(p.Status),
		Decks:  slices.Sorted(maps.Keys(p.Decks)),
	}
	if resp.Decks == nil {
		resp.Decks = []string{}
	}
	if p.GameName != nil {
		resp.GameName = *p.GameName
	}
	return resp
}

// PlayerList is the response for listing players
type PlayerList struct {
	Players []Player `json:"players"`
}

// PlayersFromModel converts a list of players
func PlayersFromModel(players []*model.Player) PlayerList {
	list := PlayerList{Players: make([]Player, 0, len(players))}
	for _, p := range players {
		list.Players = append(list.Players, PlayerFromModel(p))
	}
	return list
}

// PlayerCounts summarises the roster
type PlayerCounts struct {
	Registered int `json:"registered"`
	CheckedIn  int `json:"checked_in"`
	Dropped    int `json:"dropped"`
	Active     int `json:"active"`
}

// PlayerCountsFromModel counts players by status
func PlayerCountsFromModel(players []*model.Player) PlayerCounts {
	var counts PlayerCounts
	for _, p := range players {
		switch p.Status {
		case model.PlayerRegistered:
			counts.Registered++
		case model.PlayerCheckedIn:
			counts.CheckedIn++
		case model.PlayerDropped:
			counts.Dropped++
		}
	}
	counts.Active = counts.Registered + counts.CheckedIn
	return counts
}

// Decks maps deck names to decklists
type Decks struct {
	Decks map[string]model.Deck `json:"decks"`
}

// AllDecks maps player IDs to their decks
type AllDecks struct {
	Players map[model.PlayerID]map[string]model.Deck `json:"players"`
}

// Round represents a round in API responses
type Round struct {
	ID            string              `json:"id"`
	MatchNumber   uint64              `json:"match_number"`
	TableNumber   uint64              `json:"table_number,omitempty"`
	Status        string              `json:"status"`
	Players       []string            `json:"players"`
	Confirmations []string            `json:"confirmations"`
	Results       []model.RoundResult `json:"results"`
	Winner        string              `json:"winner,omitempty"`
	IsBye         bool                `json:"is_bye"`
	StartedAt     time.Time           `json:"started_at"`
	EndsAt        time.Time           `json:"ends_at"`
}

// RoundFromModel converts a round. Table numbers are hidden when the
// tournament does not use them.
func RoundFromModel(r *model.Round, useTableNumbers bool) Round {
	resp := Round{
		ID:            r.ID.String(),
		MatchNumber:   r.MatchNumber,
		Status:        string(r.Status),
		Players:       idStrings(r.Players),
		Confirmations: idStrings(r.Confirmations),
		Results:       slices.Clone(r.Results),
		IsBye:         r.IsBye,
		StartedAt:     r.StartedAt,
		EndsAt:        r.StartedAt.Add(r.Length + r.Extension),
	}
	if useTableNumbers {
		resp.TableNumber = r.TableNumber
	}
	if r.Winner != nil {
		resp.Winner = r.Winner.String()
	}
	return resp
}

// RoundList is the response for listing rounds
type RoundList struct {
	Rounds []Round `json:"rounds"`
}

// RoundsFromModel converts a list of rounds
func RoundsFromModel(rounds []*model.Round, useTableNumbers bool) RoundList {
	list := RoundList{Rounds: make([]Round, 0, len(rounds))}
	for _, r := range rounds {
		list.Rounds = append(list.Rounds, RoundFromModel(r, useTableNumbers))
	}
	return list
}

func idStrings(ids []model.PlayerID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// OperationResult is the response for an appended operation
type OperationResult struct {
	Operation model.Operation `json:"operation"`
	Outcome   model.OpOutcome `json:"outcome"`
}

// OperationList is the response for a slice of the log
type OperationList struct {
	Ops []model.Operation `json:"ops"`
}

// SyncReport is the response for a sync
type SyncReport struct {
	CommonPrefix uint64           `json:"common_prefix"`
	Added        []string         `json:"added"`
	Conflicts    []oplog.Conflict `json:"conflicts"`
}

// SyncReportFromModel converts a sync report
func SyncReportFromModel(r oplog.SyncReport) SyncReport {
	resp := SyncReport{
		CommonPrefix: r.CommonPrefix,
		Added:        make([]string, 0, len(r.Added)),
		Conflicts:    r.Conflicts,
	}
	for _, id := range r.Added {
		resp.Added = append(resp.Added, id.String())
	}
	if resp.Conflicts == nil {
		resp.Conflicts = []oplog.Conflict{}
	}
	return resp
}
