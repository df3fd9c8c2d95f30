package model

import (
	"slices"
	"time"
)

// DefaultRoundLength is the base length of a round before extensions
const DefaultRoundLength = 50 * time.Minute

// RoundStatus moves forward only: open, uncertified, certified. Dead is terminal.
type RoundStatus string

const (
	RoundOpen        RoundStatus = "open"
	RoundUncertified RoundStatus = "uncertified"
	RoundCertified   RoundStatus = "certified"
	RoundDead        RoundStatus = "dead"
)

// ResultKind distinguishes the variants of RoundResult
type ResultKind string

const (
	ResultWins ResultKind = "wins"
	ResultDraw ResultKind = "draw"
)

// RoundResult is a single reported result: a player's game wins, or a drawn game
type RoundResult struct {
	Kind   ResultKind `json:"kind"`
	Player *PlayerID  `json:"player,omitempty"`
	Games  uint8      `json:"games,omitempty"`
}

// WinsResult reports that a player won the given number of games
func WinsResult(player PlayerID, games uint8) RoundResult {
	return RoundResult{Kind: ResultWins, Player: &player, Games: games}
}

// DrawResult reports one drawn game
func DrawResult() RoundResult {
	return RoundResult{Kind: ResultDraw}
}

// Round is a single match between a group of players
type Round struct {
	ID            RoundID       `json:"id"`
	MatchNumber   uint64        `json:"match_number"`
	TableNumber   uint64        `json:"table_number"`
	Players       []PlayerID    `json:"players"`
	Confirmations []PlayerID    `json:"confirmations"`
	Results       []RoundResult `json:"results"`
	Status        RoundStatus   `json:"status"`
	Winner        *PlayerID     `json:"winner,omitempty"`
	StartedAt     time.Time     `json:"started_at"`
	Length        time.Duration `json:"length"`
	Extension     time.Duration `json:"extension"`
	IsBye         bool          `json:"is_bye"`
}

// NewRound creates an open round
func NewRound(id RoundID, match, table uint64, players []PlayerID, startedAt time.Time, length time.Duration) *Round {
	return &Round{
		ID:            id,
		MatchNumber:   match,
		TableNumber:   table,
		Players:       slices.Clone(players),
		Confirmations: []PlayerID{},
		Results:       []RoundResult{},
		Status:        RoundOpen,
		StartedAt:     startedAt,
		Length:        length,
	}
}

// HasPlayer reports whether the player is a participant
func (r *Round) HasPlayer(id PlayerID) bool {
	return slices.Contains(r.Players, id)
}

// IsActive reports whether the round is still being played
func (r *Round) IsActive() bool {
	return r.Status == RoundOpen || r.Status == RoundUncertified
}

// IsCertified reports whether the round result is final
func (r *Round) IsCertified() bool {
	return r.Status == RoundCertified
}

// RecordResult appends a reported result
func (r *Round) RecordResult(result RoundResult) error {
	if !r.IsActive() {
		return ErrIncorrectStatus
	}
	if result.Kind == ResultWins {
		if result.Player == nil || !r.HasPlayer(*result.Player) {
			return ErrPlayerNotInRound
		}
	}
	r.Results = append(r.Results, result)
	return nil
}

// Confirm records a participant's confirmation. The round is certified
// once every participant has confirmed.
func (r *Round) Confirm(id PlayerID) (RoundStatus, error) {
	if !r.HasPlayer(id) {
		return r.Status, ErrPlayerNotInRound
	}
	if r.Status == RoundCertified {
		return r.Status, nil
	}
	if !r.IsActive() {
		return r.Status, ErrIncorrectStatus
	}
	if !slices.Contains(r.Confirmations, id) {
		r.Confirmations = append(r.Confirmations, id)
	}
	if len(r.Confirmations) == len(r.Players) {
		r.certify()
	} else {
		r.Status = RoundUncertified
	}
	return r.Status, nil
}

func (r *Round) certify() {
	r.Status = RoundCertified
	r.Winner = nil

	wins := r.GameWins()
	var best uint8
	var leader *PlayerID
	tied := false
	for _, pid := range r.Players {
		n := wins[pid]
		switch {
		case n > best:
			best = n
			id := pid
			leader = &id
			tied = false
		case n == best && n > 0:
			tied = true
		}
	}
	if leader != nil && !tied {
		r.Winner = leader
	}
}

// RecordBye turns a single-player round into a certified win
func (r *Round) RecordBye() error {
	if len(r.Players) != 1 {
		return ErrInvalidBye
	}
	winner := r.Players[0]
	r.IsBye = true
	r.Winner = &winner
	r.Confirmations = []PlayerID{winner}
	r.Status = RoundCertified
	return nil
}

// Kill marks the round dead. Its results no longer count.
func (r *Round) Kill() {
	r.Status = RoundDead
}

// Extend adds time to the round
func (r *Round) Extend(d time.Duration) {
	r.Extension += d
}

// Deadline returns when the round's time runs out
func (r *Round) Deadline() time.Time {
	return r.StartedAt.Add(r.Length + r.Extension)
}

// TimeLeft returns the remaining time at now, never negative
func (r *Round) TimeLeft(now time.Time) time.Duration {
	return max(r.Deadline().Sub(now), 0)
}

// GameWins returns each participant's latest reported game-win count
func (r *Round) GameWins() map[PlayerID]uint8 {
	wins := make(map[PlayerID]uint8, len(r.Players))
	for _, res := range r.Results {
		if res.Kind == ResultWins && res.Player != nil {
			wins[*res.Player] = res.Games
		}
	}
	return wins
}

// GameDraws returns the number of drawn games reported
func (r *Round) GameDraws() int {
	n := 0
	for _, res := range r.Results {
		if res.Kind == ResultDraw {
			n++
		}
	}
	return n
}

// Opponents returns the other participants of the round
func (r *Round) Opponents(id PlayerID) []PlayerID {
	var out []PlayerID
	for _, pid := range r.Players {
		if pid != id {
			out = append(out, pid)
		}
	}
	return out
}

// Clone returns a deep copy of the round
func (r *Round) Clone() *Round {
	c := *r
	c.Players = slices.Clone(r.Players)
	c.Confirmations = slices.Clone(r.Confirmations)
	c.Results = make([]RoundResult, len(r.Results))
	for i, res := range r.Results {
		c.Results[i] = res
		if res.Player != nil {
			pid := *res.Player
			c.Results[i].Player = &pid
		}
	}
	if r.Winner != nil {
		w := *r.Winner
		c.Winner = &w
	}
	return &c
}
