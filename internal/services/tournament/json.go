package tournament

import (
	"encoding/json"

	"github.com/mcoot/tourney/internal/model"
	"github.com/mcoot/tourney/internal/services/pairing"
	"github.com/mcoot/tourney/internal/services/scoring"
)

type tournamentJSON struct {
	ID              model.TournamentID     `json:"id"`
	Name            string                 `json:"name"`
	Format          string                 `json:"format"`
	UseTableNumbers bool                   `json:"use_table_numbers"`
	GameSize        uint8                  `json:"game_size"`
	MinDeckCount    uint8                  `json:"min_deck_count"`
	MaxDeckCount    uint8                  `json:"max_deck_count"`
	RegOpen         bool                   `json:"reg_open"`
	RequireCheckIn  bool                   `json:"require_check_in"`
	RequireDeckReg  bool                   `json:"require_deck_reg"`
	Status          model.TournamentStatus `json:"status"`
	Players         *model.PlayerRegistry  `json:"players"`
	Rounds          *model.RoundRegistry   `json:"rounds"`
	Pairing         pairing.State          `json:"pairing"`
	Scoring         scoring.State          `json:"scoring"`
}

func (t *Tournament) MarshalJSON() ([]byte, error) {
	return json.Marshal(tournamentJSON{
		ID:              t.ID,
		Name:            t.Name,
		Format:          t.Format,
		UseTableNumbers: t.UseTableNumbers,
		GameSize:        t.GameSize,
		MinDeckCount:    t.MinDeckCount,
		MaxDeckCount:    t.MaxDeckCount,
		RegOpen:         t.RegOpen,
		RequireCheckIn:  t.RequireCheckIn,
		RequireDeckReg:  t.RequireDeckReg,
		Status:          t.Status,
		Players:         t.Players,
		Rounds:          t.Rounds,
		Pairing:         t.Pairing.State(),
		Scoring:         t.Scoring.State(),
	})
}

func (t *Tournament) UnmarshalJSON(data []byte) error {
	var raw tournamentJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	pairingSys, err := pairing.Restore(raw.Pairing)
	if err != nil {
		return err
	}
	scoringSys, err := scoring.Restore(raw.Scoring)
	if err != nil {
		return err
	}
	if raw.Players == nil {
		raw.Players = model.NewPlayerRegistry()
	}
	if raw.Rounds == nil {
		raw.Rounds = model.NewRoundRegistry(0, model.DefaultRoundLength)
	}

	*t = Tournament{
		ID:              raw.ID,
		Name:            raw.Name,
		Format:          raw.Format,
		UseTableNumbers: raw.UseTableNumbers,
		GameSize:        raw.GameSize,
		MinDeckCount:    raw.MinDeckCount,
		MaxDeckCount:    raw.MaxDeckCount,
		RegOpen:         raw.RegOpen,
		RequireCheckIn:  raw.RequireCheckIn,
		RequireDeckReg:  raw.RequireDeckReg,
		Status:          raw.Status,
		Players:         raw.Players,
		Rounds:          raw.Rounds,
		Pairing:         pairingSys,
		Scoring:         scoringSys,
	}
	return nil
}
