package tournament

import (
	"fmt"

	"github.com/mcoot/tourney/internal/model"
	"github.com/mcoot/tourney/internal/services/pairing"
	"github.com/mcoot/tourney/internal/services/scoring"
)

// Defaults for a newly created tournament
const (
	DefaultGameSize     = 2
	DefaultMinDeckCount = 1
	DefaultMaxDeckCount = 2
)

// Tournament is the aggregate state derived by folding a tournament's operations
type Tournament struct {
	ID              model.TournamentID
	Name            string
	Format          string
	// UseTableNumbers only controls whether table numbers are shown. Rounds
	// are always assigned a table so the setting can be toggled mid-event.
	UseTableNumbers bool
	GameSize        uint8
	MinDeckCount    uint8
	MaxDeckCount    uint8
	RegOpen         bool
	RequireCheckIn  bool
	RequireDeckReg  bool
	Status          model.TournamentStatus

	Players *model.PlayerRegistry
	Rounds  *model.RoundRegistry
	Pairing pairing.System
	Scoring scoring.System
}

// New builds the initial, planned state of a tournament
func New(seed model.TournamentSeed) (*Tournament, error) {
	var kind model.PairingKind
	switch seed.Preset {
	case model.PresetSwiss:
		kind = model.PairingSwiss
	case model.PresetFluid:
		kind = model.PairingFluid
	default:
		return nil, fmt.Errorf("%w: unknown preset %q", model.ErrInvalidSetting, seed.Preset)
	}
	pairingSys, err := pairing.New(kind)
	if err != nil {
		return nil, err
	}
	scoringSys, err := scoring.New(model.ScoringStandard)
	if err != nil {
		return nil, err
	}

	return &Tournament{
		ID:              seed.ID,
		Name:            seed.Name,
		Format:          seed.Format,
		UseTableNumbers: true,
		GameSize:        DefaultGameSize,
		MinDeckCount:    DefaultMinDeckCount,
		MaxDeckCount:    DefaultMaxDeckCount,
		RegOpen:         true,
		Status:          model.StatusPlanned,
		Players:         model.NewPlayerRegistry(),
		Rounds:          model.NewRoundRegistry(0, model.DefaultRoundLength),
		Pairing:         pairingSys,
		Scoring:         scoringSys,
	}, nil
}

// Clone returns a deep copy sharing no mutable state with t
func (t *Tournament) Clone() *Tournament {
	c := *t
	c.Players = t.Players.Clone()
	c.Rounds = t.Rounds.Clone()
	c.Pairing = t.Pairing.Clone()
	c.Scoring = t.Scoring.Clone()
	return &c
}

// CanPlay reports whether a player may be put into a new round
func (t *Tournament) CanPlay(id model.PlayerID) bool {
	p, err := t.Players.ByID(id)
	if err != nil || !p.IsActive() {
		return false
	}
	if t.RequireCheckIn && p.Status != model.PlayerCheckedIn {
		return false
	}
	if t.RequireDeckReg && len(p.Decks) < int(t.MinDeckCount) {
		return false
	}
	return true
}

func (t *Tournament) pairingInput() pairing.Input {
	return pairing.Input{
		Players: t.Players,
		Rounds:  t.Rounds,
		CanPlay: t.CanPlay,
	}
}

// Standings ranks the active players with the tournament's scoring system
func (t *Tournament) Standings() model.Standings {
	return t.Scoring.Standings(t.Players, t.Rounds)
}
