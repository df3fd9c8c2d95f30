package scoring

import (
	"fmt"

	"github.com/mcoot/tourney/internal/model"
)

// System turns certified round results into ranked standings
type System interface {
	Kind() model.ScoringKind
	// Standings ranks the active players. It does not modify its inputs.
	Standings(players *model.PlayerRegistry, rounds *model.RoundRegistry) model.Standings
	UpdateSetting(setting model.ScoringSetting) error
	State() State
	Clone() System
}

// State is the serialisable form of a scoring system
type State struct {
	Kind     model.ScoringKind              `json:"kind"`
	Standard *model.StandardScoringSettings `json:"standard,omitempty"`
}

// New creates a scoring system of the given kind with default settings
func New(kind model.ScoringKind) (System, error) {
	switch kind {
	case model.ScoringStandard:
		return NewStandard(model.DefaultStandardScoringSettings()), nil
	default:
		return nil, fmt.Errorf("%w: unknown scoring system %q", model.ErrInvalidSetting, kind)
	}
}

// Restore rebuilds a scoring system from its state
func Restore(st State) (System, error) {
	switch st.Kind {
	case model.ScoringStandard:
		settings := model.DefaultStandardScoringSettings()
		if st.Standard != nil {
			settings = *st.Standard
		}
		return NewStandard(settings), nil
	default:
		return nil, fmt.Errorf("%w: unknown scoring system %q", model.ErrInvalidSetting, st.Kind)
	}
}
