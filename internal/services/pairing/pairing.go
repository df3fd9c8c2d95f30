package pairing

import (
	"fmt"
	"slices"

	"github.com/mcoot/tourney/internal/model"
)

// DefaultMatchSize is the number of players in a paired round
const DefaultMatchSize = 2

// Pairings is the result of a pairing pass
type Pairings struct {
	// Paired holds one group of players per new round
	Paired [][]model.PlayerID
	// Rejected holds eligible players who could not be placed in a group
	Rejected []model.PlayerID
}

// Input is the tournament state a pairing pass reads
type Input struct {
	Players *model.PlayerRegistry
	Rounds  *model.RoundRegistry
	// CanPlay reports whether a player may be paired at all
	CanPlay func(model.PlayerID) bool
}

// eligible reports whether the player can play and is not already in a round
func (in Input) eligible(id model.PlayerID) bool {
	if in.CanPlay != nil && !in.CanPlay(id) {
		return false
	}
	_, err := in.Rounds.ActiveRound(id)
	return err != nil
}

// System decides which players meet in new rounds
type System interface {
	Kind() model.PairingKind
	MatchSize() int
	// ReadyPlayer marks a player as waiting to be paired
	ReadyPlayer(id model.PlayerID)
	// UnreadyPlayer withdraws a player. Unknown players are ignored.
	UnreadyPlayer(id model.PlayerID)
	// Ready returns waiting players in the order they readied
	Ready() []model.PlayerID
	// ReadyToPair reports whether a pairing should happen without being asked
	ReadyToPair(in Input) bool
	// Pair proposes new rounds. It returns nil when there is nothing to pair.
	Pair(in Input) *Pairings
	UpdateSetting(setting model.PairingSetting) error
	// RollbackPairings puts the players of undone groups back in the waiting set
	RollbackPairings(groups [][]model.PlayerID)
	State() State
	Clone() System
}

// State is the serialisable form of a pairing system
type State struct {
	Kind  model.PairingKind    `json:"kind"`
	Swiss *model.SwissSettings `json:"swiss,omitempty"`
	Fluid *model.FluidSettings `json:"fluid,omitempty"`
	Ready []model.PlayerID     `json:"ready"`
}

// New creates a pairing system of the given kind with default settings
func New(kind model.PairingKind) (System, error) {
	switch kind {
	case model.PairingSwiss:
		return NewSwiss(model.SwissSettings{MatchSize: DefaultMatchSize}), nil
	case model.PairingFluid:
		return NewFluid(model.FluidSettings{MatchSize: DefaultMatchSize}), nil
	default:
		return nil, fmt.Errorf("%w: unknown pairing system %q", model.ErrInvalidSetting, kind)
	}
}

// Restore rebuilds a pairing system from its state
func Restore(st State) (System, error) {
	switch st.Kind {
	case model.PairingSwiss:
		settings := model.SwissSettings{MatchSize: DefaultMatchSize}
		if st.Swiss != nil {
			settings = *st.Swiss
		}
		s := NewSwiss(settings)
		s.ready = slices.Clone(st.Ready)
		return s, nil
	case model.PairingFluid:
		settings := model.FluidSettings{MatchSize: DefaultMatchSize}
		if st.Fluid != nil {
			settings = *st.Fluid
		}
		f := NewFluid(settings)
		f.queue = slices.Clone(st.Ready)
		return f, nil
	default:
		return nil, fmt.Errorf("%w: unknown pairing system %q", model.ErrInvalidSetting, st.Kind)
	}
}

// matchWins counts each player's certified round wins
func matchWins(rounds *model.RoundRegistry) map[model.PlayerID]int {
	wins := make(map[model.PlayerID]int)
	for _, r := range rounds.All() {
		if r.IsCertified() && r.Winner != nil {
			wins[*r.Winner]++
		}
	}
	return wins
}

// meetCount returns how many times candidate has met members of group
func meetCount(meetings map[[2]model.PlayerID]int, candidate model.PlayerID, group []model.PlayerID) int {
	n := 0
	for _, g := range group {
		n += meetings[model.PairKey(candidate, g)]
	}
	return n
}

func addUnique(list []model.PlayerID, id model.PlayerID) []model.PlayerID {
	if slices.Contains(list, id) {
		return list
	}
	return append(list, id)
}

func remove(list []model.PlayerID, id model.PlayerID) []model.PlayerID {
	return slices.DeleteFunc(list, func(p model.PlayerID) bool { return p == id })
}
