package pairing

import (
	"slices"

	"github.com/mcoot/tourney/internal/model"
)

// Fluid pairs players from a first-come first-served queue as soon as
// enough of them are waiting.
type Fluid struct {
	settings model.FluidSettings
	queue    []model.PlayerID
}

var _ System = (*Fluid)(nil)

// NewFluid creates a Fluid pairing system
func NewFluid(settings model.FluidSettings) *Fluid {
	if settings.MatchSize == 0 {
		settings.MatchSize = DefaultMatchSize
	}
	return &Fluid{settings: settings}
}

func (f *Fluid) Kind() model.PairingKind { return model.PairingFluid }

func (f *Fluid) MatchSize() int { return int(f.settings.MatchSize) }

// Settings returns the current settings
func (f *Fluid) Settings() model.FluidSettings { return f.settings }

func (f *Fluid) ReadyPlayer(id model.PlayerID) {
	f.queue = addUnique(f.queue, id)
}

func (f *Fluid) UnreadyPlayer(id model.PlayerID) {
	f.queue = remove(f.queue, id)
}

func (f *Fluid) Ready() []model.PlayerID {
	return slices.Clone(f.queue)
}

// ReadyToPair reports whether at least one full group is waiting
func (f *Fluid) ReadyToPair(in Input) bool {
	n := 0
	for _, id := range f.queue {
		if in.eligible(id) {
			n++
		}
	}
	return n >= f.MatchSize()
}

// Pair forms groups from the front of the queue. Each group starts with the
// longest waiting player and is filled with the earliest queued players who
// have not met anyone in the group, then with the earliest queued players.
// Unpaired players keep their place in the queue.
func (f *Fluid) Pair(in Input) *Pairings {
	var waiting []model.PlayerID
	for _, id := range f.queue {
		if in.eligible(id) {
			waiting = append(waiting, id)
		}
	}
	size := f.MatchSize()
	if len(waiting) < size {
		return nil
	}

	meetings := in.Rounds.Meetings()
	used := make(map[model.PlayerID]bool)
	var groups [][]model.PlayerID
	for i, first := range waiting {
		if used[first] || len(waiting)-len(used) < size {
			continue
		}
		group := []model.PlayerID{first}
		for _, c := range waiting[i+1:] {
			if len(group) == size {
				break
			}
			if !used[c] && meetCount(meetings, c, group) == 0 {
				group = append(group, c)
			}
		}
		for _, c := range waiting[i+1:] {
			if len(group) == size {
				break
			}
			if !used[c] && !slices.Contains(group, c) {
				group = append(group, c)
			}
		}
		if len(group) < size {
			break
		}
		for _, id := range group {
			used[id] = true
		}
		groups = append(groups, group)
	}
	if len(groups) == 0 {
		return nil
	}

	f.queue = slices.DeleteFunc(f.queue, func(id model.PlayerID) bool { return used[id] })
	return &Pairings{Paired: groups}
}

func (f *Fluid) UpdateSetting(setting model.PairingSetting) error {
	if setting.Kind != model.PairingFluid || setting.DoCheckIns != nil {
		return model.ErrIncompatiblePairingSystem
	}
	if setting.MatchSize != nil {
		if *setting.MatchSize == 0 {
			return model.ErrInvalidSetting
		}
		f.settings.MatchSize = *setting.MatchSize
	}
	return nil
}

// RollbackPairings puts the players back at the front of the queue
func (f *Fluid) RollbackPairings(groups [][]model.PlayerID) {
	var front []model.PlayerID
	for _, g := range groups {
		for _, id := range g {
			front = addUnique(front, id)
		}
	}
	rest := slices.DeleteFunc(slices.Clone(f.queue), func(id model.PlayerID) bool {
		return slices.Contains(front, id)
	})
	f.queue = append(front, rest...)
}

func (f *Fluid) State() State {
	settings := f.settings
	return State{Kind: model.PairingFluid, Fluid: &settings, Ready: slices.Clone(f.queue)}
}

func (f *Fluid) Clone() System {
	return &Fluid{settings: f.settings, queue: slices.Clone(f.queue)}
}
