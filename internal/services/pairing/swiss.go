package pairing

import (
	"slices"

	"github.com/mcoot/tourney/internal/model"
)

// searchBudget bounds the repeat-free search before falling back to greedy
const searchBudget = 20000

// Swiss pairs all eligible players at once, grouping players with similar
// records and avoiding repeat opponents where possible.
type Swiss struct {
	settings model.SwissSettings
	ready    []model.PlayerID
}

var _ System = (*Swiss)(nil)

// NewSwiss creates a Swiss pairing system
func NewSwiss(settings model.SwissSettings) *Swiss {
	if settings.MatchSize == 0 {
		settings.MatchSize = DefaultMatchSize
	}
	return &Swiss{settings: settings}
}

func (s *Swiss) Kind() model.PairingKind { return model.PairingSwiss }

func (s *Swiss) MatchSize() int { return int(s.settings.MatchSize) }

// Settings returns the current settings
func (s *Swiss) Settings() model.SwissSettings { return s.settings }

func (s *Swiss) ReadyPlayer(id model.PlayerID) {
	s.ready = addUnique(s.ready, id)
}

func (s *Swiss) UnreadyPlayer(id model.PlayerID) {
	s.ready = remove(s.ready, id)
}

func (s *Swiss) Ready() []model.PlayerID {
	return slices.Clone(s.ready)
}

// ReadyToPair is always false: Swiss rounds are paired on request
func (s *Swiss) ReadyToPair(Input) bool {
	return false
}

func (s *Swiss) Pair(in Input) *Pairings {
	var candidates []model.PlayerID
	for _, p := range in.Players.All() {
		if !in.eligible(p.ID) {
			continue
		}
		if s.settings.DoCheckIns && !slices.Contains(s.ready, p.ID) {
			continue
		}
		candidates = append(candidates, p.ID)
	}
	if len(candidates) == 0 {
		return nil
	}

	wins := matchWins(in.Rounds)
	slices.SortStableFunc(candidates, func(a, b model.PlayerID) int {
		return wins[b] - wins[a]
	})

	size := s.MatchSize()
	ranked, rejected := s.splitRemainder(candidates, size, in.Rounds)

	meetings := in.Rounds.Meetings()
	groups := searchGroups(ranked, size, meetings)
	if groups == nil {
		groups = greedyGroups(ranked, size, meetings)
	}

	s.ready = nil
	return &Pairings{Paired: groups, Rejected: rejected}
}

// splitRemainder removes the players who cannot fill a group. They are taken
// from the bottom of the ranking, preferring players who have not had a bye.
func (s *Swiss) splitRemainder(ranked []model.PlayerID, size int, rounds *model.RoundRegistry) ([]model.PlayerID, []model.PlayerID) {
	extra := len(ranked) % size
	if extra == 0 {
		return ranked, nil
	}

	var rejected []model.PlayerID
	for i := len(ranked) - 1; i >= 0 && len(rejected) < extra; i-- {
		if !rounds.HadBye(ranked[i]) {
			rejected = append(rejected, ranked[i])
		}
	}
	for i := len(ranked) - 1; i >= 0 && len(rejected) < extra; i-- {
		if !slices.Contains(rejected, ranked[i]) {
			rejected = append(rejected, ranked[i])
		}
	}

	kept := slices.DeleteFunc(slices.Clone(ranked), func(id model.PlayerID) bool {
		return slices.Contains(rejected, id)
	})
	return kept, rejected
}

type groupSearch struct {
	order    []model.PlayerID
	size     int
	meetings map[[2]model.PlayerID]int
	used     []bool
	groups   [][]model.PlayerID
	budget   int
}

// searchGroups finds groups with no repeated opponents, or nil if none
// can be found within the search budget.
func searchGroups(order []model.PlayerID, size int, meetings map[[2]model.PlayerID]int) [][]model.PlayerID {
	gs := &groupSearch{
		order:    order,
		size:     size,
		meetings: meetings,
		used:     make([]bool, len(order)),
		budget:   searchBudget,
	}
	if !gs.next() {
		return nil
	}
	if gs.groups == nil {
		return [][]model.PlayerID{}
	}
	return gs.groups
}

// next starts a group with the highest ranked unused player
func (gs *groupSearch) next() bool {
	first := slices.Index(gs.used, false)
	if first < 0 {
		return true
	}
	gs.used[first] = true
	if gs.fill([]model.PlayerID{gs.order[first]}, first+1) {
		return true
	}
	gs.used[first] = false
	return false
}

func (gs *groupSearch) fill(group []model.PlayerID, start int) bool {
	gs.budget--
	if gs.budget < 0 {
		return false
	}
	if len(group) == gs.size {
		gs.groups = append(gs.groups, slices.Clone(group))
		if gs.next() {
			return true
		}
		gs.groups = gs.groups[:len(gs.groups)-1]
		return false
	}
	for j := start; j < len(gs.order); j++ {
		if gs.used[j] || meetCount(gs.meetings, gs.order[j], group) > 0 {
			continue
		}
		gs.used[j] = true
		if gs.fill(append(group, gs.order[j]), j+1) {
			return true
		}
		gs.used[j] = false
		if gs.budget < 0 {
			return false
		}
	}
	return false
}

// greedyGroups builds groups in ranking order, picking for each seat the
// candidate with the fewest prior meetings with the group so far.
func greedyGroups(order []model.PlayerID, size int, meetings map[[2]model.PlayerID]int) [][]model.PlayerID {
	remaining := slices.Clone(order)
	groups := [][]model.PlayerID{}
	for len(remaining) >= size {
		group := []model.PlayerID{remaining[0]}
		remaining = remaining[1:]
		for len(group) < size {
			best, bestCost := 0, -1
			for j, c := range remaining {
				cost := meetCount(meetings, c, group)
				if bestCost < 0 || cost < bestCost {
					best, bestCost = j, cost
				}
			}
			group = append(group, remaining[best])
			remaining = slices.Delete(remaining, best, best+1)
		}
		groups = append(groups, group)
	}
	return groups
}

func (s *Swiss) UpdateSetting(setting model.PairingSetting) error {
	if setting.Kind != model.PairingSwiss {
		return model.ErrIncompatiblePairingSystem
	}
	if setting.MatchSize != nil {
		if *setting.MatchSize == 0 {
			return model.ErrInvalidSetting
		}
		s.settings.MatchSize = *setting.MatchSize
	}
	if setting.DoCheckIns != nil {
		s.settings.DoCheckIns = *setting.DoCheckIns
	}
	return nil
}

func (s *Swiss) RollbackPairings(groups [][]model.PlayerID) {
	for _, g := range groups {
		for _, id := range g {
			s.ready = addUnique(s.ready, id)
		}
	}
}

func (s *Swiss) State() State {
	settings := s.settings
	return State{Kind: model.PairingSwiss, Swiss: &settings, Ready: slices.Clone(s.ready)}
}

func (s *Swiss) Clone() System {
	return &Swiss{settings: s.settings, ready: slices.Clone(s.ready)}
}
