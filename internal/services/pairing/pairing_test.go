package pairing

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tourney/internal/model"
)

var start = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	players *model.PlayerRegistry
	rounds  *model.RoundRegistry
	ids     []model.PlayerID
}

func newFixture(n int) *fixture {
	f := &fixture{
		players: model.NewPlayerRegistry(),
		rounds:  model.NewRoundRegistry(1, model.DefaultRoundLength),
	}
	for i := range n {
		id := model.NewID[model.Player]()
		if _, err := f.players.Add(id, fmt.Sprintf("player-%d", i)); err != nil {
			panic(err)
		}
		f.ids = append(f.ids, id)
	}
	return f
}

func (f *fixture) input() Input {
	return Input{Players: f.players, Rounds: f.rounds}
}

// play creates certified rounds for the groups, the first player winning each
func (f *fixture) play(groups [][]model.PlayerID) {
	for _, g := range groups {
		r := f.rounds.Create(model.NewID[model.Round](), g, start)
		_ = r.RecordResult(model.WinsResult(g[0], 2))
		for _, pid := range g {
			_, _ = r.Confirm(pid)
		}
	}
}

type SwissSuite struct {
	suite.Suite
}

func TestSwissSuite(t *testing.T) {
	suite.Run(t, new(SwissSuite))
}

func (s *SwissSuite) TestPairsEveryoneOnEvenCount() {
	f := newFixture(4)
	sw := NewSwiss(model.SwissSettings{MatchSize: 2})

	p := sw.Pair(f.input())
	s.Require().NotNil(p)
	s.Len(p.Paired, 2)
	s.Empty(p.Rejected)
}

func (s *SwissSuite) TestOddPlayerIsRejected() {
	f := newFixture(5)
	sw := NewSwiss(model.SwissSettings{MatchSize: 2})

	p := sw.Pair(f.input())
	s.Require().NotNil(p)
	s.Len(p.Paired, 2)
	s.Equal([]model.PlayerID{f.ids[4]}, p.Rejected)
}

func (s *SwissSuite) TestRejectionPrefersPlayersWithoutBye() {
	f := newFixture(3)
	bye := f.rounds.Create(model.NewID[model.Round](), []model.PlayerID{f.ids[2]}, start)
	s.Require().NoError(bye.RecordBye())

	sw := NewSwiss(model.SwissSettings{MatchSize: 2})
	p := sw.Pair(f.input())
	s.Require().NotNil(p)
	s.Len(p.Rejected, 1)
	s.NotEqual(f.ids[2], p.Rejected[0])
}

func (s *SwissSuite) TestAvoidsRepeatOpponents() {
	f := newFixture(4)
	sw := NewSwiss(model.SwissSettings{MatchSize: 2})

	seen := make(map[[2]model.PlayerID]bool)
	for round := 0; round < 3; round++ {
		p := sw.Pair(f.input())
		s.Require().NotNil(p)
		s.Require().Len(p.Paired, 2)
		for _, g := range p.Paired {
			key := model.PairKey(g[0], g[1])
			s.False(seen[key], "round %d repeats a pairing", round+1)
			seen[key] = true
		}
		f.play(p.Paired)
	}
	s.Len(seen, 6)
}

func (s *SwissSuite) TestFallsBackWhenRepeatsAreUnavoidable() {
	f := newFixture(2)
	sw := NewSwiss(model.SwissSettings{MatchSize: 2})

	f.play([][]model.PlayerID{{f.ids[0], f.ids[1]}})
	p := sw.Pair(f.input())
	s.Require().NotNil(p)
	s.Len(p.Paired, 1)
}

func (s *SwissSuite) TestWinnersArePairedTogether() {
	f := newFixture(4)
	f.play([][]model.PlayerID{{f.ids[2], f.ids[0]}, {f.ids[3], f.ids[1]}})

	sw := NewSwiss(model.SwissSettings{MatchSize: 2})
	p := sw.Pair(f.input())
	s.Require().NotNil(p)
	s.ElementsMatch([]model.PlayerID{f.ids[2], f.ids[3]}, p.Paired[0])
}

func (s *SwissSuite) TestSkipsPlayersInActiveRounds() {
	f := newFixture(4)
	f.rounds.Create(model.NewID[model.Round](), []model.PlayerID{f.ids[0], f.ids[1]}, start)

	sw := NewSwiss(model.SwissSettings{MatchSize: 2})
	p := sw.Pair(f.input())
	s.Require().NotNil(p)
	s.Require().Len(p.Paired, 1)
	s.ElementsMatch([]model.PlayerID{f.ids[2], f.ids[3]}, p.Paired[0])
}

func (s *SwissSuite) TestCheckInsLimitToReadyPlayers() {
	f := newFixture(4)
	sw := NewSwiss(model.SwissSettings{MatchSize: 2, DoCheckIns: true})
	sw.ReadyPlayer(f.ids[1])
	sw.ReadyPlayer(f.ids[3])

	p := sw.Pair(f.input())
	s.Require().NotNil(p)
	s.Require().Len(p.Paired, 1)
	s.ElementsMatch([]model.PlayerID{f.ids[1], f.ids[3]}, p.Paired[0])
	s.Empty(sw.Ready())
}

func (s *SwissSuite) TestNeverReadyToPairAutomatically() {
	f := newFixture(4)
	sw := NewSwiss(model.SwissSettings{MatchSize: 2})
	for _, id := range f.ids {
		sw.ReadyPlayer(id)
	}
	s.False(sw.ReadyToPair(f.input()))
}

func (s *SwissSuite) TestUpdateSetting() {
	sw := NewSwiss(model.SwissSettings{MatchSize: 2})
	size := uint8(3)
	checkIns := true

	s.Require().NoError(sw.UpdateSetting(model.PairingSetting{Kind: model.PairingSwiss, MatchSize: &size, DoCheckIns: &checkIns}))
	s.Equal(3, sw.MatchSize())
	s.True(sw.Settings().DoCheckIns)

	s.ErrorIs(sw.UpdateSetting(model.PairingSetting{Kind: model.PairingFluid}), model.ErrIncompatiblePairingSystem)

	zero := uint8(0)
	s.ErrorIs(sw.UpdateSetting(model.PairingSetting{Kind: model.PairingSwiss, MatchSize: &zero}), model.ErrInvalidSetting)
}

func (s *SwissSuite) TestStateRoundTrip() {
	f := newFixture(2)
	sw := NewSwiss(model.SwissSettings{MatchSize: 2, DoCheckIns: true})
	sw.ReadyPlayer(f.ids[0])

	restored, err := Restore(sw.State())
	s.Require().NoError(err)
	s.Equal(model.PairingSwiss, restored.Kind())
	s.Equal(sw.Ready(), restored.Ready())
	s.Equal(sw.State(), restored.State())
}

type FluidSuite struct {
	suite.Suite
}

func TestFluidSuite(t *testing.T) {
	suite.Run(t, new(FluidSuite))
}

func (s *FluidSuite) TestReadyToPairNeedsFullGroup() {
	f := newFixture(3)
	fl := NewFluid(model.FluidSettings{MatchSize: 2})

	fl.ReadyPlayer(f.ids[0])
	s.False(fl.ReadyToPair(f.input()))
	s.Nil(fl.Pair(f.input()))

	fl.ReadyPlayer(f.ids[1])
	s.True(fl.ReadyToPair(f.input()))
}

func (s *FluidSuite) TestPairsInQueueOrder() {
	f := newFixture(3)
	fl := NewFluid(model.FluidSettings{MatchSize: 2})
	fl.ReadyPlayer(f.ids[2])
	fl.ReadyPlayer(f.ids[0])
	fl.ReadyPlayer(f.ids[1])

	p := fl.Pair(f.input())
	s.Require().NotNil(p)
	s.Equal([][]model.PlayerID{{f.ids[2], f.ids[0]}}, p.Paired)
	s.Equal([]model.PlayerID{f.ids[1]}, fl.Ready())
}

func (s *FluidSuite) TestPrefersNewOpponents() {
	f := newFixture(3)
	f.play([][]model.PlayerID{{f.ids[0], f.ids[1]}})

	fl := NewFluid(model.FluidSettings{MatchSize: 2})
	fl.ReadyPlayer(f.ids[0])
	fl.ReadyPlayer(f.ids[1])
	fl.ReadyPlayer(f.ids[2])

	p := fl.Pair(f.input())
	s.Require().NotNil(p)
	s.Equal([][]model.PlayerID{{f.ids[0], f.ids[2]}}, p.Paired)
	s.Equal([]model.PlayerID{f.ids[1]}, fl.Ready())
}

func (s *FluidSuite) TestRepeatsWhenNoOneElseIsWaiting() {
	f := newFixture(2)
	f.play([][]model.PlayerID{{f.ids[0], f.ids[1]}})

	fl := NewFluid(model.FluidSettings{MatchSize: 2})
	fl.ReadyPlayer(f.ids[0])
	fl.ReadyPlayer(f.ids[1])

	p := fl.Pair(f.input())
	s.Require().NotNil(p)
	s.Len(p.Paired, 1)
}

func (s *FluidSuite) TestUnreadyAndRollback() {
	f := newFixture(3)
	fl := NewFluid(model.FluidSettings{MatchSize: 2})
	fl.ReadyPlayer(f.ids[0])
	fl.ReadyPlayer(f.ids[1])
	fl.ReadyPlayer(f.ids[1])
	s.Len(fl.Ready(), 2)

	fl.UnreadyPlayer(f.ids[0])
	s.Equal([]model.PlayerID{f.ids[1]}, fl.Ready())

	fl.RollbackPairings([][]model.PlayerID{{f.ids[2], f.ids[0]}})
	s.Equal([]model.PlayerID{f.ids[2], f.ids[0], f.ids[1]}, fl.Ready())
}

func (s *FluidSuite) TestRejectsSwissOnlySettings() {
	fl := NewFluid(model.FluidSettings{MatchSize: 2})
	checkIns := true
	s.ErrorIs(fl.UpdateSetting(model.PairingSetting{Kind: model.PairingFluid, DoCheckIns: &checkIns}), model.ErrIncompatiblePairingSystem)
	s.ErrorIs(fl.UpdateSetting(model.PairingSetting{Kind: model.PairingSwiss}), model.ErrIncompatiblePairingSystem)
}

func (s *FluidSuite) TestCloneIsIndependent() {
	f := newFixture(2)
	fl := NewFluid(model.FluidSettings{MatchSize: 2})
	fl.ReadyPlayer(f.ids[0])

	c := fl.Clone()
	c.ReadyPlayer(f.ids[1])
	s.Len(fl.Ready(), 1)
	s.Len(c.Ready(), 2)
}
