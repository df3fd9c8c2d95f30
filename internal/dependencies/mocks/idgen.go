package mocks

import (
	"sync"

	"github.com/mcoot/tourney/internal/dependencies/idgen"
	"github.com/mcoot/tourney/internal/model"
)

// MockIDGen returns queued IDs, falling back to fresh random IDs once
// the queues are empty
type MockIDGen struct {
	mu          sync.Mutex
	tournaments []model.TournamentID
	ops         []model.OpID
}

var _ idgen.Generator = (*MockIDGen)(nil)

// NewMockIDGen creates an empty MockIDGen
func NewMockIDGen() *MockIDGen {
	return &MockIDGen{}
}

func (g *MockIDGen) TournamentID() model.TournamentID {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.tournaments) == 0 {
		return model.NewTournamentID()
	}
	id := g.tournaments[0]
	g.tournaments = g.tournaments[1:]
	return id
}

func (g *MockIDGen) OpID() model.OpID {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.ops) == 0 {
		return model.NewOpID()
	}
	id := g.ops[0]
	g.ops = g.ops[1:]
	return id
}

// QueueTournamentID adds values to the tournament ID queue
func (g *MockIDGen) QueueTournamentID(ids ...model.TournamentID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tournaments = append(g.tournaments, ids...)
}

// QueueOpID adds values to the operation ID queue
func (g *MockIDGen) QueueOpID(ids ...model.OpID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ops = append(g.ops, ids...)
}
