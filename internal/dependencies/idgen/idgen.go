package idgen

import "github.com/mcoot/tourney/internal/model"

// Generator hands out identifiers for new tournaments and operations.
// Identifiers of entities created by an operation are derived from the
// operation ID and never come from here.
type Generator interface {
	TournamentID() model.TournamentID
	OpID() model.OpID
}

// UUIDGenerator issues random version 4 UUIDs
type UUIDGenerator struct{}

// New creates a new UUIDGenerator
func New() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) TournamentID() model.TournamentID {
	return model.NewTournamentID()
}

func (g *UUIDGenerator) OpID() model.OpID {
	return model.NewOpID()
}
