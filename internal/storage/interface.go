package storage

import (
	"context"

	"github.com/mcoot/tourney/internal/model"
)

// Storage persists tournament operation logs. Each tournament is stored as
// one LogDocument; saving replaces the previous document.
type Storage interface {
	SaveLog(ctx context.Context, doc *model.LogDocument) error
	// GetLog returns model.ErrTournamentNotFound for unknown tournaments
	GetLog(ctx context.Context, id model.TournamentID) (*model.LogDocument, error)
	// DeleteLog is a no-op for unknown tournaments
	DeleteLog(ctx context.Context, id model.TournamentID) error
	ListLogs(ctx context.Context) ([]model.TournamentID, error)
}
