package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/mcoot/tourney/internal/model"
	"github.com/mcoot/tourney/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Documents are held in encoded form so callers never share memory with
// the stored copy.
type Storage struct {
	mu   sync.RWMutex
	logs map[model.TournamentID][]byte
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		logs: make(map[model.TournamentID][]byte),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveLog(ctx context.Context, doc *model.LogDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs[doc.Seed.ID] = data
	return nil
}

func (s *Storage) GetLog(ctx context.Context, id model.TournamentID) (*model.LogDocument, error) {
	s.mu.RLock()
	data, ok := s.logs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, model.ErrTournamentNotFound
	}

	var doc model.LogDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *Storage) DeleteLog(ctx context.Context, id model.TournamentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.logs, id)
	return nil
}

func (s *Storage) ListLogs(ctx context.Context) ([]model.TournamentID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]model.TournamentID, 0, len(s.logs))
	for id := range s.logs {
		ids = append(ids, id)
	}
	return storage.SortIDs(ids), nil
}
