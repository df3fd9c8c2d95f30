package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mcoot/tourney/internal/model"
	"github.com/mcoot/tourney/internal/storage"
)

const (
	docExt    = ".json"
	backupExt = ".bak"
)

// Storage keeps one JSON log document per tournament in a directory.
// Each save writes a temp file, moves the current document to a .bak
// backup and renames the temp file into place.
type Storage struct {
	mu  sync.Mutex
	dir string
}

// New creates a file storage rooted at dir, creating it if needed
func New(dir string) (*Storage, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &Storage{dir: filepath.Clean(dir)}, nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) docPath(id model.TournamentID) string {
	return filepath.Join(s.dir, id.String()+docExt)
}

func (s *Storage) backupPath(id model.TournamentID) string {
	return s.docPath(id) + backupExt
}

func (s *Storage) SaveLog(ctx context.Context, doc *model.LogDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	path := s.docPath(doc.Seed.ID)
	if err := os.Rename(path, s.backupPath(doc.Seed.ID)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("rotate backup: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// GetLog reads the current document, falling back to the backup if a save
// was interrupted after rotation
func (s *Storage) GetLog(ctx context.Context, id model.TournamentID) (*model.LogDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.docPath(id))
	if errors.Is(err, fs.ErrNotExist) {
		data, err = os.ReadFile(s.backupPath(id))
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil, model.ErrTournamentNotFound
	}
	if err != nil {
		return nil, err
	}

	var doc model.LogDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode log %s: %w", id, err)
	}
	return &doc, nil
}

// DeleteLog removes the document and its backup
func (s *Storage) DeleteLog(ctx context.Context, id model.TournamentID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, path := range []string{s.docPath(id), s.backupPath(id)} {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

func (s *Storage) ListLogs(ctx context.Context) ([]model.TournamentID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	seen := make(map[model.TournamentID]bool)
	var ids []model.TournamentID
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), backupExt)
		base, ok := strings.CutSuffix(name, docExt)
		if !ok {
			continue
		}
		id, err := model.ParseTournamentID(base)
		if err != nil || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return storage.SortIDs(ids), nil
}
