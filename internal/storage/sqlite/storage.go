package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mcoot/tourney/internal/model"
	"github.com/mcoot/tourney/internal/storage"
)

const timeFormat = time.RFC3339Nano

const schema = `
CREATE TABLE IF NOT EXISTS tournaments (
	id         TEXT PRIMARY KEY,
	version    INTEGER NOT NULL,
	name       TEXT NOT NULL,
	preset     TEXT NOT NULL,
	format     TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS operations (
	tournament_id TEXT NOT NULL REFERENCES tournaments(id) ON DELETE CASCADE,
	seq           INTEGER NOT NULL,
	op_id         TEXT NOT NULL,
	kind          TEXT NOT NULL,
	timestamp     TEXT NOT NULL,
	body          TEXT NOT NULL,
	PRIMARY KEY (tournament_id, seq)
);
`

// Storage is a SQLite-backed implementation of the storage interface.
// A log is stored as one tournaments row and one operations row per op.
type Storage struct {
	db *sql.DB
}

// Open opens a SQLite store at the provided path, creating the schema if
// needed
func Open(path string) (*Storage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// A single connection keeps pragmas and transactions on one handle
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close closes the underlying database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// SaveLog replaces the tournament row and all of its operations in one
// transaction
func (s *Storage) SaveLog(ctx context.Context, doc *model.LogDocument) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	id := doc.Seed.ID.String()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO tournaments (id, version, name, preset, format, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			version = excluded.version,
			name = excluded.name,
			preset = excluded.preset,
			format = excluded.format,
			updated_at = excluded.updated_at`,
		id, doc.Version, doc.Seed.Name, string(doc.Seed.Preset), doc.Seed.Format,
		time.Now().UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("save tournament: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM operations WHERE tournament_id = ?`, id); err != nil {
		return fmt.Errorf("clear operations: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO operations (tournament_id, seq, op_id, kind, timestamp, body)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, op := range doc.Ops {
		body, err := json.Marshal(op)
		if err != nil {
			return err
		}
		_, err = stmt.ExecContext(ctx, id, op.Seq, op.ID.String(), string(op.Action.Kind()),
			op.Timestamp.Format(timeFormat), string(body))
		if err != nil {
			return fmt.Errorf("save operation %d: %w", op.Seq, err)
		}
	}

	return tx.Commit()
}

func (s *Storage) GetLog(ctx context.Context, id model.TournamentID) (*model.LogDocument, error) {
	doc := &model.LogDocument{Seed: model.TournamentSeed{ID: id}}
	var preset string
	err := s.db.QueryRowContext(ctx,
		`SELECT version, name, preset, format FROM tournaments WHERE id = ?`, id.String(),
	).Scan(&doc.Version, &doc.Seed.Name, &preset, &doc.Seed.Format)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrTournamentNotFound
	}
	if err != nil {
		return nil, err
	}
	doc.Seed.Preset = model.TournamentPreset(preset)

	rows, err := s.db.QueryContext(ctx,
		`SELECT body FROM operations WHERE tournament_id = ? ORDER BY seq`, id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		var op model.Operation
		if err := json.Unmarshal([]byte(body), &op); err != nil {
			return nil, fmt.Errorf("decode operation of %s: %w", id, err)
		}
		doc.Ops = append(doc.Ops, op)
	}
	return doc, rows.Err()
}

func (s *Storage) DeleteLog(ctx context.Context, id model.TournamentID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM tournaments WHERE id = ?`, id.String())
	return err
}

func (s *Storage) ListLogs(ctx context.Context) ([]model.TournamentID, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM tournaments`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []model.TournamentID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		id, err := model.ParseTournamentID(raw)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return storage.SortIDs(ids), nil
}
