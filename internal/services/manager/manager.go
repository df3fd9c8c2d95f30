package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/mcoot/tourney/internal/dependencies/clock"
	"github.com/mcoot/tourney/internal/dependencies/idgen"
	"github.com/mcoot/tourney/internal/model"
	"github.com/mcoot/tourney/internal/services/oplog"
	"github.com/mcoot/tourney/internal/services/tournament"
	"github.com/mcoot/tourney/internal/storage"
)

// Errors returned by the manager
var (
	ErrAlreadyLoaded = errors.New("tournament is already loaded")
	ErrPersistence   = errors.New("failed to persist tournament log")
)

const (
	standingsExpiration = 10 * time.Minute
	standingsCleanup    = 15 * time.Minute
)

// Observer is told about committed changes to tournament logs. Calls are
// made while the tournament is locked, so implementations must not block
// or call back into the manager.
type Observer interface {
	// OpCommitted reports an operation appended to the end of a log
	OpCommitted(id model.TournamentID, op model.Operation)
	// LogRewritten reports a rollback or sync that replaced the log's
	// contents. length is the new number of operations.
	LogRewritten(id model.TournamentID, length int)
	TournamentRemoved(id model.TournamentID)
}

// Manager owns the set of loaded tournaments. Each tournament has its own
// lock, so operations on different tournaments never wait on each other.
// Every committed change is written through to storage.
type Manager struct {
	mu      sync.RWMutex
	entries map[model.TournamentID]*entry

	storage storage.Storage
	clock   clock.Clock
	ids     idgen.Generator
	logger  *slog.Logger

	standings  *gocache.Cache
	generation atomic.Uint64

	obsMu     sync.RWMutex
	observers []Observer
}

type entry struct {
	mu      sync.RWMutex
	log     *oplog.Log
	gen     uint64
	deleted bool
}

// New creates a Manager with no tournaments loaded
func New(storage storage.Storage, clock clock.Clock, ids idgen.Generator, logger *slog.Logger) *Manager {
	return &Manager{
		entries:   make(map[model.TournamentID]*entry),
		storage:   storage,
		clock:     clock,
		ids:       ids,
		logger:    logger,
		standings: gocache.New(standingsExpiration, standingsCleanup),
	}
}

// Observe registers an observer for every tournament
func (m *Manager) Observe(o Observer) {
	m.obsMu.Lock()
	defer m.obsMu.Unlock()
	m.observers = append(m.observers, o)
}

func (m *Manager) notify(fn func(o Observer)) {
	m.obsMu.RLock()
	defer m.obsMu.RUnlock()
	for _, o := range m.observers {
		fn(o)
	}
}

// Create starts a new, planned tournament
func (m *Manager) Create(ctx context.Context, name string, preset model.TournamentPreset, format string) (*tournament.Tournament, error) {
	seed := model.TournamentSeed{
		ID:     m.ids.TournamentID(),
		Name:   name,
		Preset: preset,
		Format: format,
	}
	log, err := oplog.New(seed, m.logger)
	if err != nil {
		return nil, err
	}

	e, err := m.insert(log)
	if err != nil {
		return nil, err
	}

	m.logger.Info("tournament created",
		slog.String("tournament_id", seed.ID.String()),
		slog.String("preset", string(preset)),
	)

	e.mu.Lock()
	defer e.mu.Unlock()
	return log.State(), m.persist(ctx, e)
}

// Load activates a tournament from a log document. The whole log must
// replay cleanly.
func (m *Manager) Load(ctx context.Context, doc model.LogDocument) (*tournament.Tournament, error) {
	log, err := oplog.FromDocument(doc, m.logger)
	if err != nil {
		return nil, err
	}
	e, err := m.insert(log)
	if err != nil {
		return nil, err
	}

	m.logger.Info("tournament loaded",
		slog.String("tournament_id", doc.Seed.ID.String()),
		slog.Int("ops", log.Len()),
	)

	e.mu.Lock()
	defer e.mu.Unlock()
	return log.State(), m.persist(ctx, e)
}

// Restore loads every stored tournament that is not already active. A log
// that fails to load is logged and skipped. Returns how many were loaded.
func (m *Manager) Restore(ctx context.Context) (int, error) {
	ids, err := m.storage.ListLogs(ctx)
	if err != nil {
		return 0, err
	}

	loaded := 0
	for _, id := range ids {
		doc, err := m.storage.GetLog(ctx, id)
		if err != nil {
			return loaded, err
		}
		log, err := oplog.FromDocument(*doc, m.logger)
		if err == nil {
			_, err = m.insert(log)
		}
		if err != nil {
			m.logger.Error("failed to restore tournament",
				slog.String("tournament_id", id.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		loaded++
	}

	m.logger.Info("tournaments restored", slog.Int("count", loaded))
	return loaded, nil
}

func (m *Manager) insert(log *oplog.Log) (*entry, error) {
	id := log.Seed().ID

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[id]; ok {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyLoaded, id)
	}
	e := &entry{log: log, gen: m.generation.Add(1)}
	m.entries[id] = e
	return e, nil
}

func (m *Manager) lookup(id model.TournamentID) (*entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrTournamentNotFound, id)
	}
	return e, nil
}

// read runs fn under the tournament's read lock
func (m *Manager) read(id model.TournamentID, fn func(e *entry) error) error {
	e, err := m.lookup(id)
	if err != nil {
		return err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.deleted {
		return fmt.Errorf("%w: %s", model.ErrTournamentNotFound, id)
	}
	return fn(e)
}

// write runs fn under the tournament's write lock
func (m *Manager) write(id model.TournamentID, fn func(e *entry) error) error {
	e, err := m.lookup(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleted {
		return fmt.Errorf("%w: %s", model.ErrTournamentNotFound, id)
	}
	return fn(e)
}

// persist saves the entry's log and marks it changed. The caller holds the
// entry's write lock. A storage failure leaves the in-memory log as is.
func (m *Manager) persist(ctx context.Context, e *entry) error {
	e.gen = m.generation.Add(1)

	doc := e.log.Document()
	if err := m.storage.SaveLog(ctx, &doc); err != nil {
		m.logger.Error("failed to save tournament log",
			slog.String("tournament_id", doc.Seed.ID.String()),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

// Get returns a snapshot of a tournament's current state
func (m *Manager) Get(id model.TournamentID) (*tournament.Tournament, error) {
	var state *tournament.Tournament
	err := m.read(id, func(e *entry) error {
		state = e.log.State()
		return nil
	})
	return state, err
}

// List returns snapshots of every loaded tournament, ordered by ID
func (m *Manager) List() []*tournament.Tournament {
	m.mu.RLock()
	ids := make([]model.TournamentID, 0, len(m.entries))
	for id := range m.entries {
		ids = append(ids, id)
	}
	m.mu.RUnlock()
	slices.SortFunc(ids, model.TournamentID.Compare)

	states := make([]*tournament.Tournament, 0, len(ids))
	for _, id := range ids {
		// Skip tournaments deleted since the IDs were collected
		if state, err := m.Get(id); err == nil {
			states = append(states, state)
		}
	}
	return states
}

// Delete unloads a tournament and removes it from storage
func (m *Manager) Delete(ctx context.Context, id model.TournamentID) error {
	err := m.write(id, func(e *entry) error {
		e.deleted = true
		return nil
	})
	if err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()

	m.logger.Info("tournament deleted", slog.String("tournament_id", id.String()))
	m.notify(func(o Observer) { o.TournamentRemoved(id) })

	if err := m.storage.DeleteLog(ctx, id); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

// Submit stamps an action with a fresh operation ID and the current time
// and appends it
func (m *Manager) Submit(ctx context.Context, id model.TournamentID, action model.Action) (model.Operation, model.OpOutcome, error) {
	return m.Append(ctx, id, model.Operation{Action: action})
}

// Append appends a caller-built operation. A nil ID or zero timestamp is
// filled in. Returns the operation as committed, with its sequence number.
// If only persistence fails, the committed operation and outcome are
// returned along with an ErrPersistence error.
func (m *Manager) Append(ctx context.Context, id model.TournamentID, op model.Operation) (model.Operation, model.OpOutcome, error) {
	if op.ID.IsNil() {
		op.ID = m.ids.OpID()
	}
	if op.Timestamp.IsZero() {
		op.Timestamp = m.clock.Now()
	}

	var committed model.Operation
	var out model.OpOutcome
	err := m.write(id, func(e *entry) error {
		var err error
		out, err = e.log.Append(op)
		if err != nil {
			return err
		}
		n := uint64(e.log.Len())
		for last := range e.log.Slice(n, n+1) {
			committed = last
		}
		err = m.persist(ctx, e)
		m.notify(func(o Observer) { o.OpCommitted(id, committed) })
		return err
	})
	if err != nil && !errors.Is(err, ErrPersistence) {
		return model.Operation{}, model.OpOutcome{}, err
	}
	return committed, out, err
}

// Slice returns the operations with sequence numbers in [from, to)
func (m *Manager) Slice(id model.TournamentID, from, to uint64) ([]model.Operation, error) {
	var ops []model.Operation
	err := m.read(id, func(e *entry) error {
		ops = slices.Collect(e.log.Slice(from, to))
		return nil
	})
	return ops, err
}

// Document returns the full log of a tournament
func (m *Manager) Document(id model.TournamentID) (model.LogDocument, error) {
	var doc model.LogDocument
	err := m.read(id, func(e *entry) error {
		doc = e.log.Document()
		return nil
	})
	return doc, err
}

// Rollback discards every operation after seq `to`
func (m *Manager) Rollback(ctx context.Context, id model.TournamentID, to uint64) (*tournament.Tournament, error) {
	var state *tournament.Tournament
	err := m.write(id, func(e *entry) error {
		before := e.log.Len()
		var err error
		state, err = e.log.Rollback(to)
		if err != nil {
			return err
		}
		if e.log.Len() == before {
			return nil
		}
		err = m.persist(ctx, e)
		m.notify(func(o Observer) { o.LogRewritten(id, e.log.Len()) })
		return err
	})
	if err != nil && !errors.Is(err, ErrPersistence) {
		return nil, err
	}
	return state, err
}

// Sync reconciles a tournament with a remote copy of its log
func (m *Manager) Sync(ctx context.Context, id model.TournamentID, remote model.LogDocument) (oplog.SyncReport, error) {
	var report oplog.SyncReport
	err := m.write(id, func(e *entry) error {
		var err error
		report, err = e.log.Sync(remote)
		if err != nil {
			return err
		}
		if !report.Changed() {
			return nil
		}
		err = m.persist(ctx, e)
		m.notify(func(o Observer) { o.LogRewritten(id, e.log.Len()) })
		return err
	})
	if err != nil && !errors.Is(err, ErrPersistence) {
		return oplog.SyncReport{}, err
	}
	return report, err
}

// Standings returns the current standings. Results are cached until the
// tournament next changes.
func (m *Manager) Standings(id model.TournamentID) (model.Standings, error) {
	var standings model.Standings
	err := m.read(id, func(e *entry) error {
		key := fmt.Sprintf("%s:%d", id, e.gen)
		if cached, ok := m.standings.Get(key); ok {
			standings = cached.(model.Standings)
			return nil
		}
		standings = e.log.State().Standings()
		m.standings.SetDefault(key, standings)
		return nil
	})
	if err != nil {
		return model.Standings{}, err
	}
	return model.Standings{Entries: slices.Clone(standings.Entries)}, nil
}
