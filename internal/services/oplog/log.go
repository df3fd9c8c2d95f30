package oplog

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"time"

	"github.com/mcoot/tourney/internal/model"
	"github.com/mcoot/tourney/internal/services/tournament"
)

// Errors returned by the operation log
var (
	ErrDuplicateOp        = errors.New("operation is already in the log")
	ErrCorruptLog         = errors.New("operation log is corrupt")
	ErrTournamentMismatch = errors.New("logs belong to different tournaments")
	ErrDivergentPrefix    = errors.New("logs disagree on a shared operation")
)

// Log is a tournament's append-only operation log together with the state
// obtained by folding it. Log is not safe for concurrent use.
type Log struct {
	seed   model.TournamentSeed
	ops    []model.Operation
	index  map[model.OpID]int
	state  *tournament.Tournament
	logger *slog.Logger
}

// New creates an empty log for a new tournament
func New(seed model.TournamentSeed, logger *slog.Logger) (*Log, error) {
	state, err := tournament.New(seed)
	if err != nil {
		return nil, err
	}
	return &Log{
		seed:   seed,
		index:  make(map[model.OpID]int),
		state:  state,
		logger: logger.With(slog.String("tournament_id", seed.ID.String())),
	}, nil
}

// FromDocument rebuilds a log from its portable form. Every operation must
// replay cleanly.
func FromDocument(doc model.LogDocument, logger *slog.Logger) (*Log, error) {
	if err := checkDocument(doc); err != nil {
		return nil, err
	}
	l, err := New(doc.Seed, logger)
	if err != nil {
		return nil, err
	}
	ops := normalizeOps(doc.Ops)
	state, err := Replay(l.state, ops)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptLog, err)
	}
	l.commit(ops, state)
	return l, nil
}

// checkDocument validates the version and sequencing of a document
func checkDocument(doc model.LogDocument) error {
	if doc.Version > model.LogDocumentVersion {
		return fmt.Errorf("%w: unsupported document version %d", ErrCorruptLog, doc.Version)
	}
	seen := make(map[model.OpID]bool, len(doc.Ops))
	for i, op := range doc.Ops {
		if op.Seq != uint64(i+1) {
			return fmt.Errorf("%w: operation %d has seq %d", ErrCorruptLog, i+1, op.Seq)
		}
		if op.Action == nil {
			return fmt.Errorf("%w: operation %s has no action", ErrCorruptLog, op.ID)
		}
		if seen[op.ID] {
			return fmt.Errorf("%w: operation %s appears twice", ErrCorruptLog, op.ID)
		}
		seen[op.ID] = true
	}
	return nil
}

// Seed returns the tournament's creation record
func (l *Log) Seed() model.TournamentSeed {
	return l.seed
}

// Len returns the number of operations in the log
func (l *Log) Len() int {
	return len(l.ops)
}

// State returns a copy of the current tournament state
func (l *Log) State() *tournament.Tournament {
	return l.state.Clone()
}

// Contains reports whether an operation with the given ID is in the log
func (l *Log) Contains(id model.OpID) bool {
	_, ok := l.index[id]
	return ok
}

// Document returns the portable form of the log
func (l *Log) Document() model.LogDocument {
	return model.LogDocument{
		Version: model.LogDocumentVersion,
		Seed:    l.seed,
		Ops:     slices.Clone(l.ops),
	}
}

// Append folds the operation into the current state and, if that succeeds,
// adds it to the end of the log. A failed append changes nothing.
func (l *Log) Append(op model.Operation) (model.OpOutcome, error) {
	if op.Action == nil {
		return model.OpOutcome{}, fmt.Errorf("%w: operation has no action", model.ErrUnknownOperation)
	}
	if l.Contains(op.ID) {
		return model.OpOutcome{}, fmt.Errorf("%w: %s", ErrDuplicateOp, op.ID)
	}
	op.Timestamp = normalizeTimestamp(op.Timestamp)

	out, err := l.state.Apply(op)
	if err != nil {
		return model.OpOutcome{}, fmt.Errorf("%s: %w", op.Action.Kind(), err)
	}

	op.Seq = uint64(len(l.ops)) + 1
	l.index[op.ID] = len(l.ops)
	l.ops = append(l.ops, op)

	l.logger.Debug("operation appended",
		slog.String("op_id", op.ID.String()),
		slog.String("kind", string(op.Action.Kind())),
		slog.Uint64("seq", op.Seq),
	)
	return out, nil
}

// Slice yields the operations with sequence numbers in [from, to). Bounds
// outside the log are clamped. The range is captured when Slice is called,
// so later appends do not affect an existing iterator.
func (l *Log) Slice(from, to uint64) iter.Seq[model.Operation] {
	from = max(from, 1)
	to = min(to, uint64(len(l.ops))+1)

	var ops []model.Operation
	if from < to {
		ops = slices.Clone(l.ops[from-1 : to-1])
	}
	return func(yield func(model.Operation) bool) {
		for _, op := range ops {
			if !yield(op) {
				return
			}
		}
	}
}

// Rollback discards every operation after seq `to` and rebuilds the state
// from the remaining prefix. Rolling back to or past the end is a no-op.
func (l *Log) Rollback(to uint64) (*tournament.Tournament, error) {
	if to >= uint64(len(l.ops)) {
		return l.State(), nil
	}

	kept := slices.Clone(l.ops[:to])
	initial, err := tournament.New(l.seed)
	if err != nil {
		return nil, err
	}
	state, err := Replay(initial, kept)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptLog, err)
	}

	dropped := len(l.ops) - len(kept)
	l.commit(kept, state)

	l.logger.Info("log rolled back",
		slog.Uint64("seq", to),
		slog.Int("dropped", dropped),
	)
	return l.State(), nil
}

// normalizeTimestamp strips the zone and monotonic reading so equal
// instants encode identically
func normalizeTimestamp(ts time.Time) time.Time {
	return ts.UTC().Round(0)
}

// normalizeOps returns a copy of ops with normalized timestamps
func normalizeOps(ops []model.Operation) []model.Operation {
	out := slices.Clone(ops)
	for i := range out {
		out[i].Timestamp = normalizeTimestamp(out[i].Timestamp)
	}
	return out
}

// commit replaces the log contents. ops must already be sequenced.
func (l *Log) commit(ops []model.Operation, state *tournament.Tournament) {
	l.ops = ops
	l.index = make(map[model.OpID]int, len(ops))
	for i, op := range ops {
		l.index[op.ID] = i
	}
	l.state = state
}

// Replay folds ops into a copy of initial. Rollback, sync and loading all
// rebuild state through it.
func Replay(initial *tournament.Tournament, ops []model.Operation) (*tournament.Tournament, error) {
	state := initial.Clone()
	for i, op := range ops {
		if _, err := state.Apply(op); err != nil {
			return nil, fmt.Errorf("replay operation %d (%s): %w", i+1, op.ID, err)
		}
	}
	return state, nil
}
