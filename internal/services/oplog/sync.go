package oplog

import (
	"bytes"
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/mcoot/tourney/internal/model"
	"github.com/mcoot/tourney/internal/services/tournament"
)

// Conflict is a merged operation that could not be applied during a sync
type Conflict struct {
	Op  model.Operation
	Err error
}

func (c Conflict) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Op    model.Operation `json:"op"`
		Error string          `json:"error"`
	}{Op: c.Op, Error: c.Err.Error()})
}

// UnmarshalJSON restores a conflict reported by another server. Only the
// error message survives the trip.
func (c *Conflict) UnmarshalJSON(data []byte) error {
	var raw struct {
		Op    model.Operation `json:"op"`
		Error string          `json:"error"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.Op = raw.Op
	c.Err = errors.New(raw.Error)
	return nil
}

// SyncReport describes the result of reconciling with a remote log
type SyncReport struct {
	// CommonPrefix is the number of leading operations both logs shared
	CommonPrefix uint64 `json:"common_prefix"`
	// Added lists the remote operations that are new to the local log
	Added []model.OpID `json:"added"`
	// Conflicts lists merged operations that were skipped
	Conflicts []Conflict `json:"conflicts"`

	// reordered is set when local operations after the prefix moved
	reordered bool
}

// Changed reports whether the sync altered the local log
func (r SyncReport) Changed() bool {
	return len(r.Added) > 0 || len(r.Conflicts) > 0 || r.reordered
}

// Sync reconciles the log with a remote copy of the same tournament. The
// shared prefix is kept as is. Operations after it are merged from both
// sides, ordered by timestamp, and applied one by one; any that fail are
// skipped and reported as conflicts.
func (l *Log) Sync(remote model.LogDocument) (SyncReport, error) {
	if remote.Seed != l.seed {
		return SyncReport{}, fmt.Errorf("%w: local %s, remote %s", ErrTournamentMismatch, l.seed.ID, remote.Seed.ID)
	}
	if err := checkDocument(remote); err != nil {
		return SyncReport{}, err
	}
	remote.Ops = normalizeOps(remote.Ops)

	prefix, err := commonPrefix(l.ops, remote.Ops)
	if err != nil {
		return SyncReport{}, err
	}
	report := SyncReport{CommonPrefix: uint64(prefix)}

	remoteSuffix := remote.Ops[prefix:]
	if len(remoteSuffix) == 0 {
		return report, nil
	}
	for _, op := range remoteSuffix {
		if i, ok := l.index[op.ID]; ok && i < prefix {
			return SyncReport{}, fmt.Errorf("%w: operation %s is at seq %d locally and %d remotely",
				ErrDivergentPrefix, op.ID, i+1, op.Seq)
		}
	}

	merged, err := MergeSuffixes(l.ops[prefix:], remoteSuffix)
	if err != nil {
		return SyncReport{}, err
	}

	initial, err := tournament.New(l.seed)
	if err != nil {
		return SyncReport{}, err
	}
	state, err := Replay(initial, l.ops[:prefix])
	if err != nil {
		return SyncReport{}, fmt.Errorf("%w: %w", ErrCorruptLog, err)
	}

	committed := slices.Clone(l.ops[:prefix])
	for _, op := range merged {
		if _, err := state.Apply(op); err != nil {
			l.logger.Warn("sync conflict",
				slog.String("op_id", op.ID.String()),
				slog.String("kind", string(op.Action.Kind())),
				slog.String("error", err.Error()),
			)
			report.Conflicts = append(report.Conflicts, Conflict{Op: op, Err: err})
			continue
		}
		op.Seq = uint64(len(committed)) + 1
		committed = append(committed, op)
		if !l.Contains(op.ID) {
			report.Added = append(report.Added, op.ID)
		}
	}

	report.reordered = !slices.EqualFunc(committed, l.ops, func(a, b model.Operation) bool {
		return a.ID == b.ID
	})
	l.commit(committed, state)

	l.logger.Info("log synced",
		slog.Uint64("common_prefix", report.CommonPrefix),
		slog.Int("added", len(report.Added)),
		slog.Int("conflicts", len(report.Conflicts)),
		slog.Int("length", len(committed)),
	)
	return report, nil
}

// commonPrefix returns the length of the longest run of operations with the
// same IDs at the same positions. Operations in that run must be identical.
func commonPrefix(local, remote []model.Operation) (int, error) {
	n := 0
	for n < len(local) && n < len(remote) && local[n].ID == remote[n].ID {
		same, err := sameOp(local[n], remote[n])
		if err != nil {
			return 0, err
		}
		if !same {
			return 0, fmt.Errorf("%w: operation %s at seq %d", ErrDivergentPrefix, local[n].ID, n+1)
		}
		n++
	}
	return n, nil
}

// sameOp compares the encoded payloads of two operations, ignoring Seq
func sameOp(a, b model.Operation) (bool, error) {
	a.Seq, b.Seq = 0, 0
	ea, err := json.Marshal(a)
	if err != nil {
		return false, err
	}
	eb, err := json.Marshal(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(ea, eb), nil
}

// MergeSuffixes unions two log suffixes, dropping duplicate operations, and
// orders the result by timestamp, then original seq, then op ID. An
// operation present in both suffixes takes the lower of its two seqs.
func MergeSuffixes(local, remote []model.Operation) ([]model.Operation, error) {
	byID := make(map[model.OpID]int, len(local)+len(remote))
	merged := make([]model.Operation, 0, len(local)+len(remote))
	for _, op := range slices.Concat(local, remote) {
		i, ok := byID[op.ID]
		if !ok {
			byID[op.ID] = len(merged)
			merged = append(merged, op)
			continue
		}
		same, err := sameOp(merged[i], op)
		if err != nil {
			return nil, err
		}
		if !same {
			return nil, fmt.Errorf("%w: operation %s differs between logs", ErrDivergentPrefix, op.ID)
		}
		merged[i].Seq = min(merged[i].Seq, op.Seq)
	}

	slices.SortStableFunc(merged, func(a, b model.Operation) int {
		return cmp.Or(
			a.Timestamp.Compare(b.Timestamp),
			cmp.Compare(a.Seq, b.Seq),
			a.ID.Compare(b.ID),
		)
	})
	return merged, nil
}
