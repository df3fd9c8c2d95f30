package oplog

import (
	"encoding/json"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/mcoot/tourney/internal/model"
	"github.com/mcoot/tourney/internal/services/tournament"
	"github.com/mcoot/tourney/internal/testutil"
)

var propertyNames = []string{"Ada", "Bea", "Cal", "Dee", "Eve"}

// drawAction draws a random action over a small pool of names and rounds.
// Many of the drawn actions are invalid for the state they meet, which
// exercises the rejection paths as well.
func drawAction(t *rapid.T) model.Action {
	name := rapid.SampledFrom(propertyNames).Draw(t, "name")
	player := model.PlayerByName(name)
	round := model.RoundByNumber(uint64(rapid.IntRange(1, 4).Draw(t, "round")))

	switch rapid.IntRange(0, 12).Draw(t, "kind") {
	case 0:
		return model.StartTournament{}
	case 1, 2:
		return model.RegisterPlayer{Name: name}
	case 3:
		return model.CheckIn{Player: player}
	case 4:
		return model.DropPlayer{Player: player}
	case 5:
		return model.PairRound{}
	case 6:
		other := rapid.SampledFrom(propertyNames).Draw(t, "other")
		return model.CreateRound{Players: []model.PlayerIdentifier{player, model.PlayerByName(other)}}
	case 7:
		return model.ConfirmResult{Player: player}
	case 8:
		return model.GiveBye{Player: player}
	case 9:
		return model.KillRound{Round: round}
	case 10:
		return model.RecordResult{Round: round, Result: model.DrawResult()}
	case 11:
		return model.FreezeTournament{}
	default:
		return model.ThawTournament{}
	}
}

// drawOps draws a sequence of operations with increasing timestamps
func drawOps(t *rapid.T, label string, start time.Time, n int) []model.Operation {
	ops := make([]model.Operation, 0, n)
	ts := start
	for range n {
		ts = ts.Add(time.Duration(rapid.IntRange(1, 60).Draw(t, label+"_gap")) * time.Second)
		ops = append(ops, model.NewOperation(model.NewOpID(), ts, drawAction(t)))
	}
	return ops
}

func newPropertyLog(t *rapid.T) *Log {
	l, err := New(model.TournamentSeed{
		ID:     model.NewTournamentID(),
		Name:   "Property",
		Preset: rapid.SampledFrom([]model.TournamentPreset{model.PresetSwiss, model.PresetFluid}).Draw(t, "preset"),
	}, testutil.NopLogger())
	if err != nil {
		t.Fatalf("new log: %v", err)
	}
	// Always start so most drawn operations have a chance to apply
	if _, err := l.Append(model.NewOperation(model.NewOpID(), time.Unix(0, 0), model.StartTournament{})); err != nil {
		t.Fatalf("start: %v", err)
	}
	return l
}

func appendAll(l *Log, ops []model.Operation) {
	for _, op := range ops {
		_, _ = l.Append(op)
	}
}

func encodeState(t *rapid.T, state *tournament.Tournament) string {
	data, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("marshal state: %v", err)
	}
	return string(data)
}

func TestReplayIsDeterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		l := newPropertyLog(t)
		appendAll(l, drawOps(t, "ops", time.Unix(0, 0), rapid.IntRange(0, 40).Draw(t, "n")))

		first, err := FromDocument(l.Document(), testutil.NopLogger())
		if err != nil {
			t.Fatalf("replay: %v", err)
		}
		second, err := FromDocument(l.Document(), testutil.NopLogger())
		if err != nil {
			t.Fatalf("replay: %v", err)
		}

		want := encodeState(t, l.State())
		if got := encodeState(t, first.State()); got != want {
			t.Fatalf("replayed state differs from live state\nlive:   %s\nreplay: %s", want, got)
		}
		if got := encodeState(t, second.State()); got != want {
			t.Fatalf("second replay differs")
		}
	})
}

func TestRollbackEqualsPrefixReplay(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		l := newPropertyLog(t)
		appendAll(l, drawOps(t, "ops", time.Unix(0, 0), rapid.IntRange(0, 30).Draw(t, "n")))
		doc := l.Document()
		to := rapid.IntRange(0, len(doc.Ops)).Draw(t, "to")

		initial, err := tournament.New(doc.Seed)
		if err != nil {
			t.Fatalf("new: %v", err)
		}
		want, err := Replay(initial, doc.Ops[:to])
		if err != nil {
			t.Fatalf("replay prefix: %v", err)
		}

		got, err := l.Rollback(uint64(to))
		if err != nil {
			t.Fatalf("rollback: %v", err)
		}
		if encodeState(t, got) != encodeState(t, want) {
			t.Fatalf("rollback to %d differs from prefix replay", to)
		}
		if l.Len() != to {
			t.Fatalf("log length %d after rollback to %d", l.Len(), to)
		}
	})
}

func TestSyncWithIdenticalCopyIsNoop(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		l := newPropertyLog(t)
		appendAll(l, drawOps(t, "ops", time.Unix(0, 0), rapid.IntRange(0, 30).Draw(t, "n")))
		before := encodeState(t, l.State())
		length := l.Len()

		report, err := l.Sync(l.Document())
		if err != nil {
			t.Fatalf("sync: %v", err)
		}
		if report.Changed() {
			t.Fatalf("sync with itself reported changes: %+v", report)
		}
		if encodeState(t, l.State()) != before || l.Len() != length {
			t.Fatalf("sync with itself changed the log")
		}
	})
}

func TestSyncEqualsPrefixReplayPlusMergedSuffix(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		local := newPropertyLog(t)
		appendAll(local, drawOps(t, "shared", time.Unix(0, 0), rapid.IntRange(0, 15).Draw(t, "shared_n")))

		remote, err := FromDocument(local.Document(), testutil.NopLogger())
		if err != nil {
			t.Fatalf("fork: %v", err)
		}
		prefix := local.Document().Ops

		branch := time.Unix(100000, 0)
		appendAll(local, drawOps(t, "local", branch, rapid.IntRange(0, 15).Draw(t, "local_n")))
		appendAll(remote, drawOps(t, "remote", branch, rapid.IntRange(0, 15).Draw(t, "remote_n")))
		localOps := local.Document().Ops
		remoteOps := remote.Document().Ops

		report, err := local.Sync(remote.Document())
		if err != nil {
			t.Fatalf("sync: %v", err)
		}
		p := int(report.CommonPrefix)
		if p < len(prefix) {
			t.Fatalf("common prefix %d shorter than shared history %d", p, len(prefix))
		}

		// Expected: replay the common prefix, then apply the merged suffix
		// skipping anything that fails
		initial, err := tournament.New(local.Seed())
		if err != nil {
			t.Fatalf("new: %v", err)
		}
		want, err := Replay(initial, localOps[:p])
		if err != nil {
			t.Fatalf("replay prefix: %v", err)
		}
		merged, err := MergeSuffixes(localOps[p:], remoteOps[p:])
		if err != nil {
			t.Fatalf("merge: %v", err)
		}
		applied := p
		for _, op := range merged {
			if _, err := want.Apply(op); err == nil {
				applied++
			}
		}

		if encodeState(t, local.State()) != encodeState(t, want) {
			t.Fatalf("synced state differs from prefix replay plus merged suffix")
		}
		if local.Len() != applied {
			t.Fatalf("log has %d operations, expected %d", local.Len(), applied)
		}
		synced := local.Document()
		for i, op := range prefix {
			if synced.Ops[i].ID != op.ID {
				t.Fatalf("prefix operation %d changed", i+1)
			}
		}
		for i, op := range synced.Ops {
			if op.Seq != uint64(i+1) {
				t.Fatalf("operation %d has seq %d", i+1, op.Seq)
			}
		}
	})
}
