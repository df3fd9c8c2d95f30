package oplog

import (
	"encoding/json"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tourney/internal/model"
	"github.com/mcoot/tourney/internal/services/tournament"
	"github.com/mcoot/tourney/internal/testutil"
)

type LogSuite struct {
	suite.Suite
	seed model.TournamentSeed
	log  *Log
	now  time.Time
}

func TestLogSuite(t *testing.T) {
	suite.Run(t, new(LogSuite))
}

func (s *LogSuite) SetupTest() {
	s.seed = model.TournamentSeed{
		ID:     model.NewTournamentID(),
		Name:   "League Night",
		Preset: model.PresetSwiss,
		Format: "Standard",
	}
	log, err := New(s.seed, testutil.NopLogger())
	s.Require().NoError(err)
	s.log = log
	s.now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func (s *LogSuite) op(action model.Action) model.Operation {
	s.now = s.now.Add(time.Second)
	return model.NewOperation(model.NewOpID(), s.now, action)
}

func (s *LogSuite) append(action model.Action) model.OpOutcome {
	out, err := s.log.Append(s.op(action))
	s.Require().NoError(err)
	return out
}

func (s *LogSuite) state(t *tournament.Tournament) string {
	data, err := json.Marshal(t)
	s.Require().NoError(err)
	return string(data)
}

func (s *LogSuite) ids(ops []model.Operation) []model.OpID {
	var out []model.OpID
	for _, op := range ops {
		out = append(out, op.ID)
	}
	return out
}

// Append tests

func (s *LogSuite) TestAppendAssignsSequenceNumbers() {
	s.append(model.StartTournament{})
	s.append(model.RegisterPlayer{Name: "A"})
	s.append(model.RegisterPlayer{Name: "B"})

	doc := s.log.Document()
	s.Require().Len(doc.Ops, 3)
	for i, op := range doc.Ops {
		s.Equal(uint64(i+1), op.Seq)
	}
	s.Equal(model.LogDocumentVersion, doc.Version)
	s.Equal(s.seed, doc.Seed)
}

func (s *LogSuite) TestFailedAppendLeavesLogUnchanged() {
	s.append(model.StartTournament{})
	before := s.state(s.log.State())

	_, err := s.log.Append(s.op(model.StartTournament{}))
	s.ErrorIs(err, model.ErrIncorrectStatus)

	s.Equal(1, s.log.Len())
	s.Equal(before, s.state(s.log.State()))
}

func (s *LogSuite) TestDuplicateOpRejected() {
	op := s.op(model.StartTournament{})
	_, err := s.log.Append(op)
	s.Require().NoError(err)

	_, err = s.log.Append(op)
	s.ErrorIs(err, ErrDuplicateOp)
	s.Equal(1, s.log.Len())
}

func (s *LogSuite) TestAppendWithoutActionFails() {
	_, err := s.log.Append(model.Operation{ID: model.NewOpID(), Timestamp: s.now})
	s.ErrorIs(err, model.ErrUnknownOperation)
}

func (s *LogSuite) TestStateIsACopy() {
	s.append(model.StartTournament{})
	state := s.log.State()
	state.Status = model.StatusCancelled

	s.Equal(model.StatusStarted, s.log.State().Status)
}

// Slice tests

func (s *LogSuite) TestSliceIsHalfOpen() {
	s.append(model.StartTournament{})
	s.append(model.RegisterPlayer{Name: "A"})
	s.append(model.RegisterPlayer{Name: "B"})
	s.append(model.RegisterPlayer{Name: "C"})

	ops := slices.Collect(s.log.Slice(2, 4))
	s.Require().Len(ops, 2)
	s.Equal(uint64(2), ops[0].Seq)
	s.Equal(uint64(3), ops[1].Seq)
}

func (s *LogSuite) TestSliceClampsBounds() {
	s.append(model.StartTournament{})
	s.append(model.RegisterPlayer{Name: "A"})

	s.Len(slices.Collect(s.log.Slice(0, 100)), 2)
	s.Empty(slices.Collect(s.log.Slice(3, 10)))
	s.Empty(slices.Collect(s.log.Slice(2, 1)))
}

func (s *LogSuite) TestSliceIsRestartable() {
	s.append(model.StartTournament{})
	s.append(model.RegisterPlayer{Name: "A"})

	seq := s.log.Slice(1, 3)
	s.append(model.RegisterPlayer{Name: "B"})

	s.Len(slices.Collect(seq), 2)
	s.Len(slices.Collect(seq), 2)
}

// Rollback tests

func (s *LogSuite) TestRollbackMatchesPrefixReplay() {
	s.append(model.StartTournament{})
	s.append(model.RegisterPlayer{Name: "A"})
	want := s.state(s.log.State())

	s.append(model.RegisterPlayer{Name: "B"})
	s.append(model.PairRound{})

	state, err := s.log.Rollback(2)
	s.Require().NoError(err)
	s.Equal(want, s.state(state))
	s.Equal(2, s.log.Len())
	s.Equal(want, s.state(s.log.State()))
}

func (s *LogSuite) TestRollbackPastEndIsNoop() {
	s.append(model.StartTournament{})
	before := s.log.Document()

	_, err := s.log.Rollback(5)
	s.Require().NoError(err)
	s.Equal(before, s.log.Document())
}

func (s *LogSuite) TestRollbackToZeroEmptiesLog() {
	s.append(model.StartTournament{})
	s.append(model.RegisterPlayer{Name: "A"})

	state, err := s.log.Rollback(0)
	s.Require().NoError(err)
	s.Zero(s.log.Len())
	s.Equal(model.StatusPlanned, state.Status)
}

func (s *LogSuite) TestRolledBackOpCanBeAppendedAgain() {
	s.append(model.StartTournament{})
	op := s.op(model.RegisterPlayer{Name: "A"})
	_, err := s.log.Append(op)
	s.Require().NoError(err)

	_, err = s.log.Rollback(1)
	s.Require().NoError(err)

	_, err = s.log.Append(op)
	s.NoError(err)
}

// Document tests

func (s *LogSuite) TestDocumentRoundTrip() {
	s.append(model.StartTournament{})
	a := s.append(model.RegisterPlayer{Name: "A"})
	b := s.append(model.RegisterPlayer{Name: "B"})
	s.append(model.CreateRound{Players: []model.PlayerIdentifier{model.PlayerByID(*a.Player), model.PlayerByID(*b.Player)}})
	s.append(model.RecordResult{Round: model.RoundByNumber(1), Result: model.WinsResult(*a.Player, 2)})

	data, err := json.Marshal(s.log.Document())
	s.Require().NoError(err)

	var doc model.LogDocument
	s.Require().NoError(json.Unmarshal(data, &doc))

	restored, err := FromDocument(doc, testutil.NopLogger())
	s.Require().NoError(err)
	s.Equal(s.state(s.log.State()), s.state(restored.State()))
	s.Equal(s.log.Len(), restored.Len())
}

func (s *LogSuite) TestFromDocumentRejectsBadSequence() {
	s.append(model.StartTournament{})
	doc := s.log.Document()
	doc.Ops[0].Seq = 4

	_, err := FromDocument(doc, testutil.NopLogger())
	s.ErrorIs(err, ErrCorruptLog)
}

func (s *LogSuite) TestFromDocumentRejectsUnreplayableLog() {
	doc := model.LogDocument{
		Version: model.LogDocumentVersion,
		Seed:    s.seed,
		Ops:     []model.Operation{s.op(model.FreezeTournament{})},
	}
	doc.Ops[0].Seq = 1

	_, err := FromDocument(doc, testutil.NopLogger())
	s.ErrorIs(err, ErrCorruptLog)
	s.ErrorIs(err, model.ErrIncorrectStatus)
}

// Sync tests

func (s *LogSuite) fork() *Log {
	other, err := FromDocument(s.log.Document(), testutil.NopLogger())
	s.Require().NoError(err)
	return other
}

func (s *LogSuite) TestSyncIdenticalLogsIsNoop() {
	s.append(model.StartTournament{})
	s.append(model.RegisterPlayer{Name: "A"})

	report, err := s.log.Sync(s.log.Document())
	s.Require().NoError(err)
	s.False(report.Changed())
	s.Equal(uint64(2), report.CommonPrefix)
}

func (s *LogSuite) TestSyncAddsRemoteOperations() {
	s.append(model.StartTournament{})
	remote := s.fork()

	s.append(model.RegisterPlayer{Name: "A"})
	remoteOp := s.op(model.RegisterPlayer{Name: "B"})
	_, err := remote.Append(remoteOp)
	s.Require().NoError(err)

	report, err := s.log.Sync(remote.Document())
	s.Require().NoError(err)
	s.Equal(uint64(1), report.CommonPrefix)
	s.Equal([]model.OpID{remoteOp.ID}, report.Added)
	s.Empty(report.Conflicts)
	s.Equal(3, s.log.Len())
	s.Equal(2, s.log.State().Players.Len())

	for i, op := range s.log.Document().Ops {
		s.Equal(uint64(i+1), op.Seq)
	}
}

func (s *LogSuite) TestSyncOrdersMergedOpsByTimestamp() {
	s.append(model.StartTournament{})
	remote := s.fork()

	early := s.op(model.RegisterPlayer{Name: "Early"})
	late := s.op(model.RegisterPlayer{Name: "Late"})
	_, err := s.log.Append(late)
	s.Require().NoError(err)
	_, err = remote.Append(early)
	s.Require().NoError(err)

	_, err = s.log.Sync(remote.Document())
	s.Require().NoError(err)
	s.Equal([]model.OpID{s.log.Document().Ops[0].ID, early.ID, late.ID}, s.ids(s.log.Document().Ops))
}

func (s *LogSuite) TestSyncRecordsConflicts() {
	logger, logs := testutil.CaptureLogger()
	log, err := New(s.seed, logger)
	s.Require().NoError(err)
	s.log = log

	s.append(model.StartTournament{})
	remote := s.fork()

	s.append(model.RegisterPlayer{Name: "Alice"})
	dup := s.op(model.RegisterPlayer{Name: "Alice"})
	_, err = remote.Append(dup)
	s.Require().NoError(err)

	report, err := s.log.Sync(remote.Document())
	s.Require().NoError(err)
	s.Require().Len(report.Conflicts, 1)
	s.Equal(dup.ID, report.Conflicts[0].Op.ID)
	s.ErrorIs(report.Conflicts[0].Err, model.ErrPlayerExists)
	s.Equal(2, s.log.Len())
	s.False(s.log.Contains(dup.ID))
	s.Contains(logs.String(), `"msg":"sync conflict"`)
	s.Contains(logs.String(), `"op_id":"`+dup.ID.String()+`"`)
}

func (s *LogSuite) TestSyncReordersSharedSuffix() {
	s.append(model.StartTournament{})
	remote := s.fork()

	early := s.op(model.RegisterPlayer{Name: "Early"})
	late := s.op(model.RegisterPlayer{Name: "Late"})
	// Locally the later operation arrived first
	for _, op := range []model.Operation{late, early} {
		_, err := s.log.Append(op)
		s.Require().NoError(err)
	}
	for _, op := range []model.Operation{early, late} {
		_, err := remote.Append(op)
		s.Require().NoError(err)
	}

	report, err := s.log.Sync(remote.Document())
	s.Require().NoError(err)
	s.Empty(report.Added)
	s.Empty(report.Conflicts)
	s.True(report.Changed())
	s.Equal([]model.OpID{s.log.Document().Ops[0].ID, early.ID, late.ID}, s.ids(s.log.Document().Ops))
}

func (s *LogSuite) TestSyncIgnoresTimestampZones() {
	s.append(model.StartTournament{})
	s.append(model.RegisterPlayer{Name: "Alice"})
	remote := s.fork()
	bob := s.op(model.RegisterPlayer{Name: "Bob"})
	_, err := remote.Append(bob)
	s.Require().NoError(err)

	// The same log as written by a peer that keeps local offsets
	doc := remote.Document()
	cest := time.FixedZone("CEST", 2*60*60)
	for i := range doc.Ops {
		doc.Ops[i].Timestamp = doc.Ops[i].Timestamp.In(cest)
	}

	report, err := s.log.Sync(doc)
	s.Require().NoError(err)
	s.Equal(uint64(2), report.CommonPrefix)
	s.Equal([]model.OpID{bob.ID}, report.Added)
	s.Equal(time.UTC, s.log.Document().Ops[2].Timestamp.Location())

	loaded, err := FromDocument(doc, testutil.NopLogger())
	s.Require().NoError(err)
	s.Equal(s.state(s.log.State()), s.state(loaded.State()))
}

func (s *LogSuite) TestSyncIsIdempotent() {
	s.append(model.StartTournament{})
	remote := s.fork()
	s.append(model.RegisterPlayer{Name: "A"})
	_, err := remote.Append(s.op(model.RegisterPlayer{Name: "B"}))
	s.Require().NoError(err)

	_, err = s.log.Sync(remote.Document())
	s.Require().NoError(err)
	first := s.log.Document()

	report, err := s.log.Sync(remote.Document())
	s.Require().NoError(err)
	s.Empty(report.Added)
	s.Equal(first, s.log.Document())
}

func (s *LogSuite) TestSyncRejectsOtherTournament() {
	other, err := New(model.TournamentSeed{ID: model.NewTournamentID(), Name: "Other", Preset: model.PresetSwiss}, testutil.NopLogger())
	s.Require().NoError(err)

	_, err = s.log.Sync(other.Document())
	s.ErrorIs(err, ErrTournamentMismatch)
}

func (s *LogSuite) TestSyncRejectsBadRemoteSequence() {
	s.append(model.StartTournament{})
	doc := s.log.Document()
	doc.Ops[0].Seq = 2

	_, err := s.log.Sync(doc)
	s.ErrorIs(err, ErrCorruptLog)
}

func (s *LogSuite) TestSyncRejectsDivergentPrefix() {
	s.append(model.StartTournament{})
	s.append(model.RegisterPlayer{Name: "A"})
	doc := s.log.Document()
	doc.Ops[1].Action = model.RegisterPlayer{Name: "Z"}
	before := s.log.Document()

	_, err := s.log.Sync(doc)
	s.ErrorIs(err, ErrDivergentPrefix)
	s.Equal(before, s.log.Document())
}

func (s *LogSuite) TestMergeSuffixesDeduplicates() {
	a := s.op(model.RegisterPlayer{Name: "A"})
	b := s.op(model.RegisterPlayer{Name: "B"})
	a.Seq, b.Seq = 2, 3
	remoteA := a
	remoteA.Seq = 3

	merged, err := MergeSuffixes([]model.Operation{a, b}, []model.Operation{remoteA})
	s.Require().NoError(err)
	s.Equal([]model.OpID{a.ID, b.ID}, s.ids(merged))

	changed := a
	changed.Action = model.RegisterPlayer{Name: "Other"}
	_, err = MergeSuffixes([]model.Operation{a}, []model.Operation{changed})
	s.ErrorIs(err, ErrDivergentPrefix)
}
