// Package storagetest holds the behaviour every storage backend must share
package storagetest

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tourney/internal/model"
	"github.com/mcoot/tourney/internal/storage"
)

// Suite runs the storage contract against a backend. Backends embed it and
// set New in their own SetupTest before calling Suite.SetupTest.
type Suite struct {
	suite.Suite
	New     func() storage.Storage
	Storage storage.Storage
	Ctx     context.Context
}

func (s *Suite) SetupTest() {
	s.Require().NotNil(s.New, "storage constructor not set")
	s.Storage = s.New()
	s.Ctx = context.Background()
}

// Document builds a small but realistic log document
func Document(name string) *model.LogDocument {
	ts := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	actions := []model.Action{
		model.StartTournament{},
		model.RegisterPlayer{Name: "Alice"},
		model.RegisterPlayer{Name: "Bob"},
		model.AddDeck{
			Player: model.PlayerByName("Alice"),
			Name:   "Burn",
			Deck:   model.Deck{Mainboard: []model.Card{{Name: "Lightning Bolt", Count: 4}}},
		},
		model.CreateRound{Players: []model.PlayerIdentifier{model.PlayerByName("Alice"), model.PlayerByName("Bob")}},
	}
	doc := &model.LogDocument{
		Version: model.LogDocumentVersion,
		Seed: model.TournamentSeed{
			ID:     model.NewTournamentID(),
			Name:   name,
			Preset: model.PresetSwiss,
			Format: "Modern",
		},
	}
	for i, action := range actions {
		op := model.NewOperation(model.NewOpID(), ts.Add(time.Duration(i)*time.Minute), action)
		op.Seq = uint64(i + 1)
		doc.Ops = append(doc.Ops, op)
	}
	return doc
}

// RequireSameDocument compares documents by their encoded form
func (s *Suite) RequireSameDocument(want, got *model.LogDocument) {
	wantJSON, err := json.Marshal(want)
	s.Require().NoError(err)
	gotJSON, err := json.Marshal(got)
	s.Require().NoError(err)
	s.JSONEq(string(wantJSON), string(gotJSON))
}

func (s *Suite) TestSaveAndGetLog() {
	doc := Document("Friday Night")
	s.Require().NoError(s.Storage.SaveLog(s.Ctx, doc))

	got, err := s.Storage.GetLog(s.Ctx, doc.Seed.ID)
	s.Require().NoError(err)
	s.RequireSameDocument(doc, got)
}

func (s *Suite) TestGetLogNotFound() {
	_, err := s.Storage.GetLog(s.Ctx, model.NewTournamentID())
	s.ErrorIs(err, model.ErrTournamentNotFound)
}

func (s *Suite) TestSaveLogReplaces() {
	doc := Document("Friday Night")
	s.Require().NoError(s.Storage.SaveLog(s.Ctx, doc))

	doc.Ops = doc.Ops[:2]
	s.Require().NoError(s.Storage.SaveLog(s.Ctx, doc))

	got, err := s.Storage.GetLog(s.Ctx, doc.Seed.ID)
	s.Require().NoError(err)
	s.Len(got.Ops, 2)
	s.RequireSameDocument(doc, got)
}

func (s *Suite) TestSaveEmptyLog() {
	doc := Document("Empty")
	doc.Ops = nil
	s.Require().NoError(s.Storage.SaveLog(s.Ctx, doc))

	got, err := s.Storage.GetLog(s.Ctx, doc.Seed.ID)
	s.Require().NoError(err)
	s.Empty(got.Ops)
	s.Equal(doc.Seed, got.Seed)
}

func (s *Suite) TestStoredCopyIsIndependent() {
	doc := Document("Friday Night")
	s.Require().NoError(s.Storage.SaveLog(s.Ctx, doc))
	doc.Ops = nil
	doc.Seed.Name = "Changed"

	got, err := s.Storage.GetLog(s.Ctx, doc.Seed.ID)
	s.Require().NoError(err)
	s.Equal("Friday Night", got.Seed.Name)
	s.Len(got.Ops, 5)
}

func (s *Suite) TestDeleteLog() {
	doc := Document("Friday Night")
	s.Require().NoError(s.Storage.SaveLog(s.Ctx, doc))

	s.Require().NoError(s.Storage.DeleteLog(s.Ctx, doc.Seed.ID))
	_, err := s.Storage.GetLog(s.Ctx, doc.Seed.ID)
	s.ErrorIs(err, model.ErrTournamentNotFound)

	ids, err := s.Storage.ListLogs(s.Ctx)
	s.Require().NoError(err)
	s.Empty(ids)
}

func (s *Suite) TestDeleteUnknownLog() {
	s.NoError(s.Storage.DeleteLog(s.Ctx, model.NewTournamentID()))
}

func (s *Suite) TestListLogs() {
	ids, err := s.Storage.ListLogs(s.Ctx)
	s.Require().NoError(err)
	s.Empty(ids)

	var want []model.TournamentID
	for _, name := range []string{"One", "Two", "Three"} {
		doc := Document(name)
		s.Require().NoError(s.Storage.SaveLog(s.Ctx, doc))
		want = append(want, doc.Seed.ID)
	}

	ids, err = s.Storage.ListLogs(s.Ctx)
	s.Require().NoError(err)
	s.Equal(storage.SortIDs(want), ids)
}
