package file

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tourney/internal/model"
	"github.com/mcoot/tourney/internal/storage"
	"github.com/mcoot/tourney/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	dir string
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.dir = s.T().TempDir()
	s.New = func() storage.Storage {
		st, err := New(s.dir)
		s.Require().NoError(err)
		return st
	}
	s.Suite.SetupTest()
}

func (s *StorageSuite) readBackup(id model.TournamentID) *model.LogDocument {
	data, err := os.ReadFile(filepath.Join(s.dir, id.String()+".json.bak"))
	s.Require().NoError(err)
	var doc model.LogDocument
	s.Require().NoError(json.Unmarshal(data, &doc))
	return &doc
}

func (s *StorageSuite) TestSaveRotatesBackup() {
	doc := storagetest.Document("Friday Night")
	s.Require().NoError(s.Storage.SaveLog(s.Ctx, doc))
	s.NoFileExists(filepath.Join(s.dir, doc.Seed.ID.String()+".json.bak"))

	first := *doc
	doc.Ops = doc.Ops[:3]
	s.Require().NoError(s.Storage.SaveLog(s.Ctx, doc))

	s.RequireSameDocument(&first, s.readBackup(doc.Seed.ID))
	got, err := s.Storage.GetLog(s.Ctx, doc.Seed.ID)
	s.Require().NoError(err)
	s.Len(got.Ops, 3)
}

func (s *StorageSuite) TestGetFallsBackToBackup() {
	doc := storagetest.Document("Friday Night")
	s.Require().NoError(s.Storage.SaveLog(s.Ctx, doc))
	s.Require().NoError(s.Storage.SaveLog(s.Ctx, doc))

	// Simulate a crash between rotation and rename
	s.Require().NoError(os.Remove(filepath.Join(s.dir, doc.Seed.ID.String()+".json")))

	got, err := s.Storage.GetLog(s.Ctx, doc.Seed.ID)
	s.Require().NoError(err)
	s.RequireSameDocument(doc, got)

	ids, err := s.Storage.ListLogs(s.Ctx)
	s.Require().NoError(err)
	s.Equal([]model.TournamentID{doc.Seed.ID}, ids)
}

func (s *StorageSuite) TestDeleteRemovesBackup() {
	doc := storagetest.Document("Friday Night")
	s.Require().NoError(s.Storage.SaveLog(s.Ctx, doc))
	s.Require().NoError(s.Storage.SaveLog(s.Ctx, doc))

	s.Require().NoError(s.Storage.DeleteLog(s.Ctx, doc.Seed.ID))

	entries, err := os.ReadDir(s.dir)
	s.Require().NoError(err)
	s.Empty(entries)
}

func (s *StorageSuite) TestListIgnoresForeignFiles() {
	doc := storagetest.Document("Friday Night")
	s.Require().NoError(s.Storage.SaveLog(s.Ctx, doc))
	s.Require().NoError(os.WriteFile(filepath.Join(s.dir, "notes.txt"), []byte("hi"), 0o644))
	s.Require().NoError(os.WriteFile(filepath.Join(s.dir, "garbage.json"), []byte("{}"), 0o644))
	s.Require().NoError(os.Mkdir(filepath.Join(s.dir, "nested"), 0o755))

	ids, err := s.Storage.ListLogs(s.Ctx)
	s.Require().NoError(err)
	s.Equal([]model.TournamentID{doc.Seed.ID}, ids)
}

func (s *StorageSuite) TestCorruptDocument() {
	id := model.NewTournamentID()
	s.Require().NoError(os.WriteFile(filepath.Join(s.dir, id.String()+".json"), []byte("{oops"), 0o644))

	_, err := s.Storage.GetLog(s.Ctx, id)
	s.Error(err)
	s.NotErrorIs(err, model.ErrTournamentNotFound)
}

func TestNewRequiresDirectory(t *testing.T) {
	if _, err := New("  "); err == nil {
		t.Fatal("expected an error for an empty directory")
	}
}
