package storage

import (
	"slices"

	"github.com/mcoot/tourney/internal/model"
)

// SortIDs orders tournament IDs by their bytes so every backend lists in
// the same order
func SortIDs(ids []model.TournamentID) []model.TournamentID {
	slices.SortFunc(ids, model.TournamentID.Compare)
	return ids
}
