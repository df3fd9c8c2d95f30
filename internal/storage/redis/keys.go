package redis

import (
	"fmt"

	"github.com/mcoot/tourney/internal/model"
)

// Key prefix for all tournament data
const keyPrefix = "tourney"

// logKey returns the Redis key for a tournament's log document
func logKey(id model.TournamentID) string {
	return fmt.Sprintf("%s:log:%s", keyPrefix, id)
}

// logIndexKey returns the Redis key for the SET of stored tournament IDs
func logIndexKey() string {
	return fmt.Sprintf("%s:idx:logs", keyPrefix)
}
