package model

import "errors"

// Errors returned when an operation cannot be applied to a tournament
var (
	// Lookup errors
	ErrPlayerLookup       = errors.New("player not found")
	ErrRoundLookup        = errors.New("round not found")
	ErrDeckLookup         = errors.New("deck not found")
	ErrTournamentNotFound = errors.New("tournament not found")

	// Round errors
	ErrPlayerNotInRound = errors.New("player is not in round")
	ErrInvalidBye       = errors.New("a bye must have exactly one player")
	ErrInvalidGameSize  = errors.New("wrong number of players for a round")

	// Tournament errors
	ErrIncorrectStatus = errors.New("tournament status does not allow this operation")
	ErrRegClosed       = errors.New("registration is closed")
	ErrPlayerExists    = errors.New("a player with that name is already registered")
	ErrInvalidName     = errors.New("player name must not be empty")
	ErrDeckLimit       = errors.New("player already has the maximum number of decks")

	// Setting errors
	ErrIncompatiblePairingSystem = errors.New("setting does not apply to the pairing system")
	ErrIncompatibleScoringSystem = errors.New("setting does not apply to the scoring system")
	ErrInvalidSetting            = errors.New("invalid setting value")
)
