package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/tourney/internal/model"
	"github.com/mcoot/tourney/internal/services/manager"
	"github.com/mcoot/tourney/internal/services/oplog"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeTournamentNotFound  = "TOURNAMENT_NOT_FOUND"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodeRoundNotFound       = "ROUND_NOT_FOUND"
	CodeDeckNotFound        = "DECK_NOT_FOUND"
	CodePlayerNotInRound    = "PLAYER_NOT_IN_ROUND"
	CodeInvalidBye          = "INVALID_BYE"
	CodeInvalidGameSize     = "INVALID_GAME_SIZE"
	CodeIncorrectStatus     = "INCORRECT_STATUS"
	CodeRegistrationClosed  = "REGISTRATION_CLOSED"
	CodePlayerExists        = "PLAYER_EXISTS"
	CodeInvalidName         = "INVALID_NAME"
	CodeIncompatiblePairing = "INCOMPATIBLE_PAIRING_SYSTEM"
	CodeIncompatibleScoring = "INCOMPATIBLE_SCORING_SYSTEM"
	CodeInvalidSetting      = "INVALID_SETTING"
	CodeDeckLimit           = "DECK_LIMIT"
	CodeUnknownOperation    = "UNKNOWN_OPERATION"
	CodeDuplicateOperation  = "DUPLICATE_OPERATION"
	CodeCorruptLog          = "CORRUPT_LOG"
	CodeTournamentMismatch  = "TOURNAMENT_MISMATCH"
	CodeDivergentLog        = "DIVERGENT_LOG"
	CodeAlreadyLoaded       = "ALREADY_LOADED"
	CodePersistenceFailed   = "PERSISTENCE_FAILED"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// mapping pairs a sentinel error with its status and code. Entries are
// checked in order, so errors that wrap others come first.
type mapping struct {
	target error
	status int
	code   string
}

var mappings = []mapping{
	// Log and manager errors can wrap the domain error that caused them
	{manager.ErrPersistence, http.StatusInternalServerError, CodePersistenceFailed},
	{manager.ErrAlreadyLoaded, http.StatusConflict, CodeAlreadyLoaded},
	{oplog.ErrCorruptLog, http.StatusUnprocessableEntity, CodeCorruptLog},
	{oplog.ErrDuplicateOp, http.StatusConflict, CodeDuplicateOperation},
	{oplog.ErrTournamentMismatch, http.StatusConflict, CodeTournamentMismatch},
	{oplog.ErrDivergentPrefix, http.StatusConflict, CodeDivergentLog},

	{model.ErrTournamentNotFound, http.StatusNotFound, CodeTournamentNotFound},
	{model.ErrPlayerLookup, http.StatusNotFound, CodePlayerNotFound},
	{model.ErrRoundLookup, http.StatusNotFound, CodeRoundNotFound},
	{model.ErrDeckLookup, http.StatusNotFound, CodeDeckNotFound},
	{model.ErrPlayerNotInRound, http.StatusConflict, CodePlayerNotInRound},
	{model.ErrInvalidBye, http.StatusConflict, CodeInvalidBye},
	{model.ErrInvalidGameSize, http.StatusUnprocessableEntity, CodeInvalidGameSize},
	{model.ErrIncorrectStatus, http.StatusConflict, CodeIncorrectStatus},
	{model.ErrRegClosed, http.StatusConflict, CodeRegistrationClosed},
	{model.ErrPlayerExists, http.StatusConflict, CodePlayerExists},
	{model.ErrInvalidName, http.StatusBadRequest, CodeInvalidName},
	{model.ErrDeckLimit, http.StatusConflict, CodeDeckLimit},
	{model.ErrIncompatiblePairingSystem, http.StatusUnprocessableEntity, CodeIncompatiblePairing},
	{model.ErrIncompatibleScoringSystem, http.StatusUnprocessableEntity, CodeIncompatibleScoring},
	{model.ErrInvalidSetting, http.StatusBadRequest, CodeInvalidSetting},
	{model.ErrUnknownOperation, http.StatusBadRequest, CodeUnknownOperation},
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	for _, m := range mappings {
		if !errors.Is(err, m.target) {
			continue
		}
		message := err.Error()
		if m.status == http.StatusInternalServerError {
			message = "Failed to save tournament"
		}
		return &httpError{m.status, APIError{m.code, message}}
	}
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
