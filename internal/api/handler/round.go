package handler

import (
	"net/http"

	"github.com/mcoot/tourney/internal/api/response"
	"github.com/mcoot/tourney/internal/services/manager"
)

// RoundHandler serves read-only views of a tournament's rounds
type RoundHandler struct {
	manager *manager.Manager
}

// NewRoundHandler creates a new round handler
func NewRoundHandler(manager *manager.Manager) *RoundHandler {
	return &RoundHandler{manager: manager}
}

// List handles GET /api/v1/tournaments/{id}/rounds
func (h *RoundHandler) List(w http.ResponseWriter, r *http.Request) {
	tourn, ok := snapshot(h.manager, w, r)
	if !ok {
		return
	}
	response.JSON(w, http.StatusOK, response.RoundsFromModel(tourn.Rounds.All(), tourn.UseTableNumbers))
}

// Get handles GET /api/v1/tournaments/{id}/rounds/{round}
func (h *RoundHandler) Get(w http.ResponseWriter, r *http.Request) {
	tourn, ok := snapshot(h.manager, w, r)
	if !ok {
		return
	}

	ident, err := roundIdent(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	round, err := tourn.Round(ident)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.RoundFromModel(round, tourn.UseTableNumbers))
}
