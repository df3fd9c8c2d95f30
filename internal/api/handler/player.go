package handler

import (
	"net/http"

	"github.com/mcoot/tourney/internal/api/response"
	"github.com/mcoot/tourney/internal/services/manager"
	"github.com/mcoot/tourney/internal/services/tournament"
)

// PlayerHandler serves read-only views of a tournament's roster
type PlayerHandler struct {
	manager *manager.Manager
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(manager *manager.Manager) *PlayerHandler {
	return &PlayerHandler{manager: manager}
}

// snapshot loads the tournament named in the path, writing the error if
// there is one
func snapshot(m *manager.Manager, w http.ResponseWriter, r *http.Request) (*tournament.Tournament, bool) {
	id, err := tournamentID(r)
	if err != nil {
		WriteError(w, err)
		return nil, false
	}
	tourn, err := m.Get(id)
	if err != nil {
		WriteError(w, err)
		return nil, false
	}
	return tourn, true
}

// List handles GET /api/v1/tournaments/{id}/players[?active=true]
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	tourn, ok := snapshot(h.manager, w, r)
	if !ok {
		return
	}

	players := tourn.Players.All()
	if r.URL.Query().Get("active") == "true" {
		players = tourn.ActivePlayers()
	}
	response.JSON(w, http.StatusOK, response.PlayersFromModel(players))
}

// Counts handles GET /api/v1/tournaments/{id}/players/counts
func (h *PlayerHandler) Counts(w http.ResponseWriter, r *http.Request) {
	tourn, ok := snapshot(h.manager, w, r)
	if !ok {
		return
	}
	response.JSON(w, http.StatusOK, response.PlayerCountsFromModel(tourn.Players.All()))
}

// Get handles GET /api/v1/tournaments/{id}/players/{player}
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	tourn, ok := snapshot(h.manager, w, r)
	if !ok {
		return
	}

	player, err := tourn.Player(playerIdent(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// Decks handles GET /api/v1/tournaments/{id}/players/{player}/decks
func (h *PlayerHandler) Decks(w http.ResponseWriter, r *http.Request) {
	tourn, ok := snapshot(h.manager, w, r)
	if !ok {
		return
	}

	decks, err := tourn.PlayerDecks(playerIdent(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Decks{Decks: decks})
}

// AllDecks handles GET /api/v1/tournaments/{id}/decks
func (h *PlayerHandler) AllDecks(w http.ResponseWriter, r *http.Request) {
	tourn, ok := snapshot(h.manager, w, r)
	if !ok {
		return
	}
	response.JSON(w, http.StatusOK, response.AllDecks{Players: tourn.AllDecks()})
}

// Rounds handles GET /api/v1/tournaments/{id}/players/{player}/rounds
func (h *PlayerHandler) Rounds(w http.ResponseWriter, r *http.Request) {
	tourn, ok := snapshot(h.manager, w, r)
	if !ok {
		return
	}

	rounds, err := tourn.PlayerRounds(playerIdent(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.RoundsFromModel(rounds, tourn.UseTableNumbers))
}

// LatestRound handles GET /api/v1/tournaments/{id}/players/{player}/rounds/latest
func (h *PlayerHandler) LatestRound(w http.ResponseWriter, r *http.Request) {
	tourn, ok := snapshot(h.manager, w, r)
	if !ok {
		return
	}

	round, err := tourn.LatestPlayerRound(playerIdent(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.RoundFromModel(round, tourn.UseTableNumbers))
}
