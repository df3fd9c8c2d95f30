package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/tourney/internal/model"
)

func tournamentID(r *http.Request) (model.TournamentID, error) {
	id, err := model.ParseTournamentID(mux.Vars(r)["id"])
	if err != nil {
		return model.TournamentID{}, NewInvalidRequestError("Invalid tournament ID")
	}
	return id, nil
}

// playerIdent reads the {player} path variable as an ID, or else a name
func playerIdent(r *http.Request) model.PlayerIdentifier {
	raw := mux.Vars(r)["player"]
	if id, err := model.ParseID[model.Player](raw); err == nil {
		return model.PlayerByID(id)
	}
	return model.PlayerByName(raw)
}

// roundIdent reads the {round} path variable as an ID, or else a match number
func roundIdent(r *http.Request) (model.RoundIdentifier, error) {
	raw := mux.Vars(r)["round"]
	if id, err := model.ParseID[model.Round](raw); err == nil {
		return model.RoundByID(id), nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return model.RoundIdentifier{}, NewInvalidRequestError("Round must be an ID or a match number")
	}
	return model.RoundByNumber(n), nil
}

// uintQuery reads an optional unsigned query parameter
func uintQuery(r *http.Request, name string, fallback uint64) (uint64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, NewInvalidRequestError("Invalid " + name + " parameter")
	}
	return v, nil
}
