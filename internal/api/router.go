package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/tourney/internal/api/handler"
	"github.com/mcoot/tourney/internal/api/middleware"
	"github.com/mcoot/tourney/internal/api/sse"
	"github.com/mcoot/tourney/internal/services/manager"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger  *slog.Logger
	Manager *manager.Manager
	// Hubs serves the event streams. If nil, the router creates one and
	// registers it with the manager.
	Hubs *sse.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	hubs := cfg.Hubs
	if hubs == nil {
		hubs = sse.NewHubManager(cfg.Logger)
		cfg.Manager.Observe(sse.NewBroadcaster(hubs, cfg.Logger))
	}

	// Create handlers
	tournamentHandler := handler.NewTournamentHandler(cfg.Manager)
	playerHandler := handler.NewPlayerHandler(cfg.Manager)
	roundHandler := handler.NewRoundHandler(cfg.Manager)
	eventsHandler := handler.NewEventsHandler(cfg.Manager, hubs)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	// Tournament routes
	api.HandleFunc("/tournaments", tournamentHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/tournaments", tournamentHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/tournaments/import", tournamentHandler.Import).Methods(http.MethodPost)

	tournaments := api.PathPrefix("/tournaments/{id}").Subrouter()
	tournaments.HandleFunc("", tournamentHandler.Get).Methods(http.MethodGet)
	tournaments.HandleFunc("", tournamentHandler.Delete).Methods(http.MethodDelete)
	tournaments.HandleFunc("/standings", tournamentHandler.Standings).Methods(http.MethodGet)

	// Log routes
	tournaments.HandleFunc("/ops", tournamentHandler.Submit).Methods(http.MethodPost)
	tournaments.HandleFunc("/ops", tournamentHandler.Slice).Methods(http.MethodGet)
	tournaments.HandleFunc("/log", tournamentHandler.Log).Methods(http.MethodGet)
	tournaments.HandleFunc("/sync", tournamentHandler.Sync).Methods(http.MethodPost)
	tournaments.HandleFunc("/rollback", tournamentHandler.Rollback).Methods(http.MethodPost)
	tournaments.HandleFunc("/events", eventsHandler.Stream).Methods(http.MethodGet)

	// Player routes; counts is registered before the {player} match
	tournaments.HandleFunc("/players", playerHandler.List).Methods(http.MethodGet)
	tournaments.HandleFunc("/players/counts", playerHandler.Counts).Methods(http.MethodGet)
	tournaments.HandleFunc("/players/{player}", playerHandler.Get).Methods(http.MethodGet)
	tournaments.HandleFunc("/players/{player}/decks", playerHandler.Decks).Methods(http.MethodGet)
	tournaments.HandleFunc("/players/{player}/rounds", playerHandler.Rounds).Methods(http.MethodGet)
	tournaments.HandleFunc("/players/{player}/rounds/latest", playerHandler.LatestRound).Methods(http.MethodGet)
	tournaments.HandleFunc("/decks", playerHandler.AllDecks).Methods(http.MethodGet)

	// Round routes
	tournaments.HandleFunc("/rounds", roundHandler.List).Methods(http.MethodGet)
	tournaments.HandleFunc("/rounds/{round}", roundHandler.Get).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
