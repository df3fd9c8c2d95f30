package handler

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strings"

	"github.com/mcoot/tourney/internal/api/request"
	"github.com/mcoot/tourney/internal/api/response"
	"github.com/mcoot/tourney/internal/model"
	"github.com/mcoot/tourney/internal/services/manager"
)

// TournamentHandler handles tournament and log endpoints
type TournamentHandler struct {
	manager *manager.Manager
}

// NewTournamentHandler creates a new tournament handler
func NewTournamentHandler(manager *manager.Manager) *TournamentHandler {
	return &TournamentHandler{manager: manager}
}

// Create handles POST /api/v1/tournaments
func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateTournamentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		WriteError(w, NewInvalidRequestError("Name is required"))
		return
	}
	if req.Preset == "" {
		req.Preset = model.PresetSwiss
	}

	tourn, err := h.manager.Create(r.Context(), req.Name, req.Preset, req.Format)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, "/api/v1/tournaments/"+tourn.ID.String(), response.TournamentFromModel(tourn))
}

// Import handles POST /api/v1/tournaments/import
func (h *TournamentHandler) Import(w http.ResponseWriter, r *http.Request) {
	var doc model.LogDocument
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid log document: "+err.Error()))
		return
	}

	tourn, err := h.manager.Load(r.Context(), doc)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, "/api/v1/tournaments/"+tourn.ID.String(), response.TournamentFromModel(tourn))
}

// List handles GET /api/v1/tournaments
func (h *TournamentHandler) List(w http.ResponseWriter, r *http.Request) {
	tourns := h.manager.List()
	resp := response.TournamentList{Tournaments: make([]response.Tournament, 0, len(tourns))}
	for _, t := range tourns {
		resp.Tournaments = append(resp.Tournaments, response.TournamentFromModel(t))
	}
	response.JSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/tournaments/{id}
func (h *TournamentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := tournamentID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	tourn, err := h.manager.Get(id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.TournamentFromModel(tourn))
}

// Delete handles DELETE /api/v1/tournaments/{id}
func (h *TournamentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := tournamentID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.manager.Delete(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Standings handles GET /api/v1/tournaments/{id}/standings
func (h *TournamentHandler) Standings(w http.ResponseWriter, r *http.Request) {
	id, err := tournamentID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	standings, err := h.manager.Standings(id)
	if err != nil {
		WriteError(w, err)
		return
	}
	if standings.Entries == nil {
		standings.Entries = []model.Standing{}
	}

	response.JSON(w, http.StatusOK, standings)
}

// Submit handles POST /api/v1/tournaments/{id}/ops
func (h *TournamentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, err := tournamentID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req request.SubmitOperationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}
	op, err := req.Operation()
	if err != nil {
		if !errors.Is(err, model.ErrUnknownOperation) {
			err = NewInvalidRequestError("Invalid operation data: " + err.Error())
		}
		WriteError(w, err)
		return
	}

	committed, outcome, err := h.manager.Append(r.Context(), id, op)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.OperationResult{
		Operation: committed,
		Outcome:   outcome,
	})
}

// Slice handles GET /api/v1/tournaments/{id}/ops?from=&to=
func (h *TournamentHandler) Slice(w http.ResponseWriter, r *http.Request) {
	id, err := tournamentID(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	from, err := uintQuery(r, "from", 1)
	if err != nil {
		WriteError(w, err)
		return
	}
	to, err := uintQuery(r, "to", math.MaxUint64)
	if err != nil {
		WriteError(w, err)
		return
	}

	ops, err := h.manager.Slice(id, from, to)
	if err != nil {
		WriteError(w, err)
		return
	}
	if ops == nil {
		ops = []model.Operation{}
	}

	response.JSON(w, http.StatusOK, response.OperationList{Ops: ops})
}

// Log handles GET /api/v1/tournaments/{id}/log
func (h *TournamentHandler) Log(w http.ResponseWriter, r *http.Request) {
	id, err := tournamentID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	doc, err := h.manager.Document(id)
	if err != nil {
		WriteError(w, err)
		return
	}
	if doc.Ops == nil {
		doc.Ops = []model.Operation{}
	}

	response.JSON(w, http.StatusOK, doc)
}

// Sync handles POST /api/v1/tournaments/{id}/sync
func (h *TournamentHandler) Sync(w http.ResponseWriter, r *http.Request) {
	id, err := tournamentID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var remote model.LogDocument
	if err := json.NewDecoder(r.Body).Decode(&remote); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid log document: "+err.Error()))
		return
	}

	report, err := h.manager.Sync(r.Context(), id, remote)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SyncReportFromModel(report))
}

// Rollback handles POST /api/v1/tournaments/{id}/rollback
func (h *TournamentHandler) Rollback(w http.ResponseWriter, r *http.Request) {
	id, err := tournamentID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req request.RollbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	tourn, err := h.manager.Rollback(r.Context(), id, uint64(max(req.To, 0)))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.TournamentFromModel(tourn))
}
