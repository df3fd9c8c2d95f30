package handler

import (
	"net/http"
	"strconv"

	"github.com/mcoot/tourney/internal/api/sse"
	"github.com/mcoot/tourney/internal/services/manager"
)

// EventsHandler streams a tournament's committed operations
type EventsHandler struct {
	manager *manager.Manager
	hubs    *sse.HubManager
}

// NewEventsHandler creates a new EventsHandler
func NewEventsHandler(manager *manager.Manager, hubs *sse.HubManager) *EventsHandler {
	return &EventsHandler{manager: manager, hubs: hubs}
}

// Stream handles GET /api/v1/tournaments/{id}/events[?from=N]. Operations
// from seq N onwards are replayed before live events; a Last-Event-ID
// header resumes after that seq.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	id, err := tournamentID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	from, err := uintQuery(r, "from", 0)
	if err != nil {
		WriteError(w, err)
		return
	}
	if lastID := r.Header.Get("Last-Event-ID"); lastID != "" {
		seq, err := strconv.ParseUint(lastID, 10, 64)
		if err != nil {
			WriteError(w, NewInvalidRequestError("Invalid Last-Event-ID header"))
			return
		}
		from = seq + 1
	}

	if _, err := h.manager.Get(id); err != nil {
		WriteError(w, err)
		return
	}

	sse.ServeSSE(w, r, h.hubs, id, func() ([]sse.Event, error) {
		if from == 0 {
			return nil, nil
		}
		ops, err := h.manager.Slice(id, from, ^uint64(0))
		if err != nil {
			return nil, err
		}
		events := make([]sse.Event, 0, len(ops))
		for _, op := range ops {
			event, err := sse.OpEvent(op)
			if err != nil {
				return nil, err
			}
			events = append(events, event)
		}
		return events, nil
	})
}
