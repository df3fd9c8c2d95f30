package sse

import (
	"log/slog"

	"github.com/mcoot/tourney/internal/model"
)

// Broadcaster forwards committed log changes to the tournament's SSE
// clients. It implements manager.Observer.
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// OpCommitted sends the operation to every client of the tournament
func (b *Broadcaster) OpCommitted(id model.TournamentID, op model.Operation) {
	hub := b.hubManager.GetHub(id)
	if hub == nil {
		return
	}

	event, err := OpEvent(op)
	if err != nil {
		b.logger.Error("sse failed to encode operation",
			slog.String("tournament_id", id.String()),
			slog.String("op_id", op.ID.String()),
			slog.Any("error", err))
		return
	}
	hub.Broadcast(event)
}

// LogRewritten tells clients to refetch the log after a rollback or sync
func (b *Broadcaster) LogRewritten(id model.TournamentID, length int) {
	hub := b.hubManager.GetHub(id)
	if hub == nil {
		return
	}
	hub.Broadcast(ResetEvent(length))
}

// TournamentRemoved notifies clients and closes the tournament's hub
func (b *Broadcaster) TournamentRemoved(id model.TournamentID) {
	hub := b.hubManager.GetHub(id)
	if hub == nil {
		return
	}
	hub.Broadcast(Event{Name: EventDeleted, Data: `{"tournament_id":"` + id.String() + `"}`})
	b.hubManager.RemoveHub(id)
}
