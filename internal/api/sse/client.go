package sse

import (
	"net/http"
	"time"

	"github.com/mcoot/tourney/internal/model"
)

const (
	// Time between keepalive pings
	pingPeriod = 30 * time.Second

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// Client represents a connected SSE client
type Client struct {
	hub         *Hub
	remoteAddr  string
	connectedAt time.Time
	send        chan Event
}

// NewClient creates a new SSE client
func NewClient(hub *Hub, remoteAddr string) *Client {
	return &Client{
		hub:         hub,
		remoteAddr:  remoteAddr,
		connectedAt: time.Now(),
		send:        make(chan Event, sendBufferSize),
	}
}

// Backlog returns the events a client missed before connecting. It is
// called after the client is registered, so nothing committed in between
// is lost; overlap with live events is skipped by sequence number.
type Backlog func() ([]Event, error)

// ServeSSE handles the SSE connection for a client of a tournament's stream
func ServeSSE(w http.ResponseWriter, r *http.Request, hubs *HubManager, id model.TournamentID, backlog Backlog) {
	// Check if SSE is supported
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	// Create and register client
	client, ok := hubs.Join(id, r.RemoteAddr)
	if !ok {
		http.Error(w, "Tournament stream closed", http.StatusGone)
		return
	}

	// Ensure cleanup on disconnect
	defer client.hub.Unregister(client)

	var missed []Event
	if backlog != nil {
		var err error
		if missed, err = backlog(); err != nil {
			http.Error(w, "Failed to read log", http.StatusInternalServerError)
			return
		}
	}

	// Streams outlive the server's write timeout
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	// Send initial connection event
	_, _ = w.Write(Event{Name: EventConnected, Data: `{"status":"connected"}`}.Bytes())

	var last uint64
	for _, event := range missed {
		if _, err := w.Write(event.Bytes()); err != nil {
			return
		}
		last = max(last, event.Seq)
	}
	flusher.Flush()

	// Create ticker for keepalive
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	// Handle client connection
	for {
		select {
		case event, ok := <-client.send:
			if !ok {
				// Hub closed the channel
				return
			}
			switch {
			case event.Name == EventReset:
				last = event.Seq
			case event.Name == EventOp && event.Seq <= last:
				// Already sent from the backlog
				continue
			case event.Name == EventOp:
				last = event.Seq
			}
			if _, err := w.Write(event.Bytes()); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			// Send keepalive comment
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			// Client disconnected
			return
		}
	}
}
