package sse

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/tourney/internal/model"
)

// Hub manages SSE clients for a single tournament
type Hub struct {
	tournamentID model.TournamentID
	clients      map[*Client]bool
	mu           sync.RWMutex
	logger       *slog.Logger

	// Channels for managing clients
	register   chan *Client
	unregister chan *Client
	broadcast  chan Event
	done       chan struct{}
	closeOnce  sync.Once
}

// NewHub creates a new Hub for a tournament
func NewHub(id model.TournamentID, logger *slog.Logger) *Hub {
	return &Hub{
		tournamentID: id,
		clients:      make(map[*Client]bool),
		logger:       logger.With(slog.String("tournament_id", id.String())),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		broadcast:    make(chan Event, 256),
		done:         make(chan struct{}),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	h.logger.Debug("sse hub started")
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			clientCount := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("sse client registered",
				slog.String("remote_addr", client.remoteAddr),
				slog.Int("total_clients", clientCount))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				clientCount := len(h.clients)
				h.mu.Unlock()
				h.logger.Info("sse client unregistered",
					slog.String("remote_addr", client.remoteAddr),
					slog.Duration("connection_duration", time.Since(client.connectedAt)),
					slog.Int("total_clients", clientCount))
			} else {
				h.mu.Unlock()
			}

		case event := <-h.broadcast:
			h.send(event)

		case <-h.done:
			// Deliver anything queued before the close, e.g. a deleted event
			for drained := false; !drained; {
				select {
				case event := <-h.broadcast:
					h.send(event)
				default:
					drained = true
				}
			}
			h.mu.Lock()
			clientCount := len(h.clients)
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Debug("sse hub stopped", slog.Int("disconnected_clients", clientCount))
			return
		}
	}
}

func (h *Hub) send(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	dropped := 0
	for client := range h.clients {
		select {
		case client.send <- event:
		default:
			dropped++
			h.logger.Warn("sse message dropped - client buffer full",
				slog.String("remote_addr", client.remoteAddr))
		}
	}
	if dropped > 0 {
		h.logger.Warn("sse broadcast partial failure",
			slog.Int("sent", len(h.clients)-dropped),
			slog.Int("dropped", dropped))
	}
}

// Register adds a client to the hub. It returns false if the hub has
// already been closed.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast sends an event to all clients
func (h *Hub) Broadcast(event Event) {
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("sse broadcast dropped - hub buffer full",
			slog.String("event", event.Name))
	}
}

// Close shuts down the hub
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

func (h *Hub) closed() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HubManager manages hubs for all tournaments
type HubManager struct {
	hubs   map[model.TournamentID]*Hub
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewHubManager creates a new HubManager
func NewHubManager(logger *slog.Logger) *HubManager {
	return &HubManager{
		hubs:   make(map[model.TournamentID]*Hub),
		logger: logger.With(slog.String("component", "sse")),
	}
}

// GetOrCreateHub returns the open hub for a tournament, creating one if it
// doesn't exist or has been closed
func (m *HubManager) GetOrCreateHub(id model.TournamentID) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[id]; ok && !hub.closed() {
		return hub
	}

	hub := NewHub(id, m.logger)
	m.hubs[id] = hub
	go hub.Run()
	return hub
}

// Join registers a new client with the tournament's hub. If the hub is
// closed between lookup and registration, as cleanup may do, a fresh hub is
// tried once more.
func (m *HubManager) Join(id model.TournamentID, remoteAddr string) (*Client, bool) {
	for range 2 {
		hub := m.GetOrCreateHub(id)
		client := NewClient(hub, remoteAddr)
		if hub.Register(client) {
			return client, true
		}
	}
	return nil, false
}

// GetHub returns the hub for a tournament, or nil if it doesn't exist
func (m *HubManager) GetHub(id model.TournamentID) *Hub {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hubs[id]
}

// RemoveHub removes and closes a hub
func (m *HubManager) RemoveHub(id model.TournamentID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[id]; ok {
		hub.Close()
		delete(m.hubs, id)
		m.logger.Info("sse hub removed", slog.String("tournament_id", id.String()))
	}
}

// CleanupEmptyHubs removes hubs with no clients
func (m *HubManager) CleanupEmptyHubs() {
	m.mu.Lock()
	defer m.mu.Unlock()

	removedCount := 0
	for id, hub := range m.hubs {
		if hub.ClientCount() == 0 {
			hub.Close()
			delete(m.hubs, id)
			removedCount++
		}
	}
	if removedCount > 0 {
		m.logger.Info("sse empty hubs cleaned up", slog.Int("removed", removedCount))
	}
}

// RunCleanup removes empty hubs every interval until ctx is done
func (m *HubManager) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.CleanupEmptyHubs()
		case <-ctx.Done():
			return
		}
	}
}

// Close shuts down every hub
func (m *HubManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, hub := range m.hubs {
		hub.Close()
		delete(m.hubs, id)
	}
}
