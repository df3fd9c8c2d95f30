package model

import "encoding/json"

// PlayerRegistry holds a tournament's players in registration order
type PlayerRegistry struct {
	players map[PlayerID]*Player
	order   []PlayerID
}

// NewPlayerRegistry creates an empty registry
func NewPlayerRegistry() *PlayerRegistry {
	return &PlayerRegistry{players: make(map[PlayerID]*Player)}
}

// Add registers a new player. Names must be unique after normalisation.
func (r *PlayerRegistry) Add(id PlayerID, name string) (*Player, error) {
	name = NormalizeName(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if _, err := r.byName(name); err == nil {
		return nil, ErrPlayerExists
	}
	if _, ok := r.players[id]; ok {
		return nil, ErrPlayerExists
	}
	p := NewPlayer(id, name)
	r.players[id] = p
	r.order = append(r.order, id)
	return p, nil
}

// Get resolves an identifier to a player
func (r *PlayerRegistry) Get(ident PlayerIdentifier) (*Player, error) {
	if ident.ID != nil {
		p, ok := r.players[*ident.ID]
		if !ok {
			return nil, ErrPlayerLookup
		}
		return p, nil
	}
	return r.byName(NormalizeName(ident.Name))
}

// ByID looks a player up by ID
func (r *PlayerRegistry) ByID(id PlayerID) (*Player, error) {
	return r.Get(PlayerByID(id))
}

func (r *PlayerRegistry) byName(name string) (*Player, error) {
	for _, id := range r.order {
		if p := r.players[id]; p.Name == name {
			return p, nil
		}
	}
	return nil, ErrPlayerLookup
}

// Contains reports whether the ID belongs to a registered player
func (r *PlayerRegistry) Contains(id PlayerID) bool {
	_, ok := r.players[id]
	return ok
}

// All returns every player in registration order
func (r *PlayerRegistry) All() []*Player {
	out := make([]*Player, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.players[id])
	}
	return out
}

// Active returns the players who have not dropped
func (r *PlayerRegistry) Active() []*Player {
	var out []*Player
	for _, id := range r.order {
		if p := r.players[id]; p.IsActive() {
			out = append(out, p)
		}
	}
	return out
}

// Len returns the number of registered players, dropped included
func (r *PlayerRegistry) Len() int {
	return len(r.order)
}

// Position returns the registration index of the player, or -1
func (r *PlayerRegistry) Position(id PlayerID) int {
	for i, pid := range r.order {
		if pid == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the registry
func (r *PlayerRegistry) Clone() *PlayerRegistry {
	c := &PlayerRegistry{
		players: make(map[PlayerID]*Player, len(r.players)),
		order:   append([]PlayerID(nil), r.order...),
	}
	for id, p := range r.players {
		c.players[id] = p.Clone()
	}
	return c
}

func (r *PlayerRegistry) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.All())
}

func (r *PlayerRegistry) UnmarshalJSON(data []byte) error {
	var players []*Player
	if err := json.Unmarshal(data, &players); err != nil {
		return err
	}
	*r = *NewPlayerRegistry()
	for _, p := range players {
		if p.Decks == nil {
			p.Decks = make(map[string]Deck)
		}
		r.players[p.ID] = p
		r.order = append(r.order, p.ID)
	}
	return nil
}
