package model

// PlayerStatus tracks a player's participation
type PlayerStatus string

const (
	PlayerRegistered PlayerStatus = "registered"
	PlayerCheckedIn  PlayerStatus = "checked_in"
	PlayerDropped    PlayerStatus = "dropped"
)

// Card is a single entry of a decklist
type Card struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Deck is a registered decklist
type Deck struct {
	Mainboard []Card `json:"mainboard"`
	Sideboard []Card `json:"sideboard,omitempty"`
}

// Player is a tournament participant. Players are never removed, only dropped.
type Player struct {
	ID       PlayerID        `json:"id"`
	Name     string          `json:"name"`
	GameName *string         `json:"game_name,omitempty"`
	Status   PlayerStatus    `json:"status"`
	Decks    map[string]Deck `json:"decks"`
}

// NewPlayer creates a registered player with no decks
func NewPlayer(id PlayerID, name string) *Player {
	return &Player{
		ID:     id,
		Name:   name,
		Status: PlayerRegistered,
		Decks:  make(map[string]Deck),
	}
}

// IsActive reports whether the player is still in the tournament
func (p *Player) IsActive() bool {
	return p.Status != PlayerDropped
}

// AddDeck registers or replaces a deck under the given name
func (p *Player) AddDeck(name string, deck Deck) {
	p.Decks[name] = deck
}

// RemoveDeck removes a deck by name
func (p *Player) RemoveDeck(name string) error {
	if _, ok := p.Decks[name]; !ok {
		return ErrDeckLookup
	}
	delete(p.Decks, name)
	return nil
}

// Clone returns a deep copy of the player
func (p *Player) Clone() *Player {
	c := *p
	if p.GameName != nil {
		tag := *p.GameName
		c.GameName = &tag
	}
	c.Decks = make(map[string]Deck, len(p.Decks))
	for name, deck := range p.Decks {
		c.Decks[name] = Deck{
			Mainboard: append([]Card(nil), deck.Mainboard...),
			Sideboard: append([]Card(nil), deck.Sideboard...),
		}
	}
	return &c
}
