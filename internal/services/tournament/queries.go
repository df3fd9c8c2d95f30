package tournament

import (
	"github.com/mcoot/tourney/internal/model"
)

// Player resolves a player by ID or name
func (t *Tournament) Player(ident model.PlayerIdentifier) (*model.Player, error) {
	return t.Players.Get(ident)
}

// Round resolves a round by ID or match number
func (t *Tournament) Round(ident model.RoundIdentifier) (*model.Round, error) {
	return t.Rounds.Get(ident)
}

// ActivePlayers returns the players who have not dropped
func (t *Tournament) ActivePlayers() []*model.Player {
	return t.Players.Active()
}

// PlayerDecks returns a player's registered decks
func (t *Tournament) PlayerDecks(ident model.PlayerIdentifier) (map[string]model.Deck, error) {
	p, err := t.Players.Get(ident)
	if err != nil {
		return nil, err
	}
	return p.Clone().Decks, nil
}

// AllDecks returns every player's decks keyed by player ID
func (t *Tournament) AllDecks() map[model.PlayerID]map[string]model.Deck {
	out := make(map[model.PlayerID]map[string]model.Deck, t.Players.Len())
	for _, p := range t.Players.All() {
		out[p.ID] = p.Clone().Decks
	}
	return out
}

// PlayerRounds returns every round the player took part in, oldest first
func (t *Tournament) PlayerRounds(ident model.PlayerIdentifier) ([]*model.Round, error) {
	p, err := t.Players.Get(ident)
	if err != nil {
		return nil, err
	}
	return t.Rounds.PlayerRounds(p.ID), nil
}

// LatestPlayerRound returns the player's most recent round
func (t *Tournament) LatestPlayerRound(ident model.PlayerIdentifier) (*model.Round, error) {
	rounds, err := t.PlayerRounds(ident)
	if err != nil {
		return nil, err
	}
	if len(rounds) == 0 {
		return nil, model.ErrRoundLookup
	}
	return rounds[len(rounds)-1], nil
}
