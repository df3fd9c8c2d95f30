package model

import (
	"encoding/json"
	"time"
)

// RoundRegistry holds a tournament's rounds in creation order
type RoundRegistry struct {
	rounds        map[RoundID]*Round
	order         []RoundID
	StartingTable uint64
	RoundLength   time.Duration
}

// NewRoundRegistry creates an empty registry
func NewRoundRegistry(startingTable uint64, length time.Duration) *RoundRegistry {
	return &RoundRegistry{
		rounds:        make(map[RoundID]*Round),
		StartingTable: startingTable,
		RoundLength:   length,
	}
}

// Create adds an open round for the given players. Match numbers start at 1
// and the table is the lowest one not used by an active round.
func (r *RoundRegistry) Create(id RoundID, players []PlayerID, startedAt time.Time) *Round {
	round := NewRound(id, uint64(len(r.order))+1, r.freeTable(), players, startedAt, r.RoundLength)
	r.rounds[id] = round
	r.order = append(r.order, id)
	return round
}

func (r *RoundRegistry) freeTable() uint64 {
	used := make(map[uint64]bool)
	for _, round := range r.rounds {
		if round.IsActive() {
			used[round.TableNumber] = true
		}
	}
	table := r.StartingTable
	for used[table] {
		table++
	}
	return table
}

// Get resolves an identifier to a round
func (r *RoundRegistry) Get(ident RoundIdentifier) (*Round, error) {
	if ident.ID != nil {
		round, ok := r.rounds[*ident.ID]
		if !ok {
			return nil, ErrRoundLookup
		}
		return round, nil
	}
	if ident.Number == 0 || ident.Number > uint64(len(r.order)) {
		return nil, ErrRoundLookup
	}
	return r.rounds[r.order[ident.Number-1]], nil
}

// ActiveRound returns the player's open or uncertified round
func (r *RoundRegistry) ActiveRound(id PlayerID) (*Round, error) {
	for i := len(r.order) - 1; i >= 0; i-- {
		round := r.rounds[r.order[i]]
		if round.IsActive() && round.HasPlayer(id) {
			return round, nil
		}
	}
	return nil, ErrRoundLookup
}

// PlayerRounds returns every round the player took part in, oldest first
func (r *RoundRegistry) PlayerRounds(id PlayerID) []*Round {
	var out []*Round
	for _, rid := range r.order {
		if round := r.rounds[rid]; round.HasPlayer(id) {
			out = append(out, round)
		}
	}
	return out
}

// All returns every round in creation order
func (r *RoundRegistry) All() []*Round {
	out := make([]*Round, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.rounds[id])
	}
	return out
}

// Len returns the number of rounds created
func (r *RoundRegistry) Len() int {
	return len(r.order)
}

// Meetings counts how many non-dead rounds each pair of players shared
func (r *RoundRegistry) Meetings() map[[2]PlayerID]int {
	out := make(map[[2]PlayerID]int)
	for _, id := range r.order {
		round := r.rounds[id]
		if round.Status == RoundDead {
			continue
		}
		for i, a := range round.Players {
			for _, b := range round.Players[i+1:] {
				out[PairKey(a, b)]++
			}
		}
	}
	return out
}

// PairKey returns an order-independent key for a pair of players
func PairKey(a, b PlayerID) [2]PlayerID {
	if a.Compare(b) > 0 {
		a, b = b, a
	}
	return [2]PlayerID{a, b}
}

// HadBye reports whether the player has received a bye
func (r *RoundRegistry) HadBye(id PlayerID) bool {
	for _, round := range r.rounds {
		if round.IsBye && round.Status != RoundDead && round.HasPlayer(id) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the registry
func (r *RoundRegistry) Clone() *RoundRegistry {
	c := NewRoundRegistry(r.StartingTable, r.RoundLength)
	c.order = append([]RoundID(nil), r.order...)
	for id, round := range r.rounds {
		c.rounds[id] = round.Clone()
	}
	return c
}

type roundRegistryJSON struct {
	StartingTable uint64        `json:"starting_table"`
	RoundLength   time.Duration `json:"round_length"`
	Rounds        []*Round      `json:"rounds"`
}

func (r *RoundRegistry) MarshalJSON() ([]byte, error) {
	return json.Marshal(roundRegistryJSON{
		StartingTable: r.StartingTable,
		RoundLength:   r.RoundLength,
		Rounds:        r.All(),
	})
}

func (r *RoundRegistry) UnmarshalJSON(data []byte) error {
	var raw roundRegistryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = *NewRoundRegistry(raw.StartingTable, raw.RoundLength)
	for _, round := range raw.Rounds {
		r.rounds[round.ID] = round
		r.order = append(r.order, round.ID)
	}
	return nil
}
