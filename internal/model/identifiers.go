package model

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// PlayerIdentifier refers to a player either by ID or by name
type PlayerIdentifier struct {
	ID   *PlayerID `json:"id,omitempty"`
	Name string    `json:"name,omitempty"`
}

// PlayerByID identifies a player by ID
func PlayerByID(id PlayerID) PlayerIdentifier {
	return PlayerIdentifier{ID: &id}
}

// PlayerByName identifies a player by registered name
func PlayerByName(name string) PlayerIdentifier {
	return PlayerIdentifier{Name: name}
}

func (p PlayerIdentifier) String() string {
	if p.ID != nil {
		return p.ID.String()
	}
	return p.Name
}

// RoundIdentifier refers to a round either by ID or by match number
type RoundIdentifier struct {
	ID     *RoundID `json:"id,omitempty"`
	Number uint64   `json:"number,omitempty"`
}

// RoundByID identifies a round by ID
func RoundByID(id RoundID) RoundIdentifier {
	return RoundIdentifier{ID: &id}
}

// RoundByNumber identifies a round by match number
func RoundByNumber(n uint64) RoundIdentifier {
	return RoundIdentifier{Number: n}
}

func (r RoundIdentifier) String() string {
	if r.ID != nil {
		return r.ID.String()
	}
	return fmt.Sprintf("#%d", r.Number)
}

// NormalizeName canonicalises a player name for comparison
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}
