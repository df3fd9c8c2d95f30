package model

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
)

// ID is a UUID tagged with the kind of entity it identifies.
// IDs of different entities are distinct types and cannot be mixed up.
type ID[T any] uuid.UUID

// Entity markers for entities that live outside this package
type (
	tournamentEntity struct{}
	operationEntity  struct{}
)

// PlayerID identifies a player within a tournament
type PlayerID = ID[Player]

// RoundID identifies a round within a tournament
type RoundID = ID[Round]

// TournamentID identifies a tournament and its operation log
type TournamentID = ID[tournamentEntity]

// OpID identifies a single operation
type OpID = ID[operationEntity]

// NewID returns a fresh random ID
func NewID[T any]() ID[T] {
	return ID[T](uuid.New())
}

// DeriveID returns a name-based ID scoped by parent.
// The same parent and name always produce the same ID.
func DeriveID[T any](parent uuid.UUID, name string) ID[T] {
	return ID[T](uuid.NewSHA1(parent, []byte(name)))
}

// ParseID parses the canonical string form of an ID
func ParseID[T any](s string) (ID[T], error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ID[T]{}, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return ID[T](u), nil
}

// UUID returns the untagged UUID
func (id ID[T]) UUID() uuid.UUID {
	return uuid.UUID(id)
}

// IsNil reports whether the ID is the zero UUID
func (id ID[T]) IsNil() bool {
	return uuid.UUID(id) == uuid.Nil
}

// Compare orders IDs by their bytes
func (id ID[T]) Compare(other ID[T]) int {
	return bytes.Compare(id[:], other[:])
}

func (id ID[T]) String() string {
	return uuid.UUID(id).String()
}

func (id ID[T]) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

func (id *ID[T]) UnmarshalText(data []byte) error {
	var u uuid.UUID
	if err := u.UnmarshalText(data); err != nil {
		return err
	}
	*id = ID[T](u)
	return nil
}

// NewTournamentID returns a fresh tournament ID
func NewTournamentID() TournamentID {
	return NewID[tournamentEntity]()
}

// NewOpID returns a fresh operation ID
func NewOpID() OpID {
	return NewID[operationEntity]()
}

// ParseTournamentID parses a tournament ID
func ParseTournamentID(s string) (TournamentID, error) {
	return ParseID[tournamentEntity](s)
}

// ParseOpID parses an operation ID
func ParseOpID(s string) (OpID, error) {
	return ParseID[operationEntity](s)
}
