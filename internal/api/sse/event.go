package sse

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/mcoot/tourney/internal/model"
)

// Event names sent on a tournament's stream
const (
	EventConnected = "connected"
	EventOp        = "op"
	EventReset     = "reset"
	EventDeleted   = "deleted"
)

// Event is one message on a tournament's stream. Seq is the log position
// after the event: the op's sequence number, or the new log length for a
// reset. It is zero for events that do not move the log.
type Event struct {
	Name string
	Seq  uint64
	Data string
}

// OpEvent describes a committed operation
func OpEvent(op model.Operation) (Event, error) {
	data, err := json.Marshal(op)
	if err != nil {
		return Event{}, err
	}
	return Event{Name: EventOp, Seq: op.Seq, Data: string(data)}, nil
}

// ResetEvent tells clients the log was rewritten and now has length ops.
// Clients holding later operations should refetch from length+1.
func ResetEvent(length int) Event {
	return Event{
		Name: EventReset,
		Seq:  uint64(length),
		Data: `{"length":` + strconv.Itoa(length) + `}`,
	}
}

// Bytes formats the event for the wire. Op events carry their sequence
// number as the event ID so a reconnecting client can resume with
// Last-Event-ID.
func (e Event) Bytes() []byte {
	var b strings.Builder
	if e.Name == EventOp {
		b.WriteString("id: " + strconv.FormatUint(e.Seq, 10) + "\n")
	}
	b.WriteString("event: " + e.Name + "\n")
	for _, line := range splitLines(e.Data) {
		b.WriteString("data: " + line + "\n")
	}
	b.WriteString("\n")
	return []byte(b.String())
}

// splitLines splits a string into lines, handling various line endings
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r", "")
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	return lines
}
