package sse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/tourney/internal/model"
)

func TestEventBytes(t *testing.T) {
	tests := []struct {
		name     string
		event    Event
		expected string
	}{
		{
			name:     "single line data",
			event:    Event{Name: "connected", Data: `{"status":"connected"}`},
			expected: "event: connected\ndata: {\"status\":\"connected\"}\n\n",
		},
		{
			name:     "multi-line data",
			event:    Event{Name: "deleted", Data: "{\n  \"a\": 1\n}"},
			expected: "event: deleted\ndata: {\ndata:   \"a\": 1\ndata: }\n\n",
		},
		{
			name:     "empty data",
			event:    Event{Name: "ping"},
			expected: "event: ping\ndata: \n\n",
		},
		{
			name:     "op events carry their seq as the id",
			event:    Event{Name: EventOp, Seq: 12, Data: "{}"},
			expected: "id: 12\nevent: op\ndata: {}\n\n",
		},
		{
			name:     "reset",
			event:    ResetEvent(3),
			expected: "event: reset\ndata: {\"length\":3}\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.event.Bytes()))
		})
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"single line", "hello", []string{"hello"}},
		{"two lines", "line1\nline2", []string{"line1", "line2"}},
		{"trailing newline", "line1\n", []string{"line1"}},
		{"empty string", "", []string{""}},
		{"crlf line endings", "line1\r\nline2\r\n", []string{"line1", "line2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, splitLines(tt.input))
		})
	}
}

func TestOpEvent(t *testing.T) {
	op := model.NewOperation(model.NewOpID(), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), model.RegisterPlayer{Name: "Alice"})
	op.Seq = 4

	event, err := OpEvent(op)
	require.NoError(t, err)
	assert.Equal(t, EventOp, event.Name)
	assert.Equal(t, uint64(4), event.Seq)
	assert.Contains(t, event.Data, `"kind":"register_player"`)
	assert.Contains(t, event.Data, op.ID.String())
}
