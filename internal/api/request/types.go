package request

import (
	"encoding/json"
	"time"

	"github.com/mcoot/tourney/internal/model"
)

// CreateTournamentRequest is the request body for creating a tournament
type CreateTournamentRequest struct {
	Name   string                 `json:"name"`
	Preset model.TournamentPreset `json:"preset"`
	Format string                 `json:"format,omitempty"`
}

// SubmitOperationRequest is the request body for appending to a log.
// ID and Timestamp are optional; the server fills them in when missing.
type SubmitOperationRequest struct {
	ID        *model.OpID     `json:"id,omitempty"`
	Timestamp *time.Time      `json:"timestamp,omitempty"`
	Kind      model.OpKind    `json:"kind"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Operation decodes the request into an unsequenced operation
func (r SubmitOperationRequest) Operation() (model.Operation, error) {
	action, err := model.DecodeAction(r.Kind, r.Data)
	if err != nil {
		return model.Operation{}, err
	}
	op := model.Operation{Action: action}
	if r.ID != nil {
		op.ID = *r.ID
	}
	if r.Timestamp != nil {
		op.Timestamp = *r.Timestamp
	}
	return op, nil
}

// RollbackRequest is the request body for rolling back a log
// To below zero empties the log.
type RollbackRequest struct {
	To int64 `json:"to"`
}
