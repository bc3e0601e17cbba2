package api

import (
	"encoding/json"
	"fmt"

	"musicsort/internal/model"
)

// WireStep is a step in the renderer's data model: a three element array
// [snapshot, indexA, indexB] where snapshot holds display names.
type WireStep model.Step

func (s WireStep) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]any{s.Snapshot.Names(), s.IndexA, s.IndexB})
}

func (s *WireStep) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 3 {
		return fmt.Errorf("step must have 3 elements, got %d", len(raw))
	}
	var snap model.Sequence
	if err := json.Unmarshal(raw[0], &snap); err != nil {
		return fmt.Errorf("step snapshot: %w", err)
	}
	var a, b int
	if err := json.Unmarshal(raw[1], &a); err != nil {
		return fmt.Errorf("step index a: %w", err)
	}
	if err := json.Unmarshal(raw[2], &b); err != nil {
		return fmt.Errorf("step index b: %w", err)
	}
	*s = WireStep{Snapshot: snap, IndexA: a, IndexB: b}
	return nil
}

// ToWire flattens a step log for the boundary.
func ToWire(log model.StepLog) []WireStep {
	out := make([]WireStep, len(log))
	for i, step := range log {
		out[i] = WireStep(step)
	}
	return out
}

// FromWire restores a typed step log.
func FromWire(steps []WireStep) model.StepLog {
	out := make(model.StepLog, len(steps))
	for i, step := range steps {
		out[i] = model.Step(step)
	}
	return out
}

type GridResponse struct {
	Width  uint32   `json:"width"`
	Height uint32   `json:"height"`
	Cells  []string `json:"cells"`
}

type SortRun struct {
	RunID     string     `json:"runId"`
	Algorithm string     `json:"algorithm"`
	Steps     []WireStep `json:"steps"`
}

// ReplayMessage is one WebSocket frame of a replay.
type ReplayMessage struct {
	Index int       `json:"index"`
	Total int       `json:"total"`
	Step  *WireStep `json:"step,omitempty"`
	Done  bool      `json:"done,omitempty"`
	Error string    `json:"error,omitempty"`
}

// ReplayControl is sent by the client during a replay.
type ReplayControl struct {
	Action string `json:"action"` // pause, resume or stop
}

type LogMessage struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}
