// Package pipeline drives the five-stage deck generation pipeline:
// sequencing, per-stage retry, durable stage records and status/resume.
package pipeline

import (
	"encoding/json"
	"time"
)

// Stage identifies one of the five ordered generation stages.
type Stage string

const (
	StageAnalysis Stage = "analysis"
	StageOutline  Stage = "outline"
	StageStyled   Stage = "styled"
	StageCharts   Stage = "charts"
	StageQA       Stage = "qa"

	// StageError is the reserved key the failure snapshot is stored
	// under. It is not part of the execution order.
	StageError Stage = "error"
)

// Stages returns the five execution stages in pipeline order.
func Stages() []Stage {
	return []Stage{StageAnalysis, StageOutline, StageStyled, StageCharts, StageQA}
}

// IsValidStage returns true if the string names an execution stage.
func IsValidStage(s string) bool {
	switch Stage(s) {
	case StageAnalysis, StageOutline, StageStyled, StageCharts, StageQA:
		return true
	default:
		return false
	}
}

// StageStatus represents the current state of a stage within one run.
type StageStatus string

const (
	StageStatusPending   StageStatus = "pending"
	StageStatusRunning   StageStatus = "running"
	StageStatusCompleted StageStatus = "completed"
	StageStatusFailed    StageStatus = "failed"
)

// StageRecord is the persisted status/result/error snapshot for one
// stage of one deck's pipeline run. At most one record per
// (deckID, stage) is current; writes overwrite, last write wins.
type StageRecord struct {
	Stage     Stage           `json:"stage"`
	Status    StageStatus     `json:"status"`
	Result    json.RawMessage `json:"result,omitempty"` // set only when Status == completed
	Error     string          `json:"error,omitempty"`  // set only when Status == failed
	StartedAt *time.Time      `json:"startedAt,omitempty"`
	EndedAt   *time.Time      `json:"endedAt,omitempty"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// NewStageRecord creates a pending record for the given stage.
func NewStageRecord(stage Stage) *StageRecord {
	return &StageRecord{
		Stage:     stage,
		Status:    StageStatusPending,
		UpdatedAt: time.Now(),
	}
}

// Start marks the stage as running.
func (r *StageRecord) Start() {
	now := time.Now()
	r.Status = StageStatusRunning
	r.StartedAt = &now
	r.UpdatedAt = now
}

// Complete marks the stage as completed with its result payload.
func (r *StageRecord) Complete(result json.RawMessage) {
	now := time.Now()
	r.Status = StageStatusCompleted
	r.Result = result
	r.Error = ""
	r.EndedAt = &now
	r.UpdatedAt = now
}

// Fail marks the stage as failed with the error's message, unmodified.
func (r *StageRecord) Fail(err error) {
	now := time.Now()
	r.Status = StageStatusFailed
	r.Error = err.Error()
	r.Result = nil
	r.EndedAt = &now
	r.UpdatedAt = now
}

// Clone returns a deep copy of the record.
func (r *StageRecord) Clone() *StageRecord {
	out := *r
	if r.StartedAt != nil {
		t := *r.StartedAt
		out.StartedAt = &t
	}
	if r.EndedAt != nil {
		t := *r.EndedAt
		out.EndedAt = &t
	}
	if r.Result != nil {
		out.Result = append(json.RawMessage(nil), r.Result...)
	}
	return &out
}

// FailureSnapshot is the full run state written under the error key
// when a stage exhausts its retries or fails fatally.
type FailureSnapshot struct {
	DeckID      string         `json:"deckId"`
	FailedStage Stage          `json:"failedStage"`
	Error       string         `json:"error"`
	Steps       []*StageRecord `json:"steps"`
	Timestamp   time.Time      `json:"timestamp"`
}
