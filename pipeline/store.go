package pipeline

import (
	"context"
)

// StageStore is the durable keyed persistence collaborator: it records
// each stage's output and the terminal failure snapshot, and serves
// them back for status and resume queries.
//
// Saves overwrite any prior value for the same (deckID, stage) key.
// Concurrent saves for the same key from two runs of the same deckID
// are a documented last-write-wins race; a given deckID is expected to
// have at most one in-flight run, but this is not enforced.
type StageStore interface {
	// SaveRecord upserts the record under (deckID, record.Stage).
	SaveRecord(ctx context.Context, deckID string, rec *StageRecord) error

	// LoadRecord returns the stored record, or nil if never written.
	LoadRecord(ctx context.Context, deckID string, stage Stage) (*StageRecord, error)

	// LoadRecords returns all stored execution-stage records for the
	// deck, keyed by stage. The error snapshot is not included.
	LoadRecords(ctx context.Context, deckID string) (map[Stage]*StageRecord, error)

	// SaveSnapshot upserts the failure snapshot under the error key.
	SaveSnapshot(ctx context.Context, deckID string, snap *FailureSnapshot) error

	// LoadSnapshot returns the failure snapshot, or nil if none exists.
	LoadSnapshot(ctx context.Context, deckID string) (*FailureSnapshot, error)

	// DeleteSnapshot clears a stale failure snapshot. Called at the
	// start of every run so status reflects the new execution.
	DeleteSnapshot(ctx context.Context, deckID string) error
}
