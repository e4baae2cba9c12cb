package pipeline

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/emostyz/marketing-sub014/errors"
)

// SQLStore persists stage records in the deck_stage_records table.
// The failure snapshot is stored as a row under stage = 'error' with
// the snapshot JSON in the result column.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore creates a stage store backed by the given database.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) SaveRecord(ctx context.Context, deckID string, rec *StageRecord) error {
	query := `
		INSERT INTO deck_stage_records (
			deck_id, stage, status, result, error,
			started_at, ended_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(deck_id, stage) DO UPDATE SET
			status = excluded.status,
			result = excluded.result,
			error = excluded.error,
			started_at = excluded.started_at,
			ended_at = excluded.ended_at,
			updated_at = excluded.updated_at
	`

	result := sql.NullString{String: string(rec.Result), Valid: len(rec.Result) > 0}
	errMsg := sql.NullString{String: rec.Error, Valid: rec.Error != ""}

	_, err := s.db.ExecContext(ctx, query,
		deckID,
		string(rec.Stage),
		string(rec.Status),
		result,
		errMsg,
		nullTime(rec.StartedAt),
		nullTime(rec.EndedAt),
		rec.UpdatedAt,
	)
	if err != nil {
		err = errors.Wrap(err, "failed to save stage record")
		err = errors.WithDetail(err, fmt.Sprintf("Deck ID: %s", deckID))
		err = errors.WithDetail(err, fmt.Sprintf("Stage: %s", rec.Stage))
		return err
	}

	return nil
}

func (s *SQLStore) LoadRecord(ctx context.Context, deckID string, stage Stage) (*StageRecord, error) {
	query := `
		SELECT stage, status, result, error, started_at, ended_at, updated_at
		FROM deck_stage_records
		WHERE deck_id = ? AND stage = ?
	`

	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, deckID, string(stage)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		err = errors.Wrap(err, "failed to load stage record")
		err = errors.WithDetail(err, fmt.Sprintf("Deck ID: %s", deckID))
		err = errors.WithDetail(err, fmt.Sprintf("Stage: %s", stage))
		return nil, err
	}
	return rec, nil
}

func (s *SQLStore) LoadRecords(ctx context.Context, deckID string) (map[Stage]*StageRecord, error) {
	query := `
		SELECT stage, status, result, error, started_at, ended_at, updated_at
		FROM deck_stage_records
		WHERE deck_id = ? AND stage != ?
	`

	rows, err := s.db.QueryContext(ctx, query, deckID, string(StageError))
	if err != nil {
		err = errors.Wrap(err, "failed to load stage records")
		err = errors.WithDetail(err, fmt.Sprintf("Deck ID: %s", deckID))
		return nil, err
	}
	defer rows.Close()

	out := make(map[Stage]*StageRecord)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan stage record")
		}
		out[rec.Stage] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating stage records")
	}

	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func (s *SQLStore) SaveSnapshot(ctx context.Context, deckID string, snap *FailureSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return errors.Wrap(err, "failed to marshal failure snapshot")
	}

	rec := &StageRecord{
		Stage:     StageError,
		Status:    StageStatusFailed,
		Result:    payload,
		Error:     snap.Error,
		UpdatedAt: snap.Timestamp,
	}
	return s.SaveRecord(ctx, deckID, rec)
}

func (s *SQLStore) LoadSnapshot(ctx context.Context, deckID string) (*FailureSnapshot, error) {
	rec, err := s.LoadRecord(ctx, deckID, StageError)
	if err != nil || rec == nil {
		return nil, err
	}

	var snap FailureSnapshot
	if err := json.Unmarshal(rec.Result, &snap); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal failure snapshot")
	}
	return &snap, nil
}

func (s *SQLStore) DeleteSnapshot(ctx context.Context, deckID string) error {
	query := `DELETE FROM deck_stage_records WHERE deck_id = ? AND stage = ?`

	if _, err := s.db.ExecContext(ctx, query, deckID, string(StageError)); err != nil {
		err = errors.Wrap(err, "failed to delete failure snapshot")
		err = errors.WithDetail(err, fmt.Sprintf("Deck ID: %s", deckID))
		return err
	}
	return nil
}

// rowScanner lets scanRecord work with both QueryRow and Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*StageRecord, error) {
	var rec StageRecord
	var stage, status string
	var result, errMsg sql.NullString
	var startedAt, endedAt sql.NullTime

	if err := row.Scan(&stage, &status, &result, &errMsg, &startedAt, &endedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}

	rec.Stage = Stage(stage)
	rec.Status = StageStatus(status)
	if result.Valid {
		rec.Result = json.RawMessage(result.String)
	}
	if errMsg.Valid {
		rec.Error = errMsg.String
	}
	if startedAt.Valid {
		t := startedAt.Time
		rec.StartedAt = &t
	}
	if endedAt.Valid {
		t := endedAt.Time
		rec.EndedAt = &t
	}
	return &rec, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

var _ StageStore = (*SQLStore)(nil)
