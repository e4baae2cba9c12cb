package pipeline

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	deckgentest "github.com/emostyz/marketing-sub014/internal/testing"
)

// storeUnderTest runs the same contract checks against both backends.
func storesUnderTest(t *testing.T) map[string]StageStore {
	return map[string]StageStore{
		"memory": NewMemoryStore(),
		"sqlite": NewSQLStore(deckgentest.CreateTestDB(t)),
	}
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			rec := NewStageRecord(StageAnalysis)
			rec.Start()
			rec.Complete(json.RawMessage(`{"insights":[]}`))
			require.NoError(t, store.SaveRecord(ctx, "d1", rec))

			loaded, err := store.LoadRecord(ctx, "d1", StageAnalysis)
			require.NoError(t, err)
			require.NotNil(t, loaded)
			assert.Equal(t, StageStatusCompleted, loaded.Status)
			assert.JSONEq(t, `{"insights":[]}`, string(loaded.Result))
			assert.NotNil(t, loaded.StartedAt)
			assert.NotNil(t, loaded.EndedAt)
		})
	}
}

func TestStoreLoadMissingRecordReturnsNil(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			loaded, err := store.LoadRecord(context.Background(), "nope", StageQA)
			require.NoError(t, err)
			assert.Nil(t, loaded)

			records, err := store.LoadRecords(context.Background(), "nope")
			require.NoError(t, err)
			assert.Nil(t, records)
		})
	}
}

func TestStoreSaveIsIdempotentAndLastWriteWins(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			rec := NewStageRecord(StageOutline)
			rec.Start()
			rec.Complete(json.RawMessage(`{"slides":[1]}`))

			// Identical payload twice: no duplication, no corruption.
			require.NoError(t, store.SaveRecord(ctx, "d2", rec))
			require.NoError(t, store.SaveRecord(ctx, "d2", rec))

			loaded, err := store.LoadRecord(ctx, "d2", StageOutline)
			require.NoError(t, err)
			assert.JSONEq(t, `{"slides":[1]}`, string(loaded.Result))

			// A later write for the same key overwrites.
			rec2 := NewStageRecord(StageOutline)
			rec2.Start()
			rec2.Fail(assert.AnError)
			require.NoError(t, store.SaveRecord(ctx, "d2", rec2))

			loaded, err = store.LoadRecord(ctx, "d2", StageOutline)
			require.NoError(t, err)
			assert.Equal(t, StageStatusFailed, loaded.Status)
			assert.Empty(t, loaded.Result)

			records, err := store.LoadRecords(ctx, "d2")
			require.NoError(t, err)
			assert.Len(t, records, 1)
		})
	}
}

func TestStoreSnapshotLifecycle(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			rec := NewStageRecord(StageAnalysis)
			rec.Start()
			rec.Fail(assert.AnError)
			snap := &FailureSnapshot{
				DeckID:      "d3",
				FailedStage: StageAnalysis,
				Error:       rec.Error,
				Steps:       []*StageRecord{rec},
				Timestamp:   time.Now(),
			}
			require.NoError(t, store.SaveSnapshot(ctx, "d3", snap))

			loaded, err := store.LoadSnapshot(ctx, "d3")
			require.NoError(t, err)
			require.NotNil(t, loaded)
			assert.Equal(t, StageAnalysis, loaded.FailedStage)
			require.Len(t, loaded.Steps, 1)
			assert.Equal(t, StageStatusFailed, loaded.Steps[0].Status)

			// The snapshot never leaks into the execution-stage records.
			records, err := store.LoadRecords(ctx, "d3")
			require.NoError(t, err)
			assert.Nil(t, records)

			require.NoError(t, store.DeleteSnapshot(ctx, "d3"))
			loaded, err = store.LoadSnapshot(ctx, "d3")
			require.NoError(t, err)
			assert.Nil(t, loaded)
		})
	}
}

func TestStoreRecordsAreIsolatedPerDeck(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			a := NewStageRecord(StageAnalysis)
			a.Start()
			require.NoError(t, store.SaveRecord(ctx, "deck-a", a))

			records, err := store.LoadRecords(ctx, "deck-b")
			require.NoError(t, err)
			assert.Nil(t, records)
		})
	}
}

func TestSQLStoreWrapsDriverErrors(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectExec("INSERT INTO deck_stage_records").WillReturnError(assert.AnError)

	store := NewSQLStore(mockDB)
	rec := NewStageRecord(StageAnalysis)
	saveErr := store.SaveRecord(context.Background(), "d-err", rec)

	require.Error(t, saveErr)
	assert.Contains(t, saveErr.Error(), "failed to save stage record")
	require.NoError(t, mock.ExpectationsWereMet())
}
