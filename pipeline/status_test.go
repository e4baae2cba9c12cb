package pipeline

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	deckgentest "github.com/emostyz/marketing-sub014/internal/testing"
)

func TestStatusUnknownDeckReturnsNil(t *testing.T) {
	o := New(newScriptedAgents(), NewMemoryStore(), WithRetryPolicy(fastRetry()))

	steps, err := o.Status(context.Background(), "never-ran")
	require.NoError(t, err)
	assert.Nil(t, steps)
}

func TestStatusAfterSuccessfulRun(t *testing.T) {
	store := NewSQLStore(deckgentest.CreateTestDB(t))
	o := New(newScriptedAgents(), store, WithRetryPolicy(fastRetry()))

	result := o.Run(context.Background(), RunInput{DeckID: "d1", Rows: testRows()})
	require.Equal(t, RunStatusSuccess, result.Status)

	steps, err := o.Status(context.Background(), "d1")
	require.NoError(t, err)
	require.Len(t, steps, 5)
	for i, stage := range Stages() {
		assert.Equal(t, stage, steps[i].Stage)
		assert.Equal(t, StageStatusCompleted, steps[i].Status)
	}
}

func TestStatusAfterFailureReturnsSnapshotVerbatim(t *testing.T) {
	agents := newScriptedAgents()
	agents.failWith(StageStyled, errAnalysis)
	store := NewSQLStore(deckgentest.CreateTestDB(t))
	o := New(agents, store, WithRetryPolicy(fastRetry()))

	result := o.Run(context.Background(), RunInput{DeckID: "d-fail", Rows: testRows()})
	require.Equal(t, RunStatusFailed, result.Status)

	steps, err := o.Status(context.Background(), "d-fail")
	require.NoError(t, err)
	require.Len(t, steps, 5)
	assert.Equal(t, StageStatusCompleted, steps[0].Status)
	assert.Equal(t, StageStatusCompleted, steps[1].Status)
	assert.Equal(t, StageStatusFailed, steps[2].Status)
	assert.Equal(t, "Analysis failed", steps[2].Error)
	assert.Equal(t, StageStatusPending, steps[3].Status)
	assert.Equal(t, StageStatusPending, steps[4].Status)
}

func TestStatusShowsPartialProgress(t *testing.T) {
	store := NewMemoryStore()
	o := New(newScriptedAgents(), store, WithRetryPolicy(fastRetry()))
	ctx := context.Background()

	// Simulate a run that stopped mid-flight: two persisted records.
	done := NewStageRecord(StageAnalysis)
	done.Start()
	done.Complete(json.RawMessage(`{}`))
	require.NoError(t, store.SaveRecord(ctx, "d-partial", done))

	running := NewStageRecord(StageOutline)
	running.Start()
	require.NoError(t, store.SaveRecord(ctx, "d-partial", running))

	steps, err := o.Status(ctx, "d-partial")
	require.NoError(t, err)
	require.Len(t, steps, 5)
	assert.Equal(t, StageStatusCompleted, steps[0].Status)
	assert.Equal(t, StageStatusRunning, steps[1].Status)
	assert.Equal(t, StageStatusPending, steps[2].Status)
}

func TestResumeReplaysOnlyRemainingStages(t *testing.T) {
	agents := newScriptedAgents()
	agents.failWith(StageCharts, errAnalysis)
	store := NewSQLStore(deckgentest.CreateTestDB(t))
	o := New(agents, store, WithRetryPolicy(fastRetry()))
	ctx := context.Background()

	first := o.Run(ctx, RunInput{DeckID: "d-resume", Rows: testRows()})
	require.Equal(t, RunStatusFailed, first.Status)
	require.Equal(t, 1, agents.callCount(StageAnalysis))

	second := o.Resume(ctx, RunInput{DeckID: "d-resume", Rows: testRows()})
	require.Equal(t, RunStatusSuccess, second.Status)

	// Stages 1-3 were rehydrated from the store, not re-invoked.
	assert.Equal(t, 1, agents.callCount(StageAnalysis))
	assert.Equal(t, 1, agents.callCount(StageOutline))
	assert.Equal(t, 1, agents.callCount(StageStyled))
	// The failed stage and its successor ran on the second pass.
	assert.Equal(t, 2, agents.callCount(StageCharts))
	assert.Equal(t, 1, agents.callCount(StageQA))

	// Status reflects the completed resume, not the stale failure.
	steps, err := o.Status(ctx, "d-resume")
	require.NoError(t, err)
	for _, step := range steps {
		assert.Equal(t, StageStatusCompleted, step.Status, "stage %s", step.Stage)
	}
}

func TestResumeWithNoStateRestartsFromScratch(t *testing.T) {
	agents := newScriptedAgents()
	o := New(agents, NewMemoryStore(), WithRetryPolicy(fastRetry()))

	result := o.Resume(context.Background(), RunInput{DeckID: "d-fresh", Rows: testRows()})

	require.Equal(t, RunStatusSuccess, result.Status)
	for _, stage := range Stages() {
		assert.Equal(t, 1, agents.callCount(stage))
	}
}

func TestResumeWithCorruptRecordFallsBackToFullRun(t *testing.T) {
	agents := newScriptedAgents()
	store := NewMemoryStore()
	o := New(agents, store, WithRetryPolicy(fastRetry()))
	ctx := context.Background()

	bad := NewStageRecord(StageAnalysis)
	bad.Start()
	bad.Complete(json.RawMessage(`{not json`))
	require.NoError(t, store.SaveRecord(ctx, "d-corrupt", bad))

	result := o.Resume(ctx, RunInput{DeckID: "d-corrupt", Rows: testRows()})

	require.Equal(t, RunStatusSuccess, result.Status)
	assert.Equal(t, 1, agents.callCount(StageAnalysis))
}

func TestResumeKeepsOriginalTimestampsForCompletedPrefix(t *testing.T) {
	agents := newScriptedAgents()
	agents.failWith(StageOutline, errAnalysis)
	store := NewSQLStore(deckgentest.CreateTestDB(t))
	o := New(agents, store, WithRetryPolicy(fastRetry()))
	ctx := context.Background()

	first := o.Run(ctx, RunInput{DeckID: "d-ts", Rows: testRows()})
	require.Equal(t, RunStatusFailed, first.Status)
	firstAnalysisEnd := first.Steps[0].EndedAt
	require.NotNil(t, firstAnalysisEnd)

	second := o.Resume(ctx, RunInput{DeckID: "d-ts", Rows: testRows()})
	require.Equal(t, RunStatusSuccess, second.Status)
	require.NotNil(t, second.Steps[0].EndedAt)
	assert.WithinDuration(t, *firstAnalysisEnd, *second.Steps[0].EndedAt, 0)
}
