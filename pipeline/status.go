package pipeline

import (
	"context"
	"encoding/json"

	"github.com/emostyz/marketing-sub014/deck"
	"github.com/emostyz/marketing-sub014/logger"
)

// Status answers "what is the current state of deck X" from stored
// records without re-running anything.
//
// A failure snapshot, when present, is returned verbatim: it reflects
// the exact run state at the failure point. Otherwise the per-stage
// records are returned in pipeline order, padded with pending entries
// for stages that never started, so partial progress is observable.
// A deck with no stored state at all yields nil.
func (o *Orchestrator) Status(ctx context.Context, deckID string) ([]*StageRecord, error) {
	snap, err := o.store.LoadSnapshot(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if snap != nil {
		return snap.Steps, nil
	}

	records, err := o.store.LoadRecords(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	steps := make([]*StageRecord, 0, len(Stages()))
	for _, stage := range Stages() {
		if rec, ok := records[stage]; ok {
			steps = append(steps, rec)
		} else {
			steps = append(steps, NewStageRecord(stage))
		}
	}
	return steps, nil
}

// Resume continues a deck's pipeline from the last successfully
// completed stage: completed stage outputs are rehydrated from the
// store and only the remaining stages are replayed, with the freshly
// supplied rows and context. When no completed prefix can be
// recovered the run restarts from analysis.
func (o *Orchestrator) Resume(ctx context.Context, in RunInput) *RunResult {
	st := o.loadResumeState(ctx, in.DeckID)
	if st == nil {
		o.log.Infow("No resumable state, restarting pipeline",
			logger.FieldDeckID, in.DeckID,
		)
		return o.Run(ctx, in)
	}
	return o.run(ctx, in, st)
}

// loadResumeState rebuilds the run state from the longest prefix of
// completed stage records. Returns nil when nothing is resumable.
func (o *Orchestrator) loadResumeState(ctx context.Context, deckID string) *runState {
	if deckID == "" {
		return nil
	}

	records, err := o.store.LoadRecords(ctx, deckID)
	if err != nil {
		o.log.Warnw("Failed to load stage records for resume",
			logger.FieldDeckID, deckID,
			logger.FieldError, err,
		)
		return nil
	}
	if len(records) == 0 {
		return nil
	}

	st := newRunState()
	completed := 0
	for _, stage := range Stages() {
		rec, ok := records[stage]
		if !ok || rec.Status != StageStatusCompleted || len(rec.Result) == 0 {
			break
		}
		if err := st.rehydrate(stage, rec.Result); err != nil {
			o.log.Warnw("Stored stage result unreadable, resume prefix ends here",
				logger.FieldDeckID, deckID,
				logger.FieldStage, stage,
				logger.FieldError, err,
			)
			break
		}
		// Keep the original record so timestamps survive the resume.
		st.records[stage] = rec.Clone()
		completed++
	}

	if completed == 0 {
		return nil
	}
	o.log.Infow("Resuming pipeline from stored state",
		logger.FieldDeckID, deckID,
		"completed_stages", completed,
	)
	return st
}

// rehydrate decodes a stored stage result into the state's typed slot.
func (st *runState) rehydrate(stage Stage, raw json.RawMessage) error {
	switch stage {
	case StageAnalysis:
		var v deck.AnalysisResult
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		st.analysis = &v
	case StageOutline:
		var v deck.OutlineResult
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		st.outline = &v
	case StageStyled:
		var v deck.StyledResult
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		st.styled = &v
	case StageCharts:
		var v deck.ChartsResult
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		st.charts = &v
	case StageQA:
		var v deck.QAResult
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		st.qa = &v
	}
	return nil
}
