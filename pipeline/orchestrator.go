package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/emostyz/marketing-sub014/deck"
	"github.com/emostyz/marketing-sub014/logger"
)

// RunStatus is the terminal state of one pipeline run.
type RunStatus string

const (
	RunStatusSuccess RunStatus = "success"
	RunStatusFailed  RunStatus = "failed"
)

// RunInput identifies one end-to-end execution: the deck id, the raw
// rows and the optional caller context.
type RunInput struct {
	DeckID  string
	Rows    deck.Rows
	Context *deck.RunContext
}

// RunMetadata summarizes one run for the caller.
type RunMetadata struct {
	StartedAt    time.Time `json:"startedAt"`
	EndedAt      time.Time `json:"endedAt"`
	DurationMS   int64     `json:"durationMs"`
	RowCount     int       `json:"rowCount"`
	SlideCount   int       `json:"slideCount"`
	QualityScore float64   `json:"qualityScore"`
}

// RunResult is the composite returned to the caller of Run. It is
// always returned, never raised: the Status field signals failure, and
// FinalPayload is nil on failure.
type RunResult struct {
	DeckID       string              `json:"deckId"`
	Status       RunStatus           `json:"status"`
	Error        string              `json:"error,omitempty"`
	FinalPayload *deck.GeneratedDeck `json:"finalPayload"`
	Steps        []*StageRecord      `json:"steps"`
	Metadata     RunMetadata         `json:"metadata"`
}

// Orchestrator drives the five stages in fixed order, wiring each
// stage's output into the next stage's input, retrying transient
// failures and persisting a stage record after every transition.
//
// One run is strictly sequential: stage i+1 is never invoked before
// stage i's record is marked completed and persisted. Distinct deck
// ids may run concurrently against a shared store.
type Orchestrator struct {
	agents  Agents
	store   StageStore
	retry   RetryPolicy
	emitter ProgressEmitter
	log     *zap.SugaredLogger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRetryPolicy overrides the default per-stage retry policy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(o *Orchestrator) { o.retry = p }
}

// WithEmitter registers a progress emitter notified on every stage
// transition.
func WithEmitter(e ProgressEmitter) Option {
	return func(o *Orchestrator) { o.emitter = e }
}

// WithLogger sets the structured logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(o *Orchestrator) { o.log = l }
}

// New creates an orchestrator over the given stage functions and store.
func New(agents Agents, store StageStore, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		agents:  agents,
		store:   store,
		retry:   DefaultRetryPolicy(),
		emitter: nopEmitter{},
		log:     zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// runState carries the typed stage outputs and their records through
// one run. Resume pre-populates the completed prefix.
type runState struct {
	records  map[Stage]*StageRecord
	analysis *deck.AnalysisResult
	outline  *deck.OutlineResult
	styled   *deck.StyledResult
	charts   *deck.ChartsResult
	qa       *deck.QAResult
}

func newRunState() *runState {
	records := make(map[Stage]*StageRecord, len(Stages()))
	for _, stage := range Stages() {
		records[stage] = NewStageRecord(stage)
	}
	return &runState{records: records}
}

// orderedSteps returns the five records in pipeline order.
func (st *runState) orderedSteps() []*StageRecord {
	steps := make([]*StageRecord, 0, len(Stages()))
	for _, stage := range Stages() {
		steps = append(steps, st.records[stage])
	}
	return steps
}

// Run executes the full pipeline for the given input. It never returns
// an error; failures are reported through the result's Status field.
func (o *Orchestrator) Run(ctx context.Context, in RunInput) *RunResult {
	return o.run(ctx, in, newRunState())
}

func (o *Orchestrator) run(ctx context.Context, in RunInput, st *runState) *RunResult {
	startedAt := time.Now()
	if in.DeckID == "" {
		in.DeckID = uuid.NewString()
	}

	// Clear any stale failure snapshot so status reflects this run.
	if err := o.store.DeleteSnapshot(ctx, in.DeckID); err != nil {
		o.log.Warnw("Failed to clear stale failure snapshot",
			logger.FieldDeckID, in.DeckID,
			logger.FieldError, err,
		)
	}

	o.log.Infow("Pipeline run started",
		logger.FieldDeckID, in.DeckID,
		logger.FieldRowCount, len(in.Rows),
	)

	if st.analysis == nil {
		result, err := runStage(ctx, o, in.DeckID, st.records[StageAnalysis],
			func(ctx context.Context) (*deck.AnalysisResult, error) {
				return o.agents.Analyze(ctx, deck.AnalysisInput{
					CSVData: in.Rows,
					Context: in.Context,
				})
			})
		if err != nil {
			return o.failRun(ctx, in, st, StageAnalysis, err, startedAt)
		}
		st.analysis = result
	}

	if st.outline == nil {
		result, err := runStage(ctx, o, in.DeckID, st.records[StageOutline],
			func(ctx context.Context) (*deck.OutlineResult, error) {
				return o.agents.Outline(ctx, deck.OutlineInput{
					AnalysisData: st.analysis,
					Context:      outlineContext(in.Context),
				})
			})
		if err != nil {
			return o.failRun(ctx, in, st, StageOutline, err, startedAt)
		}
		st.outline = result
	}

	if st.styled == nil {
		result, err := runStage(ctx, o, in.DeckID, st.records[StageStyled],
			func(ctx context.Context) (*deck.StyledResult, error) {
				return o.agents.Style(ctx, deck.StyleInput{
					SlideOutline:     st.outline,
					StylePreferences: stylePreferences(in.Context),
				})
			})
		if err != nil {
			return o.failRun(ctx, in, st, StageStyled, err, startedAt)
		}
		st.styled = result
	}

	if st.charts == nil {
		result, err := runStage(ctx, o, in.DeckID, st.records[StageCharts],
			func(ctx context.Context) (*deck.ChartsResult, error) {
				return o.agents.Chart(ctx, deck.ChartInput{
					StyledSlides: st.styled.StyledSlides,
					CSVData:      in.Rows,
				})
			})
		if err != nil {
			return o.failRun(ctx, in, st, StageCharts, err, startedAt)
		}
		st.charts = result
	}

	if st.qa == nil {
		metadata := deck.DeckMetadata{
			DeckID:      in.DeckID,
			Title:       st.outline.Presentation.Title,
			Theme:       st.styled.Theme.Name,
			SlideCount:  len(st.charts.SlidesWithCharts),
			RowCount:    len(in.Rows),
			GeneratedAt: time.Now(),
		}
		result, err := runStage(ctx, o, in.DeckID, st.records[StageQA],
			func(ctx context.Context) (*deck.QAResult, error) {
				return o.agents.Review(ctx, deck.QAInput{
					FinalDeck: deck.FinalDeck{
						SlidesWithCharts: st.charts.SlidesWithCharts,
						Metadata:         metadata,
					},
				})
			})
		if err != nil {
			return o.failRun(ctx, in, st, StageQA, err, startedAt)
		}
		st.qa = result
	}

	endedAt := time.Now()
	final := &deck.GeneratedDeck{
		DeckID:          in.DeckID,
		Deck:            st.qa.ApprovedDeck,
		SlideCount:      len(st.qa.ApprovedDeck.SlidesWithCharts),
		Theme:           st.styled.Theme,
		QualityScore:    st.qa.QualityReport.OverallScore,
		Recommendations: st.qa.Recommendations,
	}

	o.log.Infow("Pipeline run completed",
		logger.FieldDeckID, in.DeckID,
		logger.FieldSlideCount, final.SlideCount,
		logger.FieldDurationMS, endedAt.Sub(startedAt).Milliseconds(),
		"quality_score", final.QualityScore,
	)

	return &RunResult{
		DeckID:       in.DeckID,
		Status:       RunStatusSuccess,
		FinalPayload: final,
		Steps:        st.orderedSteps(),
		Metadata: RunMetadata{
			StartedAt:    startedAt,
			EndedAt:      endedAt,
			DurationMS:   endedAt.Sub(startedAt).Milliseconds(),
			RowCount:     len(in.Rows),
			SlideCount:   final.SlideCount,
			QualityScore: final.QualityScore,
		},
	}
}

// runStage executes one stage call under the retry policy, persisting
// and emitting the record on every transition. The returned error is
// the stage function's last error, unmodified.
func runStage[T any](ctx context.Context, o *Orchestrator, deckID string, rec *StageRecord, call func(ctx context.Context) (T, error)) (T, error) {
	rec.Start()
	o.persist(ctx, deckID, rec)
	o.emitter.EmitStage(deckID, rec)
	o.log.Infow("Stage started",
		logger.FieldDeckID, deckID,
		logger.FieldStage, rec.Stage,
	)

	var result T
	attempt := 0
	err := o.retry.Do(ctx, func(ctx context.Context) error {
		attempt++
		if attempt > 1 {
			o.log.Debugw("Retrying stage",
				logger.FieldDeckID, deckID,
				logger.FieldStage, rec.Stage,
				logger.FieldAttempt, attempt,
			)
		}
		out, err := call(ctx)
		if err != nil {
			return err
		}
		result = out
		return nil
	})
	if err != nil {
		rec.Fail(err)
		o.persist(ctx, deckID, rec)
		o.emitter.EmitStage(deckID, rec)
		o.log.Errorw("Stage failed",
			logger.FieldDeckID, deckID,
			logger.FieldStage, rec.Stage,
			logger.FieldAttempt, attempt,
			logger.FieldError, err,
		)
		var zero T
		return zero, err
	}

	payload, merr := json.Marshal(result)
	if merr != nil {
		// The in-memory result still feeds the next stage; only the
		// persisted copy is lost.
		o.log.Warnw("Failed to marshal stage result",
			logger.FieldDeckID, deckID,
			logger.FieldStage, rec.Stage,
			logger.FieldError, merr,
		)
		payload = nil
	}
	rec.Complete(payload)
	o.persist(ctx, deckID, rec)
	o.emitter.EmitStage(deckID, rec)
	o.log.Infow("Stage completed",
		logger.FieldDeckID, deckID,
		logger.FieldStage, rec.Stage,
		logger.FieldDurationMS, rec.EndedAt.Sub(*rec.StartedAt).Milliseconds(),
	)

	return result, nil
}

// persist writes a record to the store. Store failures are logged and
// swallowed: losing the ability to resume is acceptable collateral,
// not a reason to fail deck generation.
func (o *Orchestrator) persist(ctx context.Context, deckID string, rec *StageRecord) {
	if err := o.store.SaveRecord(ctx, deckID, rec); err != nil {
		o.log.Warnw("Failed to persist stage record",
			logger.FieldDeckID, deckID,
			logger.FieldStage, rec.Stage,
			logger.FieldStatus, rec.Status,
			logger.FieldError, err,
		)
	}
}

// failRun writes the failure snapshot and composes the failed result.
// Any single-stage exhaustion is pipeline-fatal: no further stages
// run and no partial composite is returned.
func (o *Orchestrator) failRun(ctx context.Context, in RunInput, st *runState, stage Stage, stageErr error, startedAt time.Time) *RunResult {
	steps := st.orderedSteps()
	snap := &FailureSnapshot{
		DeckID:      in.DeckID,
		FailedStage: stage,
		Error:       stageErr.Error(),
		Steps:       steps,
		Timestamp:   time.Now(),
	}
	if err := o.store.SaveSnapshot(ctx, in.DeckID, snap); err != nil {
		o.log.Warnw("Failed to persist failure snapshot",
			logger.FieldDeckID, in.DeckID,
			logger.FieldStage, stage,
			logger.FieldError, err,
		)
	}

	endedAt := time.Now()
	return &RunResult{
		DeckID:       in.DeckID,
		Status:       RunStatusFailed,
		Error:        stageErr.Error(),
		FinalPayload: nil,
		Steps:        steps,
		Metadata: RunMetadata{
			StartedAt:  startedAt,
			EndedAt:    endedAt,
			DurationMS: endedAt.Sub(startedAt).Milliseconds(),
			RowCount:   len(in.Rows),
		},
	}
}

// outlineContext projects the caller context into the fields the
// outline stage receives.
func outlineContext(rc *deck.RunContext) deck.OutlineContext {
	out := deck.OutlineContext{
		Audience:         "general business audience",
		PresentationType: "marketing overview",
	}
	if rc == nil {
		return out
	}
	if rc.Audience != "" {
		out.Audience = rc.Audience
	}
	if rc.PresentationType != "" {
		out.PresentationType = rc.PresentationType
	}
	out.BusinessGoals = rc.BusinessGoals
	return out
}

func stylePreferences(rc *deck.RunContext) *deck.StylePreferences {
	if rc == nil {
		return nil
	}
	return rc.StylePreferences
}
