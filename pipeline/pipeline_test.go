package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/emostyz/marketing-sub014/deck"
	"github.com/emostyz/marketing-sub014/errors"
)

// scriptedAgents is a stage-function fake: each stage pops errors off
// its script before succeeding with a fixture payload, and counts its
// invocations.
type scriptedAgents struct {
	mu    sync.Mutex
	calls map[Stage]int
	errs  map[Stage][]error
}

func newScriptedAgents() *scriptedAgents {
	return &scriptedAgents{
		calls: make(map[Stage]int),
		errs:  make(map[Stage][]error),
	}
}

// failWith schedules errs to be returned by the stage's next calls,
// in order, before it starts succeeding.
func (a *scriptedAgents) failWith(stage Stage, errs ...error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.errs[stage] = append(a.errs[stage], errs...)
}

func (a *scriptedAgents) callCount(stage Stage) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls[stage]
}

// step records the call and returns the next scripted error, if any.
func (a *scriptedAgents) step(stage Stage) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls[stage]++
	if queue := a.errs[stage]; len(queue) > 0 {
		err := queue[0]
		a.errs[stage] = queue[1:]
		return err
	}
	return nil
}

func (a *scriptedAgents) Analyze(ctx context.Context, in deck.AnalysisInput) (*deck.AnalysisResult, error) {
	if err := a.step(StageAnalysis); err != nil {
		return nil, err
	}
	return fixtureAnalysis(len(in.CSVData)), nil
}

func (a *scriptedAgents) Outline(ctx context.Context, in deck.OutlineInput) (*deck.OutlineResult, error) {
	if err := a.step(StageOutline); err != nil {
		return nil, err
	}
	return fixtureOutline(), nil
}

func (a *scriptedAgents) Style(ctx context.Context, in deck.StyleInput) (*deck.StyledResult, error) {
	if err := a.step(StageStyled); err != nil {
		return nil, err
	}
	return fixtureStyled(), nil
}

func (a *scriptedAgents) Chart(ctx context.Context, in deck.ChartInput) (*deck.ChartsResult, error) {
	if err := a.step(StageCharts); err != nil {
		return nil, err
	}
	return fixtureCharts(), nil
}

func (a *scriptedAgents) Review(ctx context.Context, in deck.QAInput) (*deck.QAResult, error) {
	if err := a.step(StageQA); err != nil {
		return nil, err
	}
	return fixtureQA(in.FinalDeck), nil
}

var _ Agents = (*scriptedAgents)(nil)

func fixtureAnalysis(rows int) *deck.AnalysisResult {
	return &deck.AnalysisResult{
		Insights: []deck.Insight{
			{Title: "Revenue concentration", Description: "Top region drives most revenue", Metric: "revenue", Value: 0.62},
		},
		Statistics: deck.Statistics{
			TotalRows:    rows,
			TotalColumns: 3,
			DataQuality:  "good",
			Completeness: 0.98,
		},
		Trends:          []deck.Trend{{Column: "revenue", Direction: "up", ChangePct: 12.5}},
		Recommendations: []string{"lead with the growth story"},
	}
}

func fixtureOutline() *deck.OutlineResult {
	return &deck.OutlineResult{
		Presentation: deck.Presentation{
			Title:             "Q3 Marketing Review",
			Subtitle:          "Growth across regions",
			TotalSlides:       4,
			EstimatedDuration: 12,
		},
		Slides: []deck.SlideOutline{
			{Number: 1, Title: "Overview", Bullets: []string{"agenda"}},
			{Number: 2, Title: "Revenue trend", Bullets: []string{"up 12.5%"}, SuggestedVisual: "line"},
			{Number: 3, Title: "Regional split", Bullets: []string{"top region 62%"}, SuggestedVisual: "pie"},
			{Number: 4, Title: "Next steps", Bullets: []string{"double down"}},
		},
		Flow: deck.Flow{
			Narrative:   "growth story",
			KeyMessages: []string{"revenue is accelerating"},
			Transitions: []string{"so what does this mean"},
		},
	}
}

func fixtureStyled() *deck.StyledResult {
	slides := make([]deck.StyledSlide, 0, 4)
	for _, s := range fixtureOutline().Slides {
		elements := []deck.SlideElement{{Kind: "heading", Content: s.Title}}
		for _, b := range s.Bullets {
			elements = append(elements, deck.SlideElement{Kind: "bullet", Content: b})
		}
		slides = append(slides, deck.StyledSlide{
			Number:   s.Number,
			Title:    s.Title,
			Layout:   "title-content",
			Elements: elements,
		})
	}
	return &deck.StyledResult{
		StyledSlides: slides,
		Theme: deck.Theme{
			Name:   "midnight",
			Colors: deck.ThemeColors{Primary: "#1a1b26", Accent: "#7aa2f7", Background: "#ffffff", Text: "#16161e"},
			Fonts:  deck.ThemeFonts{Heading: "Inter", Body: "Inter"},
			Style:  "modern",
		},
		DesignSystem: deck.DesignSystem{Spacing: "comfortable", CornerRadius: "8px", ChartPalette: []string{"#7aa2f7", "#9ece6a"}},
	}
}

func fixtureCharts() *deck.ChartsResult {
	styled := fixtureStyled().StyledSlides
	slides := make([]deck.SlideWithCharts, 0, len(styled))
	var visualizations []deck.Chart
	for _, s := range styled {
		swc := deck.SlideWithCharts{StyledSlide: s}
		if s.Number == 2 {
			chart := deck.Chart{Slide: 2, Type: "line", Title: "Revenue trend", Columns: []string{"month", "revenue"}, DataPoints: 12}
			swc.Charts = []deck.Chart{chart}
			visualizations = append(visualizations, chart)
		}
		slides = append(slides, swc)
	}
	return &deck.ChartsResult{
		SlidesWithCharts: slides,
		ChartSummary:     deck.ChartSummary{TotalCharts: 1, ChartTypes: []string{"line"}, DataPointsUsed: 12},
		Visualizations:   visualizations,
	}
}

func fixtureQA(final deck.FinalDeck) *deck.QAResult {
	return &deck.QAResult{
		QualityReport: deck.QualityReport{
			OverallScore: 87.5,
			Passed:       true,
			IssuesFound:  1,
			Categories:   map[string]float64{"clarity": 90, "consistency": 85},
		},
		Issues: []deck.QAIssue{
			{Slide: 3, Category: "clarity", Severity: "info", Description: "pie chart label overlap"},
		},
		Recommendations: []string{"shorten slide 3 labels"},
		ApprovedDeck:    deck.ApprovedDeck{SlidesWithCharts: final.SlidesWithCharts},
		Metadata:        final.Metadata,
	}
}

// fastRetry is the default policy with a negligible backoff so retry
// paths stay fast under test.
func fastRetry() RetryPolicy {
	p := DefaultRetryPolicy()
	p.BaseDelay = time.Millisecond
	return p
}

func testRows() deck.Rows {
	return deck.Rows{
		{"month": "Jul", "region": "EMEA", "revenue": "120"},
		{"month": "Aug", "region": "EMEA", "revenue": "135"},
		{"month": "Sep", "region": "EMEA", "revenue": "151"},
	}
}

// retryable and fatal fixture errors
var (
	errNetwork  = errors.New("network error")
	errRateLim  = errors.New("rate limit exceeded upstream")
	errAnalysis = errors.New("Analysis failed")
)
