package deck

// Stage 1: analysis

// AnalysisInput is the first stage's input: the raw rows plus context.
type AnalysisInput struct {
	CSVData Rows        `json:"csvData"`
	Context *RunContext `json:"context,omitempty"`
}

// Statistics summarizes the tabular input.
type Statistics struct {
	TotalRows    int     `json:"totalRows"`
	TotalColumns int     `json:"totalColumns"`
	DataQuality  string  `json:"dataQuality"`
	Completeness float64 `json:"completeness"`
}

// Insight is one finding extracted from the data.
type Insight struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Metric      string  `json:"metric,omitempty"`
	Value       float64 `json:"value,omitempty"`
}

// Trend describes a directional movement in one column.
type Trend struct {
	Column      string  `json:"column"`
	Direction   string  `json:"direction"` // "up", "down", "flat"
	ChangePct   float64 `json:"changePct,omitempty"`
	Description string  `json:"description,omitempty"`
}

// AnalysisResult is the analysis stage's output.
type AnalysisResult struct {
	Insights        []Insight  `json:"insights"`
	Statistics      Statistics `json:"statistics"`
	Trends          []Trend    `json:"trends"`
	Recommendations []string   `json:"recommendations"`
}

// Stage 2: outline

// OutlineContext is the projection of the caller context the outline
// stage receives.
type OutlineContext struct {
	Audience         string   `json:"audience"`
	PresentationType string   `json:"presentation_type"`
	BusinessGoals    []string `json:"businessGoals"`
}

// OutlineInput is the outline stage's input.
type OutlineInput struct {
	AnalysisData *AnalysisResult `json:"analysisData"`
	Context      OutlineContext  `json:"context"`
}

// Presentation holds deck-level outline metadata.
type Presentation struct {
	Title             string `json:"title"`
	Subtitle          string `json:"subtitle"`
	TotalSlides       int    `json:"totalSlides"`
	EstimatedDuration int    `json:"estimatedDuration"` // minutes
}

// SlideOutline is one planned slide.
type SlideOutline struct {
	Number          int      `json:"number"`
	Title           string   `json:"title"`
	Purpose         string   `json:"purpose,omitempty"`
	Bullets         []string `json:"bullets"`
	SuggestedVisual string   `json:"suggestedVisual,omitempty"`
}

// Flow describes the narrative arc across slides.
type Flow struct {
	Narrative   string   `json:"narrative"`
	KeyMessages []string `json:"keyMessages"`
	Transitions []string `json:"transitions"`
}

// OutlineResult is the outline stage's output.
type OutlineResult struct {
	Presentation Presentation   `json:"presentation"`
	Slides       []SlideOutline `json:"slides"`
	Flow         Flow           `json:"flow"`
}

// Stage 3: styling

// StyleInput is the styling stage's input.
type StyleInput struct {
	SlideOutline     *OutlineResult    `json:"slideOutline"`
	StylePreferences *StylePreferences `json:"stylePreferences,omitempty"`
}

// ThemeColors is the deck color palette.
type ThemeColors struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
	Text       string `json:"text"`
}

// ThemeFonts names the heading and body typefaces.
type ThemeFonts struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// Theme is the visual identity applied to the deck.
type Theme struct {
	Name   string      `json:"name"`
	Colors ThemeColors `json:"colors"`
	Fonts  ThemeFonts  `json:"fonts"`
	Style  string      `json:"style"`
}

// SlideElement is one positioned piece of slide content.
type SlideElement struct {
	Kind     string `json:"kind"` // "heading", "text", "bullet", "chart-placeholder"
	Content  string `json:"content"`
	Emphasis string `json:"emphasis,omitempty"`
}

// StyledSlide is a slide with layout and elements resolved.
type StyledSlide struct {
	Number   int            `json:"number"`
	Title    string         `json:"title"`
	Layout   string         `json:"layout"`
	Elements []SlideElement `json:"elements"`
	Notes    string         `json:"notes,omitempty"`
}

// DesignSystem carries cross-slide design tokens.
type DesignSystem struct {
	Spacing      string   `json:"spacing"`
	CornerRadius string   `json:"cornerRadius"`
	ChartPalette []string `json:"chartPalette"`
}

// StyledResult is the styling stage's output.
type StyledResult struct {
	StyledSlides []StyledSlide `json:"styledSlides"`
	Theme        Theme         `json:"theme"`
	DesignSystem DesignSystem  `json:"designSystem"`
}

// Stage 4: charts

// ChartInput is the chart stage's input: styled slides plus the raw
// rows the charts are computed from.
type ChartInput struct {
	StyledSlides []StyledSlide `json:"styledSlides"`
	CSVData      Rows          `json:"csvData"`
}

// Chart is one rendered visualization bound to a slide.
type Chart struct {
	Slide      int      `json:"slide"`
	Type       string   `json:"type"` // "bar", "line", "pie", "scatter"
	Title      string   `json:"title"`
	Columns    []string `json:"columns"`
	DataPoints int      `json:"dataPoints"`
}

// ChartSummary aggregates the chart stage's work.
type ChartSummary struct {
	TotalCharts    int      `json:"totalCharts"`
	ChartTypes     []string `json:"chartTypes"`
	DataPointsUsed int      `json:"dataPointsUsed"`
}

// SlideWithCharts is a styled slide with its charts attached.
type SlideWithCharts struct {
	StyledSlide
	Charts []Chart `json:"charts"`
}

// ChartsResult is the chart stage's output.
type ChartsResult struct {
	SlidesWithCharts []SlideWithCharts `json:"slidesWithCharts"`
	ChartSummary     ChartSummary      `json:"chartSummary"`
	Visualizations   []Chart           `json:"visualizations"`
}

// Stage 5: QA

// FinalDeck bundles the assembled deck for review.
type FinalDeck struct {
	SlidesWithCharts []SlideWithCharts `json:"slidesWithCharts"`
	Metadata         DeckMetadata      `json:"metadata"`
}

// QAInput is the QA stage's input.
type QAInput struct {
	FinalDeck FinalDeck `json:"finalDeck"`
}

// QualityReport is the QA stage's verdict.
type QualityReport struct {
	OverallScore float64            `json:"overallScore"`
	Passed       bool               `json:"passed"`
	IssuesFound  int                `json:"issuesFound"`
	Categories   map[string]float64 `json:"categories,omitempty"`
}

// QAIssue is one problem the review found.
type QAIssue struct {
	Slide       int    `json:"slide"`
	Category    string `json:"category"`
	Severity    string `json:"severity"` // "info", "warning", "error"
	Description string `json:"description"`
}

// ApprovedDeck is the deck as QA released it.
type ApprovedDeck struct {
	SlidesWithCharts []SlideWithCharts `json:"slidesWithCharts"`
}

// QAResult is the QA stage's output.
type QAResult struct {
	QualityReport   QualityReport `json:"qualityReport"`
	Issues          []QAIssue     `json:"issues"`
	Recommendations []string      `json:"recommendations"`
	ApprovedDeck    ApprovedDeck  `json:"approvedDeck"`
	Metadata        DeckMetadata  `json:"metadata"`
}
