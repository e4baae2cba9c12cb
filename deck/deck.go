// Package deck defines the typed payloads that flow between the five
// generation stages: raw tabular input, analysis insights, the slide
// outline, styled slides, slides with charts and the QA-approved deck.
package deck

import (
	"sort"
	"time"
)

// Rows is the raw tabular input: one string-keyed record per CSV row.
type Rows []map[string]string

// Columns returns the sorted union of keys across all rows.
func (r Rows) Columns() []string {
	seen := make(map[string]bool)
	var cols []string
	for _, row := range r {
		for k := range row {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)
	return cols
}

// RunContext carries the optional free-form business context a caller
// supplies alongside the CSV data.
type RunContext struct {
	BusinessGoals    []string          `json:"businessGoals,omitempty"`
	Industry         string            `json:"industry,omitempty"`
	Audience         string            `json:"audience,omitempty"`
	PresentationType string            `json:"presentation_type,omitempty"`
	StylePreferences *StylePreferences `json:"stylePreferences,omitempty"`
}

// StylePreferences expresses caller hints for the styling stage.
type StylePreferences struct {
	Theme  string   `json:"theme,omitempty"`
	Colors []string `json:"colors,omitempty"`
	Fonts  []string `json:"fonts,omitempty"`
	Tone   string   `json:"tone,omitempty"`
}

// DeckMetadata describes a composed deck.
type DeckMetadata struct {
	DeckID      string    `json:"deckId"`
	Title       string    `json:"title"`
	Theme       string    `json:"theme"`
	SlideCount  int       `json:"slideCount"`
	RowCount    int       `json:"rowCount"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// GeneratedDeck is the caller-facing final payload of a successful run.
type GeneratedDeck struct {
	DeckID          string       `json:"deckId"`
	Deck            ApprovedDeck `json:"deck"`
	SlideCount      int          `json:"slideCount"`
	Theme           Theme        `json:"theme"`
	QualityScore    float64      `json:"qualityScore"`
	Recommendations []string     `json:"recommendations"`
}
