package server

// StageUpdateMessage is pushed to websocket clients on every stage
// transition.
type StageUpdateMessage struct {
	Type      string `json:"type"` // always "stage"
	DeckID    string `json:"deck_id"`
	Stage     string `json:"stage"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// RunCompletedMessage is pushed when a run reaches a terminal state.
type RunCompletedMessage struct {
	Type         string  `json:"type"` // always "run_completed"
	DeckID       string  `json:"deck_id"`
	Status       string  `json:"status"`
	Error        string  `json:"error,omitempty"`
	SlideCount   int     `json:"slide_count,omitempty"`
	QualityScore float64 `json:"quality_score,omitempty"`
	Timestamp    int64   `json:"timestamp"`
}
