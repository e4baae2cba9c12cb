package logger

// Standard field names for consistent structured logging across the
// pipeline. Use these constants instead of raw strings.
const (
	// Identity and context
	FieldDeckID    = "deck_id"
	FieldRequestID = "request_id"

	// Pipeline
	FieldStage   = "stage"
	FieldStatus  = "status"
	FieldAttempt = "attempt"

	// Components
	FieldComponent = "component"

	// Operations
	FieldMethod = "method"
	FieldPath   = "path"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldRowCount   = "row_count"
	FieldSlideCount = "slide_count"
)
