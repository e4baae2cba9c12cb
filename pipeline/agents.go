package pipeline

import (
	"context"

	"github.com/emostyz/marketing-sub014/deck"
)

// Agents is the stage function collaborator: five black-box async
// operations, each taking a typed input and producing a typed output
// or failing with an error. The orchestrator only inspects error
// messages (through the retry classifier); payloads pass through
// opaquely beyond the stage-to-stage projection.
type Agents interface {
	Analyze(ctx context.Context, in deck.AnalysisInput) (*deck.AnalysisResult, error)
	Outline(ctx context.Context, in deck.OutlineInput) (*deck.OutlineResult, error)
	Style(ctx context.Context, in deck.StyleInput) (*deck.StyledResult, error)
	Chart(ctx context.Context, in deck.ChartInput) (*deck.ChartsResult, error)
	Review(ctx context.Context, in deck.QAInput) (*deck.QAResult, error)
}
