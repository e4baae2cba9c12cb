package agent

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/emostyz/marketing-sub014/deck"
	"github.com/emostyz/marketing-sub014/errors"
	"github.com/emostyz/marketing-sub014/pipeline"
)

// LLMAgents implements pipeline.Agents over a chat completions client.
// Each stage marshals its typed input as the user prompt and decodes
// the model's JSON reply into the stage's typed result.
type LLMAgents struct {
	client *Client
	logger *zap.SugaredLogger
}

var _ pipeline.Agents = (*LLMAgents)(nil)

// NewLLMAgents wraps the given client as the pipeline's agent set.
func NewLLMAgents(client *Client, logger *zap.SugaredLogger) *LLMAgents {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &LLMAgents{client: client, logger: logger}
}

func (a *LLMAgents) Analyze(ctx context.Context, in deck.AnalysisInput) (*deck.AnalysisResult, error) {
	return callStage[deck.AnalysisResult](ctx, a, "analysis", analysisSystemPrompt, in)
}

func (a *LLMAgents) Outline(ctx context.Context, in deck.OutlineInput) (*deck.OutlineResult, error) {
	return callStage[deck.OutlineResult](ctx, a, "outline", outlineSystemPrompt, in)
}

func (a *LLMAgents) Style(ctx context.Context, in deck.StyleInput) (*deck.StyledResult, error) {
	return callStage[deck.StyledResult](ctx, a, "styled", styleSystemPrompt, in)
}

func (a *LLMAgents) Chart(ctx context.Context, in deck.ChartInput) (*deck.ChartsResult, error) {
	return callStage[deck.ChartsResult](ctx, a, "charts", chartsSystemPrompt, in)
}

func (a *LLMAgents) Review(ctx context.Context, in deck.QAInput) (*deck.QAResult, error) {
	return callStage[deck.QAResult](ctx, a, "qa", qaSystemPrompt, in)
}

// callStage runs one prompt round trip and decodes the typed result.
func callStage[T any](ctx context.Context, a *LLMAgents, stage, systemPrompt string, input any) (*T, error) {
	userPrompt, err := json.Marshal(input)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal %s input", stage)
	}

	reply, err := a.client.Chat(ctx, systemPrompt, string(userPrompt))
	if err != nil {
		return nil, err
	}

	var result T
	if err := json.Unmarshal([]byte(extractJSON(reply)), &result); err != nil {
		a.logger.Warnw("Model reply is not the expected JSON shape",
			"stage", stage,
			"reply_length", len(reply),
			"error", err,
		)
		return nil, errors.Wrapf(err, "failed to decode %s result", stage)
	}
	return &result, nil
}

// extractJSON strips a markdown code fence when the model wraps its
// JSON reply in one.
func extractJSON(reply string) string {
	trimmed := strings.TrimSpace(reply)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
