// Package agent provides the stage implementations behind the
// pipeline: an LLM-backed set calling an OpenAI-compatible chat
// completions API, and a deterministic offline set.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/emostyz/marketing-sub014/errors"
)

const (
	// DefaultModel is the fallback model when none is configured.
	// Should match the default in config/defaults.go for consistency.
	DefaultModel = "gpt-4o-mini"

	defaultTimeout        = 120 * time.Second
	defaultCallsPerMinute = 20
)

// Client is an OpenAI-compatible chat completions client.
//
// The client performs no retries of its own. Transport and API errors
// are returned with their original text intact so the pipeline's
// retry classifier can decide what is transient.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.SugaredLogger
}

// Config holds chat client configuration.
type Config struct {
	BaseURL           string
	APIKey            string
	Model             string
	Timeout           time.Duration      // zero = 120s
	MaxCallsPerMinute int                // zero = 20
	Logger            *zap.SugaredLogger // nil = nop logger
}

// NewClient creates a chat completions client with sane defaults.
func NewClient(config Config) *Client {
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}
	if config.MaxCallsPerMinute <= 0 {
		config.MaxCallsPerMinute = defaultCallsPerMinute
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &Client{
		apiKey:     config.APIKey,
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		model:      config.Model,
		httpClient: &http.Client{Timeout: config.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(float64(config.MaxCallsPerMinute)/60.0), 1),
		logger:     logger,
	}
}

// IsConfigured returns true if the client has a valid API key.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// ChatCompletionRequest represents a request to the chat completions
// endpoint.
type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
}

// Message represents a message in a chat completion.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionResponse represents the response from chat completions.
type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Choice represents a completion choice.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// Usage represents token usage information.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Chat sends one system+user prompt pair and returns the assistant
// reply text. Calls are throttled by the configured per-minute rate.
func (c *Client) Chat(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("agent API key not configured")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", errors.Wrap(err, "rate limit wait interrupted")
	}

	req := ChatCompletionRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.2,
	}

	c.logger.Debugw("Chat request",
		"model", c.model,
		"system_prompt_length", len(systemPrompt),
		"user_prompt_length", len(userPrompt),
	)

	resp, err := c.createChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response choices from chat completion")
	}

	c.logger.Debugw("Chat response",
		"model", resp.Model,
		"total_tokens", resp.Usage.TotalTokens,
	)
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (c *Client) createChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error) {
	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp.StatusCode, respBody)
	}

	var chatResp ChatCompletionResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal response")
	}
	return &chatResp, nil
}

// apiError shapes non-200 responses. The status-specific phrasing
// matters: 429 and 5xx are worded so downstream retry classification
// recognizes them as transient.
func apiError(status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	switch status {
	case http.StatusTooManyRequests:
		return errors.Wrapf(errors.ErrRateLimited, "rate limit exceeded (status 429): %s", msg)
	case http.StatusServiceUnavailable, http.StatusBadGateway:
		return errors.Newf("API temporarily unavailable with status %d: %s", status, msg)
	default:
		return errors.Newf("API request failed with status %d: %s", status, msg)
	}
}
