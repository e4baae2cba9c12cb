package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emostyz/marketing-sub014/errors"
	"github.com/emostyz/marketing-sub014/pipeline"
)

func chatReply(content string) ChatCompletionResponse {
	return ChatCompletionResponse{
		ID:    "cmpl-1",
		Model: "gpt-4o-mini",
		Choices: []Choice{
			{Message: Message{Role: "assistant", Content: content}},
		},
		Usage: Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}
}

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return NewClient(Config{
		BaseURL:           ts.URL,
		APIKey:            "test-key",
		MaxCallsPerMinute: 60000,
	})
}

func TestChatReturnsTrimmedReply(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chatReply("  hello deck  \n"))
	})

	reply, err := c.Chat(context.Background(), "system", "user")

	require.NoError(t, err)
	assert.Equal(t, "hello deck", reply)
}

func TestChatSendsAuthModelAndMessages(t *testing.T) {
	var got ChatCompletionRequest
	var auth, path string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(chatReply("ok"))
	})

	_, err := c.Chat(context.Background(), "be concise", "summarize this")

	require.NoError(t, err)
	assert.Equal(t, "Bearer test-key", auth)
	assert.Equal(t, "/chat/completions", path)
	assert.Equal(t, DefaultModel, got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "be concise", got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
}

func TestChatWithoutAPIKey(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://localhost:0"})

	_, err := c.Chat(context.Background(), "s", "u")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key not configured")
	assert.False(t, c.IsConfigured())
}

func TestChatRateLimitedIsRetryable(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	})

	_, err := c.Chat(context.Background(), "s", "u")

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrRateLimited))
	assert.True(t, pipeline.DefaultClassifier(err))
}

func TestChatServiceUnavailableIsRetryable(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	})

	_, err := c.Chat(context.Background(), "s", "u")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.True(t, pipeline.DefaultClassifier(err))
}

func TestChatBadRequestIsFatal(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unknown model", http.StatusBadRequest)
	})

	_, err := c.Chat(context.Background(), "s", "u")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.False(t, pipeline.DefaultClassifier(err))
}

func TestChatEmptyChoices(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ChatCompletionResponse{ID: "cmpl-2"})
	})

	_, err := c.Chat(context.Background(), "s", "u")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no response choices")
}

func TestExtractJSON(t *testing.T) {
	plain := `{"a":1}`
	assert.Equal(t, plain, extractJSON(plain))
	assert.Equal(t, plain, extractJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, plain, extractJSON("```\n{\"a\":1}\n```"))
	assert.Equal(t, plain, extractJSON("  {\"a\":1}  "))
}
