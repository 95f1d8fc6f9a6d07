package anthropic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("k", "")
	assert.Equal(t, DefaultModel, cfg.Model)
	assert.Equal(t, int64(DefaultMaxTokens), cfg.MaxTokens)
}

func TestNewAdapter_RequiresKey(t *testing.T) {
	_, err := NewAdapter(Config{})
	assert.Error(t, err)
}

func TestAdapter_Complete(t *testing.T) {
	var req map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &req)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-test",
			"content": [{"type": "text", "text": "{\"username\": \"#user\", "}, {"type": "text", "text": "\"submit\": null}"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 310, "output_tokens": 22}
		}`)
	}))
	defer srv.Close()

	cfg := DefaultConfig("test-key", "claude-test")
	cfg.BaseURL = srv.URL

	a, err := NewAdapter(cfg)
	require.NoError(t, err)
	assert.Equal(t, "claude-test", a.Model())

	got, err := a.Complete(context.Background(), "map these fields")
	require.NoError(t, err)
	assert.JSONEq(t, `{"username": "#user", "submit": null}`, got.Text)
	assert.Equal(t, 310, got.Usage.PromptTokens)
	assert.Equal(t, 22, got.Usage.CompletionTokens)

	assert.Equal(t, "claude-test", req["model"])
	assert.EqualValues(t, DefaultMaxTokens, req["max_tokens"])
}

func TestAdapter_Complete_APIError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"type": "error", "error": {"type": "invalid_request_error", "message": "bad"}}`)
	}))
	defer srv.Close()

	cfg := DefaultConfig("test-key", "claude-test")
	cfg.BaseURL = srv.URL

	a, err := NewAdapter(cfg)
	require.NoError(t, err)

	_, err = a.Complete(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "claude api error")
	assert.Equal(t, int32(1), calls.Load())
}
