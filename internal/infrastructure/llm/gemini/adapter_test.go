package gemini

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/gemini-test:generateContent"), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewAdapter_RequiresKey(t *testing.T) {
	_, err := NewAdapter(context.Background(), Config{})
	assert.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	assert.Equal(t, DefaultModel, DefaultConfig("k", "").Model)
	assert.Equal(t, "m", DefaultConfig("k", "m").Model)
}

func TestAdapter_Complete(t *testing.T) {
	srv := newServer(t, `{
		"candidates": [{"content": {"role": "model", "parts": [{"text": "\".btn-login\""}]}, "finishReason": "STOP"}],
		"usageMetadata": {"promptTokenCount": 90, "candidatesTokenCount": 4, "totalTokenCount": 94}
	}`)

	cfg := DefaultConfig("test-key", "gemini-test")
	cfg.BaseURL = srv.URL
	a, err := NewAdapter(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "gemini-test", a.Model())

	got, err := a.Complete(context.Background(), "pick one")
	require.NoError(t, err)
	assert.Equal(t, `".btn-login"`, got.Text)
	assert.Equal(t, 90, got.Usage.PromptTokens)
	assert.Equal(t, 4, got.Usage.CompletionTokens)
}

func TestAdapter_Complete_NoCandidates(t *testing.T) {
	srv := newServer(t, `{"candidates": [], "usageMetadata": {"promptTokenCount": 12}}`)

	cfg := DefaultConfig("test-key", "gemini-test")
	cfg.BaseURL = srv.URL
	a, err := NewAdapter(context.Background(), cfg)
	require.NoError(t, err)

	got, err := a.Complete(context.Background(), "pick one")
	assert.Error(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 12, got.Usage.PromptTokens)
}
