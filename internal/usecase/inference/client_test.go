package inference

import (
	"context"
	"errors"
	"testing"

	"login-agent/internal/domain/entity"
	"login-agent/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectTrigger_ReturnsRawTextAndUsage(t *testing.T) {
	llm := &testutil.LLM{Responses: []string{"'.login'"}, Usage: entity.Usage{PromptTokens: 50, CompletionTokens: 3}}
	c := New(llm, testutil.NewLogger())

	resp, err := c.SelectTrigger(context.Background(), []entity.Candidate{{Selector: "a.login", Text: "login"}})
	require.NoError(t, err)
	assert.Equal(t, "'.login'", resp.Text)
	assert.Equal(t, entity.Usage{PromptTokens: 50, CompletionTokens: 3}, resp.Usage)
	require.Len(t, llm.Prompts, 1)
	assert.Contains(t, llm.Prompts[0], "a.login")
}

func TestMapFields_CleansMarkup(t *testing.T) {
	llm := &testutil.LLM{Responses: []string{"{}"}}
	c := New(llm, testutil.NewLogger())

	_, err := c.MapFields(context.Background(), []string{"username"}, `<input id="u"><script>track()</script>`)
	require.NoError(t, err)
	assert.Contains(t, llm.Prompts[0], `id="u"`)
	assert.NotContains(t, llm.Prompts[0], "track()")
}

func TestComplete_ClampsNegativeUsage(t *testing.T) {
	llm := &testutil.LLM{Responses: []string{"x"}, Usage: entity.Usage{PromptTokens: -4, CompletionTokens: 2}}
	c := New(llm, testutil.NewLogger())

	resp, err := c.MapFields(context.Background(), nil, "")
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Usage.PromptTokens)
	assert.Equal(t, 2, resp.Usage.CompletionTokens)
}

func TestComplete_WrapsProviderFailure(t *testing.T) {
	cause := errors.New("connection reset")
	llm := &testutil.LLM{Err: cause}
	c := New(llm, testutil.NewLogger())

	_, err := c.SelectTrigger(context.Background(), nil)
	assert.ErrorIs(t, err, entity.ErrProviderFailure)
	assert.ErrorIs(t, err, cause)
	assert.Len(t, llm.Prompts, 1, "exactly one attempt")
}

func TestComplete_FailureKeepsBilledUsage(t *testing.T) {
	llm := &testutil.LLM{
		Err:     errors.New("no choices in response"),
		Partial: &entity.Completion{Usage: entity.Usage{PromptTokens: 410, CompletionTokens: -3}},
	}
	c := New(llm, testutil.NewLogger())

	resp, err := c.MapFields(context.Background(), []string{"username"}, "<input id=u>")
	assert.ErrorIs(t, err, entity.ErrProviderFailure)
	require.NotNil(t, resp)
	assert.Equal(t, 410, resp.Usage.PromptTokens)
	assert.Equal(t, 0, resp.Usage.CompletionTokens)
}

func TestWithTemplates(t *testing.T) {
	llm := &testutil.LLM{Responses: []string{"#a"}}
	c := New(llm, testutil.NewLogger(), WithTemplates("PICK ONE: {{.Candidates}}", ""))

	_, err := c.SelectTrigger(context.Background(), []entity.Candidate{{Selector: "#a"}})
	require.NoError(t, err)
	assert.Contains(t, llm.Prompts[0], "PICK ONE: [")
}
