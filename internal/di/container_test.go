package di

import (
	"context"
	"os"
	"testing"
	"time"

	"login-agent/internal/domain/entity"
	"login-agent/internal/infrastructure/config"
	"login-agent/internal/testutil"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Chdir(t.TempDir())

	v := viper.New()
	v.Set("run.no_hold", true)
	v.Set("run.settle_delay", time.Duration(0))
	v.Set("log.dir", t.TempDir())
	v.Set("llm.api_key", "test-key")

	cfg, err := config.Load(v, "")
	require.NoError(t, err)
	return cfg
}

func TestNewContainer_WiresRun(t *testing.T) {
	cfg := testConfig(t)

	browser := testutil.NewBrowser()
	browser.Scan = []*testutil.Element{{Tag: "button", InnerText: "Sign in", Attrs: map[string]string{"id": "signin"}}}
	browser.Matches["#signin"] = browser.Scan
	browser.Matches["form"] = []*testutil.Element{{Tag: "form"}}
	browser.InnerHTMLs["form"] = `<input id="u"><input id="p" type="password"><button id="b">Login</button>`
	browser.Matches["#u"] = []*testutil.Element{{Tag: "input"}}
	browser.Matches["#p"] = []*testutil.Element{{Tag: "input"}}
	browser.Matches["#b"] = []*testutil.Element{{Tag: "button", InnerText: "Login"}}

	model := &testutil.LLM{Responses: []string{
		`"#signin"`,
		`{"username": "#u", "password": "#p", "submit": "#b"}`,
	}}
	ui := testutil.NewInteraction()

	c, err := NewContainer(context.Background(), cfg,
		WithBrowser(browser), WithLLM(model), WithUserInteraction(ui), WithRunID("run-42"))
	require.NoError(t, err)

	assert.Equal(t, "run-42", c.RunID)
	assert.Same(t, model, c.LLM)

	data := entity.NewUserData(
		entity.UserField{Key: entity.FieldUsername, Value: "alice"},
		entity.UserField{Key: entity.FieldPassword, Value: "pw"},
	)
	report, err := c.LoginExecutor.Execute(context.Background(), "https://portal.test", data)
	require.NoError(t, err)

	assert.Equal(t, "run-42", report.RunID)
	assert.True(t, report.TriggerClicked)
	assert.True(t, report.Submitted)
	assert.Equal(t, []string{"username", "password"}, report.Filled)
	assert.False(t, ui.Waited)

	c.Close()
	assert.True(t, browser.Closed)
}

func TestNewContainer_GeneratesRunID(t *testing.T) {
	cfg := testConfig(t)

	c, err := NewContainer(context.Background(), cfg,
		WithBrowser(testutil.NewBrowser()), WithLLM(&testutil.LLM{}), WithUserInteraction(testutil.NewInteraction()))
	require.NoError(t, err)
	defer c.Close()

	assert.Len(t, c.RunID, 36)

	entries, err := os.ReadDir(cfg.Log.Dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestNewContainer_ProviderError(t *testing.T) {
	cfg := testConfig(t)
	cfg.LLM.APIKey = ""
	cfg.OpenAIKey = ""

	_, err := NewContainer(context.Background(), cfg, WithBrowser(testutil.NewBrowser()))
	assert.Error(t, err)
}
