package main

import (
	"path/filepath"
	"testing"

	"login-agent/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd_FlagsCoverConfigKeys(t *testing.T) {
	cmd := newRootCmd()

	for key, name := range config.FlagKeys {
		assert.NotNil(t, cmd.Flags().Lookup(name), "flag for %s", key)
	}
	assert.NotNil(t, cmd.Flags().Lookup("config"))
}

func TestNewRootCmd_RejectsExtraArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"https://a.test", "https://b.test"})

	err := cmd.Execute()
	require.Error(t, err)
}

func TestNewRootCmd_EmptyLoginDataStillRuns(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("COMMON_APP_ID", "")
	t.Setenv("COMMON_APP_PASSWORD", "")
	t.Setenv("STUDENT_YEAR", "")
	t.Setenv("DEPARTMENT", "")
	t.Setenv("OPENAI_API_KEY", "test-key")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"https://portal.test", "--no-hold", "--headless",
		"--browser-bin", filepath.Join(t.TempDir(), "no-such-browser")})

	// The run gets past login data and stops at browser launch.
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "initialization failed")
	assert.NotContains(t, err.Error(), "login data")
}
