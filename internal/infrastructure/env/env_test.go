package env

import (
	"os"
	"path/filepath"
	"testing"

	"login-agent/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func TestNewEnvService_LoadsAndOverloads(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("APP_ENV", "test")
	t.Setenv("LA_BASE_ONLY", "")
	t.Setenv("LA_SHARED", "")
	writeFile(t, filepath.Join(dir, ".env"), "LA_BASE_ONLY=base\nLA_SHARED=from-base\n")
	writeFile(t, filepath.Join(dir, ".env.test"), "LA_SHARED=from-test\n")
	os.Unsetenv("LA_BASE_ONLY")
	os.Unsetenv("LA_SHARED")

	e := NewEnvService(dir)

	assert.Equal(t, "test", e.AppEnv())
	assert.Len(t, e.Loaded(), 2)
	assert.Empty(t, e.Skipped())
	assert.Equal(t, "base", e.Get("LA_BASE_ONLY"))
	assert.Equal(t, "from-test", e.Get("LA_SHARED"))
}

func TestNewEnvService_MissingFiles(t *testing.T) {
	t.Setenv("APP_ENV", "")

	e := NewEnvService(t.TempDir())

	assert.Equal(t, "dev", e.AppEnv())
	assert.Empty(t, e.Loaded())
	assert.Len(t, e.Skipped(), 2)
}

type mapConfig map[string]string

func (m mapConfig) Get(key string) string { return m[key] }

func TestUserDataFrom_AllBlank(t *testing.T) {
	ud := UserDataFrom(mapConfig{KeyUsername: "  ", KeyDepartment: ""})

	assert.Equal(t, 0, ud.Len())
	assert.Empty(t, ud.Keys())
}

func TestEnvService_UserData(t *testing.T) {
	t.Setenv(KeyUsername, " student01 ")
	t.Setenv(KeyPassword, "s3cret ")
	t.Setenv(KeyStudentYear, "")
	t.Setenv(KeyDepartment, "Physics")

	ud := (&EnvService{}).UserData()

	assert.Equal(t, []string{entity.FieldUsername, entity.FieldPassword, entity.FieldDepartment}, ud.Keys())
	v, _ := ud.Get(entity.FieldUsername)
	assert.Equal(t, "student01", v)
	v, _ = ud.Get(entity.FieldPassword)
	assert.Equal(t, "s3cret ", v)
	_, ok := ud.Get(entity.FieldStudentYear)
	assert.False(t, ok)
}
