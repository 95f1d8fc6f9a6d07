package env

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"login-agent/internal/application/port/output"
	"login-agent/internal/domain/entity"

	"github.com/joho/godotenv"
)

var _ output.ConfigPort = (*EnvService)(nil)

// Variables holding the operator's login data.
const (
	KeyUsername    = "COMMON_APP_ID"
	KeyPassword    = "COMMON_APP_PASSWORD"
	KeyStudentYear = "STUDENT_YEAR"
	KeyDepartment  = "DEPARTMENT"
)

type EnvService struct {
	appEnv  string
	loaded  []string
	skipped []string
}

// NewEnvService loads dir/.env and then dir/.env.<APP_ENV> over it.
// Missing files are recorded, not fatal.
func NewEnvService(dir string) *EnvService {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "dev"
	}

	e := &EnvService{appEnv: appEnv}

	base := filepath.Join(dir, ".env")
	if err := godotenv.Load(base); err != nil {
		e.skipped = append(e.skipped, base)
	} else {
		e.loaded = append(e.loaded, base)
	}

	envFile := filepath.Join(dir, fmt.Sprintf(".env.%s", appEnv))
	if err := godotenv.Overload(envFile); err != nil {
		e.skipped = append(e.skipped, envFile)
	} else {
		e.loaded = append(e.loaded, envFile)
	}

	return e
}

func (e *EnvService) AppEnv() string {
	return e.appEnv
}

// Loaded lists the dotenv files that were applied, in order.
func (e *EnvService) Loaded() []string {
	return append([]string(nil), e.loaded...)
}

// Skipped lists the dotenv files that were absent or unreadable.
func (e *EnvService) Skipped() []string {
	return append([]string(nil), e.skipped...)
}

func (e *EnvService) Get(key string) string {
	return os.Getenv(key)
}

// UserData reads the login fields in fill order. Unset or blank
// variables are left out.
func (e *EnvService) UserData() entity.UserData {
	return UserDataFrom(e)
}

func UserDataFrom(cfg output.ConfigPort) entity.UserData {
	return entity.NewUserData(
		entity.UserField{Key: entity.FieldUsername, Value: strings.TrimSpace(cfg.Get(KeyUsername))},
		entity.UserField{Key: entity.FieldPassword, Value: cfg.Get(KeyPassword)},
		entity.UserField{Key: entity.FieldStudentYear, Value: strings.TrimSpace(cfg.Get(KeyStudentYear))},
		entity.UserField{Key: entity.FieldDepartment, Value: strings.TrimSpace(cfg.Get(KeyDepartment))},
	)
}
