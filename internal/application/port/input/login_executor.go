package input

import (
	"context"

	"login-agent/internal/domain/entity"
)

type LoginExecutor interface {
	Execute(ctx context.Context, url string, data entity.UserData) (*entity.RunReport, error)
}
