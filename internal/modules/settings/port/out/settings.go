package out

import (
	"context"

	"attune/internal/modules/settings/dto"
)

type API interface {
	Get(ctx context.Context) (dto.Settings, error)
	Update(ctx context.Context, input dto.UpdateInput) (dto.Settings, error)
}
