package out

import (
	"context"

	"attune/internal/modules/search/dto"
)

type HistoryAPI interface {
	Search(ctx context.Context, query string, limit int) ([]dto.Hit, error)
}
