package in

import (
	"context"

	"attune/internal/modules/search/dto"
)

// Querier is the blocking search surface used outside the TUI.
type Querier interface {
	Search(ctx context.Context, query string) ([]dto.Hit, error)
}
