package in

import (
	"context"

	"attune/internal/modules/search/dto"
	searchin "attune/internal/modules/search/port/in"
)

type CLIHandler struct {
	querier searchin.Querier
}

func NewCLIHandler(querier searchin.Querier) CLIHandler {
	return CLIHandler{querier: querier}
}

func (h CLIHandler) Search(ctx context.Context, query string) ([]dto.Hit, error) {
	return h.querier.Search(ctx, query)
}
