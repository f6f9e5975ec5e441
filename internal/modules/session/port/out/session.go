package out

import (
	"context"

	livedomain "attune/internal/modules/live/domain"
	"attune/internal/modules/session/domain"
	"attune/internal/modules/session/dto"
)

// API is the request/response surface of the backend's session endpoints.
type API interface {
	List(ctx context.Context) ([]domain.Session, error)
	Create(ctx context.Context, name string, useAPI, enableSearch bool) (string, error)
	Activate(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Start(ctx context.Context, id string, useAPI, enableSearch bool) error
	Stop(ctx context.Context, id string) error
	Clear(ctx context.Context) error

	Transcript(ctx context.Context, id string) (string, error)
	Response(ctx context.Context, id string) (string, []livedomain.Source, error)
	Insights(ctx context.Context, id string) (livedomain.Insights, error)

	DeepDive(ctx context.Context, id, query string) error
	EmailDraft(ctx context.Context, input dto.EmailDraftInput) (dto.EmailDraftOutput, error)
}
