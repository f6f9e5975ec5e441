package in

import (
	"context"

	livedomain "attune/internal/modules/live/domain"
	"attune/internal/modules/session/dto"
)

type Usecase interface {
	Refresh(ctx context.Context) error
	List() []dto.SessionOutput
	ActiveID() string
	Create(ctx context.Context, input dto.CreateInput) (dto.SessionOutput, error)
	Activate(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Start(ctx context.Context, input dto.StartInput) error
	Stop(ctx context.Context, id string) error
	Clear(ctx context.Context) error

	// FetchHistory assembles the stored transcript, response, and insights of
	// a session into one snapshot, used when switching tabs.
	FetchHistory(ctx context.Context, id string) (livedomain.Update, error)

	DeepDive(ctx context.Context, id, query string) error
	EmailDraft(ctx context.Context, input dto.EmailDraftInput) (dto.EmailDraftOutput, error)
}
