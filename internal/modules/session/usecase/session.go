package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	livedomain "attune/internal/modules/live/domain"
	"attune/internal/modules/session/dto"
	sessionin "attune/internal/modules/session/port/in"
	sessionout "attune/internal/modules/session/port/out"
	"attune/internal/modules/session/service"
	apperrors "attune/internal/platform/errors"
)

type Interactor struct {
	registry *service.Registry
	api      sessionout.API
	log      *zap.Logger
}

func NewInteractor(registry *service.Registry, api sessionout.API, log *zap.Logger) sessionin.Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Interactor{registry: registry, api: api, log: log}
}

func (i *Interactor) Refresh(ctx context.Context) error {
	return i.registry.Refresh(ctx)
}

func (i *Interactor) List() []dto.SessionOutput {
	sessions := i.registry.Sessions()
	out := make([]dto.SessionOutput, len(sessions))
	for n, s := range sessions {
		out[n] = dto.SessionOutput{
			ID:        s.ID,
			Name:      s.Name,
			Running:   s.Running,
			Active:    s.Active,
			CreatedAt: s.CreatedAt,
		}
	}
	return out
}

func (i *Interactor) ActiveID() string {
	return i.registry.ActiveID()
}

func (i *Interactor) Create(ctx context.Context, input dto.CreateInput) (dto.SessionOutput, error) {
	created, err := i.registry.Create(ctx, input.Name, input.UseAPI, input.EnableSearch)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return dto.SessionOutput{
		ID:        created.ID,
		Name:      created.Name,
		Running:   created.Running,
		Active:    created.Active,
		CreatedAt: created.CreatedAt,
	}, nil
}

func (i *Interactor) Activate(ctx context.Context, id string) error {
	return i.registry.Activate(ctx, id)
}

func (i *Interactor) Delete(ctx context.Context, id string) error {
	return i.registry.Delete(ctx, id)
}

func (i *Interactor) Start(ctx context.Context, input dto.StartInput) error {
	id := input.SessionID
	if id == "" {
		id = i.registry.ActiveID()
	}
	if id == "" {
		return apperrors.ErrNoSession
	}
	return i.registry.Start(ctx, id, input.UseAPI, input.EnableSearch)
}

func (i *Interactor) Stop(ctx context.Context, id string) error {
	if id == "" {
		id = i.registry.ActiveID()
	}
	if id == "" {
		return apperrors.ErrNoSession
	}
	return i.registry.Stop(ctx, id)
}

func (i *Interactor) Clear(ctx context.Context) error {
	if err := i.api.Clear(ctx); err != nil {
		return fmt.Errorf("clear context: %w", err)
	}
	return nil
}

// FetchHistory pulls the stored transcript, response, and insights of a
// session. Individual fetch failures degrade to empty sections; the call
// errors only when every section is unreachable.
func (i *Interactor) FetchHistory(ctx context.Context, id string) (livedomain.Update, error) {
	if id == "" {
		return livedomain.Update{}, apperrors.ErrNoSession
	}
	update := livedomain.Update{SessionID: id}

	transcript, terr := i.api.Transcript(ctx, id)
	if terr == nil {
		update.Transcript = transcript
	} else {
		i.log.Debug("transcript fetch failed", zap.String("session", id), zap.Error(terr))
	}

	response, sources, rerr := i.api.Response(ctx, id)
	if rerr == nil {
		update.Response = response
		update.Sources = sources
	} else {
		i.log.Debug("response fetch failed", zap.String("session", id), zap.Error(rerr))
	}

	insights, ierr := i.api.Insights(ctx, id)
	if ierr == nil {
		update.Insights = insights
	} else {
		i.log.Debug("insights fetch failed", zap.String("session", id), zap.Error(ierr))
	}

	if terr != nil && rerr != nil && ierr != nil {
		return livedomain.Update{}, fmt.Errorf("fetch session history: %w", terr)
	}
	return update, nil
}

func (i *Interactor) DeepDive(ctx context.Context, id, query string) error {
	if id == "" {
		return apperrors.ErrNoSession
	}
	if query == "" {
		return fmt.Errorf("%w: deep dive query is required", apperrors.ErrInvalidInput)
	}
	if err := i.api.DeepDive(ctx, id, query); err != nil {
		return fmt.Errorf("deep dive: %w", err)
	}
	return nil
}

func (i *Interactor) EmailDraft(ctx context.Context, input dto.EmailDraftInput) (dto.EmailDraftOutput, error) {
	if input.SessionID == "" {
		return dto.EmailDraftOutput{}, apperrors.ErrNoSession
	}
	draft, err := i.api.EmailDraft(ctx, input)
	if err != nil {
		return dto.EmailDraftOutput{}, fmt.Errorf("email draft: %w", err)
	}
	return draft, nil
}
