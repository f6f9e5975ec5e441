package in

import (
	"context"

	sessiondto "attune/internal/modules/session/dto"
	sessionin "attune/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]sessiondto.SessionOutput, error) {
	if err := h.usecase.Refresh(ctx); err != nil {
		return nil, err
	}
	return h.usecase.List(), nil
}

func (h CLIHandler) Create(ctx context.Context, name string, useAPI, enableSearch bool) (sessiondto.SessionOutput, error) {
	return h.usecase.Create(ctx, sessiondto.CreateInput{Name: name, UseAPI: useAPI, EnableSearch: enableSearch})
}

func (h CLIHandler) Activate(ctx context.Context, id string) error {
	if err := h.usecase.Refresh(ctx); err != nil {
		return err
	}
	return h.usecase.Activate(ctx, id)
}

func (h CLIHandler) Delete(ctx context.Context, id string) error {
	if err := h.usecase.Refresh(ctx); err != nil {
		return err
	}
	return h.usecase.Delete(ctx, id)
}

func (h CLIHandler) Start(ctx context.Context, id string, useAPI, enableSearch bool) error {
	if err := h.usecase.Refresh(ctx); err != nil {
		return err
	}
	return h.usecase.Start(ctx, sessiondto.StartInput{SessionID: id, UseAPI: useAPI, EnableSearch: enableSearch})
}

func (h CLIHandler) Stop(ctx context.Context, id string) error {
	if err := h.usecase.Refresh(ctx); err != nil {
		return err
	}
	return h.usecase.Stop(ctx, id)
}

func (h CLIHandler) Clear(ctx context.Context) error {
	return h.usecase.Clear(ctx)
}

func (h CLIHandler) DeepDive(ctx context.Context, id, query string) error {
	if err := h.usecase.Refresh(ctx); err != nil {
		return err
	}
	if id == "" {
		id = h.usecase.ActiveID()
	}
	return h.usecase.DeepDive(ctx, id, query)
}

func (h CLIHandler) EmailDraft(ctx context.Context, id, recipient, subject string) (sessiondto.EmailDraftOutput, error) {
	if err := h.usecase.Refresh(ctx); err != nil {
		return sessiondto.EmailDraftOutput{}, err
	}
	if id == "" {
		id = h.usecase.ActiveID()
	}
	return h.usecase.EmailDraft(ctx, sessiondto.EmailDraftInput{SessionID: id, Recipient: recipient, Subject: subject})
}
