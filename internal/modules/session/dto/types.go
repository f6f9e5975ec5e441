package dto

import "time"

type CreateInput struct {
	Name         string
	UseAPI       bool
	EnableSearch bool
}

type SessionOutput struct {
	ID        string
	Name      string
	Running   bool
	Active    bool
	CreatedAt time.Time
}

type StartInput struct {
	SessionID    string
	UseAPI       bool
	EnableSearch bool
}

type EmailDraftInput struct {
	SessionID string
	Recipient string
	Subject   string
}

type EmailDraftOutput struct {
	Subject string
	To      string
	Body    string
}
