package service

import (
	"go.uber.org/zap"

	"attune/internal/modules/command/domain"
)

// EffectKind enumerates what the application should do after a command is
// invoked. Effects are descriptions; the UI layer executes them.
type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectNewSession
	EffectOpenExport
	EffectEmailDraft
	EffectOpenSearch
	EffectOpenSettings
	EffectPromptDeepDive
)

type Effect struct {
	Kind   EffectKind
	Format string
}

// Router turns an invoked descriptor into an effect. Unknown action tags are
// logged and become a no-op, never an error.
type Router struct {
	log *zap.Logger
}

func NewRouter(log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{log: log}
}

func (r *Router) Dispatch(d domain.Descriptor) Effect {
	switch d.Action {
	case domain.ActionNewSession:
		return Effect{Kind: EffectNewSession}
	case domain.ActionExport:
		return Effect{Kind: EffectOpenExport, Format: d.Params["format"]}
	case domain.ActionEmailDraft:
		return Effect{Kind: EffectEmailDraft}
	case domain.ActionSearchHistory:
		return Effect{Kind: EffectOpenSearch}
	case domain.ActionSettings:
		return Effect{Kind: EffectOpenSettings}
	case domain.ActionDeepDive:
		return Effect{Kind: EffectPromptDeepDive}
	default:
		r.log.Warn("unknown command action", zap.String("command", d.ID), zap.String("action", string(d.Action)))
		return Effect{Kind: EffectNone}
	}
}
