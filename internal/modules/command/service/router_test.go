package service_test

import (
	"testing"

	"attune/internal/modules/command/domain"
	"attune/internal/modules/command/service"
)

func TestDispatchMapsEveryRegistryActionToAnEffect(t *testing.T) {
	t.Parallel()
	r := service.NewRouter(nil)
	for _, d := range domain.Registry() {
		if eff := r.Dispatch(d); eff.Kind == service.EffectNone {
			t.Errorf("command %q dispatched to no-op", d.ID)
		}
	}
}

func TestDispatchCarriesExportFormatParam(t *testing.T) {
	t.Parallel()
	r := service.NewRouter(nil)
	eff := r.Dispatch(domain.Descriptor{
		ID:     "export-html",
		Action: domain.ActionExport,
		Params: map[string]string{"format": "html"},
	})
	if eff.Kind != service.EffectOpenExport || eff.Format != "html" {
		t.Fatalf("unexpected effect: %+v", eff)
	}
}

func TestUnknownActionTagIsANoOpNotAnError(t *testing.T) {
	t.Parallel()
	r := service.NewRouter(nil)
	eff := r.Dispatch(domain.Descriptor{ID: "mystery", Action: domain.Action("summon")})
	if eff.Kind != service.EffectNone {
		t.Fatalf("expected no-op effect, got %+v", eff)
	}
}
