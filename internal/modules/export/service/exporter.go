package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"attune/internal/modules/export/domain"
	exportout "attune/internal/modules/export/port/out"
	"attune/internal/platform/clock"
	apperrors "attune/internal/platform/errors"
)

// Exporter owns the current export artifact. Copy and Download only read the
// stored artifact and never re-issue the export request, so repeating them
// is free of backend side effects.
type Exporter struct {
	api   exportout.API
	clip  exportout.Clipboard
	files exportout.FileWriter
	clk   clock.Clock
	log   *zap.Logger

	mu       sync.Mutex
	artifact *domain.Artifact
}

func NewExporter(api exportout.API, clip exportout.Clipboard, files exportout.FileWriter, clk clock.Clock, log *zap.Logger) *Exporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Exporter{api: api, clip: clip, files: files, clk: clk, log: log}
}

// Export renders the session in the requested format and stores the result.
// An empty session id fails locally before any network call. Requesting a
// new export discards the prior artifact whether or not the request
// succeeds.
func (e *Exporter) Export(ctx context.Context, sessionID string, format domain.Format, include domain.Include) error {
	if sessionID == "" {
		return apperrors.ErrNoSession
	}
	e.Discard()

	content, err := e.api.Export(ctx, sessionID, format, include)
	if err != nil {
		return fmt.Errorf("export session: %w", err)
	}
	e.mu.Lock()
	e.artifact = &domain.Artifact{
		SessionID: sessionID,
		Format:    format,
		Include:   include,
		Content:   content,
	}
	e.mu.Unlock()
	return nil
}

func (e *Exporter) Artifact() (domain.Artifact, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.artifact == nil {
		return domain.Artifact{}, false
	}
	return *e.artifact, true
}

// Copy puts the stored artifact's content on the clipboard.
func (e *Exporter) Copy() error {
	artifact, ok := e.Artifact()
	if !ok {
		return apperrors.ErrNoArtifact
	}
	if err := e.clip.Write(artifact.Content); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}

// Download writes the stored artifact into dir and returns the full path.
func (e *Exporter) Download(dir string) (string, error) {
	artifact, ok := e.Artifact()
	if !ok {
		return "", apperrors.ErrNoArtifact
	}
	path := filepath.Join(dir, artifact.Filename(e.clk))
	if err := e.files.Write(path, []byte(artifact.Content)); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}
	e.log.Info("export downloaded", zap.String("path", path))
	return path, nil
}

// Discard drops the stored artifact, used when the export dialog closes.
func (e *Exporter) Discard() {
	e.mu.Lock()
	e.artifact = nil
	e.mu.Unlock()
}
