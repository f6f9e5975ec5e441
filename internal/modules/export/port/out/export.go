package out

import (
	"context"

	"attune/internal/modules/export/domain"
)

type API interface {
	Export(ctx context.Context, sessionID string, format domain.Format, include domain.Include) (string, error)
}

type Clipboard interface {
	Write(text string) error
}

type FileWriter interface {
	Write(path string, content []byte) error
}
