package domain

import (
	"fmt"
	"strconv"

	"attune/internal/platform/clock"
)

// Format is the closed set of export formats the backend can render.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatHTML     Format = "html"
)

func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatJSON:
		return ".json"
	case FormatHTML:
		return ".html"
	}
	return ""
}

// ParseFormat accepts both wire names and the short aliases used by the
// command registry.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "html":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Include selects which sections the backend puts into the artifact. The
// three flags are independent.
type Include struct {
	Transcript bool
	Sources    bool
	Insights   bool
}

func IncludeAll() Include {
	return Include{Transcript: true, Sources: true, Insights: true}
}

// Artifact is one rendered export, held in memory until the export dialog
// closes or a new export replaces it.
type Artifact struct {
	SessionID string
	Format    Format
	Include   Include
	Content   string
}

const filenamePrefix = "attune-export-"

// Filename synthesizes the download name from the fixed prefix, the current
// time in unix milliseconds, and the format's extension.
func (a Artifact) Filename(clk clock.Clock) string {
	return filenamePrefix + strconv.FormatInt(clk.Now().UnixMilli(), 10) + a.Format.Extension()
}
