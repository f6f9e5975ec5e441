package domain

import "strings"

// Action is the closed set of things a command can ask the application to
// do. Descriptors carry one of these tags; anything else is a no-op.
type Action string

const (
	ActionNewSession    Action = "new-session"
	ActionExport        Action = "export"
	ActionEmailDraft    Action = "email-draft"
	ActionSearchHistory Action = "search-history"
	ActionSettings      Action = "settings"
	ActionDeepDive      Action = "deep-dive"
)

// Descriptor is one palette entry. Params carry fixed arguments bound at
// registry time, like an export format.
type Descriptor struct {
	ID       string
	Name     string
	Shortcut string
	Action   Action
	Params   map[string]string
	Keywords []string
}

// Registry returns the fixed command set in display order.
func Registry() []Descriptor {
	return []Descriptor{
		{
			ID:       "new-session",
			Name:     "New Session",
			Shortcut: "ctrl+n",
			Action:   ActionNewSession,
			Keywords: []string{"create", "start", "begin"},
		},
		{
			ID:       "export-markdown",
			Name:     "Export as Markdown",
			Action:   ActionExport,
			Params:   map[string]string{"format": "md"},
			Keywords: []string{"download", "save", "md"},
		},
		{
			ID:       "export-json",
			Name:     "Export as JSON",
			Action:   ActionExport,
			Params:   map[string]string{"format": "json"},
			Keywords: []string{"download", "save"},
		},
		{
			ID:       "export-html",
			Name:     "Export as HTML",
			Action:   ActionExport,
			Params:   map[string]string{"format": "html"},
			Keywords: []string{"download", "save", "web"},
		},
		{
			ID:       "email-draft",
			Name:     "Generate Email Draft",
			Action:   ActionEmailDraft,
			Keywords: []string{"compose", "write", "follow-up"},
		},
		{
			ID:       "search-history",
			Name:     "Search History",
			Shortcut: "ctrl+f",
			Action:   ActionSearchHistory,
			Keywords: []string{"find", "past", "previous"},
		},
		{
			ID:       "settings",
			Name:     "Settings",
			Shortcut: "ctrl+,",
			Action:   ActionSettings,
			Keywords: []string{"preferences", "config", "options"},
		},
		{
			ID:       "deep-dive",
			Name:     "Deep Dive Research...",
			Action:   ActionDeepDive,
			Keywords: []string{"research", "explore", "investigate"},
		},
	}
}

// Filter returns the descriptors whose name or any keyword contains the
// query, case-insensitively, preserving registry order. An empty query
// matches everything.
func Filter(descriptors []Descriptor, query string) []Descriptor {
	q := strings.ToLower(query)
	if q == "" {
		return descriptors
	}
	var out []Descriptor
	for _, d := range descriptors {
		if matches(d, q) {
			out = append(out, d)
		}
	}
	return out
}

func matches(d Descriptor, q string) bool {
	if strings.Contains(strings.ToLower(d.Name), q) {
		return true
	}
	for _, k := range d.Keywords {
		if strings.Contains(k, q) {
			return true
		}
	}
	return false
}

// Step moves a selection index by delta with wraparound over n entries.
// With nothing to select it stays at zero.
func Step(index, delta, n int) int {
	if n == 0 {
		return 0
	}
	return ((index+delta)%n + n) % n
}
