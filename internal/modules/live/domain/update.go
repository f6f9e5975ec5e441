package domain

// Update is a full-state snapshot pushed by the backend for the session it
// is currently streaming. Each frame replaces prior state wholesale; a field
// absent from the wire frame decodes to its zero value and means "nothing
// new to show", never an error.
type Update struct {
	SessionID  string
	Transcript string
	Response   string
	Research   ResearchStatus
	Sources    []Source
	Insights   Insights
}

// ResearchStatus describes what the backend's search engine is doing.
// RecentSearches is most-recent-first and bounded by the backend.
type ResearchStatus struct {
	ActiveSearches []string
	RecentSearches []string
}

// Source is a citation. Its position in Update.Sources is the citation
// number shown to the user.
type Source struct {
	Title   string
	Snippet string
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type ActionItem struct {
	Text       string
	AssignedTo string
	Priority   Priority
	Completed  bool
}

type Insights struct {
	KeyTopics       []string
	DecisionsMade   []string
	QuestionsRaised []string
	ActionItems     []ActionItem
}

// Empty reports whether the snapshot carries nothing to display.
func (u Update) Empty() bool {
	return u.Transcript == "" && u.Response == "" &&
		len(u.Research.ActiveSearches) == 0 && len(u.Research.RecentSearches) == 0 &&
		len(u.Sources) == 0 && u.Insights.Empty()
}

func (i Insights) Empty() bool {
	return len(i.KeyTopics) == 0 && len(i.DecisionsMade) == 0 &&
		len(i.QuestionsRaised) == 0 && len(i.ActionItems) == 0
}
