package dto

import "time"

// Hit is one history search match. Preview is a backend-truncated excerpt of
// the matching transcript.
type Hit struct {
	SessionID   string
	SessionName string
	Preview     string
	CreatedAt   time.Time
}
