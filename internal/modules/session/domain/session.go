package domain

import "time"

type Session struct {
	ID        string
	Name      string
	Running   bool
	Active    bool
	CreatedAt time.Time
}

// Replacement picks the session that becomes active after deletedID is
// removed. Deterministic: always the lowest remaining id. Returns false when
// nothing remains.
func Replacement(sessions []Session, deletedID string) (string, bool) {
	lowest := ""
	for _, s := range sessions {
		if s.ID == deletedID {
			continue
		}
		if lowest == "" || s.ID < lowest {
			lowest = s.ID
		}
	}
	return lowest, lowest != ""
}

// Reconcile merges a server list with the local active pointer. The server
// list always wins on membership and running flags. The local active pointer
// survives only while the server still lists that session; otherwise the
// server's flagged active is adopted, falling back to the lowest id. At most
// one session comes back marked active.
func Reconcile(serverList []Session, localActiveID string) ([]Session, string) {
	merged := make([]Session, len(serverList))
	copy(merged, serverList)

	activeID := ""
	if localActiveID != "" {
		for _, s := range merged {
			if s.ID == localActiveID {
				activeID = localActiveID
				break
			}
		}
	}
	if activeID == "" {
		for _, s := range merged {
			if s.Active {
				activeID = s.ID
				break
			}
		}
	}
	if activeID == "" && len(merged) > 0 {
		lowest := merged[0].ID
		for _, s := range merged[1:] {
			if s.ID < lowest {
				lowest = s.ID
			}
		}
		activeID = lowest
	}

	for i := range merged {
		merged[i].Active = merged[i].ID == activeID
	}
	return merged, activeID
}
