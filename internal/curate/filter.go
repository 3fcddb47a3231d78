package curate

import "fwbids/internal/flywheel"

// FilterBySubject retains sessions whose subject label is a member of labels.
// An empty filter returns the input unchanged.
func FilterBySubject(sessions []flywheel.Session, labels []string) []flywheel.Session {
	if len(labels) == 0 {
		return sessions
	}
	wanted := toSet(labels)
	filtered := make([]flywheel.Session, 0, len(sessions))
	for _, session := range sessions {
		if _, ok := wanted[session.Subject.Label]; ok {
			filtered = append(filtered, session)
		}
	}
	return filtered
}

// FilterBySession retains sessions whose own label is a member of labels.
// An empty filter returns the input unchanged.
func FilterBySession(sessions []flywheel.Session, labels []string) []flywheel.Session {
	if len(labels) == 0 {
		return sessions
	}
	wanted := toSet(labels)
	filtered := make([]flywheel.Session, 0, len(sessions))
	for _, session := range sessions {
		if _, ok := wanted[session.Label]; ok {
			filtered = append(filtered, session)
		}
	}
	return filtered
}

func toSet(labels []string) map[string]struct{} {
	set := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		set[label] = struct{}{}
	}
	return set
}
