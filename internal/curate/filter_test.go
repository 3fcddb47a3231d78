package curate_test

import (
	"reflect"
	"testing"

	"fwbids/internal/curate"
	"fwbids/internal/flywheel"
)

func session(subject, label string) flywheel.Session {
	return flywheel.Session{
		ID:      label,
		Label:   label,
		Subject: flywheel.Subject{ID: "subj-" + subject, Label: subject},
	}
}

func labels(sessions []flywheel.Session) []string {
	out := make([]string, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.Subject.Label+"/"+s.Label)
	}
	return out
}

func TestFilterBySubjectExactMembership(t *testing.T) {
	sessions := []flywheel.Session{
		session("sub-01", "ses-1"),
		session("sub-02", "ses-1"),
		session("sub-01", "ses-2"),
		session("sub-011", "ses-1b"),
	}

	got := curate.FilterBySubject(sessions, []string{"sub-01"})
	want := []string{"sub-01/ses-1", "sub-01/ses-2"}
	if !reflect.DeepEqual(labels(got), want) {
		t.Fatalf("filtered = %v, want %v", labels(got), want)
	}
}

func TestEmptyFiltersReturnInputUnchanged(t *testing.T) {
	sessions := []flywheel.Session{session("sub-01", "ses-1"), session("sub-02", "ses-2")}

	if got := curate.FilterBySubject(sessions, nil); !reflect.DeepEqual(got, sessions) {
		t.Fatalf("empty subject filter changed result: %v", labels(got))
	}
	if got := curate.FilterBySession(sessions, nil); !reflect.DeepEqual(got, sessions) {
		t.Fatalf("empty session filter changed result: %v", labels(got))
	}
}

func TestCombinedFiltersIntersectAndCommute(t *testing.T) {
	sessions := []flywheel.Session{
		session("sub-01", "ses-1"),
		session("sub-01", "ses-2"),
		session("sub-02", "ses-1"),
		session("sub-02", "ses-2"),
	}
	subjects := []string{"sub-01"}
	sessionLabels := []string{"ses-2"}

	subjectFirst := curate.FilterBySession(curate.FilterBySubject(sessions, subjects), sessionLabels)
	sessionFirst := curate.FilterBySubject(curate.FilterBySession(sessions, sessionLabels), subjects)

	want := []string{"sub-01/ses-2"}
	if !reflect.DeepEqual(labels(subjectFirst), want) {
		t.Fatalf("intersection = %v, want %v", labels(subjectFirst), want)
	}
	if !reflect.DeepEqual(labels(subjectFirst), labels(sessionFirst)) {
		t.Fatalf("filter order changed result: %v vs %v", labels(subjectFirst), labels(sessionFirst))
	}
}

func TestFilterToEmptyIsNotAnError(t *testing.T) {
	sessions := []flywheel.Session{session("sub-01", "ses-1")}
	got := curate.FilterBySubject(sessions, []string{"sub-99"})
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %v", labels(got))
	}
}
