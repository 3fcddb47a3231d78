package convert_test

import (
	"context"
	"errors"
	"testing"

	"fwbids/internal/bids"
	"fwbids/internal/convert"
	"fwbids/internal/logging"
	"fwbids/internal/query"
	"fwbids/internal/testsupport"
)

func boldSeq(subject, session, acqID string) query.SeqInfo {
	return query.SeqInfo{
		SeriesID:      acqID,
		ProtocolName:  "task-rest_bold",
		SubjectLabel:  subject,
		SessionLabel:  session,
		AcquisitionID: acqID,
		FileNames:     []string{"task-rest_bold.dicom.zip"},
	}
}

func TestApplyHeuristicWritesBIDSInfoPerFile(t *testing.T) {
	fake := testsupport.NewFakeClient(t)
	key := bids.Key("sub-{subject}/ses-{session}/func/sub-{subject}_ses-{session}_task-rest_bold")

	actions, err := convert.ApplyHeuristic(context.Background(), fake, logging.NewNop(), key,
		[]query.SeqInfo{boldSeq("sub-01", "ses-1", "a1")}, false, nil)
	if err != nil {
		t.Fatalf("ApplyHeuristic: %v", err)
	}
	if len(actions) != 1 {
		t.Fatalf("expected one action, got %d", len(actions))
	}
	want := "sub-01/ses-1/func/sub-01_ses-1_task-rest_bold.dicom.zip"
	if actions[0].Destination != want {
		t.Fatalf("destination = %q, want %q", actions[0].Destination, want)
	}

	if len(fake.Writes) != 1 {
		t.Fatalf("expected one remote write, got %d", len(fake.Writes))
	}
	info, ok := fake.Writes[0].Info["BIDS"].(map[string]any)
	if !ok {
		t.Fatalf("expected BIDS namespace in write, got %v", fake.Writes[0].Info)
	}
	if info["Filename"] != "sub-01_ses-1_task-rest_bold.dicom.zip" {
		t.Fatalf("unexpected BIDS filename: %v", info["Filename"])
	}
	if info["Folder"] != "func" {
		t.Fatalf("unexpected BIDS folder: %v", info["Folder"])
	}
}

func TestApplyHeuristicNumbersRepeatedItems(t *testing.T) {
	fake := testsupport.NewFakeClient(t)
	key := bids.Key("sub-{subject}/func/sub-{subject}_task-rest_run-{item}_bold")

	matched := []query.SeqInfo{boldSeq("sub-01", "ses-1", "a1"), boldSeq("sub-01", "ses-1", "a2")}
	actions, err := convert.ApplyHeuristic(context.Background(), fake, logging.NewNop(), key, matched, false, nil)
	if err != nil {
		t.Fatalf("ApplyHeuristic: %v", err)
	}
	if len(actions) != 2 {
		t.Fatalf("expected two actions, got %d", len(actions))
	}
	if actions[0].Destination != "sub-01/func/sub-01_task-rest_run-01_bold.dicom.zip" {
		t.Fatalf("first run destination: %q", actions[0].Destination)
	}
	if actions[1].Destination != "sub-01/func/sub-01_task-rest_run-02_bold.dicom.zip" {
		t.Fatalf("second run destination: %q", actions[1].Destination)
	}
}

func TestApplyHeuristicDryRunMakesNoWrites(t *testing.T) {
	fake := testsupport.NewFakeClient(t)
	fake.DisallowWrites()
	key := bids.Key("sub-{subject}/func/sub-{subject}_task-rest_bold")

	actions, err := convert.ApplyHeuristic(context.Background(), fake, logging.NewNop(), key,
		[]query.SeqInfo{boldSeq("sub-01", "ses-1", "a1")}, true, []string{"anat/sub-01_T1w.nii.gz"})
	if err != nil {
		t.Fatalf("ApplyHeuristic: %v", err)
	}
	if len(actions) != 1 {
		t.Fatalf("expected planned action under dry-run, got %d", len(actions))
	}
}

func TestApplyHeuristicWritesIntentions(t *testing.T) {
	fake := testsupport.NewFakeClient(t)
	key := bids.Key("sub-{subject}/fmap/sub-{subject}_phasediff")
	refs := []string{"func/sub-01_task-rest_bold.nii.gz"}

	seq := boldSeq("sub-01", "ses-1", "a1")
	if _, err := convert.ApplyHeuristic(context.Background(), fake, logging.NewNop(), key, []query.SeqInfo{seq}, false, refs); err != nil {
		t.Fatalf("ApplyHeuristic: %v", err)
	}
	if len(fake.Writes) != 2 {
		t.Fatalf("expected BIDS write plus intention write, got %d", len(fake.Writes))
	}
	intended, ok := fake.Writes[1].Info["IntendedFor"].([]string)
	if !ok || len(intended) != 1 || intended[0] != refs[0] {
		t.Fatalf("unexpected intention write: %v", fake.Writes[1].Info)
	}
}

func TestApplyHeuristicStopsOnWriteFailure(t *testing.T) {
	fake := testsupport.NewFakeClient(t)
	failure := errors.New("rejected")
	fake.FailWritesWith(failure)
	key := bids.Key("sub-{subject}/func/sub-{subject}_task-rest_bold")

	matched := []query.SeqInfo{boldSeq("sub-01", "ses-1", "a1"), boldSeq("sub-02", "ses-1", "a2")}
	_, err := convert.ApplyHeuristic(context.Background(), fake, logging.NewNop(), key, matched, false, nil)
	if !errors.Is(err, failure) {
		t.Fatalf("expected write failure to propagate, got %v", err)
	}
}

func TestUpdateIntentionsSkipsEmptyList(t *testing.T) {
	fake := testsupport.NewFakeClient(t)
	fake.DisallowWrites()
	if err := convert.UpdateIntentions(context.Background(), fake, "a1", "f", nil); err != nil {
		t.Fatalf("UpdateIntentions: %v", err)
	}
}
