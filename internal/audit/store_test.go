package audit_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"fwbids/internal/audit"
	"fwbids/internal/convert"
)

func openStore(t *testing.T) *audit.Store {
	t.Helper()
	store, err := audit.Open(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRunLifecycle(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.BeginRun(ctx, "run-1", "Study A", "protocol", true); err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	actions := []convert.Action{
		{AcquisitionID: "a1", FileName: "f1.dicom.zip", Destination: "sub-01/func/sub-01_bold.dicom.zip"},
		{AcquisitionID: "a2", FileName: "f2.dicom.zip", Destination: "sub-02/func/sub-02_bold.dicom.zip"},
	}
	if err := store.RecordActions(ctx, "run-1", "sub-{subject}/func/sub-{subject}_bold", actions, false); err != nil {
		t.Fatalf("RecordActions: %v", err)
	}
	if err := store.FinishRun(ctx, "run-1", nil); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	run, err := store.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if !run.DryRun || run.Status != "completed" || run.Project != "Study A" {
		t.Fatalf("unexpected run: %+v", run)
	}

	recorded, err := store.RunActions(ctx, "run-1")
	if err != nil {
		t.Fatalf("RunActions: %v", err)
	}
	if len(recorded) != 2 {
		t.Fatalf("expected two actions, got %d", len(recorded))
	}
	if recorded[0].AcquisitionID != "a1" || recorded[1].AcquisitionID != "a2" {
		t.Fatalf("insertion order not preserved: %+v", recorded)
	}
	if recorded[0].Applied {
		t.Fatal("dry-run actions must be recorded as not applied")
	}
}

func TestFinishRunRecordsFailure(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.BeginRun(ctx, "run-2", "Study A", "h.go", false); err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if err := store.FinishRun(ctx, "run-2", errors.New("apply rejected")); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	run, err := store.GetRun(ctx, "run-2")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.Status != "failed" || run.Error != "apply rejected" {
		t.Fatalf("unexpected run: %+v", run)
	}
}

func TestRecordActionsSkipsEmpty(t *testing.T) {
	store := openStore(t)
	if err := store.RecordActions(context.Background(), "missing", "key", nil, true); err != nil {
		t.Fatalf("RecordActions with empty list: %v", err)
	}
}
