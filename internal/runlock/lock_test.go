package runlock_test

import (
	"strings"
	"testing"

	"fwbids/internal/runlock"
	"fwbids/internal/testsupport"
)

func TestAcquireAndRelease(t *testing.T) {
	dir := testsupport.NewConfig(t).Curate.LockDir

	lock, err := runlock.Acquire(dir, "Study A")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if !strings.HasSuffix(lock.Path(), "Study-A.lock") {
		t.Fatalf("unexpected lock path: %s", lock.Path())
	}

	if _, err := runlock.Acquire(dir, "Study A"); err == nil {
		t.Fatal("expected second acquire to fail while lock is held")
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	again, err := runlock.Acquire(dir, "Study A")
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	_ = again.Release()
}

func TestDifferentProjectsDoNotConflict(t *testing.T) {
	dir := t.TempDir()

	a, err := runlock.Acquire(dir, "Study A")
	if err != nil {
		t.Fatalf("Acquire A: %v", err)
	}
	defer func() { _ = a.Release() }()

	b, err := runlock.Acquire(dir, "Study B")
	if err != nil {
		t.Fatalf("Acquire B: %v", err)
	}
	_ = b.Release()
}
