package flywheel_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fwbids/internal/flywheel"
)

func newTestClient(t *testing.T, handler http.Handler) *flywheel.HTTPClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := flywheel.New("test-key", server.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func TestResolveProjectMatchesExactLabel(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/projects" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "scitran-user test-key" {
			t.Fatalf("unexpected auth header %q", got)
		}
		_ = json.NewEncoder(w).Encode([]flywheel.Project{
			{ID: "p1", Label: "Study A"},
			{ID: "p2", Label: "Study A archive"},
		})
	}))

	project, err := client.ResolveProject(context.Background(), "Study A")
	if err != nil {
		t.Fatalf("ResolveProject: %v", err)
	}
	if project.ID != "p1" {
		t.Fatalf("expected exact match p1, got %s", project.ID)
	}
}

func TestResolveProjectNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]flywheel.Project{})
	}))

	_, err := client.ResolveProject(context.Background(), "Missing")
	if !errors.Is(err, flywheel.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListSessionsAndAcquisitions(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/projects/p1/sessions":
			_ = json.NewEncoder(w).Encode([]flywheel.Session{
				{ID: "s1", Label: "ses-1", Subject: flywheel.Subject{ID: "u1", Label: "sub-01"}},
			})
		case "/sessions/s1/acquisitions":
			_ = json.NewEncoder(w).Encode([]flywheel.Acquisition{
				{ID: "a1", Label: "task-rest", SessionID: "s1", Files: []flywheel.File{{Name: "x.dicom.zip", Type: "dicom"}}},
			})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))

	sessions, err := client.ListSessions(context.Background(), "p1")
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Subject.Label != "sub-01" {
		t.Fatalf("unexpected sessions: %+v", sessions)
	}

	acquisitions, err := client.ListAcquisitions(context.Background(), "s1")
	if err != nil {
		t.Fatalf("ListAcquisitions: %v", err)
	}
	if len(acquisitions) != 1 || acquisitions[0].Files[0].Name != "x.dicom.zip" {
		t.Fatalf("unexpected acquisitions: %+v", acquisitions)
	}
}

func TestUpdateFileInfoPostsSetPayload(t *testing.T) {
	var captured map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method %s", r.Method)
		}
		if r.URL.Path != "/acquisitions/a1/files/x.dicom.zip/info" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))

	err := client.UpdateFileInfo(context.Background(), "a1", "x.dicom.zip", map[string]any{
		"BIDS": map[string]any{"Filename": "sub-01_task-rest_bold.nii.gz"},
	})
	if err != nil {
		t.Fatalf("UpdateFileInfo: %v", err)
	}
	set, ok := captured["set"].(map[string]any)
	if !ok {
		t.Fatalf("expected set payload, got %v", captured)
	}
	if _, ok := set["BIDS"]; !ok {
		t.Fatalf("expected BIDS key in payload, got %v", set)
	}
}

func TestUpdateFileInfoSurfacesHTTPError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	err := client.UpdateFileInfo(context.Background(), "a1", "f", map[string]any{})
	if err == nil {
		t.Fatal("expected error for 403 response")
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	if _, err := flywheel.New("", "https://example", time.Second); err == nil {
		t.Fatal("expected error for missing api key")
	}
	if _, err := flywheel.New("key", "  ", time.Second); err == nil {
		t.Fatal("expected error for missing base url")
	}
}
