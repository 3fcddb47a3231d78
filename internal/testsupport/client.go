package testsupport

import (
	"context"
	"fmt"
	"testing"

	"fwbids/internal/flywheel"
)

// WriteRecord captures one UpdateFileInfo call made against the fake client.
type WriteRecord struct {
	AcquisitionID string
	FileName      string
	Info          map[string]any
}

// FakeClient is an in-memory flywheel.Client for tests. Reads serve seeded
// fixtures; writes are recorded, and DisallowWrites turns any write into an
// immediate test failure.
type FakeClient struct {
	t testing.TB

	projects     []flywheel.Project
	sessions     map[string][]flywheel.Session
	acquisitions map[string][]flywheel.Acquisition

	writesAllowed bool
	writeErr      error
	Writes        []WriteRecord

	// Read-side call counters, for asserting that failures happen before
	// further queries are issued.
	SessionQueries     int
	AcquisitionQueries int

	acquisitionSeq int
}

var _ flywheel.Client = (*FakeClient)(nil)

// NewFakeClient builds an empty fake client that permits writes.
func NewFakeClient(t testing.TB) *FakeClient {
	t.Helper()
	return &FakeClient{
		t:             t,
		sessions:      make(map[string][]flywheel.Session),
		acquisitions:  make(map[string][]flywheel.Acquisition),
		writesAllowed: true,
	}
}

// DisallowWrites makes any subsequent write fail the test. Used to verify
// dry-run never reaches a write endpoint.
func (f *FakeClient) DisallowWrites() {
	f.writesAllowed = false
}

// FailWritesWith makes UpdateFileInfo return err instead of recording.
func (f *FakeClient) FailWritesWith(err error) {
	f.writeErr = err
}

// AddProject seeds a project.
func (f *FakeClient) AddProject(id, label string) {
	f.projects = append(f.projects, flywheel.Project{ID: id, Label: label})
}

// AddSession seeds a session under projectID. The session label doubles as
// its identifier, so labels must be unique within a test.
func (f *FakeClient) AddSession(projectID, subjectLabel, sessionLabel string) {
	f.sessions[projectID] = append(f.sessions[projectID], flywheel.Session{
		ID:      sessionLabel,
		Label:   sessionLabel,
		Subject: flywheel.Subject{ID: "subj-" + subjectLabel, Label: subjectLabel},
	})
}

// AddAcquisition seeds one acquisition with a single DICOM file whose info
// map carries the given DICOM fields. It returns the acquisition ID.
func (f *FakeClient) AddAcquisition(sessionID, label string, info map[string]any) string {
	f.acquisitionSeq++
	id := fmt.Sprintf("acq-%d", f.acquisitionSeq)
	f.acquisitions[sessionID] = append(f.acquisitions[sessionID], flywheel.Acquisition{
		ID:        id,
		Label:     label,
		SessionID: sessionID,
		Files: []flywheel.File{
			{Name: label + ".dicom.zip", Type: "dicom", Info: info},
		},
	})
	return id
}

// AddRawAcquisition seeds an acquisition exactly as given.
func (f *FakeClient) AddRawAcquisition(sessionID string, acquisition flywheel.Acquisition) {
	f.acquisitions[sessionID] = append(f.acquisitions[sessionID], acquisition)
}

func (f *FakeClient) ResolveProject(_ context.Context, label string) (*flywheel.Project, error) {
	for i := range f.projects {
		if f.projects[i].Label == label {
			return &f.projects[i], nil
		}
	}
	return nil, fmt.Errorf("project %q: %w", label, flywheel.ErrNotFound)
}

func (f *FakeClient) ListProjects(context.Context) ([]flywheel.Project, error) {
	return append([]flywheel.Project{}, f.projects...), nil
}

func (f *FakeClient) ListSessions(_ context.Context, projectID string) ([]flywheel.Session, error) {
	f.SessionQueries++
	return append([]flywheel.Session{}, f.sessions[projectID]...), nil
}

func (f *FakeClient) ListAcquisitions(_ context.Context, sessionID string) ([]flywheel.Acquisition, error) {
	f.AcquisitionQueries++
	return append([]flywheel.Acquisition{}, f.acquisitions[sessionID]...), nil
}

func (f *FakeClient) UpdateFileInfo(_ context.Context, acquisitionID, fileName string, info map[string]any) error {
	if !f.writesAllowed {
		f.t.Fatalf("unexpected write: UpdateFileInfo(%s, %s, %v)", acquisitionID, fileName, info)
	}
	if f.writeErr != nil {
		return f.writeErr
	}
	f.Writes = append(f.Writes, WriteRecord{AcquisitionID: acquisitionID, FileName: fileName, Info: info})
	return nil
}
