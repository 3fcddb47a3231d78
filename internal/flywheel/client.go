package flywheel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotFound marks lookups that matched nothing on the remote service.
var ErrNotFound = errors.New("not found")

// Client defines the remote operations curation relies on. Read methods never
// mutate remote state; UpdateFileInfo is the single write endpoint.
type Client interface {
	ResolveProject(ctx context.Context, label string) (*Project, error)
	ListProjects(ctx context.Context) ([]Project, error)
	ListSessions(ctx context.Context, projectID string) ([]Session, error)
	ListAcquisitions(ctx context.Context, sessionID string) ([]Acquisition, error)
	UpdateFileInfo(ctx context.Context, acquisitionID, fileName string, info map[string]any) error
}

// HTTPClient talks to a Flywheel-style REST API.
type HTTPClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ Client = (*HTTPClient)(nil)

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *HTTPClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a Flywheel client.
func New(apiKey, baseURL string, timeout time.Duration, opts ...Option) (*HTTPClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("flywheel api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("flywheel base url required")
	}
	client := &HTTPClient{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// ResolveProject finds the project whose label matches exactly. It returns
// ErrNotFound when no project carries that label.
func (c *HTTPClient) ResolveProject(ctx context.Context, label string) (*Project, error) {
	if strings.TrimSpace(label) == "" {
		return nil, errors.New("project label must not be empty")
	}
	endpoint, err := url.Parse(c.baseURL + "/projects")
	if err != nil {
		return nil, fmt.Errorf("parse flywheel url: %w", err)
	}
	params := url.Values{}
	params.Set("filter", fmt.Sprintf("label=%s", label))
	endpoint.RawQuery = params.Encode()

	var projects []Project
	if err := c.getJSON(ctx, endpoint.String(), &projects); err != nil {
		return nil, err
	}
	for i := range projects {
		if projects[i].Label == label {
			return &projects[i], nil
		}
	}
	return nil, fmt.Errorf("project %q: %w", label, ErrNotFound)
}

// ListProjects returns every project visible to the API key.
func (c *HTTPClient) ListProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := c.getJSON(ctx, c.baseURL+"/projects", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// ListSessions returns all sessions under a project.
func (c *HTTPClient) ListSessions(ctx context.Context, projectID string) ([]Session, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, errors.New("project id must not be empty")
	}
	var sessions []Session
	path := fmt.Sprintf("%s/projects/%s/sessions", c.baseURL, url.PathEscape(projectID))
	if err := c.getJSON(ctx, path, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListAcquisitions returns all acquisitions under a session.
func (c *HTTPClient) ListAcquisitions(ctx context.Context, sessionID string) ([]Acquisition, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, errors.New("session id must not be empty")
	}
	var acquisitions []Acquisition
	path := fmt.Sprintf("%s/sessions/%s/acquisitions", c.baseURL, url.PathEscape(sessionID))
	if err := c.getJSON(ctx, path, &acquisitions); err != nil {
		return nil, err
	}
	return acquisitions, nil
}

// UpdateFileInfo merges info keys into the named file's metadata namespace.
func (c *HTTPClient) UpdateFileInfo(ctx context.Context, acquisitionID, fileName string, info map[string]any) error {
	if strings.TrimSpace(acquisitionID) == "" {
		return errors.New("acquisition id must not be empty")
	}
	if strings.TrimSpace(fileName) == "" {
		return errors.New("file name must not be empty")
	}
	payload, err := json.Marshal(map[string]any{"set": info})
	if err != nil {
		return fmt.Errorf("marshal file info: %w", err)
	}

	path := fmt.Sprintf("%s/acquisitions/%s/files/%s/info",
		c.baseURL, url.PathEscape(acquisitionID), url.PathEscape(fileName))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("update file info returned %d", resp.StatusCode)
	}
	return nil
}

func (c *HTTPClient) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", endpoint, ErrNotFound)
	default:
		return fmt.Errorf("flywheel request returned %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode flywheel response: %w", err)
	}
	return nil
}

func (c *HTTPClient) authorize(req *http.Request) {
	req.Header.Set("Authorization", "scitran-user "+c.apiKey)
}
