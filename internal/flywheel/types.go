package flywheel

// Project is a remote project container.
type Project struct {
	ID    string `json:"_id"`
	Label string `json:"label"`
}

// Subject carries the subject label a session belongs to.
type Subject struct {
	ID    string `json:"_id"`
	Label string `json:"label"`
}

// Session is one imaging session under a project.
type Session struct {
	ID      string  `json:"_id"`
	Label   string  `json:"label"`
	Subject Subject `json:"subject"`
}

// File is a single file attached to an acquisition. Info holds the
// free-form metadata namespace the service exposes per file.
type File struct {
	Name string         `json:"name"`
	Type string         `json:"type"`
	Info map[string]any `json:"info"`
}

// Acquisition is one scan series within a session.
type Acquisition struct {
	ID        string `json:"_id"`
	Label     string `json:"label"`
	SessionID string `json:"session"`
	Files     []File `json:"files"`
}
