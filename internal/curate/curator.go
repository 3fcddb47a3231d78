package curate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"fwbids/internal/audit"
	"fwbids/internal/bids"
	"fwbids/internal/convert"
	"fwbids/internal/flywheel"
	"fwbids/internal/heuristic"
	"fwbids/internal/logging"
	"fwbids/internal/query"
)

// Options carries the parameters of one curation run.
type Options struct {
	ProjectLabel  string
	HeuristicRef  string
	SubjectLabels []string
	SessionLabels []string
	DryRun        bool
}

// KeyActions pairs one destination key with the actions applied for it.
type KeyActions struct {
	Key     bids.Key
	Actions []convert.Action
}

// Result summarizes a completed run.
type Result struct {
	RunID    string
	Project  *flywheel.Project
	Sessions []flywheel.Session
	SeqInfos []query.SeqInfo
	Applied  []KeyActions
}

// Loader resolves a heuristic reference into a classification capability.
type Loader func(reference string) (heuristic.Heuristic, error)

// AuditStore records curation runs and the per-file actions they produce.
// *audit.Store satisfies it.
type AuditStore interface {
	BeginRun(ctx context.Context, id, project, heuristicRef string, dryRun bool) error
	RecordActions(ctx context.Context, runID, key string, actions []convert.Action, applied bool) error
	FinishRun(ctx context.Context, runID string, runErr error) error
}

var _ AuditStore = (*audit.Store)(nil)

// Curator orchestrates curation runs against one client handle.
type Curator struct {
	client flywheel.Client
	logger *slog.Logger
	loader Loader
	store  AuditStore
}

// Option configures a Curator.
type Option func(*Curator)

// WithLoader overrides the heuristic loader. Tests use this to inject
// heuristics directly.
func WithLoader(loader Loader) Option {
	return func(c *Curator) {
		if loader != nil {
			c.loader = loader
		}
	}
}

// WithAuditStore enables run recording.
func WithAuditStore(store AuditStore) Option {
	return func(c *Curator) {
		c.store = store
	}
}

// New constructs a Curator.
func New(client flywheel.Client, logger *slog.Logger, opts ...Option) *Curator {
	curator := &Curator{
		client: client,
		logger: logging.WithComponent(logger, "curator"),
		loader: heuristic.Load,
	}
	for _, opt := range opts {
		opt(curator)
	}
	return curator
}

// Run executes one curation flow: resolve, fetch, filter, classify, apply.
// Every error propagates unretried; destinations applied before a failure
// stay applied remotely.
func (c *Curator) Run(ctx context.Context, opts Options) (*Result, error) {
	runID := uuid.NewString()
	logger := c.logger.With(
		logging.String(logging.FieldRunID, runID),
		logging.String(logging.FieldProject, opts.ProjectLabel),
		logging.Bool(logging.FieldDryRun, opts.DryRun),
	)

	logger.Info("querying remote service")
	project, err := c.client.ResolveProject(ctx, opts.ProjectLabel)
	if err != nil {
		return nil, err
	}
	logger.Debug("found project", logging.String("project_id", project.ID))

	sessions, err := c.client.ListSessions(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("list sessions for %s: %w", project.Label, err)
	}
	sessions = FilterBySubject(sessions, opts.SubjectLabels)
	sessions = FilterBySession(sessions, opts.SessionLabels)
	for _, session := range sessions {
		logger.Debug("session selected",
			logging.String(logging.FieldSubject, session.Subject.Label),
			logging.String(logging.FieldSession, session.Label),
		)
	}

	seqInfos, err := query.GetSeqInfo(ctx, c.client, sessions)
	if err != nil {
		return nil, err
	}
	for _, info := range seqInfos {
		logger.Debug("found sequence", logging.String("seq", info.String()))
	}

	logger.Info("loading heuristic", logging.String("heuristic", opts.HeuristicRef))
	h, err := c.loader(opts.HeuristicRef)
	if err != nil {
		return nil, err
	}

	logger.Info("applying heuristic to query results", logging.Int("sequences", len(seqInfos)))
	mappings, err := h.Classify(seqInfos)
	if err != nil {
		return nil, fmt.Errorf("classify sequences: %w", err)
	}

	intentions := heuristic.IntentionsOf(h)
	if len(intentions) > 0 {
		logger.Info("heuristic declares IntendedFor references", logging.Int("keys", len(intentions)))
	}

	if c.store != nil {
		if err := c.store.BeginRun(ctx, runID, opts.ProjectLabel, opts.HeuristicRef, opts.DryRun); err != nil {
			return nil, err
		}
	}

	if !opts.DryRun {
		logger.Info("applying changes to files")
	}

	result := &Result{RunID: runID, Project: project, Sessions: sessions, SeqInfos: seqInfos}
	for _, mapping := range mappings {
		actions, applyErr := convert.ApplyHeuristic(ctx, c.client, logger, mapping.Key, mapping.SeqInfos, opts.DryRun, intentions.ForKey(mapping.Key))
		if c.store != nil {
			if recordErr := c.store.RecordActions(ctx, runID, string(mapping.Key), actions, !opts.DryRun && applyErr == nil); recordErr != nil {
				c.finishRun(ctx, runID, recordErr, logger)
				return result, recordErr
			}
		}
		if applyErr != nil {
			c.finishRun(ctx, runID, applyErr, logger)
			return result, applyErr
		}
		result.Applied = append(result.Applied, KeyActions{Key: mapping.Key, Actions: actions})
	}

	c.finishRun(ctx, runID, nil, logger)
	logger.Info("curation finished", logging.Int("destinations", len(result.Applied)))
	return result, nil
}

func (c *Curator) finishRun(ctx context.Context, runID string, runErr error, logger *slog.Logger) {
	if c.store == nil {
		return
	}
	if err := c.store.FinishRun(ctx, runID, runErr); err != nil {
		logger.Warn("record run completion", logging.Error(err))
	}
}
