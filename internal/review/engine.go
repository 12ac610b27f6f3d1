package review

import (
	"io"
	"log/slog"

	"github.com/veldt/simaudit/internal/autofix"
	"github.com/veldt/simaudit/internal/certify"
	"github.com/veldt/simaudit/internal/consistency"
	"github.com/veldt/simaudit/internal/extract"
	"github.com/veldt/simaudit/internal/normalize"
	"github.com/veldt/simaudit/internal/record"
	"github.com/veldt/simaudit/internal/registry"
	"github.com/veldt/simaudit/internal/rubric"
)

// DefaultWorkers bounds batch parallelism when the caller does not choose.
const DefaultWorkers = 4

// Engine reviews simulation records against one immutable registry.
type Engine struct {
	reg       *registry.Registry
	extractor *extract.Extractor
	checker   *consistency.Checker
	weights   rubric.Weights
	logger    *slog.Logger
	workers   int
}

// Option configures an Engine.
type Option func(*Engine)

// WithWeights sets the overall-score weighting (default: equal weights).
func WithWeights(w rubric.Weights) Option {
	return func(e *Engine) {
		if len(w) > 0 {
			e.weights = w
		}
	}
}

// WithWindow overrides the extractor's token window.
func WithWindow(window int) Option {
	return func(e *Engine) {
		e.extractor = extract.New(e.reg, extract.WithWindow(window))
	}
}

// WithLogger sets the engine logger. The default discards everything so the
// pure pipeline stays silent unless a caller opts in.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithWorkers bounds batch parallelism (default DefaultWorkers).
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// New creates an Engine. The registry must already be loaded and is treated
// as immutable for the Engine's lifetime; swapping registries means building
// a new Engine.
func New(reg *registry.Registry, opts ...Option) *Engine {
	e := &Engine{
		reg:       reg,
		extractor: extract.New(reg),
		checker:   consistency.New(reg),
		weights:   rubric.EqualWeights(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		workers:   DefaultWorkers,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the engine's registry. Read-only.
func (e *Engine) Registry() *registry.Registry {
	return e.reg
}

// Review produces the deterministic ReviewResult for a normalized record.
func (e *Engine) Review(rec *record.SimulationRecord) *record.ReviewResult {
	ext := e.extractor.Extract(rec)
	issues := e.checker.Check(rec, ext)
	if issues == nil {
		// Published results always carry an issues array, never null.
		issues = []record.ConsistencyIssue{}
	}
	status := certify.Aggregate(rec, issues)
	scores, overall := rubric.Score(issues, e.weights)
	proposals := autofix.Propose(rec, issues)

	result := &record.ReviewResult{
		RecordID:     rec.ID,
		Scores:       scores,
		OverallScore: overall,
		SSOTStatus:   status,
		Issues:       issues,
		FixProposals: proposals,
	}

	e.logger.Debug("record reviewed",
		"record_id", rec.ID,
		"occurrences", len(ext.Occurrences),
		"issues", len(issues),
		"ssot_status", status,
		"overall_score", overall,
	)

	return result
}

// ReviewDocument normalizes raw document bytes and reviews the result.
// inputName labels schema errors for documents whose id cannot be read.
func (e *Engine) ReviewDocument(inputName string, data []byte) (*record.ReviewResult, error) {
	rec, err := normalize.Normalize(inputName, data)
	if err != nil {
		return nil, err
	}
	return e.Review(rec), nil
}
