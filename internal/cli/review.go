package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/veldt/simaudit/internal/record"
	"github.com/veldt/simaudit/internal/registry"
	"github.com/veldt/simaudit/internal/review"
	"github.com/veldt/simaudit/internal/rubric"
	"github.com/veldt/simaudit/internal/store"
)

// reviewOptions holds flags for the review command.
type reviewOptions struct {
	registryPath string
	weightsPath  string
	window       int
	workers      int
	dbPath       string
	failOn       string // "failed" | "degraded" | "never"
}

var validFailOn = []string{"failed", "degraded", "never"}

// NewReviewCommand creates the review command.
func NewReviewCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &reviewOptions{}

	cmd := &cobra.Command{
		Use:   "review --registry <registry.yaml> <record.json> [record.json ...]",
		Short: "Review record files and report issues, scores, and fixes",
		Long: `Review one or more simulation record files against a quantity registry.

Each file is normalized, scanned for quantity occurrences, cross-checked
for contradictions, scored against the ten-criteria rubric, and given fix
proposals. Files are reviewed concurrently; output order always follows
argument order.

Exit code 1 when the --fail-on gate trips (default: any FAILED record or
schema-rejected file), 2 on command errors.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReview(rootOpts, opts, cmd, args)
		},
	}

	cmd.Flags().StringVar(&opts.registryPath, "registry", "", "quantity registry YAML (required)")
	cmd.Flags().StringVar(&opts.weightsPath, "weights", "", "criterion weighting YAML for the overall score")
	cmd.Flags().IntVar(&opts.window, "window", 0, "token window for number-to-concept association")
	cmd.Flags().IntVar(&opts.workers, "workers", review.DefaultWorkers, "concurrent record reviews")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "persist results to this SQLite database")
	cmd.Flags().StringVar(&opts.failOn, "fail-on", "failed", "gate: failed|degraded|never")
	cmd.MarkFlagRequired("registry")

	return cmd
}

func runReview(rootOpts *RootOptions, opts *reviewOptions, cmd *cobra.Command, args []string) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	if !isValidFailOn(opts.failOn) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid --fail-on %q: must be one of %v", opts.failOn, validFailOn))
	}

	reg, err := registry.Load(opts.registryPath)
	if err != nil {
		formatter.Error(ErrCodeRegistry, err.Error(), nil)
		return WrapExitError(ExitCommandError, "load registry", err)
	}
	formatter.VerboseLog("registry %s: %d concepts, default tolerance %g",
		reg.Version(), len(reg.Concepts()), reg.DefaultTolerance())

	engineOpts := []review.Option{review.WithWorkers(opts.workers)}
	if opts.weightsPath != "" {
		weights, err := rubric.LoadWeights(opts.weightsPath)
		if err != nil {
			formatter.Error(ErrCodeWeights, err.Error(), nil)
			return WrapExitError(ExitCommandError, "load weights", err)
		}
		engineOpts = append(engineOpts, review.WithWeights(weights))
	}
	if opts.window > 0 {
		engineOpts = append(engineOpts, review.WithWindow(opts.window))
	}
	if rootOpts.Verbose {
		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
		engineOpts = append(engineOpts, review.WithLogger(logger))
	}
	engine := review.New(reg, engineOpts...)

	inputs := make([]review.BatchInput, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			formatter.Error(ErrCodeInput, err.Error(), nil)
			return WrapExitError(ExitCommandError, "read record", err)
		}
		inputs = append(inputs, review.BatchInput{Name: path, Data: data})
	}

	batch, err := engine.ReviewBatch(cmd.Context(), inputs)
	if err != nil {
		return WrapExitError(ExitCommandError, "review batch", err)
	}

	if opts.dbPath != "" {
		runID, err := persistBatch(cmd, opts.dbPath, reg.Version(), batch)
		if err != nil {
			formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "persist batch", err)
		}
		formatter.VerboseLog("persisted run %s to %s", runID, opts.dbPath)
	}

	if rootOpts.Format == "json" {
		if err := formatter.JSON(batch); err != nil {
			return err
		}
	} else {
		writeBatchText(formatter, batch)
	}

	return gateBatch(opts.failOn, batch)
}

func persistBatch(cmd *cobra.Command, dbPath, registryVersion string, batch *review.BatchResult) (string, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return "", err
	}
	defer st.Close()

	run, err := st.BeginRun(cmd.Context(), registryVersion)
	if err != nil {
		return "", err
	}
	if err := st.WriteBatch(cmd.Context(), run.ID, batch); err != nil {
		return "", err
	}
	return run.ID, nil
}

// writeBatchText renders one line per record plus a summary, with issue and
// proposal detail in verbose mode.
func writeBatchText(f *OutputFormatter, batch *review.BatchResult) {
	counts := map[record.SSOTStatus]int{}
	for _, res := range batch.Results {
		counts[res.SSOTStatus]++
		fmt.Fprintf(f.Writer, "%-40s %-9s %5.1f  issues=%d\n",
			res.RecordID, res.SSOTStatus, res.OverallScore, len(res.Issues))
		if !f.Verbose {
			continue
		}
		for _, issue := range res.Issues {
			label := issue.ConceptID
			if label == "" && len(issue.Locations) > 0 {
				label = issue.Locations[0].SourceID
			}
			fmt.Fprintf(f.Writer, "    %-28s %-6s %s\n", issue.Kind, issue.Severity, label)
		}
		for _, fix := range res.FixProposals {
			fmt.Fprintf(f.Writer, "    fix %s %s: %s -> %s\n",
				fix.Field, fix.SourceID, fix.OldValue, fix.NewValue)
		}
	}
	for _, failure := range batch.Failures {
		fmt.Fprintf(f.Writer, "%-40s REJECTED  schema: %v\n", failure.Name, failure.Err)
	}

	fmt.Fprintf(f.Writer, "%d reviewed: %d ALL_GREEN, %d DEGRADED, %d FAILED, %d rejected\n",
		len(batch.Results)+len(batch.Failures),
		counts[record.StatusAllGreen], counts[record.StatusDegraded],
		counts[record.StatusFailed], len(batch.Failures))
}

// gateBatch turns review outcomes into the process exit code. Schema-rejected
// files always trip the gate unless it is off entirely: a file that cannot be
// reviewed must not pass a review gate silently.
func gateBatch(failOn string, batch *review.BatchResult) error {
	if failOn == "never" {
		return nil
	}

	tripped := len(batch.Failures) > 0
	for _, res := range batch.Results {
		switch res.SSOTStatus {
		case record.StatusFailed:
			tripped = true
		case record.StatusDegraded:
			if failOn == "degraded" {
				tripped = true
			}
		}
	}
	if tripped {
		return NewExitError(ExitFailure, "review gate tripped")
	}
	return nil
}

func isValidFailOn(v string) bool {
	for _, allowed := range validFailOn {
		if v == allowed {
			return true
		}
	}
	return false
}
