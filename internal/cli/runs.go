package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/veldt/simaudit/internal/record"
	"github.com/veldt/simaudit/internal/store"
)

// NewRunsCommand creates the runs command group for inspecting persisted
// review runs.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect persisted review runs",
	}
	cmd.AddCommand(newRunsListCommand(rootOpts))
	cmd.AddCommand(newRunsShowCommand(rootOpts))
	return cmd
}

// runSummary is the JSON payload for one listed run.
type runSummary struct {
	ID              string                    `json:"id"`
	RegistryVersion string                    `json:"registry_version"`
	CreatedAt       time.Time                 `json:"created_at"`
	StatusCounts    map[record.SSOTStatus]int `json:"status_counts"`
}

func newRunsListCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:           "list --db <path>",
		Short:         "List persisted runs, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRunsList(rootOpts, cmd, dbPath)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (required)")
	cmd.MarkFlagRequired("db")
	return cmd
}

func runRunsList(rootOpts *RootOptions, cmd *cobra.Command, dbPath string) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	st, err := store.Open(dbPath)
	if err != nil {
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "open store", err)
	}
	defer st.Close()

	runs, err := st.ListRuns(cmd.Context())
	if err != nil {
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "list runs", err)
	}

	summaries := make([]runSummary, 0, len(runs))
	for _, run := range runs {
		counts, err := st.CountByStatus(cmd.Context(), run.ID)
		if err != nil {
			formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "count results", err)
		}
		summaries = append(summaries, runSummary{
			ID:              run.ID,
			RegistryVersion: run.RegistryVersion,
			CreatedAt:       run.CreatedAt,
			StatusCounts:    counts,
		})
	}

	if rootOpts.Format == "json" {
		return formatter.JSON(summaries)
	}

	for _, s := range summaries {
		fmt.Fprintf(formatter.Writer, "%s  %s  registry=%s  green=%d degraded=%d failed=%d\n",
			s.ID, s.CreatedAt.Format(time.RFC3339), s.RegistryVersion,
			s.StatusCounts[record.StatusAllGreen],
			s.StatusCounts[record.StatusDegraded],
			s.StatusCounts[record.StatusFailed])
	}
	fmt.Fprintf(formatter.Writer, "%d runs\n", len(summaries))
	return nil
}

func newRunsShowCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath, runID, recordID string

	cmd := &cobra.Command{
		Use:           "show --db <path> --run <id> [--record <id>]",
		Short:         "Show a run's persisted results",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRunsShow(rootOpts, cmd, dbPath, runID, recordID)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (required)")
	cmd.Flags().StringVar(&runID, "run", "", "run id (required)")
	cmd.Flags().StringVar(&recordID, "record", "", "show one record's full result")
	cmd.MarkFlagRequired("db")
	cmd.MarkFlagRequired("run")
	return cmd
}

func runRunsShow(rootOpts *RootOptions, cmd *cobra.Command, dbPath, runID, recordID string) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	st, err := store.Open(dbPath)
	if err != nil {
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "open store", err)
	}
	defer st.Close()

	if recordID != "" {
		result, err := st.ReadResult(cmd.Context(), runID, recordID)
		if errors.Is(err, store.ErrNotFound) {
			formatter.Error(ErrCodeNotFound, err.Error(), nil)
			return WrapExitError(ExitFailure, "result not found", err)
		}
		if err != nil {
			formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "read result", err)
		}
		if rootOpts.Format == "json" {
			return formatter.JSON(result)
		}
		writeResultText(formatter, result)
		return nil
	}

	results, err := st.ListResults(cmd.Context(), runID)
	if err != nil {
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "list results", err)
	}

	if rootOpts.Format == "json" {
		return formatter.JSON(results)
	}
	for _, result := range results {
		fmt.Fprintf(formatter.Writer, "%-40s %-9s %5.1f  issues=%d\n",
			result.RecordID, result.SSOTStatus, result.OverallScore, len(result.Issues))
	}
	fmt.Fprintf(formatter.Writer, "%d results\n", len(results))
	return nil
}

// writeResultText renders one record's full result: scores, issues, fixes.
func writeResultText(f *OutputFormatter, result *record.ReviewResult) {
	fmt.Fprintf(f.Writer, "%s  %s  overall=%.1f\n", result.RecordID, result.SSOTStatus, result.OverallScore)
	for _, score := range result.Scores {
		fmt.Fprintf(f.Writer, "  %-22s %5.1f\n", score.Criterion, score.Score)
	}
	for _, issue := range result.Issues {
		fmt.Fprintf(f.Writer, "  issue %-28s %-6s %s\n", issue.Kind, issue.Severity, issue.ConceptID)
	}
	for _, fix := range result.FixProposals {
		fmt.Fprintf(f.Writer, "  fix %s %s: %s -> %s\n", fix.Field, fix.SourceID, fix.OldValue, fix.NewValue)
	}
}
