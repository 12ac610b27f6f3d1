// Package cli implements the simaudit command line interface.
//
// Record paths are always explicit file arguments; the CLI never walks
// directories. Shell globs expand at the caller.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Error codes surfaced in JSON output.
const (
	ErrCodeRegistry = "E101" // registry config unreadable or invalid
	ErrCodeInput    = "E102" // record file unreadable
	ErrCodeWeights  = "E103" // weights config unreadable or invalid
	ErrCodeStore    = "E104" // result store unavailable
	ErrCodeNotFound = "E105" // run or result missing from the store
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the simaudit CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "simaudit",
		Short: "simaudit - simulation record auditor",
		Long: "Reviews simulation record documents for internal consistency:\n" +
			"quantity extraction, contradiction detection, certificate\n" +
			"aggregation, rubric scoring, and fix proposals.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewReviewCommand(opts))
	cmd.AddCommand(NewRegistryCommand(opts))
	cmd.AddCommand(NewRunsCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
