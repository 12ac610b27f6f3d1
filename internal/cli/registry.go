package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veldt/simaudit/internal/registry"
)

// NewRegistryCommand creates the registry command group.
func NewRegistryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect and validate quantity registries",
	}
	cmd.AddCommand(newRegistryValidateCommand(rootOpts))
	return cmd
}

// registrySummary is the JSON payload for a validated registry.
type registrySummary struct {
	Version          string             `json:"version"`
	DefaultTolerance float64            `json:"default_tolerance"`
	Concepts         []registry.Concept `json:"concepts"`
}

func newRegistryValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <registry.yaml>",
		Short: "Validate a registry file and summarize its concepts",
		Long: `Validate a quantity registry YAML file.

Checks version and default_tolerance presence, concept id uniqueness,
tolerance bounds, the tolerance/integer_exact exclusivity rule, and alias
normalization. Exit code 1 when the file is invalid.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegistryValidate(rootOpts, cmd, args[0])
		},
	}
}

func runRegistryValidate(rootOpts *RootOptions, cmd *cobra.Command, path string) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	reg, err := registry.Load(path)
	if err != nil {
		formatter.Error(ErrCodeRegistry, err.Error(), nil)
		return WrapExitError(ExitFailure, "invalid registry", err)
	}

	concepts := reg.Concepts()

	if rootOpts.Format == "json" {
		return formatter.JSON(registrySummary{
			Version:          reg.Version(),
			DefaultTolerance: reg.DefaultTolerance(),
			Concepts:         concepts,
		})
	}

	fmt.Fprintf(formatter.Writer, "registry %s: valid, %d concepts, default tolerance %g\n",
		reg.Version(), len(concepts), reg.DefaultTolerance())
	if rootOpts.Verbose {
		for _, c := range concepts {
			policy := fmt.Sprintf("tolerance=%g", reg.ToleranceFor(c.ConceptID))
			if c.IntegerExact {
				policy = "integer_exact"
			}
			fmt.Fprintf(formatter.Writer, "  %-44s %s aliases=%d\n", c.ConceptID, policy, len(c.Aliases))
		}
	}
	return nil
}
