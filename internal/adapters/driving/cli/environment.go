package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/datamill-co/knots/internal/core/domain"
)

var runsLimit int

var knotCmd = &cobra.Command{
	Use:   "knot",
	Short: "Inspect saved knots",
}

var knotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved knots",
	Long:  `List the entries of the knots directory.`,
	RunE:  runKnotList,
}

var dockerCmd = &cobra.Command{
	Use:   "docker",
	Short: "Check that docker is installed",
	RunE:  runDocker,
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show discovery run history",
	RunE:  runRuns,
}

func init() {
	knotCmd.AddCommand(knotListCmd)
	rootCmd.AddCommand(knotCmd)
	rootCmd.AddCommand(dockerCmd)
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "maximum number of runs (0 = all)")
	rootCmd.AddCommand(runsCmd)
}

func runKnotList(cmd *cobra.Command, _ []string) error {
	if environmentService == nil {
		return errors.New("environment service not configured")
	}

	names, err := environmentService.ListKnots(cmd.Context())
	if errors.Is(err, domain.ErrNotFound) {
		cmd.Println("No knots directory found.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to list knots: %w", err)
	}

	if len(names) == 0 {
		cmd.Println("No knots found.")
		return nil
	}
	for _, name := range names {
		cmd.Printf("  %s\n", name)
	}
	return nil
}

func runDocker(cmd *cobra.Command, _ []string) error {
	if environmentService == nil {
		return errors.New("environment service not configured")
	}

	v, err := environmentService.DockerVersion(cmd.Context())
	if err != nil {
		return fmt.Errorf("docker check failed: %w", err)
	}
	cmd.Println(v)
	return nil
}

func runRuns(cmd *cobra.Command, _ []string) error {
	if environmentService == nil {
		return errors.New("environment service not configured")
	}

	runs, err := environmentService.Runs(cmd.Context(), runsLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		cmd.Println("No discovery runs recorded.")
		return nil
	}

	for i := range runs {
		r := &runs[i]
		id := r.ID
		if len(id) > 8 {
			id = id[:8]
		}
		cmd.Printf("  %s  %s  tap-%s %s  %-6s  %3d streams  %s\n",
			id,
			r.StartedAt.Local().Format(time.DateTime),
			r.TapName, r.TapVersion,
			r.StatusLabel(),
			r.StreamCount,
			r.Duration().Round(time.Millisecond),
		)
		if r.Error != "" {
			cmd.Printf("      %s\n", r.Error)
		}
	}
	return nil
}
