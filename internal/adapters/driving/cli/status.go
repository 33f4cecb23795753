package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datamill-co/knots/internal/core/domain"
)

var statusWatch bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the knot in the working directory",
	Long: `Show the tap registered in the working directory and how far its
configuration has progressed.

With --watch the status is printed again every time knot.json changes,
until interrupted.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusWatch, "watch", false, "keep printing on every change")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}

	if !statusWatch {
		status, err := pipelineService.Status(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get status: %w", err)
		}
		printStatus(cmd, status)
		return nil
	}

	updates, err := pipelineService.WatchStatus(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to watch status: %w", err)
	}
	for status := range updates {
		printStatus(cmd, &status)
		cmd.Println()
	}
	return nil
}

func printStatus(cmd *cobra.Command, status *domain.KnotStatus) {
	cmd.Printf("Knot:  %s\n", status.Path)
	if status.Knot != nil {
		cmd.Printf("Tap:   tap-%s %s\n", status.Knot.Tap.Name, status.Knot.Tap.Version)
	}
	cmd.Printf("State: %s (%s)\n", status.State, status.State.Description())

	if status.State == domain.KnotStateDiscovered {
		cmd.Printf("Streams: %d\n", status.Knot.Tap.Schema.StreamCount())
	}
}
