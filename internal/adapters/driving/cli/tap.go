package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datamill-co/knots/internal/core/domain"
)

var tapCmd = &cobra.Command{
	Use:   "tap",
	Short: "Manage taps",
	Long:  `List the known taps, inspect their config fields and register one in the working directory.`,
}

var tapListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known taps",
	RunE:  runTapList,
}

var tapFieldsCmd = &cobra.Command{
	Use:   "fields <tap>",
	Short: "Show the config fields of a tap",
	Long: `Show the config fields a tap expects. Taps without a dedicated entry
use the default database field set.`,
	Args: cobra.ExactArgs(1),
	RunE: runTapFields,
}

var tapAddCmd = &cobra.Command{
	Use:   "add <tap> [version]",
	Short: "Register a tap in the working directory",
	Long: `Create knot.json for the tap and merge its config fields into it.

The version defaults to the tap's default version when the tap is known.
An existing knot.json is replaced.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runTapAdd,
}

func init() {
	tapCmd.AddCommand(tapListCmd)
	tapCmd.AddCommand(tapFieldsCmd)
	tapCmd.AddCommand(tapAddCmd)
	rootCmd.AddCommand(tapCmd)
}

func runTapList(cmd *cobra.Command, _ []string) error {
	if tapRegistry == nil {
		return errors.New("tap registry not configured")
	}

	taps := tapRegistry.List()
	if len(taps) == 0 {
		cmd.Println("No taps registered.")
		return nil
	}

	cmd.Println("Available taps:")
	for i := range taps {
		cmd.Printf("  %-12s %-6s %s\n", taps[i].Name, taps[i].DefaultVersion, taps[i].Description)
	}
	return nil
}

func runTapFields(cmd *cobra.Command, args []string) error {
	if tapRegistry == nil {
		return errors.New("tap registry not configured")
	}

	fields, err := tapRegistry.FieldsFor(args[0])
	if err != nil {
		return fmt.Errorf("failed to get fields: %w", err)
	}

	cmd.Printf("Config fields for tap-%s:\n", args[0])
	printFields(cmd, fields)
	return nil
}

func runTapAdd(cmd *cobra.Command, args []string) error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}

	name := args[0]
	tapVersion := ""
	if len(args) > 1 {
		tapVersion = args[1]
	} else if tapRegistry != nil {
		if def, err := tapRegistry.Get(name); err == nil {
			tapVersion = def.DefaultVersion
		}
	}
	if tapVersion == "" {
		return fmt.Errorf("no default version for tap %q, pass one explicitly", name)
	}

	fields, err := pipelineService.RegisterTap(cmd.Context(), name, tapVersion)
	if err != nil {
		return fmt.Errorf("failed to register tap: %w", err)
	}

	cmd.Printf("Registered tap-%s %s\n", name, tapVersion)
	cmd.Println()
	printFields(cmd, fields)
	cmd.Println()
	cmd.Println("Run 'knots config submit' to configure it.")
	return nil
}

func printFields(cmd *cobra.Command, fields []domain.TapConfigField) {
	for _, f := range fields {
		req := "optional"
		if f.Required {
			req = "required"
		}
		cmd.Printf("  %-20s %-20s %s\n", f.Key, f.Label, req)
	}
}
