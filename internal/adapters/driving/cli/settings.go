package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change where knots keeps its files and how discovery runs.

Settings are stored in config.toml under the config directory.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change a single setting.

Keys:
  workspace.dir             working directory holding knot.json
  knots.dir                 directory listed by 'knots knot list'
  discovery.command         discovery shell command (Go template)
  discovery.timeout         discovery timeout in seconds, 0 disables it
  discovery.persist_schema  store the catalog in knot.json (true/false)
  docker.binary             docker executable used by 'knots docker'`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Workspace]")
	cmd.Printf("  Dir: %s\n", settings.Workspace.Dir)
	if settings.Workspace.KnotsDir != "" {
		cmd.Printf("  Knots dir: %s\n", settings.Workspace.KnotsDir)
	} else {
		cmd.Printf("  Knots dir: (workspace)/knots\n")
	}
	cmd.Println()

	cmd.Println("[Discovery]")
	cmd.Printf("  Command: %s\n", settings.Discovery.Command)
	if settings.Discovery.Timeout > 0 {
		cmd.Printf("  Timeout: %s\n", settings.Discovery.Timeout)
	} else {
		cmd.Printf("  Timeout: disabled\n")
	}
	cmd.Printf("  Persist schema: %s\n", yesNo(settings.Discovery.PersistSchema))
	cmd.Println()

	cmd.Println("[Docker]")
	cmd.Printf("  Binary: %s\n", settings.Docker.Binary)

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}

	cmd.Printf("%s set to %s\n", args[0], args[1])
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// readSecret reads without echo when in is a terminal, otherwise it reads
// a plain line from the shared reader.
func readSecret(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return string(secret)
		}
	}
	return readLine(reader)
}

func maskSecret(secret string) string {
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:2] + "..." + secret[len(secret)-2:]
}
