package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datamill-co/knots/internal/core/ports/driving"
	"github.com/datamill-co/knots/internal/logger"
)

// version is set at build time.
var version = "dev"

// Services used by the commands. Set by the bootstrap or directly in tests.
var (
	pipelineService    driving.PipelineService
	tapRegistry        driving.TapRegistry
	environmentService driving.EnvironmentService
	settingsService    driving.SettingsService
)

// Global flag values.
var (
	verbose   bool
	workDir   string
	configDir string
)

// Options carries the global flags to the bootstrap.
type Options struct {
	WorkDir   string
	ConfigDir string
}

// Services bundles the driving ports the commands call into.
type Services struct {
	Pipeline    driving.PipelineService
	Taps        driving.TapRegistry
	Environment driving.EnvironmentService
	Settings    driving.SettingsService
}

// Bootstrap builds the services once the global flags are parsed.
// The returned cleanup runs after the command completes.
type Bootstrap func(opts Options) (*Services, func(), error)

var (
	bootstrap Bootstrap
	cleanup   func()
)

var rootCmd = &cobra.Command{
	Use:   "knots",
	Short: "Configure taps and discover their schemas",
	Long: `knots registers a data-source tap in the working directory, collects
its connection parameters and runs the tap in discovery mode to retrieve
the catalog of streams it can extract.

Typical flow:
  knots tap add postgres 1.0
  knots config submit -c host=localhost -c user=app ...
  knots status`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&workDir, "workdir", "w", "", "working directory holding knot.json")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "settings directory (default ~/.knots)")
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	version = v
}

// SetBootstrap registers the function that builds services before a
// command runs.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices injects the services directly.
func SetServices(s *Services) {
	if s == nil {
		return
	}
	pipelineService = s.Pipeline
	tapRegistry = s.Taps
	environmentService = s.Environment
	settingsService = s.Settings
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	defer func() {
		if cleanup != nil {
			cleanup()
			cleanup = nil
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if bootstrap == nil {
		return nil
	}

	services, done, err := bootstrap(Options{WorkDir: workDir, ConfigDir: configDir})
	if err != nil {
		return fmt.Errorf("initialising: %w", err)
	}
	SetServices(services)
	cleanup = done
	return nil
}
