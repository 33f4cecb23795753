// Package main is the knots command.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/datamill-co/knots/internal/adapters/driven/config/file"
	"github.com/datamill-co/knots/internal/adapters/driven/descriptor"
	"github.com/datamill-co/knots/internal/adapters/driven/discovery"
	"github.com/datamill-co/knots/internal/adapters/driven/docker"
	"github.com/datamill-co/knots/internal/adapters/driven/storage/sqlite"
	"github.com/datamill-co/knots/internal/adapters/driven/workspace"
	"github.com/datamill-co/knots/internal/adapters/driving/cli"
	"github.com/datamill-co/knots/internal/core/services"
	"github.com/datamill-co/knots/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// bootstrap wires the adapters behind the CLI services.
func bootstrap(opts cli.Options) (*cli.Services, func(), error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening settings: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("reading settings: %w", err)
	}

	workDir := settings.Workspace.Dir
	if opts.WorkDir != "" {
		workDir = opts.WorkDir
	}
	layout, err := workspace.NewLayout(workDir, settings.Workspace.KnotsDir)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("Workspace %s", layout.WorkDir())

	store, err := descriptor.NewStore(layout.WorkDir())
	if err != nil {
		return nil, nil, err
	}

	runner, err := discovery.NewRunner(workspace.NewStager(layout), discovery.Config{
		Command:     settings.Discovery.Command,
		Timeout:     settings.Discovery.Timeout,
		WorkDir:     layout.WorkDir(),
		CatalogPath: layout.CatalogPath(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("preparing discovery command: %w", err)
	}

	history, err := sqlite.NewStore(filepath.Join(filepath.Dir(configStore.Path()), "data"))
	if err != nil {
		return nil, nil, fmt.Errorf("opening run history: %w", err)
	}

	registry := services.NewTapRegistry()
	pipeline := services.NewPipelineService(store, registry, runner, workspace.NewCatalogReader(layout))
	pipeline.SetRunStore(history.RunStore())
	pipeline.SetWatcher(descriptor.NewWatcher(store.Path()))
	pipeline.SetPersistSchema(settings.Discovery.PersistSchema)
	pipeline.SetKnotDir(layout.WorkDir())

	environment := services.NewEnvironmentService(
		docker.NewProbe(settings.Docker.Binary),
		workspace.NewKnotLister(layout),
		history.RunStore(),
	)

	closeHistory := func() {
		if err := history.Close(); err != nil {
			logger.Warn("Closing run history: %v", err)
		}
	}

	return &cli.Services{
		Pipeline:    pipeline,
		Taps:        registry,
		Environment: environment,
		Settings:    settingsService,
	}, closeHistory, nil
}
