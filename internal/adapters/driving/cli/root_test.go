package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datamill-co/knots/internal/adapters/driven/storage/memory"
	"github.com/datamill-co/knots/internal/core/domain"
	"github.com/datamill-co/knots/internal/core/ports/driven"
	"github.com/datamill-co/knots/internal/core/services"
)

type stubRunner struct {
	requests []driven.DiscoveryRequest
	err      error
}

func (r *stubRunner) Run(_ context.Context, req driven.DiscoveryRequest) error {
	r.requests = append(r.requests, req)
	return r.err
}

type stubSchemaReader struct {
	catalog domain.Catalog
}

func (r *stubSchemaReader) Read(_ context.Context) (domain.Catalog, error) {
	return r.catalog, nil
}

func (r *stubSchemaReader) Path() string {
	return "/work/docker/tap/catalog.json"
}

type stubDocker struct {
	version string
	err     error
}

func (d *stubDocker) Version(_ context.Context) (string, error) {
	return d.version, d.err
}

type stubLister struct {
	names []string
	err   error
}

func (l *stubLister) List(_ context.Context) ([]string, error) {
	return l.names, l.err
}

// testEnv holds the in-memory collaborators behind the CLI services.
type testEnv struct {
	descriptors *memory.DescriptorStore
	runs        *memory.RunStore
	config      *memory.ConfigStore
	runner      *stubRunner
	docker      *stubDocker
	lister      *stubLister
}

// setupTestServices wires real services over in-memory stores and resets
// the command state when the test ends.
func setupTestServices(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		descriptors: memory.NewDescriptorStore(),
		runs:        memory.NewRunStore(),
		config:      memory.NewConfigStore(),
		runner:      &stubRunner{},
		docker:      &stubDocker{version: "Docker version 27.0.1, build abc"},
		lister:      &stubLister{names: []string{"orders", "shop"}},
	}

	registry := services.NewTapRegistry()
	pipeline := services.NewPipelineService(
		env.descriptors,
		registry,
		env.runner,
		&stubSchemaReader{catalog: domain.Catalog(`{"streams":[{"stream":"orders"}]}`)},
	)
	pipeline.SetRunStore(env.runs)
	pipeline.SetPersistSchema(true)

	SetServices(&Services{
		Pipeline:    pipeline,
		Taps:        registry,
		Environment: services.NewEnvironmentService(env.docker, env.lister, env.runs),
		Settings:    services.NewSettingsService(env.config),
	})

	t.Cleanup(func() {
		SetServices(&Services{})
		resetFlags()
	})
	return env
}

func resetFlags() {
	configPairs = nil
	configInteractive = false
	configSkipCheck = false
	statusWatch = false
	runsLimit = 20
}

// executeCommand runs the root command with args and returns its output.
func executeCommand(t *testing.T, in io.Reader, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	if in != nil {
		rootCmd.SetIn(in)
	}
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags()
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "knots", rootCmd.Use)
	assert.True(t, rootCmd.SilenceUsage)
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	for _, name := range []string{"verbose", "workdir", "config-dir"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
}

func TestRootCmd_BootstrapReceivesFlags(t *testing.T) {
	var got Options
	cleaned := false
	SetBootstrap(func(opts Options) (*Services, func(), error) {
		got = opts
		return &Services{Taps: services.NewTapRegistry()}, func() { cleaned = true }, nil
	})
	defer func() {
		SetBootstrap(nil)
		SetServices(&Services{})
		workDir, configDir = "", ""
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"--workdir", "/tmp/shop", "--config-dir", "/tmp/cfg", "tap", "list"})
	defer rootCmd.SetArgs(nil)

	err := Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, Options{WorkDir: "/tmp/shop", ConfigDir: "/tmp/cfg"}, got)
	assert.True(t, cleaned)
	assert.Contains(t, buf.String(), "postgres")
}

func TestRootCmd_BootstrapError(t *testing.T) {
	SetBootstrap(func(Options) (*Services, func(), error) {
		return nil, nil, domain.ErrParse
	})
	defer SetBootstrap(nil)

	_, err := executeCommand(t, nil, "tap", "list")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrParse)
	assert.True(t, strings.HasPrefix(err.Error(), "initialising"))
}

func TestCommands_ServicesNotConfigured(t *testing.T) {
	SetServices(&Services{})

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"tap", "list"}, "tap registry not configured"},
		{[]string{"tap", "add", "postgres", "1.0"}, "pipeline service not configured"},
		{[]string{"config", "submit"}, "pipeline service not configured"},
		{[]string{"status"}, "pipeline service not configured"},
		{[]string{"knot", "list"}, "environment service not configured"},
		{[]string{"docker"}, "environment service not configured"},
		{[]string{"runs"}, "environment service not configured"},
		{[]string{"settings"}, "settings service not configured"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			_, err := executeCommand(t, nil, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
