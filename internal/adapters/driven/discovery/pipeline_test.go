package discovery_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datamill-co/knots/internal/adapters/driven/descriptor"
	"github.com/datamill-co/knots/internal/adapters/driven/discovery"
	"github.com/datamill-co/knots/internal/adapters/driven/storage/memory"
	"github.com/datamill-co/knots/internal/adapters/driven/workspace"
	"github.com/datamill-co/knots/internal/core/domain"
	"github.com/datamill-co/knots/internal/core/services"
)

type pipelineEnv struct {
	layout   workspace.Layout
	store    *descriptor.Store
	runs     *memory.RunStore
	pipeline *services.PipelineService
}

func newPipelineEnv(t *testing.T, command string) *pipelineEnv {
	t.Helper()
	layout, err := workspace.NewLayout(t.TempDir(), "")
	require.NoError(t, err)
	store, err := descriptor.NewStore(layout.WorkDir())
	require.NoError(t, err)
	runner, err := discovery.NewRunner(workspace.NewStager(layout), discovery.Config{
		Command:     command,
		Timeout:     time.Minute,
		WorkDir:     layout.WorkDir(),
		CatalogPath: layout.CatalogPath(),
	})
	require.NoError(t, err)

	runs := memory.NewRunStore()
	pipeline := services.NewPipelineService(store, services.NewTapRegistry(), runner, workspace.NewCatalogReader(layout))
	pipeline.SetRunStore(runs)
	pipeline.SetPersistSchema(true)
	pipeline.SetKnotDir(layout.WorkDir())

	return &pipelineEnv{layout: layout, store: store, runs: runs, pipeline: pipeline}
}

var postgresValues = map[string]string{
	"host":     "localhost",
	"user":     "app",
	"password": "secret",
	"dbname":   "shop",
	"port":     "5432",
}

func TestPipeline_PostgresEndToEnd(t *testing.T) {
	env := newPipelineEnv(t, `echo '{"streams":[]}' > "{{.CatalogPath}}"`)
	ctx := context.Background()

	_, err := env.pipeline.RegisterTap(ctx, "postgres", "1.0")
	require.NoError(t, err)
	catalog, err := env.pipeline.SubmitConfig(ctx, postgresValues)
	require.NoError(t, err)

	assert.JSONEq(t, `{"streams":[]}`, string(catalog))

	raw, err := os.ReadFile(filepath.Join(env.layout.WorkDir(), descriptor.FileName))
	require.NoError(t, err)
	assert.JSONEq(t, `{"tap":{"name":"postgres","version":"1.0",
		"config":{"host":"localhost","user":"app","password":"secret","dbname":"shop","port":"5432"},
		"schema":{"streams":[]}}}`, string(raw))

	staged, err := os.ReadFile(env.layout.ConfigPath())
	require.NoError(t, err)
	assert.JSONEq(t, `{"host":"localhost","user":"app","password":"secret","dbname":"shop","port":"5432"}`, string(staged))
	_, err = os.Stat(env.layout.ScratchConfigPath())
	assert.True(t, os.IsNotExist(err), "scratch config should have been moved")

	status, err := env.pipeline.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.KnotStateDiscovered, status.State)

	history, err := env.runs.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].Success)
}

func TestPipeline_DiscoveryFailureKeepsConfig(t *testing.T) {
	env := newPipelineEnv(t, `echo "cannot connect" 1>&2; exit 1`)
	ctx := context.Background()

	_, err := env.pipeline.RegisterTap(ctx, "postgres", "1.0")
	require.NoError(t, err)
	_, err = env.pipeline.SubmitConfig(ctx, postgresValues)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDiscovery)
	assert.Contains(t, err.Error(), "cannot connect")

	knot, err := env.store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.KnotStateConfigured, knot.State())

	history, err := env.runs.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.False(t, history[0].Success)
	assert.Contains(t, history[0].Error, "cannot connect")
}

func TestPipeline_MissingCatalog(t *testing.T) {
	env := newPipelineEnv(t, `true`)
	ctx := context.Background()

	_, err := env.pipeline.RegisterTap(ctx, "postgres", "1.0")
	require.NoError(t, err)
	_, err = env.pipeline.SubmitConfig(ctx, postgresValues)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
