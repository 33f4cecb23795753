package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datamill-co/knots/internal/core/domain"
)

func TestRunStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewRunStore()
	run := domain.DiscoveryRun{ID: "run-1", TapName: "postgres", TapVersion: "1.0", Success: true}

	require.NoError(t, store.Save(ctx, run))

	got, err := store.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, run, *got)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRunStore_SaveRequiresID(t *testing.T) {
	err := NewRunStore().Save(context.Background(), domain.DiscoveryRun{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRunStore_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewRunStore()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, run := range []domain.DiscoveryRun{
		{ID: "a", StartedAt: base},
		{ID: "c", StartedAt: base.Add(2 * time.Hour)},
		{ID: "b", StartedAt: base.Add(time.Hour)},
	} {
		require.NoError(t, store.Save(ctx, run))
	}

	runs, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{runs[0].ID, runs[1].ID, runs[2].ID})

	runs, err = store.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "c", runs[0].ID)
}

func TestRunStore_ListEmpty(t *testing.T) {
	runs, err := NewRunStore().List(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
