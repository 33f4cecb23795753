package descriptor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datamill-co/knots/internal/core/domain"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	return store, dir
}

func TestNewStore_Path(t *testing.T) {
	store, dir := newTestStore(t)

	assert.Equal(t, filepath.Join(dir, FileName), store.Path())
	assert.True(t, filepath.IsAbs(store.Path()))
}

func TestStore_Load_NotFound(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Load(context.Background())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Load_ParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"not json", "tap: postgres"},
		{"array", `[1,2]`},
		{"truncated object", `{"tap":{"name":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, dir := newTestStore(t)
			require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(tt.content), 0600))

			_, err := store.Load(context.Background())

			assert.ErrorIs(t, err, domain.ErrParse)
		})
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.NewKnot("postgres", "1.0")))

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.JSONEq(t, `{"tap":{"name":"postgres","version":"1.0"}}`, string(data))

	knot, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "postgres", knot.Tap.Name)
	assert.Equal(t, domain.KnotStateRegistered, knot.State())
}

func TestStore_Save_LeavesNoTempFiles(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Save(ctx, domain.NewKnot("postgres", fmt.Sprintf("1.%d", i))))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, FileName, entries[0].Name())
}

func TestStore_Save_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "shop")
	store, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), domain.NewKnot("postgres", "1.0")))

	_, err = os.Stat(filepath.Join(dir, FileName))
	assert.NoError(t, err)
}

func TestStore_MergeAttribute_NotFound(t *testing.T) {
	store, _ := newTestStore(t)

	err := store.MergeAttribute(context.Background(), domain.AttrTapConfig, map[string]string{})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_MergeAttribute_CreatesPath(t *testing.T) {
	store, dir := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{"other":{"keep":1}}`), 0600))

	err := store.MergeAttribute(context.Background(), domain.AttrTapConfig, map[string]string{"host": "h"})

	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.JSONEq(t, `{"other":{"keep":1},"tap":{"config":{"host":"h"}}}`, string(data))
}

func TestStore_MergeAttribute_Idempotent(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, domain.NewKnot("postgres", "1.0")))

	values := map[string]string{"host": "h", "port": "5432"}
	require.NoError(t, store.MergeAttribute(ctx, domain.AttrTapConfig, values))
	first, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)

	require.NoError(t, store.MergeAttribute(ctx, domain.AttrTapConfig, values))
	second, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestStore_MergeAttribute_SchemaVerbatim(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, domain.NewKnot("postgres", "1.0")))
	raw := `{"streams":[{"z":1,"a":{"nested":[true,null]}}]}`

	require.NoError(t, store.MergeAttribute(ctx, domain.AttrTapSchema, json.RawMessage(raw)))

	knot, err := store.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(knot.Tap.Schema))
	assert.Equal(t, domain.KnotStateDiscovered, knot.State())
}

func TestStore_MergeAttribute_ConcurrentMergesKeepAllKeys(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, domain.NewKnot("postgres", "1.0")))

	// A second store on the same path shares the lock.
	other, err := NewStore(dir)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := store
			if i%2 == 1 {
				s = other
			}
			assert.NoError(t, s.MergeAttribute(ctx, []string{"tap", fmt.Sprintf("k%02d", i)}, i))
		}()
	}
	wg.Wait()

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	var tree map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &tree))
	for i := 0; i < 20; i++ {
		assert.Equal(t, float64(i), tree["tap"][fmt.Sprintf("k%02d", i)])
	}
	assert.Equal(t, "postgres", tree["tap"]["name"])
}

func TestStore_ReaderSeesWholeDescriptor(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, domain.NewKnot("postgres", "1.0")))

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			_ = store.Save(ctx, domain.NewKnot("postgres", fmt.Sprintf("1.%d", i)))
		}
	}()

	// Read the file directly, bypassing the lock.
	for i := 0; i < 200; i++ {
		data, err := os.ReadFile(store.Path())
		require.NoError(t, err)
		assert.True(t, json.Valid(data), "partial descriptor: %q", data)
	}
	close(stop)
	wg.Wait()
}
