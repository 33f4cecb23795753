package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_StreamCount(t *testing.T) {
	tests := []struct {
		name    string
		catalog Catalog
		want    int
	}{
		{"empty streams", Catalog(`{"streams":[]}`), 0},
		{"two streams", Catalog(`{"streams":[{"stream":"a"},{"stream":"b"}]}`), 2},
		{"no streams key", Catalog(`{"tables":[1,2]}`), 0},
		{"not an object", Catalog(`[1,2,3]`), 0},
		{"nil", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.catalog.StreamCount())
		})
	}
}

func TestCatalog_StreamCountDoesNotModify(t *testing.T) {
	raw := `{"streams":[{"stream":"orders","x-vendor":{"keep":true}}],"extra":1}`
	catalog := Catalog(raw)

	catalog.StreamCount()
	_ = catalog.Pretty()

	assert.Equal(t, raw, string(catalog))
}

func TestCatalog_JSONRoundTripKeepsUnknownKeys(t *testing.T) {
	in := `{"tap":{"name":"postgres","version":"1.0","schema":{"streams":[],"vendor":{"a":[1,2]}}}}`

	var knot Knot
	require.NoError(t, json.Unmarshal([]byte(in), &knot))
	assert.JSONEq(t, `{"streams":[],"vendor":{"a":[1,2]}}`, string(knot.Tap.Schema))

	out, err := json.Marshal(knot)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestCatalog_IsNull(t *testing.T) {
	assert.True(t, Catalog(nil).IsNull())
	assert.True(t, Catalog(" null ").IsNull())
	assert.False(t, Catalog(`{}`).IsNull())
}

func TestCatalog_Pretty(t *testing.T) {
	assert.Equal(t, "{\n  \"streams\": []\n}", Catalog(`{"streams":[]}`).Pretty())
	assert.Equal(t, "not json", Catalog("not json").Pretty())
}
