package domain

import (
	"bytes"
	"encoding/json"
)

// Catalog is the schema catalog produced by a tap's discovery mode.
// It is opaque: the raw JSON bytes are passed through unmodified.
type Catalog []byte

// MarshalJSON returns the raw catalog bytes.
func (c Catalog) MarshalJSON() ([]byte, error) {
	if len(c) == 0 {
		return []byte("null"), nil
	}
	return c, nil
}

// UnmarshalJSON stores a copy of the raw bytes.
func (c *Catalog) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*c = nil
		return nil
	}
	*c = append((*c)[0:0], data...)
	return nil
}

// IsNull reports whether the catalog is empty or JSON null.
func (c Catalog) IsNull() bool {
	trimmed := bytes.TrimSpace(c)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// StreamCount counts the entries of a top-level "streams" array.
// Returns 0 when the catalog has no such array.
func (c Catalog) StreamCount() int {
	var probe struct {
		Streams []json.RawMessage `json:"streams"`
	}
	if err := json.Unmarshal(c, &probe); err != nil {
		return 0
	}
	return len(probe.Streams)
}

// Pretty returns the catalog indented for display.
// Falls back to the raw bytes if indentation fails.
func (c Catalog) Pretty() string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, c, "", "  "); err != nil {
		return string(c)
	}
	return buf.String()
}
