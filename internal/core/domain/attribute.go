package domain

import (
	"encoding/json"
	"fmt"
)

// SetAttribute sets value at path in a decoded JSON object tree, replacing
// any non-object intermediate with an empty object.
func SetAttribute(tree map[string]any, path []string, value any) error {
	if len(path) == 0 {
		return fmt.Errorf("%w: empty attribute path", ErrInvalidInput)
	}

	leaf, err := normalise(value)
	if err != nil {
		return err
	}

	node := tree
	for _, key := range path[:len(path)-1] {
		child, ok := node[key].(map[string]any)
		if !ok {
			child = make(map[string]any)
			node[key] = child
		}
		node = child
	}
	node[path[len(path)-1]] = leaf
	return nil
}

// normalise converts value to its JSON tree form. Raw JSON is kept
// verbatim so opaque documents such as catalogs are not re-shaped.
func normalise(value any) (any, error) {
	var raw []byte
	switch v := value.(type) {
	case json.RawMessage:
		raw = v
	case Catalog:
		raw = v
	default:
		data, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("%w: encoding attribute: %w", ErrInvalidInput, err)
		}
		var out any
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("%w: decoding attribute: %w", ErrInvalidInput, err)
		}
		return out, nil
	}

	if !json.Valid(raw) {
		return nil, fmt.Errorf("%w: attribute is not valid JSON", ErrInvalidInput)
	}
	return json.RawMessage(append([]byte(nil), raw...)), nil
}
