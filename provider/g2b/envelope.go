package g2b

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// The provider wraps every payload in response.body.items. When exactly one
// result matches, items degrades from an array to a single object holding an
// "item" key, so decoding has to accept both shapes.
type envelope struct {
	Response struct {
		Body struct {
			Items json.RawMessage `json:"items"`
		} `json:"body"`
	} `json:"response"`
}

func isEmptyItems(raw []byte) bool {
	switch string(raw) {
	case "", "null", `""`, "{}", "[]":
		return true
	}
	return false
}

// decodeItems unpacks the items node into a flat slice, whether the provider
// sent an array, an {"item": {...}} object, or an {"item": [...]} object.
// An absent or empty node yields a nil slice, not an error.
func decodeItems[T any](raw json.RawMessage) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if isEmptyItems(raw) {
		return nil, nil
	}

	if raw[0] == '[' {
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("g2b: decode item array: %w", err)
		}
		return items, nil
	}

	var wrap struct {
		Item json.RawMessage `json:"item"`
	}
	if err := json.Unmarshal(raw, &wrap); err != nil {
		return nil, fmt.Errorf("g2b: decode items object: %w", err)
	}

	inner := bytes.TrimSpace(wrap.Item)
	if isEmptyItems(inner) {
		return nil, nil
	}
	if inner[0] == '[' {
		var items []T
		if err := json.Unmarshal(inner, &items); err != nil {
			return nil, fmt.Errorf("g2b: decode nested item array: %w", err)
		}
		return items, nil
	}

	var one T
	if err := json.Unmarshal(inner, &one); err != nil {
		return nil, fmt.Errorf("g2b: decode single item: %w", err)
	}
	return []T{one}, nil
}
