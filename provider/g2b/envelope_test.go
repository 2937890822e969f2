package g2b

import (
	"encoding/json"
	"testing"
)

type testItem struct {
	Name string `json:"name"`
}

func TestDecodeItemsShapes(t *testing.T) {
	tests := []struct {
		desc string
		raw  string
		want []string
	}{
		{"array", `[{"name":"a"},{"name":"b"}]`, []string{"a", "b"}},
		{"object with single item", `{"item":{"name":"a"}}`, []string{"a"}},
		{"object with item array", `{"item":[{"name":"a"},{"name":"b"}]}`, []string{"a", "b"}},
		{"empty string", `""`, nil},
		{"null", `null`, nil},
		{"empty array", `[]`, nil},
		{"empty object", `{}`, nil},
		{"object with null item", `{"item":null}`, nil},
	}

	for _, tt := range tests {
		items, err := decodeItems[testItem](json.RawMessage(tt.raw))
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.desc, err)
			continue
		}
		if len(items) != len(tt.want) {
			t.Errorf("%s: got %d items, want %d", tt.desc, len(items), len(tt.want))
			continue
		}
		for i, it := range items {
			if it.Name != tt.want[i] {
				t.Errorf("%s: item %d = %q, want %q", tt.desc, i, it.Name, tt.want[i])
			}
		}
	}
}

func TestDecodeItemsMalformed(t *testing.T) {
	if _, err := decodeItems[testItem](json.RawMessage(`[{"name":`)); err == nil {
		t.Error("expected error for truncated array")
	}
	if _, err := decodeItems[testItem](json.RawMessage(`12345x`)); err == nil {
		t.Error("expected error for garbage input")
	}
}
