package services

import (
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"1000000", "1000000"},
		{"1,234,567", "1234567"},
		{"  987 ", "987"},
		{"", "0"},
		{"   ", "0"},
		{"abc", "0"},
		{"12.5", "0"},
		{"123456789012345678901234567890", "123456789012345678901234567890"},
	}

	for _, tt := range tests {
		got := ParseAmount(tt.raw)
		if got.String() != tt.want {
			t.Errorf("ParseAmount(%q) = %s; want %s", tt.raw, got, tt.want)
		}
	}
}

func TestParsePercent(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"87.745", 87.745},
		{" 80 ", 80},
		{"", 0},
		{"N/A", 0},
	}

	for _, tt := range tests {
		got := ParsePercent(tt.raw)
		if got != tt.want {
			t.Errorf("ParsePercent(%q) = %v; want %v", tt.raw, got, tt.want)
		}
	}
}

func TestParseRangeMagnitude(t *testing.T) {
	// Every shape the provider is known to emit for a ±3% range.
	for _, raw := range []string{"+3", "-3", "3%", "-3%", "3"} {
		if got := ParseRangeMagnitude(raw); got != 3.0 {
			t.Errorf("ParseRangeMagnitude(%q) = %v; want 3.0", raw, got)
		}
	}

	for _, raw := range []string{"", "  ", "%", "+-", "abc"} {
		if got := ParseRangeMagnitude(raw); got != 0.0 {
			t.Errorf("ParseRangeMagnitude(%q) = %v; want 0.0", raw, got)
		}
	}

	if got := ParseRangeMagnitude("+2.5%"); got != 2.5 {
		t.Errorf("ParseRangeMagnitude(%q) = %v; want 2.5", "+2.5%", got)
	}
}

func TestParseTime(t *testing.T) {
	const layout = "2006-01-02 15:04:05"

	got := ParseTime("2024-01-15 10:30:00", layout)
	if got == nil {
		t.Fatal("valid datetime returned nil")
	}
	if got.Hour() != 10 || got.Minute() != 30 {
		t.Errorf("parsed wrong time: %v", got)
	}

	for _, raw := range []string{"", "   ", "2024-13-99", "soon"} {
		if got := ParseTime(raw, layout); got != nil {
			t.Errorf("ParseTime(%q) = %v; want nil", raw, got)
		}
	}
}
