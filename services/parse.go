package services

import (
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"
)

// The provider is known to return inconsistent, partially-filled fields.
// Every parser here is total: malformed input degrades to a zero value (or
// nil for timestamps) instead of failing the record.

// ParseAmount converts a provider amount string ("1,234,567") into an
// arbitrary-precision integer. Returns zero on empty or unparseable input.
func ParseAmount(text string) *big.Int {
	text = strings.TrimSpace(strings.ReplaceAll(text, ",", ""))
	if text == "" {
		return new(big.Int)
	}
	n, ok := new(big.Int).SetString(text, 10)
	if !ok {
		return new(big.Int)
	}
	return n
}

// ParsePercent parses a plain percentage value ("87.745"). Returns 0.0 on
// empty or unparseable input.
func ParsePercent(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0.0
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0.0
	}
	return v
}

// ParseRangeMagnitude parses a signed/percent range string ("+3", "-3",
// "3%") into its absolute magnitude. Returns 0.0 on empty or unparseable
// input.
func ParseRangeMagnitude(text string) float64 {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "+")
	text = strings.TrimPrefix(text, "-")
	text = strings.TrimSuffix(text, "%")
	text = strings.TrimSpace(text)
	if text == "" {
		return 0.0
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0.0
	}
	return math.Abs(v)
}

// ParseTime parses a provider datetime string with the given layout.
// Returns nil on empty or unparseable input.
func ParseTime(text, layout string) *time.Time {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	t, err := time.ParseInLocation(layout, text, time.Local)
	if err != nil {
		return nil
	}
	return &t
}
