// Package provider holds helpers shared by the upstream data providers.
package provider

import (
	"math"
	"strconv"
	"strings"
)

// ExtractMetric normalizes a flight-metric cell from the home-run dataset.
//
// Cells arrive as free text: "104.2", "104", " 451 ", "" or "nan" when the
// source had no Statcast reading. Returns ok=false if not extractable.
func ExtractMetric(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	switch strings.ToLower(s) {
	case "nan", "n/a", "none", "null":
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// MetricOrZero returns the parsed metric, or 0 when missing or unparseable.
func MetricOrZero(raw string) float64 {
	f, _ := ExtractMetric(raw)
	return f
}

// DisplayMetric renders a metric for prompts and responses, "N/A" when missing.
func DisplayMetric(raw string) string {
	f, ok := ExtractMetric(raw)
	if !ok {
		return "N/A"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
