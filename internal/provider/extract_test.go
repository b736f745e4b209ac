package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractMetric(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"104.2", 104.2, true},
		{" 451 ", 451, true},
		{"-3.5", -3.5, true},
		{"", 0, false},
		{"nan", 0, false},
		{"NaN", 0, false},
		{"N/A", 0, false},
		{"fast", 0, false},
		{"Inf", 0, false},
	}
	for _, tt := range tests {
		got, ok := ExtractMetric(tt.raw)
		assert.Equal(t, tt.ok, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestDisplayMetric(t *testing.T) {
	assert.Equal(t, "104.2", DisplayMetric("104.2"))
	assert.Equal(t, "451", DisplayMetric("451.0"))
	assert.Equal(t, "N/A", DisplayMetric(""))
	assert.Equal(t, 0.0, MetricOrZero("nope"))
}
