package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatConversionRate(t *testing.T) {
	tests := []struct {
		rate      float64
		precision int
		want      string
	}{
		{10.396039, 2, "10.40%"},
		{0, 2, "0.00%"},
		{100, 1, "100.0%"},
		{33.33333, 4, "33.3333%"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatConversionRate(tt.rate, tt.precision))
	}
}

func TestFormatPeriodLabel(t *testing.T) {
	monday := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		t    time.Time
		g    Granularity
		want string
	}{
		{"day", monday, DayGranularity, "Jan 1, 2024"},
		{"week", monday, WeekGranularity, "Jan 1 - Jan 7, 2024"},
		{"week across year", yearEnd, WeekGranularity, "Dec 30 - Jan 5, 2025"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPeriodLabel(tt.t, tt.g))
		})
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2024-03-05", FormatDate(time.Date(2024, 3, 5, 23, 0, 0, 0, time.UTC)))
}
