package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidMonth(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"2024-01", true},
		{"2024-12", true},
		{"2024-13", false},
		{"2024-00", false},
		{"2024-1", false},
		{"24-01", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidMonth(tt.input))
		})
	}
}

func TestBounds(t *testing.T) {
	start, end, err := Bounds("2024-12", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), end)

	_, _, err = Bounds("2024/12", time.UTC)
	assert.Error(t, err)
}

func TestClockOn(t *testing.T) {
	loc := time.FixedZone("EET", 2*3600)
	day := time.Date(2024, 3, 5, 14, 30, 0, 0, loc)

	got, err := ClockOn(day, "09:15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 9, 15, 0, 0, loc), got)

	_, err = ClockOn(day, "9am")
	assert.Error(t, err)
}

func TestMonthAndDate(t *testing.T) {
	ts := time.Date(2024, 2, 29, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "2024-02", Month(ts))
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), Date(ts))
}
