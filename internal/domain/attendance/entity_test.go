package attendance

import (
	"testing"
	"time"
)

func TestCalculateWorkHours(t *testing.T) {
	at := func(h, m int) *time.Time {
		ts := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC).Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
		return &ts
	}

	cases := []struct {
		name     string
		checkIn  *time.Time
		checkOut *time.Time
		want     float64
	}{
		{"missing check-in", nil, at(17, 0), 0},
		{"missing check-out", at(9, 0), nil, 0},
		{"both missing", nil, nil, 0},
		{"same instant", at(9, 0), at(9, 0), 0},
		{"check-out before check-in", at(17, 0), at(9, 0), 0},
		{"full day", at(9, 0), at(17, 0), 8},
		{"twenty minutes", at(9, 0), at(9, 20), 0.33},
		{"rounds half up", at(9, 0), at(17, 10), 8.17},
		{"exactly a day", at(0, 0), at(24, 0), 24},
		{"capped past a day", at(9, 0), at(39, 0), 24},
	}
	for _, c := range cases {
		got := CalculateWorkHours(c.checkIn, c.checkOut)
		if got != c.want {
			t.Errorf("%s: CalculateWorkHours() = %v, want %v", c.name, got, c.want)
		}
	}
}
