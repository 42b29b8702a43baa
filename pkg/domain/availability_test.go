package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, _ := time.Parse(DateLayout, s)
	return t
}

func TestAvailableDates(t *testing.T) {
	a := Availability{
		WorkingHours:     []string{"2025-05-03", "2025-05-01", "2025-05-02", "garbage", "2025-05-01"},
		UnavailableDates: []string{"2025-05-02T00:00:00Z"},
	}
	got := a.AvailableDates()
	require.Len(t, got, 2)
	assert.Equal(t, day("2025-05-01"), got[0])
	assert.Equal(t, day("2025-05-03"), got[1])
}

func TestAvailableDates_Empty(t *testing.T) {
	assert.Empty(t, Availability{}.AvailableDates())
}

func TestParseDay(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2025-05-01", "2025-05-01", true},
		{"2025-05-01T23:30:00Z", "2025-05-01", true},
		{"2025-05-01T23:30:00-05:00", "2025-05-02", true},
		{"05/01/2025", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDay(tt.in)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got.Format(DateLayout))
			}
		})
	}
}

func TestToggleDay(t *testing.T) {
	days := []string{"2025-05-01"}

	days = ToggleDay(days, day("2025-05-03"))
	assert.Equal(t, []string{"2025-05-01", "2025-05-03"}, days)

	days = ToggleDay(days, day("2025-05-01"))
	assert.Equal(t, []string{"2025-05-03"}, days)
}
