package tui

import (
	"testing"
	"time"
)

func TestFormatTime(t *testing.T) {
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{50 * time.Hour, "2d ago"},
	}
	for _, tc := range tests {
		if got := formatTime(time.Now().Add(-tc.ago)); got != tc.want {
			t.Errorf("formatTime(-%s) = %q, want %q", tc.ago, got, tc.want)
		}
	}
}

func TestFormatLongDate(t *testing.T) {
	d := time.Date(2026, 6, 15, 14, 5, 0, 0, time.UTC)
	if got := formatLongDate(d); got != "Monday, June 15, 2026" {
		t.Errorf("formatLongDate = %q", got)
	}
	if got := formatLongDate(time.Time{}); got != "—" {
		t.Errorf("formatLongDate(zero) = %q", got)
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		h, m int
		want string
	}{
		{0, 0, "12:00 AM"},
		{9, 30, "9:30 AM"},
		{12, 0, "12:00 PM"},
		{15, 4, "3:04 PM"},
	}
	for _, tc := range tests {
		d := time.Date(2026, 6, 15, tc.h, tc.m, 0, 0, time.UTC)
		if got := formatClock(d); got != tc.want {
			t.Errorf("formatClock(%02d:%02d) = %q, want %q", tc.h, tc.m, got, tc.want)
		}
	}
	if formatClock(time.Time{}) != "" {
		t.Error("zero time should render empty")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := map[int]string{0: "", -5: "", 45: "45m", 60: "1h", 90: "1h 30m", 120: "2h"}
	for in, want := range tests {
		if got := formatDuration(in); got != want {
			t.Errorf("formatDuration(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatPrice(t *testing.T) {
	tests := map[float64]string{0: "$0", 80: "$80", 49.5: "$49.50", 99.99: "$99.99"}
	for in, want := range tests {
		if got := formatPrice(in); got != want {
			t.Errorf("formatPrice(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestTruncStr(t *testing.T) {
	if got := truncStr("hello", 10); got != "hello" {
		t.Errorf("truncStr short = %q", got)
	}
	if got := truncStr("hello world", 6); got != "hello…" {
		t.Errorf("truncStr long = %q", got)
	}
	if got := truncStr("héllo wörld", 4); got != "hél…" {
		t.Errorf("truncStr multibyte = %q", got)
	}
}

func TestCleanTitle(t *testing.T) {
	tests := map[string]string{
		"# Header":             "Header",
		"## Two  spaces\nhere": "Two spaces here",
		"plain":                "plain",
		"### ":                 "",
	}
	for in, want := range tests {
		if got := cleanTitle(in); got != want {
			t.Errorf("cleanTitle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestScrollWindow(t *testing.T) {
	tests := []struct {
		cursor, n, height int
		start, end        int
	}{
		{0, 5, 10, 0, 5},
		{0, 20, 5, 0, 5},
		{7, 20, 5, 3, 8},
		{19, 20, 5, 15, 20},
		{3, 20, 0, 0, 20},
	}
	for _, tc := range tests {
		s, e := scrollWindow(tc.cursor, tc.n, tc.height)
		if s != tc.start || e != tc.end {
			t.Errorf("scrollWindow(%d, %d, %d) = (%d, %d), want (%d, %d)",
				tc.cursor, tc.n, tc.height, s, e, tc.start, tc.end)
		}
	}
}
