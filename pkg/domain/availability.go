package domain

import (
	"sort"
	"time"
)

// DateLayout is the calendar-day format the availability endpoints use.
const DateLayout = "2006-01-02"

// Availability is a coach's calendar: days they work and days they blocked.
type Availability struct {
	CoachID          string   `json:"coachId,omitempty"`
	WorkingHours     []string `json:"workingHours,omitempty"`
	UnavailableDates []string `json:"unavailableDates"`
}

// AvailableDates returns the working days that are not blocked, sorted.
// Entries are compared as calendar days so "2025-05-01T00:00:00Z" and
// "2025-05-01" match. Unparseable entries are skipped.
func (a Availability) AvailableDates() []time.Time {
	blocked := make(map[string]bool, len(a.UnavailableDates))
	for _, d := range a.UnavailableDates {
		if t, ok := ParseDay(d); ok {
			blocked[t.Format(DateLayout)] = true
		}
	}
	seen := make(map[string]bool, len(a.WorkingHours))
	var out []time.Time
	for _, d := range a.WorkingHours {
		t, ok := ParseDay(d)
		if !ok {
			continue
		}
		key := t.Format(DateLayout)
		if blocked[key] || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// ParseDay reads a calendar day from either a date or an RFC 3339 timestamp.
func ParseDay(s string) (time.Time, bool) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		y, m, d := t.UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// ToggleDay adds day to the list when absent and removes it when present.
func ToggleDay(days []string, day time.Time) []string {
	key := day.Format(DateLayout)
	out := make([]string, 0, len(days)+1)
	removed := false
	for _, d := range days {
		t, ok := ParseDay(d)
		if ok && t.Format(DateLayout) == key {
			removed = true
			continue
		}
		out = append(out, d)
	}
	if !removed {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
