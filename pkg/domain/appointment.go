package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Appointment statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Ref is a relation the backend sends either as a bare id or as a populated
// object. Only the fields the client displays are kept.
type Ref struct {
	ID       string  `json:"_id"`
	Name     string  `json:"name,omitempty"`
	Email    string  `json:"email,omitempty"`
	Title    string  `json:"title,omitempty"`
	Duration int     `json:"duration,omitempty"`
	Price    float64 `json:"price,omitempty"`
}

// UnmarshalJSON accepts "id" or {"_id": "id", ...}.
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = Ref{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return fmt.Errorf("ref id: %w", err)
		}
		*r = Ref{ID: id}
		return nil
	}
	type plain Ref
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("ref object: %w", err)
	}
	*r = Ref(p)
	return nil
}

// Label is the best human-readable name for the reference.
func (r Ref) Label() string {
	switch {
	case r.Name != "":
		return r.Name
	case r.Title != "":
		return r.Title
	case r.ID != "":
		return r.ID
	}
	return "Unknown"
}

// Appointment is a booked service slot.
type Appointment struct {
	ID        string    `json:"_id"`
	User      Ref       `json:"user"`
	Service   Ref       `json:"service"`
	Date      time.Time `json:"date"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// CoachSession is a one-to-one session between a client and a coach.
type CoachSession struct {
	ID       string    `json:"_id"`
	Date     time.Time `json:"date"`
	Duration int       `json:"duration"`
	Coach    *Ref      `json:"coachId,omitempty"`
	Client   *Ref      `json:"clientId,omitempty"`
	Status   string    `json:"status"`
}

// Counterpart returns the other party of the session from the viewer's role.
func (s CoachSession) Counterpart(viewer Role) string {
	if viewer == RoleCoach {
		if s.Client != nil {
			return "Client: " + s.Client.Label()
		}
		return "Client: Unknown"
	}
	if s.Coach != nil {
		return "Coach: " + s.Coach.Label()
	}
	return "Coach: Unknown"
}
