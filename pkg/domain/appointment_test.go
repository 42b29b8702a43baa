package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointmentDecodesBothRefShapes(t *testing.T) {
	raw := `[
		{"_id":"a1","user":"u1","service":"s1","date":"2025-05-01T10:00:00Z","status":"pending"},
		{"_id":"a2","user":{"_id":"u2","name":"Emily","email":"e@x.com"},
		 "service":{"_id":"s2","title":"Career Coaching","duration":60,"price":120},
		 "date":"2025-05-02T10:00:00Z","status":"confirmed","notes":"bring CV"}
	]`

	var appts []Appointment
	require.NoError(t, json.Unmarshal([]byte(raw), &appts))
	require.Len(t, appts, 2)

	assert.Equal(t, "u1", appts[0].User.ID)
	assert.Equal(t, "s1", appts[0].Service.Label())

	assert.Equal(t, "Emily", appts[1].User.Label())
	assert.Equal(t, "Career Coaching", appts[1].Service.Label())
	assert.Equal(t, 60, appts[1].Service.Duration)
	assert.Equal(t, StatusConfirmed, appts[1].Status)
}

func TestRefNull(t *testing.T) {
	var r Ref
	require.NoError(t, json.Unmarshal([]byte(`null`), &r))
	assert.Equal(t, "Unknown", r.Label())
}

func TestRefInvalid(t *testing.T) {
	var r Ref
	assert.Error(t, json.Unmarshal([]byte(`42`), &r))
}

func TestCoachSessionCounterpart(t *testing.T) {
	s := CoachSession{
		Coach:  &Ref{ID: "co1", Name: "Coach Sarah"},
		Client: &Ref{ID: "c1", Name: "John Smith"},
	}
	assert.Equal(t, "Client: John Smith", s.Counterpart(RoleCoach))
	assert.Equal(t, "Coach: Coach Sarah", s.Counterpart(RoleClient))
	assert.Equal(t, "Coach: Unknown", CoachSession{}.Counterpart(RoleClient))
}
