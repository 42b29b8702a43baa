package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bance-assetou/mindvision/internal/forms"
	"github.com/bance-assetou/mindvision/pkg/domain"
)

func newTestAppointments() appointmentsModel {
	m := newAppointmentsModel(nil, forms.New())
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func TestAppointmentsList(t *testing.T) {
	m := newTestAppointments()
	later := time.Now().Add(72 * time.Hour)
	sooner := time.Now().Add(24 * time.Hour)
	m, _ = m.Update(appointmentsLoadedMsg{appointments: []domain.Appointment{
		{ID: "a2", Service: domain.Ref{ID: "s2", Title: "Mindfulness"}, Date: later, Status: "pending"},
		{ID: "a1", Service: domain.Ref{ID: "s1"}, Date: sooner, Status: "confirmed", Notes: "first call"},
	}})
	if m.appointments[0].ID != "a1" {
		t.Error("expected appointments sorted by date")
	}
	v := m.View()
	for _, want := range []string{"Mindfulness", "s1", "confirmed", "first call"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestAppointmentsEmpty(t *testing.T) {
	m := newTestAppointments()
	m, _ = m.Update(appointmentsLoadedMsg{})
	if !strings.Contains(m.View(), "no appointments yet") {
		t.Error("expected empty message")
	}
}

func TestAppointmentsCompose(t *testing.T) {
	m := newTestAppointments()
	m = m.compose(domain.Service{ID: "s1", Title: "Career coaching", Price: 80, Duration: 60})
	if !m.composing || m.focus != apptDate {
		t.Fatal("expected the form open on the date field")
	}
	tomorrow := time.Now().AddDate(0, 0, 1).Format(domain.DateLayout)
	if m.fields[apptDate].value != tomorrow {
		t.Errorf("default date = %q, want %q", m.fields[apptDate].value, tomorrow)
	}
	v := m.View()
	if !strings.Contains(v, "Book Career coaching") || !strings.Contains(v, "$80") {
		t.Errorf("unexpected form view %q", v)
	}
}

func TestAppointmentsValidation(t *testing.T) {
	m := newTestAppointments().compose(domain.Service{ID: "s1"})
	m.fields[apptDate].value = "2020-01-01"
	m.fields[apptTime].value = "noon"
	m, cmd := m.Update(key("ctrl+s"))
	if cmd != nil {
		t.Error("invalid form must not start a request")
	}
	if m.errs["date"] != "Please select a future date" {
		t.Errorf("date error = %q", m.errs["date"])
	}
	if m.errs["time"] != "Time must look like HH:MM" {
		t.Errorf("time error = %q", m.errs["time"])
	}
}

func TestAppointmentsSubmit(t *testing.T) {
	m := newTestAppointments().compose(domain.Service{ID: "s1", Title: "Career coaching"})
	m, _ = m.Update(key("tab"))
	m, _ = m.Update(key("tab"))
	for _, r := range "bring notes" {
		m, _ = m.Update(key(string(r)))
	}
	if m.fields[apptNotes].value != "bring notes" {
		t.Fatalf("notes = %q", m.fields[apptNotes].value)
	}
	m, cmd := m.Update(key("enter"))
	if cmd == nil || !m.submitting {
		t.Fatal("expected a create request")
	}

	m, cmd = m.Update(appointmentCreatedMsg{appointment: &domain.Appointment{ID: "a9"}})
	if m.composing {
		t.Error("expected the form closed after creation")
	}
	if cmd == nil {
		t.Error("expected the list reloaded")
	}
	if !strings.Contains(m.View(), "appointment requested for Career coaching") {
		t.Error("expected a confirmation line")
	}
}

func TestAppointmentsSubmitFailure(t *testing.T) {
	m := newTestAppointments().compose(domain.Service{ID: "s1"})
	m, _ = m.Update(key("ctrl+s"))
	m, _ = m.Update(appointmentCreatedMsg{err: errors.New("service unavailable")})
	if !m.composing {
		t.Error("expected the form kept open")
	}
	if !strings.Contains(m.View(), "service unavailable") {
		t.Error("expected the error in the form")
	}
}

func TestAppointmentsEscCancels(t *testing.T) {
	m := newTestAppointments().compose(domain.Service{ID: "s1"})
	m, _ = m.Update(key("esc"))
	if m.composing {
		t.Error("expected the form closed after esc")
	}
}
