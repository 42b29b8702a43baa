package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bance-assetou/mindvision/internal/forms"
	"github.com/bance-assetou/mindvision/pkg/client"
	"github.com/bance-assetou/mindvision/pkg/domain"
)

type appointmentsLoadedMsg struct {
	appointments []domain.Appointment
	err          error
}

type appointmentCreatedMsg struct {
	appointment *domain.Appointment
	err         error
}

const (
	apptDate = iota
	apptTime
	apptNotes
	numApptFields
)

// appointmentsModel lists the user's appointments and hosts the form for
// booking a service.
type appointmentsModel struct {
	client       *client.Client
	validator    *forms.Validator
	appointments []domain.Appointment
	cursor       int
	loading      bool
	err          string
	statusMsg    string

	composing  bool
	service    domain.Service
	fields     [numApptFields]field
	focus      int
	errs       forms.Errors
	submitting bool

	width  int
	height int
}

func newAppointmentsModel(c *client.Client, v *forms.Validator) appointmentsModel {
	return appointmentsModel{client: c, validator: v}
}

func (m appointmentsModel) Init() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		appts, err := c.ListAppointments(context.Background())
		return appointmentsLoadedMsg{appointments: appts, err: err}
	}
}

// compose opens the booking form for svc.
func (m appointmentsModel) compose(svc domain.Service) appointmentsModel {
	m.composing = true
	m.service = svc
	m.focus = apptDate
	m.errs = nil
	m.err = ""
	m.fields = [numApptFields]field{
		{label: "date", key: "date", value: time.Now().AddDate(0, 0, 1).Format(domain.DateLayout)},
		{label: "time", key: "time", value: "10:00"},
		{label: "notes", key: "notes", placeholder: "optional"},
	}
	return m
}

func (m appointmentsModel) Update(msg tea.Msg) (appointmentsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case appointmentsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		m.appointments = msg.appointments
		sort.SliceStable(m.appointments, func(i, j int) bool {
			return m.appointments[i].Date.Before(m.appointments[j].Date)
		})
		if m.cursor >= len(m.appointments) {
			m.cursor = 0
		}

	case appointmentCreatedMsg:
		m.submitting = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.composing = false
		m.err = ""
		m.statusMsg = "appointment requested for " + m.service.Title
		m.loading = true
		return m, m.Init()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		m.statusMsg = ""
		if m.composing {
			return m.updateForm(msg)
		}
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.appointments)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "r":
			m.loading = true
			return m, m.Init()
		}
	}
	return m, nil
}

func (m appointmentsModel) updateForm(msg tea.KeyMsg) (appointmentsModel, tea.Cmd) {
	switch key := msg.String(); key {
	case "esc":
		m.composing = false
		m.err = ""
	case "tab", "down":
		m.focus = (m.focus + 1) % numApptFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numApptFields) % numApptFields
	case "enter":
		if m.focus < numApptFields-1 {
			m.focus++
			return m, nil
		}
		return m.submit()
	case "ctrl+s":
		return m.submit()
	default:
		f := &m.fields[m.focus]
		f.value = editRune(f.value, key)
	}
	return m, nil
}

func (m appointmentsModel) submit() (appointmentsModel, tea.Cmd) {
	f := forms.Appointment{
		ServiceID: m.service.ID,
		Date:      strings.TrimSpace(m.fields[apptDate].value),
		Time:      strings.TrimSpace(m.fields[apptTime].value),
		Notes:     strings.TrimSpace(m.fields[apptNotes].value),
	}
	m.errs = m.validator.Check(f)
	if len(m.errs) > 0 {
		return m, nil
	}
	when, err := f.When(time.Local)
	if err != nil {
		m.err = err.Error()
		return m, nil
	}
	m.submitting = true
	c := m.client
	req := client.CreateAppointmentRequest{ServiceID: f.ServiceID, Date: when, Notes: f.Notes}
	return m, func() tea.Msg {
		a, err := c.CreateAppointment(context.Background(), req)
		return appointmentCreatedMsg{appointment: a, err: err}
	}
}

func (m appointmentsModel) View() string {
	if m.composing {
		return m.viewForm()
	}
	var b strings.Builder
	b.WriteString(" " + sectionHeaderStyle.Render("Appointments") + "\n\n")
	switch {
	case m.loading && len(m.appointments) == 0:
		b.WriteString(" " + dimStyle.Render("loading appointments..."))
	case m.err != "":
		b.WriteString(" " + errorStyle.Render("error: "+m.err))
	case len(m.appointments) == 0:
		b.WriteString(" " + dimStyle.Render("no appointments yet. pick a service under 1 and press b"))
	default:
		start, end := scrollWindow(m.cursor, len(m.appointments), m.height-4)
		for i := start; i < end; i++ {
			a := m.appointments[i]
			cursor := "  "
			if i == m.cursor {
				cursor = accentStyle.Render("▸") + " "
			}
			when := formatLongDate(a.Date.Local()) + " " + formatClock(a.Date.Local())
			parts := []string{
				normalStyle.Render(padRight(truncStr(a.Service.Label(), 28), 28)),
				dimStyle.Render(when),
			}
			if a.Status != "" {
				parts = append(parts, StatusStyle(a.Status).Render(a.Status))
			}
			line := cursor + strings.Join(parts, "  ")
			if i == m.cursor {
				line = selectedRowBg.Render(line)
			}
			b.WriteString(line + "\n")
			if i == m.cursor && a.Notes != "" {
				b.WriteString("    " + metaStyle.Render(truncStr(a.Notes, max(m.width-6, 20))) + "\n")
			}
		}
	}
	if m.statusMsg != "" {
		b.WriteString("\n " + successStyle.Render(m.statusMsg))
	}
	return b.String()
}

func (m appointmentsModel) viewForm() string {
	var b strings.Builder
	fmt.Fprintf(&b, " %s\n", titleStyle.Render("Book "+m.service.Title))
	meta := []string{priceStyle.Render(formatPrice(m.service.Price))}
	if d := formatDuration(m.service.Duration); d != "" {
		meta = append(meta, dimStyle.Render(d))
	}
	fmt.Fprintf(&b, " %s\n\n", strings.Join(meta, metaStyle.Render(" · ")))
	for i, f := range m.fields {
		b.WriteString(" " + renderField(f, i == m.focus, m.errs[f.key]) + "\n")
	}
	if msg := m.errs["service"]; msg != "" {
		b.WriteString(" " + errorStyle.Render(msg) + "\n")
	}
	b.WriteString("\n")
	switch {
	case m.submitting:
		b.WriteString(" " + dimStyle.Render("booking..."))
	case m.err != "":
		b.WriteString(" " + errorStyle.Render(m.err))
	default:
		b.WriteString(" " + metaStyle.Render("dates are YYYY-MM-DD, times HH:MM (24h)"))
	}
	return b.String()
}
