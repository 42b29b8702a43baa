package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bance-assetou/mindvision/internal/forms"
	"github.com/bance-assetou/mindvision/pkg/client"
	"github.com/bance-assetou/mindvision/pkg/domain"
)

type bookStage int

const (
	stageCoach bookStage = iota
	stageDate
	stageBooked
)

type coachesLoadedMsg struct {
	coaches []domain.Coach
	err     error
}

type availabilityLoadedMsg struct {
	coachID string
	avail   *domain.Availability
	err     error
}

type sessionBookedMsg struct {
	session *domain.CoachSession
	err     error
}

// bookModel walks a client through coach -> day and time -> confirmation.
type bookModel struct {
	client    *client.Client
	validator *forms.Validator
	user      *domain.User
	stage     bookStage

	coaches     []domain.Coach
	coachCursor int

	dates      []time.Time
	dateCursor int
	timeInput  string

	booked     *domain.CoachSession
	errs       forms.Errors
	loading    bool
	submitting bool
	err        string
	statusMsg  string
	width      int
	height     int
}

func newBookModel(c *client.Client, v *forms.Validator) bookModel {
	return bookModel{client: c, validator: v, timeInput: "10:00"}
}

func (m bookModel) withUser(u *domain.User) bookModel {
	m.user = u
	return m
}

func (m bookModel) Init() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		coaches, err := c.ListCoaches(context.Background())
		return coachesLoadedMsg{coaches: coaches, err: err}
	}
}

func (m bookModel) coach() (domain.Coach, bool) {
	if m.coachCursor < len(m.coaches) {
		return m.coaches[m.coachCursor], true
	}
	return domain.Coach{}, false
}

func (m bookModel) loadAvailability(coachID string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		a, err := c.GetAvailability(context.Background(), coachID)
		return availabilityLoadedMsg{coachID: coachID, avail: a, err: err}
	}
}

func (m bookModel) Update(msg tea.Msg) (bookModel, tea.Cmd) {
	switch msg := msg.(type) {
	case coachesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		m.coaches = msg.coaches
		if m.coachCursor >= len(m.coaches) {
			m.coachCursor = 0
		}

	case availabilityLoadedMsg:
		co, ok := m.coach()
		if !ok || co.ID != msg.coachID {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		m.dates = upcoming(msg.avail.AvailableDates(), time.Now())
		m.dateCursor = 0

	case sessionBookedMsg:
		m.submitting = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		m.booked = msg.session
		m.stage = stageBooked

	case copyResultMsg:
		if msg.err != nil {
			m.statusMsg = "copy failed: " + msg.err.Error()
		} else {
			m.statusMsg = "confirmation copied to clipboard"
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		m.statusMsg = ""
		switch m.stage {
		case stageCoach:
			return m.updateCoach(msg)
		case stageDate:
			return m.updateDate(msg)
		case stageBooked:
			return m.updateBooked(msg)
		}
	}
	return m, nil
}

func (m bookModel) updateCoach(msg tea.KeyMsg) (bookModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.coachCursor < len(m.coaches)-1 {
			m.coachCursor++
		}
	case "k", "up":
		if m.coachCursor > 0 {
			m.coachCursor--
		}
	case "enter":
		co, ok := m.coach()
		if !ok {
			return m, nil
		}
		m.stage = stageDate
		m.dates = nil
		m.errs = nil
		m.err = ""
		m.loading = true
		return m, m.loadAvailability(co.ID)
	case "r":
		m.loading = true
		return m, m.Init()
	}
	return m, nil
}

func (m bookModel) updateDate(msg tea.KeyMsg) (bookModel, tea.Cmd) {
	switch key := msg.String(); key {
	case "esc":
		m.stage = stageCoach
		m.errs = nil
		m.err = ""
	case "j", "down":
		if m.dateCursor < len(m.dates)-1 {
			m.dateCursor++
		}
	case "k", "up":
		if m.dateCursor > 0 {
			m.dateCursor--
		}
	case "enter", "ctrl+s":
		return m.submit()
	case "backspace":
		m.timeInput = editRune(m.timeInput, key)
	default:
		if len(key) == 1 && strings.ContainsAny(key, "0123456789:") && len(m.timeInput) < 5 {
			m.timeInput += key
		}
	}
	return m, nil
}

func (m bookModel) updateBooked(msg tea.KeyMsg) (bookModel, tea.Cmd) {
	switch msg.String() {
	case "c":
		text := m.confirmation()
		return m, func() tea.Msg {
			return copyResultMsg{err: clipboard.WriteAll(text)}
		}
	case "enter", "esc":
		m.stage = stageCoach
		m.booked = nil
	}
	return m, nil
}

func (m bookModel) form() forms.Booking {
	f := forms.Booking{Time: m.timeInput}
	if co, ok := m.coach(); ok {
		f.CoachID = co.ID
	}
	if m.dateCursor < len(m.dates) {
		f.Date = m.dates[m.dateCursor].Format(domain.DateLayout)
	}
	return f
}

func (m bookModel) submit() (bookModel, tea.Cmd) {
	if m.user == nil {
		return m, nil
	}
	f := m.form()
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
	req := client.BookSessionRequest{ClientID: m.user.ID, CoachID: f.CoachID, Date: when}
	return m, func() tea.Msg {
		s, err := c.BookSession(context.Background(), req)
		return sessionBookedMsg{session: s, err: err}
	}
}

func (m bookModel) confirmation() string {
	co, _ := m.coach()
	when := m.form()
	t, err := when.When(time.Local)
	if m.booked != nil && !m.booked.Date.IsZero() {
		t, err = m.booked.Date.Local(), nil
	}
	if err != nil {
		return "MindVision session with " + co.Name
	}
	return fmt.Sprintf("MindVision session with %s on %s at %s", co.Name, formatLongDate(t), formatClock(t))
}

func (m bookModel) View() string {
	var b strings.Builder
	switch m.stage {
	case stageCoach:
		b.WriteString(" " + sectionHeaderStyle.Render("Choose a coach") + "\n\n")
		switch {
		case m.loading && len(m.coaches) == 0:
			b.WriteString(" " + dimStyle.Render("loading coaches..."))
		case m.err != "":
			b.WriteString(" " + errorStyle.Render("error: "+m.err))
		case len(m.coaches) == 0:
			b.WriteString(" " + dimStyle.Render("no coaches available"))
		default:
			start, end := scrollWindow(m.coachCursor, len(m.coaches), m.height-4)
			for i := start; i < end; i++ {
				co := m.coaches[i]
				cursor := "  "
				if i == m.coachCursor {
					cursor = accentStyle.Render("▸") + " "
				}
				line := cursor + normalStyle.Render(padRight(co.Name, 24)) + " " + dimStyle.Render(co.Email)
				if i == m.coachCursor {
					line = selectedRowBg.Render(line)
				}
				b.WriteString(line + "\n")
			}
		}

	case stageDate:
		co, _ := m.coach()
		b.WriteString(" " + sectionHeaderStyle.Render("Book "+co.Name) + "\n\n")
		switch {
		case m.loading:
			b.WriteString(" " + dimStyle.Render("loading availability..."))
			return b.String()
		case len(m.dates) == 0 && m.err == "":
			b.WriteString(" " + dimStyle.Render("this coach has no open days"))
			return b.String()
		}
		start, end := scrollWindow(m.dateCursor, len(m.dates), m.height-8)
		for i := start; i < end; i++ {
			cursor := "  "
			style := normalStyle
			if i == m.dateCursor {
				cursor = accentStyle.Render("▸") + " "
				style = selectedStyle
			}
			b.WriteString(cursor + style.Render(formatLongDate(m.dates[i])) + "\n")
		}
		if msg := m.errs["date"]; msg != "" {
			b.WriteString("   " + errorStyle.Render(msg) + "\n")
		}
		b.WriteString("\n " + renderField(field{label: "time", value: m.timeInput}, true, m.errs["time"]) + "\n")
		switch {
		case m.submitting:
			b.WriteString("\n " + dimStyle.Render("booking..."))
		case m.err != "":
			b.WriteString("\n " + errorStyle.Render(m.err))
		}

	case stageBooked:
		b.WriteString(" " + successStyle.Render("Session booked") + "\n\n")
		b.WriteString(" " + normalStyle.Render(m.confirmation()) + "\n")
		if m.booked != nil && m.booked.Status != "" {
			b.WriteString(" " + StatusStyle(m.booked.Status).Render(m.booked.Status) + "\n")
		}
		if m.statusMsg != "" {
			b.WriteString("\n " + successStyle.Render(m.statusMsg))
		}
	}
	return b.String()
}

// upcoming keeps the days from today on.
func upcoming(days []time.Time, now time.Time) []time.Time {
	today := now.Format(domain.DateLayout)
	out := make([]time.Time, 0, len(days))
	for _, d := range days {
		if d.Format(domain.DateLayout) >= today {
			out = append(out, d)
		}
	}
	return out
}
