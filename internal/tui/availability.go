package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bance-assetou/mindvision/pkg/client"
	"github.com/bance-assetou/mindvision/pkg/domain"
)

// calendarDays is how far ahead a coach can block days.
const calendarDays = 28

type availabilitySavedMsg struct {
	err error
}

// availabilityModel lets a coach block and unblock days.
type availabilityModel struct {
	client  *client.Client
	user    *domain.User
	now     func() time.Time
	blocked []string
	cursor  int
	dirty   bool
	loading bool
	saving  bool
	err     string
	status  string
	width   int
	height  int
}

func newAvailabilityModel(c *client.Client) availabilityModel {
	return availabilityModel{client: c, now: time.Now}
}

func (m availabilityModel) withUser(u *domain.User) availabilityModel {
	if u == nil || m.user == nil || u.ID != m.user.ID {
		m.blocked = nil
		m.dirty = false
		m.cursor = 0
	}
	m.user = u
	return m
}

func (m availabilityModel) Init() tea.Cmd {
	if m.user == nil {
		return nil
	}
	c, id := m.client, m.user.ID
	return func() tea.Msg {
		a, err := c.GetAvailability(context.Background(), id)
		return availabilityLoadedMsg{coachID: id, avail: a, err: err}
	}
}

// days is the calendar shown, starting today.
func (m availabilityModel) days() []time.Time {
	now := m.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	out := make([]time.Time, calendarDays)
	for i := range out {
		out[i] = start.AddDate(0, 0, i)
	}
	return out
}

func (m availabilityModel) isBlocked(day time.Time) bool {
	key := day.Format(domain.DateLayout)
	for _, d := range m.blocked {
		if t, ok := domain.ParseDay(d); ok && t.Format(domain.DateLayout) == key {
			return true
		}
	}
	return false
}

func (m availabilityModel) Update(msg tea.Msg) (availabilityModel, tea.Cmd) {
	switch msg := msg.(type) {
	case availabilityLoadedMsg:
		if m.user == nil || msg.coachID != m.user.ID {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		m.blocked = msg.avail.UnavailableDates
		m.dirty = false

	case availabilitySavedMsg:
		m.saving = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		m.dirty = false
		m.status = "availability saved"

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if m.saving {
			return m, nil
		}
		m.status = ""
		days := m.days()
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(days)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case " ", "space", "enter":
			m.blocked = domain.ToggleDay(m.blocked, days[m.cursor])
			m.dirty = true
		case "ctrl+s":
			return m.save()
		case "r":
			m.loading = true
			return m, m.Init()
		}
	}
	return m, nil
}

func (m availabilityModel) save() (availabilityModel, tea.Cmd) {
	if m.user == nil || !m.dirty {
		return m, nil
	}
	m.saving = true
	c, id := m.client, m.user.ID
	dates := append([]string(nil), m.blocked...)
	return m, func() tea.Msg {
		return availabilitySavedMsg{err: c.SetUnavailableDates(context.Background(), id, dates)}
	}
}

func (m availabilityModel) View() string {
	var b strings.Builder
	b.WriteString(" " + sectionHeaderStyle.Render("Your availability") + "\n")
	b.WriteString(" " + metaStyle.Render("blocked days are hidden from clients when they book") + "\n\n")
	if m.loading && m.blocked == nil {
		b.WriteString(" " + dimStyle.Render("loading availability..."))
		return b.String()
	}

	days := m.days()
	start, end := scrollWindow(m.cursor, len(days), m.height-6)
	for i := start; i < end; i++ {
		d := days[i]
		cursor := "  "
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
		}
		mark := successStyle.Render("open   ")
		if m.isBlocked(d) {
			mark = errorStyle.Render("blocked")
		}
		line := cursor + mark + "  " + normalStyle.Render(formatLongDate(d))
		if i == m.cursor {
			line = selectedRowBg.Render(line)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n")
	switch {
	case m.saving:
		b.WriteString(" " + dimStyle.Render("saving..."))
	case m.err != "":
		b.WriteString(" " + errorStyle.Render("error: "+m.err))
	case m.status != "":
		b.WriteString(" " + successStyle.Render(m.status))
	case m.dirty:
		b.WriteString(" " + accentStyle.Render("unsaved changes, ctrl+s to save"))
	}
	return b.String()
}
