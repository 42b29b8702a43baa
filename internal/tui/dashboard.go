package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bance-assetou/mindvision/internal/session"
	"github.com/bance-assetou/mindvision/pkg/client"
	"github.com/bance-assetou/mindvision/pkg/domain"
)

type sessionsLoadedMsg struct {
	sessions []domain.CoachSession
	err      error
}

type dashboardModel struct {
	client   *client.Client
	user     *domain.User
	sessions []domain.CoachSession
	cursor   int
	loading  bool
	err      string
	width    int
	height   int
}

func newDashboardModel(c *client.Client) dashboardModel {
	return dashboardModel{client: c}
}

// withUser resets the model for the signed-in user.
func (m dashboardModel) withUser(u *domain.User) dashboardModel {
	if u == nil || m.user == nil || u.ID != m.user.ID {
		m.sessions = nil
		m.cursor = 0
	}
	m.user = u
	return m
}

func (m dashboardModel) Init() tea.Cmd {
	if m.user == nil {
		return nil
	}
	c, role, id := m.client, m.user.Role, m.user.ID
	return func() tea.Msg {
		sessions, err := c.ListSessions(context.Background(), role, id)
		return sessionsLoadedMsg{sessions: sessions, err: err}
	}
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		m.sessions = msg.sessions
		sort.SliceStable(m.sessions, func(i, j int) bool {
			return m.sessions[i].Date.Before(m.sessions[j].Date)
		})
		if m.cursor >= len(m.sessions) {
			m.cursor = 0
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.sessions)-1 {
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

func (m dashboardModel) View() string {
	if m.user == nil {
		return ""
	}
	u := m.user
	var b strings.Builder
	fmt.Fprintf(&b, " %s %s\n", titleStyle.Render("Welcome, "+u.Name), RoleBadge(u.Role))
	info := []string{u.Email}
	if !u.CreatedAt.IsZero() {
		info = append(info, "member since "+u.CreatedAt.Format("January 2006"))
	}
	if exp, ok := session.TokenExpiry(u.Token); ok {
		info = append(info, "session valid until "+formatLongDate(exp.Local()))
	}
	fmt.Fprintf(&b, " %s\n\n", dimStyle.Render(strings.Join(info, " · ")))

	heading := "Your sessions"
	if u.IsCoach() {
		heading = "Sessions with your clients"
	}
	b.WriteString(" " + sectionHeaderStyle.Render(heading) + "\n")

	switch {
	case m.loading && len(m.sessions) == 0:
		b.WriteString(" " + dimStyle.Render("loading sessions..."))
		return b.String()
	case m.err != "":
		b.WriteString(" " + errorStyle.Render("error: "+m.err))
		return b.String()
	case len(m.sessions) == 0:
		if u.IsCoach() {
			b.WriteString(" " + dimStyle.Render("no sessions booked yet. press 6 to set your availability"))
		} else {
			b.WriteString(" " + dimStyle.Render("no sessions yet. press 4 to book a coach"))
		}
		return b.String()
	}

	start, end := scrollWindow(m.cursor, len(m.sessions), m.height-5)
	for i := start; i < end; i++ {
		s := m.sessions[i]
		cursor := "  "
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
		}
		when := formatLongDate(s.Date.Local())
		if clock := formatClock(s.Date.Local()); clock != "" {
			when += " " + clock
		}
		parts := []string{normalStyle.Render(when), dimStyle.Render(s.Counterpart(u.Role))}
		if d := formatDuration(s.Duration); d != "" {
			parts = append(parts, metaStyle.Render(d))
		}
		if s.Status != "" {
			parts = append(parts, StatusStyle(s.Status).Render(s.Status))
		}
		line := cursor + strings.Join(parts, "  ")
		if i == m.cursor {
			line = selectedRowBg.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
