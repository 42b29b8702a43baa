package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bance-assetou/mindvision/pkg/client"
	"github.com/bance-assetou/mindvision/pkg/domain"
)

type servicesLoadedMsg struct {
	services []domain.Service
	err      error
}

// bookServiceMsg asks the App to open the appointment form for a service.
type bookServiceMsg struct {
	service domain.Service
}

type servicesModel struct {
	client   *client.Client
	services []domain.Service
	cursor   int
	detail   bool
	loading  bool
	err      string
	width    int
	height   int
}

func newServicesModel(c *client.Client) servicesModel {
	return servicesModel{client: c}
}

func (m servicesModel) Init() tea.Cmd {
	return m.load()
}

func (m servicesModel) load() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		services, err := c.ListServices(context.Background())
		return servicesLoadedMsg{services: services, err: err}
	}
}

func (m servicesModel) Update(msg tea.Msg) (servicesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case servicesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		m.services = msg.services
		if m.cursor >= len(m.services) {
			m.cursor = 0
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.services)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "enter":
			if len(m.services) > 0 {
				m.detail = true
			}
		case "esc":
			m.detail = false
		case "b":
			if m.cursor < len(m.services) {
				svc := m.services[m.cursor]
				return m, func() tea.Msg { return bookServiceMsg{service: svc} }
			}
		case "r":
			m.loading = true
			return m, m.load()
		}
	}
	return m, nil
}

func (m servicesModel) View() string {
	if m.loading && len(m.services) == 0 {
		return " " + dimStyle.Render("loading services...")
	}
	if m.err != "" {
		return " " + errorStyle.Render("error: "+m.err)
	}
	if len(m.services) == 0 {
		return " " + dimStyle.Render("no services yet")
	}
	if m.detail && m.cursor < len(m.services) {
		return m.viewDetail(m.services[m.cursor])
	}

	var b strings.Builder
	b.WriteString(" " + sectionHeaderStyle.Render("Services") + "\n\n")
	start, end := scrollWindow(m.cursor, len(m.services), m.height-3)
	for i := start; i < end; i++ {
		s := m.services[i]
		cursor := "  "
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
		}
		right := priceStyle.Render(formatPrice(s.Price))
		if d := formatDuration(s.Duration); d != "" {
			right = dimStyle.Render(d) + "  " + right
		}
		titleWidth := m.width - 4 - lipgloss.Width(right)
		if titleWidth < 10 {
			titleWidth = 10
		}
		title := padRight(truncStr(s.Title, titleWidth), titleWidth)
		line := cursor + normalStyle.Render(title) + " " + right
		if i == m.cursor {
			line = selectedRowBg.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m servicesModel) viewDetail(s domain.Service) string {
	width := m.width - 4
	if width < 40 {
		width = 40
	}
	var b strings.Builder
	fmt.Fprintf(&b, " %s\n", titleStyle.Render(s.Title))
	meta := []string{priceStyle.Render(formatPrice(s.Price))}
	if d := formatDuration(s.Duration); d != "" {
		meta = append(meta, dimStyle.Render(d))
	}
	fmt.Fprintf(&b, " %s\n\n", strings.Join(meta, metaStyle.Render(" · ")))
	b.WriteString(lipgloss.NewStyle().Width(width).PaddingLeft(1).Render(s.Description))
	b.WriteString("\n\n " + metaStyle.Render("press b to book this service"))
	return b.String()
}
