package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bance-assetou/mindvision/pkg/client"
	"github.com/bance-assetou/mindvision/pkg/domain"
)

type quoteLoadedMsg struct {
	quote *domain.Quote
	err   error
}

// quoteModel is the banner above the services list on the home route. It
// fetches once per run; an empty url turns it off.
type quoteModel struct {
	client  *client.Client
	url     string
	quote   *domain.Quote
	err     string
	fetched bool
	width   int
}

func newQuoteModel(c *client.Client, url string) quoteModel {
	return quoteModel{client: c, url: url}
}

// load starts the fetch unless it already ran.
func (m *quoteModel) load() tea.Cmd {
	if m.url == "" || m.fetched {
		return nil
	}
	m.fetched = true
	c, url := m.client, m.url
	return func() tea.Msg {
		q, err := c.RandomQuote(context.Background(), url)
		return quoteLoadedMsg{quote: q, err: err}
	}
}

func (m quoteModel) Update(msg tea.Msg) quoteModel {
	switch msg := msg.(type) {
	case quoteLoadedMsg:
		if msg.err != nil {
			m.err = msg.err.Error()
			return m
		}
		m.err = ""
		m.quote = msg.quote
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m
}

// View renders the banner, or "" while there is nothing to show.
func (m quoteModel) View() string {
	if m.url == "" {
		return ""
	}
	box := lipgloss.NewStyle().PaddingLeft(1).Width(max(m.width-2, 20))
	switch {
	case m.quote != nil:
		author := m.quote.Author
		if author == "" {
			author = "Unknown"
		}
		return box.Render(normalStyle.Italic(true).Render("\""+m.quote.Content+"\"")) + "\n" +
			box.Render(metaStyle.Render("~ "+author)) + "\n"
	case m.err != "":
		return box.Render(errorStyle.Render(m.err)) + "\n"
	}
	return ""
}
