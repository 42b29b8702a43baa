package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bance-assetou/mindvision/internal/browser"
	"github.com/bance-assetou/mindvision/pkg/client"
	"github.com/bance-assetou/mindvision/pkg/domain"
)

type postsLoadedMsg struct {
	posts []domain.BlogPost
	err   error
}

type postLoadedMsg struct {
	post *domain.BlogPost
	err  error
}

type copyResultMsg struct {
	err error
}

type openResultMsg struct {
	err error
}

type blogModel struct {
	client    *client.Client
	webURL    string
	posts     []domain.BlogPost
	post      *domain.BlogPost // full post in detail view
	cursor    int
	scroll    int
	detail    bool
	loading   bool
	err       string
	statusMsg string
	width     int
	height    int
}

func newBlogModel(c *client.Client, webURL string) blogModel {
	return blogModel{client: c, webURL: webURL}
}

func (m blogModel) Init() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		posts, err := c.ListBlogPosts(context.Background())
		return postsLoadedMsg{posts: posts, err: err}
	}
}

func (m blogModel) loadPost(id string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		p, err := c.GetBlogPost(context.Background(), id)
		return postLoadedMsg{post: p, err: err}
	}
}

func (m blogModel) link(p domain.BlogPost) string {
	return webLink(m.webURL, "/blog/"+p.ID)
}

func (m blogModel) selected() (domain.BlogPost, bool) {
	if m.detail && m.post != nil {
		return *m.post, true
	}
	if m.cursor < len(m.posts) {
		return m.posts[m.cursor], true
	}
	return domain.BlogPost{}, false
}

func (m blogModel) Update(msg tea.Msg) (blogModel, tea.Cmd) {
	switch msg := msg.(type) {
	case postsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		m.posts = msg.posts
		if m.cursor >= len(m.posts) {
			m.cursor = 0
		}

	case postLoadedMsg:
		if msg.err != nil {
			m.statusMsg = "could not load post: " + msg.err.Error()
			return m, nil
		}
		m.post = msg.post

	case copyResultMsg:
		if msg.err != nil {
			m.statusMsg = "copy failed: " + msg.err.Error()
		} else {
			m.statusMsg = "link copied to clipboard"
		}

	case openResultMsg:
		if msg.err != nil {
			m.statusMsg = "could not open browser: " + msg.err.Error()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		m.statusMsg = ""
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m blogModel) updateKeys(msg tea.KeyMsg) (blogModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.detail {
			m.scroll++
		} else if m.cursor < len(m.posts)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.detail {
			if m.scroll > 0 {
				m.scroll--
			}
		} else if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if !m.detail && m.cursor < len(m.posts) {
			m.detail = true
			m.scroll = 0
			m.post = nil
			return m, m.loadPost(m.posts[m.cursor].ID)
		}
	case "esc":
		m.detail = false
		m.post = nil
	case "c":
		if p, ok := m.selected(); ok {
			text := p.Title + "\n" + m.link(p)
			return m, func() tea.Msg {
				return copyResultMsg{err: clipboard.WriteAll(text)}
			}
		}
	case "o":
		if p, ok := m.selected(); ok {
			link := m.link(p)
			return m, func() tea.Msg {
				return openResultMsg{err: browser.Open(link)}
			}
		}
	}
	return m, nil
}

func (m blogModel) View() string {
	if m.loading && len(m.posts) == 0 {
		return " " + dimStyle.Render("loading posts...")
	}
	if m.err != "" {
		return " " + errorStyle.Render("error: "+m.err)
	}
	if len(m.posts) == 0 {
		return " " + dimStyle.Render("no posts yet")
	}

	var body string
	if m.detail {
		body = m.viewDetail()
	} else {
		body = m.viewList()
	}
	if m.statusMsg != "" {
		body += "\n " + successStyle.Render(m.statusMsg)
	}
	return body
}

func (m blogModel) viewList() string {
	var b strings.Builder
	b.WriteString(" " + sectionHeaderStyle.Render("Blog") + "\n\n")
	start, end := scrollWindow(m.cursor, len(m.posts), m.height-4)
	for i := start; i < end; i++ {
		p := m.posts[i]
		cursor := "  "
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
		}
		right := metaStyle.Render(fmt.Sprintf("%8s", formatTime(p.CreatedAt)))
		if p.Author.Name != "" {
			right = dimStyle.Render(truncStr(p.Author.Name, 18)) + " " + right
		}
		titleWidth := m.width - 4 - lipgloss.Width(right)
		if titleWidth < 10 {
			titleWidth = 10
		}
		title := padRight(truncStr(cleanTitle(p.Title), titleWidth), titleWidth)
		line := cursor + normalStyle.Render(title) + " " + right
		if i == m.cursor {
			line = selectedRowBg.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m blogModel) viewDetail() string {
	p, ok := m.selected()
	if !ok {
		return ""
	}
	width := m.width - 4
	if width < 40 {
		width = 40
	}
	var b strings.Builder
	fmt.Fprintf(&b, " %s\n", titleStyle.Render(cleanTitle(p.Title)))
	meta := []string{formatLongDate(p.CreatedAt)}
	if p.Author.Name != "" {
		meta = append([]string{"by " + p.Author.Name}, meta...)
	}
	if len(p.Tags) > 0 {
		meta = append(meta, strings.Join(p.Tags, ", "))
	}
	fmt.Fprintf(&b, " %s\n\n", dimStyle.Render(strings.Join(meta, " · ")))

	if m.post == nil {
		b.WriteString(" " + dimStyle.Render("loading..."))
		return b.String()
	}
	content := lipgloss.NewStyle().Width(width).PaddingLeft(1).Render(p.Content)
	lines := strings.Split(content, "\n")
	scroll := m.scroll
	if scroll > len(lines)-1 {
		scroll = len(lines) - 1
	}
	b.WriteString(strings.Join(lines[scroll:], "\n"))
	return b.String()
}
