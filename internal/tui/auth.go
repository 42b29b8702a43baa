package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bance-assetou/mindvision/internal/forms"
	"github.com/bance-assetou/mindvision/internal/session"
	"github.com/bance-assetou/mindvision/pkg/domain"
)

type authMode int

const (
	authLogin authMode = iota
	authRegister
)

// authDoneMsg reports the outcome of a login or registration.
type authDoneMsg struct {
	mode authMode
	user *domain.User
	err  error
}

// authModel is the sign-in and sign-up form. Submitting runs the manager
// operation off the UI goroutine; the App decides where to go next.
type authModel struct {
	manager    *session.Manager
	validator  *forms.Validator
	mode       authMode
	fields     []field
	focus      int
	errs       forms.Errors
	serverErr  string
	submitting bool
	redirect   string // route requested before the guard sent us here
}

func newAuthModel(m *session.Manager, v *forms.Validator, mode authMode) authModel {
	a := authModel{manager: m, validator: v, mode: mode}
	switch mode {
	case authRegister:
		a.fields = []field{
			{label: "name", key: "name", placeholder: "Ada Lovelace"},
			{label: "email", key: "email", placeholder: "you@example.com"},
			{label: "password", key: "password", secret: true},
			{label: "confirm", key: "confirm", secret: true},
		}
	default:
		a.fields = []field{
			{label: "email", key: "email", placeholder: "you@example.com"},
			{label: "password", key: "password", secret: true},
		}
	}
	return a
}

func (m authModel) value(key string) string {
	for _, f := range m.fields {
		if f.key == key {
			return f.value
		}
	}
	return ""
}

func (m authModel) Update(msg tea.Msg) (authModel, tea.Cmd) {
	switch msg := msg.(type) {
	case authDoneMsg:
		if msg.mode != m.mode {
			return m, nil
		}
		m.submitting = false
		if msg.err != nil {
			m.serverErr = session.UserMessage(msg.err)
			return m, nil
		}
		m.serverErr = ""
		for i := range m.fields {
			m.fields[i].value = ""
		}
		m.focus = 0
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m authModel) updateKeys(msg tea.KeyMsg) (authModel, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.focus = (m.focus + 1) % len(m.fields)
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + len(m.fields)) % len(m.fields)
	case "enter":
		if m.focus < len(m.fields)-1 {
			m.focus++
			return m, nil
		}
		return m.submit()
	case "ctrl+s":
		return m.submit()
	default:
		f := &m.fields[m.focus]
		f.value = editRune(f.value, msg.String())
	}
	return m, nil
}

func (m authModel) submit() (authModel, tea.Cmd) {
	m.serverErr = ""
	email := strings.TrimSpace(m.value("email"))
	password := m.value("password")

	if m.mode == authRegister {
		name := forms.FormatName(m.value("name"))
		m.errs = m.validator.Check(forms.Registration{
			Name: name, Email: email, Password: password, Confirm: m.value("confirm"),
		})
		if len(m.errs) > 0 {
			return m, nil
		}
		m.submitting = true
		mgr := m.manager
		return m, func() tea.Msg {
			u, err := mgr.Register(context.Background(), name, email, password)
			return authDoneMsg{mode: authRegister, user: u, err: err}
		}
	}

	m.errs = m.validator.Check(forms.Login{Email: email, Password: password})
	if len(m.errs) > 0 {
		return m, nil
	}
	m.submitting = true
	mgr := m.manager
	return m, func() tea.Msg {
		u, err := mgr.Login(context.Background(), email, password)
		return authDoneMsg{mode: authLogin, user: u, err: err}
	}
}

func (m authModel) View() string {
	var b strings.Builder
	heading := "Sign in"
	alt := "no account? press ctrl+r to register"
	if m.mode == authRegister {
		heading = "Create your account"
		alt = "already registered? press ctrl+l to sign in"
	}
	b.WriteString(" " + titleStyle.Render(heading) + "\n\n")
	for i, f := range m.fields {
		b.WriteString(" " + renderField(f, i == m.focus, m.errs[f.key]) + "\n")
	}
	b.WriteString("\n")
	switch {
	case m.submitting:
		if m.mode == authRegister {
			b.WriteString(" " + dimStyle.Render("creating account..."))
		} else {
			b.WriteString(" " + dimStyle.Render("signing in..."))
		}
	case m.serverErr != "":
		b.WriteString(" " + errorStyle.Render(m.serverErr))
	default:
		b.WriteString(" " + metaStyle.Render(alt))
	}
	return b.String()
}
