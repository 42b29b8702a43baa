package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/bance-assetou/mindvision/internal/browser"
	"github.com/bance-assetou/mindvision/internal/forms"
	"github.com/bance-assetou/mindvision/internal/guard"
	"github.com/bance-assetou/mindvision/internal/session"
	"github.com/bance-assetou/mindvision/pkg/client"
	"github.com/bance-assetou/mindvision/pkg/domain"
)

type view int

const (
	viewServices view = iota
	viewBlog
	viewDashboard
	viewBook
	viewAppointments
	viewAvailability
	viewLogin
	viewRegister
)

// routeViews maps guard routes onto views. "/" shows the services list
// under the quote banner.
var routeViews = map[string]view{
	guard.RouteHome:         viewServices,
	guard.RouteServices:     viewServices,
	guard.RouteBlog:         viewBlog,
	guard.RouteDashboard:    viewDashboard,
	guard.RouteBook:         viewBook,
	guard.RouteAppointments: viewAppointments,
	guard.RouteAvailability: viewAvailability,
	guard.RouteLogin:        viewLogin,
	guard.RouteRegister:     viewRegister,
}

// sessionReadyMsg is sent once the stored session has been read.
type sessionReadyMsg struct{}

// Options configures the App.
type Options struct {
	WebURL     string         // web front-end, for links opened in the browser
	StartRoute string         // route shown first; defaults to home
	QuoteURL   string         // home page quote endpoint; empty disables the banner
	Logger     zerolog.Logger // zero value logs nothing
}

// App is the root Bubbletea model.
type App struct {
	client  *client.Client
	manager *session.Manager
	log     zerolog.Logger
	webURL  string

	route   string // route being shown, including its query
	pending string // protected route waiting for the session to load
	view    view
	user    *domain.User
	// service chosen on the services tab, carried through a login redirect
	pendingService *domain.Service
	startCmd       tea.Cmd

	login        authModel
	register     authModel
	services     servicesModel
	blog         blogModel
	dashboard    dashboardModel
	book         bookModel
	appointments appointmentsModel
	availability availabilityModel
	quote        quoteModel

	helpOpen   bool
	helpCursor int
	width      int
	height     int
	frame      int // logo shimmer animation frame
}

// NewApp creates the TUI. The manager must not have been initialized yet;
// the App does that in Init and holds protected routes until it is done.
func NewApp(c *client.Client, m *session.Manager, opts Options) App {
	v := forms.New()
	a := App{
		client:       c,
		manager:      m,
		log:          opts.Logger,
		webURL:       opts.WebURL,
		login:        newAuthModel(m, v, authLogin),
		register:     newAuthModel(m, v, authRegister),
		services:     newServicesModel(c),
		blog:         newBlogModel(c, opts.WebURL),
		dashboard:    newDashboardModel(c),
		book:         newBookModel(c, v),
		appointments: newAppointmentsModel(c, v),
		availability: newAvailabilityModel(c),
		quote:        newQuoteModel(c, opts.QuoteURL),
	}
	start := opts.StartRoute
	if start == "" {
		start = guard.RouteHome
	}
	a, a.startCmd = a.navigate(start)
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(shimmerTickCmd(), a.initSession(), a.startCmd)
}

func (a App) initSession() tea.Cmd {
	m := a.manager
	return func() tea.Msg {
		m.Init(context.Background())
		return sessionReadyMsg{}
	}
}

// navigate runs route through the guard and switches to whatever it allows.
func (a App) navigate(route string) (App, tea.Cmd) {
	state := a.manager.State()
	p := routePath(route)
	if state == guard.Authenticated && (p == guard.RouteLogin || p == guard.RouteRegister) {
		return a.navigate(guard.RouteDashboard)
	}

	var role domain.Role
	if a.user != nil {
		role = a.user.Role
	}
	d := guard.Decide(state, role, route)
	switch d.Outcome {
	case guard.Pending:
		a.pending = route
		a.route = route
		return a, nil
	case guard.Redirect:
		a.log.Debug().Str("from", route).Str("to", d.Target).Msg("guard redirect")
		if routePath(d.Target) == guard.RouteLogin {
			a.pending = ""
			a.route = d.Target
			a.view = viewLogin
			a.login.redirect = d.Target
			return a, nil
		}
		return a.navigate(d.Target)
	}

	a.pending = ""
	a.route = route
	v, ok := routeViews[p]
	switch {
	case ok:
	case strings.HasPrefix(p, guard.RouteBlog+"/"):
		v = viewBlog
	default:
		v = viewServices
	}
	a.view = v
	if v == viewLogin {
		a.login.redirect = route
	}
	cmd := a.enter(v)
	return a, cmd
}

// enter loads the data a view needs each time it is opened.
func (a *App) enter(v view) tea.Cmd {
	switch v {
	case viewServices:
		a.services.loading = true
		if routePath(a.route) == guard.RouteHome {
			return tea.Batch(a.services.Init(), a.quote.load())
		}
		return a.services.Init()
	case viewBlog:
		a.blog.loading = true
		a.blog.detail = false
		return a.blog.Init()
	case viewDashboard:
		a.dashboard.loading = true
		return a.dashboard.Init()
	case viewBook:
		a.book.loading = true
		return a.book.Init()
	case viewAppointments:
		if a.pendingService != nil {
			a.appointments = a.appointments.compose(*a.pendingService)
			a.pendingService = nil
		}
		a.appointments.loading = true
		return a.appointments.Init()
	case viewAvailability:
		a.availability.loading = true
		return a.availability.Init()
	}
	return nil
}

// setUser records a session change and hands the user to the views that
// render per-user data.
func (a App) setUser(from guard.State, u *domain.User) App {
	to := a.manager.State()
	if from != to && !guard.ValidTransition(from, to) {
		a.log.Warn().Stringer("from", from).Stringer("to", to).Msg("unexpected session transition")
	}
	a.user = u
	a.dashboard = a.dashboard.withUser(u)
	a.book = a.book.withUser(u)
	a.availability = a.availability.withUser(u)
	return a
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + tabs(1) + help(1) = 4 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 4}
		a.services, _ = a.services.Update(bodyMsg)
		a.blog, _ = a.blog.Update(bodyMsg)
		a.dashboard, _ = a.dashboard.Update(bodyMsg)
		a.book, _ = a.book.Update(bodyMsg)
		a.appointments, _ = a.appointments.Update(bodyMsg)
		a.availability, _ = a.availability.Update(bodyMsg)
		a.quote = a.quote.Update(bodyMsg)
		return a, nil

	case quoteLoadedMsg:
		if msg.err != nil {
			a.log.Debug().Err(msg.err).Msg("load quote")
		}
		a.quote = a.quote.Update(msg)
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case sessionReadyMsg:
		a = a.setUser(guard.Initializing, a.manager.Current())
		if a.pending != "" {
			return a.navigate(a.pending)
		}
		return a, nil

	case authDoneMsg:
		var cmd tea.Cmd
		if msg.mode == authRegister {
			a.register, cmd = a.register.Update(msg)
		} else {
			a.login, cmd = a.login.Update(msg)
		}
		if msg.err != nil {
			return a, cmd
		}
		a = a.setUser(guard.Unauthenticated, msg.user)
		target := guard.RedirectTarget(a.login.redirect)
		a.login.redirect = ""
		return a.navigate(target)

	case bookServiceMsg:
		svc := msg.service
		a.pendingService = &svc
		return a.navigate(guard.RouteAppointments)

	case tea.KeyMsg:
		if a.helpOpen {
			return a.updateHelp(msg)
		}
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "ctrl+l":
			return a.navigate(guard.RouteLogin)
		case "ctrl+r":
			return a.navigate(guard.RouteRegister)
		}
		if a.isEditing() {
			if msg.String() == "esc" && (a.view == viewLogin || a.view == viewRegister) {
				return a.navigate(guard.RouteServices)
			}
			break
		}
		switch msg.String() {
		case "q":
			return a, tea.Quit
		case "h":
			a.helpOpen = true
			a.helpCursor = 0
			return a, nil
		case "1":
			return a.navigate(guard.RouteServices)
		case "2":
			return a.navigate(guard.RouteBlog)
		case "3":
			return a.navigate(guard.RouteDashboard)
		case "4":
			return a.navigate(guard.RouteBook)
		case "5":
			return a.navigate(guard.RouteAppointments)
		case "6":
			return a.navigate(guard.RouteAvailability)
		case "l":
			if a.user == nil {
				return a.navigate(guard.LoginURL(a.route))
			}
		case "x":
			if a.user != nil {
				return a.logout()
			}
		}
	}

	var cmd tea.Cmd
	switch a.view {
	case viewLogin:
		a.login, cmd = a.login.Update(msg)
	case viewRegister:
		a.register, cmd = a.register.Update(msg)
	case viewServices:
		a.services, cmd = a.services.Update(msg)
	case viewBlog:
		a.blog, cmd = a.blog.Update(msg)
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	case viewBook:
		a.book, cmd = a.book.Update(msg)
	case viewAppointments:
		a.appointments, cmd = a.appointments.Update(msg)
	case viewAvailability:
		a.availability, cmd = a.availability.Update(msg)
	}
	return a, cmd
}

func (a App) logout() (App, tea.Cmd) {
	from := a.manager.State()
	a.manager.Logout()
	a = a.setUser(from, nil)
	// Re-run the guard on the current route so protected views close.
	return a.navigate(a.route)
}

func (a App) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "esc":
		a.helpOpen = false
	case "q", "ctrl+c":
		return a, tea.Quit
	case "j", "down":
		if a.helpCursor < len(helpItems)-1 {
			a.helpCursor++
		}
	case "k", "up":
		if a.helpCursor > 0 {
			a.helpCursor--
		}
	case "enter":
		link := webLink(a.webURL, helpItems[a.helpCursor].path)
		if err := browser.Open(link); err != nil {
			a.log.Debug().Err(err).Str("url", link).Msg("open browser")
		}
	}
	return a, nil
}

func (a App) isEditing() bool {
	switch a.view {
	case viewLogin, viewRegister:
		return true
	case viewAppointments:
		return a.appointments.composing
	case viewBook:
		return a.book.stage == stageDate
	}
	return false
}

type tabEntry struct {
	key   string
	name  string
	v     view
	route string
}

func (a App) tabs() []tabEntry {
	tabs := []tabEntry{
		{"1", "Services", viewServices, guard.RouteServices},
		{"2", "Blog", viewBlog, guard.RouteBlog},
		{"3", "Dashboard", viewDashboard, guard.RouteDashboard},
		{"4", "Book", viewBook, guard.RouteBook},
		{"5", "Appointments", viewAppointments, guard.RouteAppointments},
	}
	if a.user.IsCoach() {
		tabs = append(tabs, tabEntry{"6", "Availability", viewAvailability, guard.RouteAvailability})
	}
	return tabs
}

func (a App) View() string {
	logo := renderShimmerLogo(a.frame)
	logoPad := max((a.width-lipgloss.Width(logo))/2, 0)
	header := strings.Repeat(" ", logoPad) + logo

	var status string
	switch {
	case a.manager.State() == guard.Initializing:
		status = metaStyle.Render("restoring session...")
	case a.user != nil:
		status = dimStyle.Render(a.user.Name) + " " + RoleBadge(a.user.Role)
	default:
		status = metaStyle.Render("not signed in")
	}
	statusPad := max((a.width-lipgloss.Width(status))/2, 0)
	header += "\n" + strings.Repeat(" ", statusPad) + status

	tabs := a.tabs()
	colWidth := a.width / len(tabs)
	var tabBar strings.Builder
	for _, t := range tabs {
		var label string
		if t.v == a.view {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		if r, ok := guard.Rules[t.route]; ok && r.Protected && a.user == nil {
			label += metaStyle.Render(" •")
		}
		labelWidth := lipgloss.Width(label)
		leftPad := max((colWidth-labelWidth)/2, 0)
		rightPad := max(colWidth-labelWidth-leftPad, 0)
		tabBar.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
	}

	body, help := a.body()
	if a.helpOpen {
		body = helpView(a.webURL, a.helpCursor)
		help = helpBar("j/k", "nav", "enter", "open", "esc", "close")
	}

	chrome := 4
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s", header, tabBar.String(), body, help)
}

func (a App) body() (string, string) {
	if a.pending != "" {
		return " " + dimStyle.Render("loading your session..."), helpBar("q", "quit")
	}
	account := []string{"l", "sign in"}
	if a.user != nil {
		account = []string{"x", "sign out"}
	}
	switch a.view {
	case viewLogin:
		return a.login.View(), helpBar("tab", "next", "enter", "submit", "ctrl+r", "register", "esc", "back")
	case viewRegister:
		return a.register.View(), helpBar("tab", "next", "enter", "submit", "ctrl+l", "sign in", "esc", "back")
	case viewServices:
		if a.services.detail {
			return a.services.View(), helpBar("b", "book", "esc", "back", "q", "quit")
		}
		list := a.services.View()
		if routePath(a.route) == guard.RouteHome {
			list = a.quote.View() + list
		}
		return list, helpBar(append([]string{"1-6", "tabs", "j/k", "nav", "enter", "details", "b", "book"}, append(account, "h", "help", "q", "quit")...)...)
	case viewBlog:
		if a.blog.detail {
			return a.blog.View(), helpBar("j/k", "scroll", "o", "open", "c", "copy link", "esc", "back")
		}
		return a.blog.View(), helpBar(append([]string{"1-6", "tabs", "j/k", "nav", "enter", "read", "o", "open", "c", "copy link"}, append(account, "q", "quit")...)...)
	case viewDashboard:
		return a.dashboard.View(), helpBar(append([]string{"1-6", "tabs", "j/k", "nav", "r", "refresh"}, append(account, "h", "help", "q", "quit")...)...)
	case viewBook:
		switch a.book.stage {
		case stageDate:
			return a.book.View(), helpBar("j/k", "day", "0-9", "time", "enter", "book", "esc", "coaches")
		case stageBooked:
			return a.book.View(), helpBar("c", "copy", "enter", "done", "q", "quit")
		}
		return a.book.View(), helpBar(append([]string{"1-6", "tabs", "j/k", "nav", "enter", "choose"}, append(account, "q", "quit")...)...)
	case viewAppointments:
		if a.appointments.composing {
			return a.appointments.View(), helpBar("tab", "next", "enter", "submit", "esc", "cancel")
		}
		return a.appointments.View(), helpBar(append([]string{"1-6", "tabs", "j/k", "nav", "r", "refresh"}, append(account, "q", "quit")...)...)
	case viewAvailability:
		return a.availability.View(), helpBar("j/k", "nav", "space", "toggle", "ctrl+s", "save", "x", "sign out", "q", "quit")
	}
	return "", ""
}

func routePath(route string) string {
	if i := strings.IndexAny(route, "?#"); i >= 0 {
		return route[:i]
	}
	return route
}
