// Package guard decides whether a navigation target may render.
//
// It is a pure function of the session state and the requested route; the
// caller owns the state and performs the redirect.
package guard

import (
	"net/url"
	"strings"

	"github.com/bance-assetou/mindvision/pkg/domain"
)

// State is where the session lifecycle currently is.
type State int

const (
	Initializing State = iota
	Unauthenticated
	Authenticated
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	}
	return "unknown"
}

// ValidTransition reports whether the session may move from one state to another.
func ValidTransition(from, to State) bool {
	switch from {
	case Initializing:
		return to == Authenticated || to == Unauthenticated
	case Unauthenticated:
		return to == Authenticated
	case Authenticated:
		return to == Unauthenticated
	}
	return false
}

// Routes known to the app.
const (
	RouteHome         = "/"
	RouteLogin        = "/login"
	RouteRegister     = "/register"
	RouteServices     = "/services"
	RouteBlog         = "/blog"
	RouteDashboard    = "/dashboard"
	RouteBook         = "/book"
	RouteAppointments = "/appointments"
	RouteAvailability = "/availability"
)

// RedirectParam is the query parameter carrying the originally requested path.
const RedirectParam = "redirect"

// Rule describes who may open a route.
type Rule struct {
	Protected bool
	Roles     []domain.Role // empty means any signed-in role
}

// Rules is the access table. Routes not listed here are public.
var Rules = map[string]Rule{
	RouteDashboard:    {Protected: true},
	RouteBook:         {Protected: true},
	RouteAppointments: {Protected: true},
	RouteAvailability: {Protected: true, Roles: []domain.Role{domain.RoleCoach}},
}

// Outcome is what the caller should do with a navigation.
type Outcome int

const (
	// Pending means the session is still loading; show a neutral placeholder.
	Pending Outcome = iota
	// Render means the requested route may be shown.
	Render
	// Redirect means navigate to Decision.Target instead.
	Redirect
)

// Decision is the guard's verdict for one navigation.
type Decision struct {
	Outcome Outcome
	Target  string // set for Redirect
}

// Decide gates navigation to route. role is only consulted when the state is
// Authenticated.
func Decide(state State, role domain.Role, route string) Decision {
	rule, ok := Rules[path(route)]
	if !ok || !rule.Protected {
		return Decision{Outcome: Render}
	}
	switch state {
	case Initializing:
		return Decision{Outcome: Pending}
	case Unauthenticated:
		return Decision{Outcome: Redirect, Target: LoginURL(route)}
	}
	if len(rule.Roles) > 0 && !hasRole(rule.Roles, role) {
		return Decision{Outcome: Redirect, Target: RouteDashboard}
	}
	return Decision{Outcome: Render}
}

// LoginURL is the login route carrying from as its redirect target.
func LoginURL(from string) string {
	q := url.Values{}
	q.Set(RedirectParam, from)
	return RouteLogin + "?" + q.Encode()
}

// RedirectTarget returns where to go after a successful login reached via
// loginRoute. Only known in-app routes are honoured; anything else, and the
// auth screens themselves, fall back to the dashboard.
func RedirectTarget(loginRoute string) string {
	u, err := url.Parse(loginRoute)
	if err != nil {
		return RouteDashboard
	}
	target := u.Query().Get(RedirectParam)
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return RouteDashboard
	}
	switch p := path(target); p {
	case RouteLogin, RouteRegister:
		return RouteDashboard
	case RouteHome, RouteServices, RouteBlog:
		return target
	default:
		if _, ok := Rules[p]; ok {
			return target
		}
		if strings.HasPrefix(p, RouteBlog+"/") || strings.HasPrefix(p, RouteServices+"/") {
			return target
		}
	}
	return RouteDashboard
}

// path strips the query from a route.
func path(route string) string {
	if i := strings.IndexAny(route, "?#"); i >= 0 {
		return route[:i]
	}
	return route
}

func hasRole(roles []domain.Role, r domain.Role) bool {
	for _, x := range roles {
		if x == r {
			return true
		}
	}
	return false
}
