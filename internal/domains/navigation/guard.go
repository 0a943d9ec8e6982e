package navigation

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"

	"github.com/Apurer/gamestore-client/internal/domains/storefront/ports"
)

// Outcome is the guard's verdict for one navigation attempt.
type Outcome int

const (
	Allowed Outcome = iota
	RedirectToLogin
	RedirectToHome
)

func (o Outcome) String() string {
	switch o {
	case Allowed:
		return "allowed"
	case RedirectToLogin:
		return "redirect_to_login"
	case RedirectToHome:
		return "redirect_to_home"
	default:
		return "unknown"
	}
}

// Decision describes where a navigation attempt ends up.
type Decision struct {
	Outcome Outcome
	// Location is the redirect target; empty when Allowed.
	Location string
	// Route is the name of the matched route, if any.
	Route   string
	Matched bool
	Params  map[string]string
}

// Guard matches paths against a route table and applies the session rules.
// It keeps no per-attempt state.
type Guard struct {
	router *mux.Router
	chains map[string][]Route
}

// NewGuard compiles routes. Route names must be unique.
func NewGuard(routes []Route) (*Guard, error) {
	g := &Guard{router: mux.NewRouter(), chains: map[string][]Route{}}
	if err := g.register("", routes, nil); err != nil {
		return nil, err
	}
	return g, nil
}

// MustNewGuard is NewGuard for static tables.
func MustNewGuard(routes []Route) *Guard {
	g, err := NewGuard(routes)
	if err != nil {
		panic(err)
	}
	return g
}

func (g *Guard) register(parent string, routes []Route, ancestors []Route) error {
	for _, r := range routes {
		if strings.TrimSpace(r.Name) == "" {
			return fmt.Errorf("route %q has no name", r.Path)
		}
		if _, dup := g.chains[r.Name]; dup {
			return fmt.Errorf("duplicate route name %q", r.Name)
		}
		full := joinPath(parent, r.Path)
		chain := append(append([]Route(nil), ancestors...), r)
		g.chains[r.Name] = chain

		route := g.router.NewRoute().Path(muxTemplate(full)).Name(r.Name)
		if err := route.GetError(); err != nil {
			return fmt.Errorf("route %q: %w", r.Name, err)
		}
		if err := g.register(full, r.Children, chain); err != nil {
			return err
		}
	}
	return nil
}

// Check decides a navigation to target, a path with optional query string.
func (g *Guard) Check(session ports.SessionView, target string) Decision {
	fullPath := normalizeTarget(target)
	decision := Decision{Outcome: Allowed}

	chain, name, params := g.match(fullPath)
	if chain == nil {
		return decision
	}
	decision.Matched = true
	decision.Route = name
	decision.Params = params

	var requiresAuth, requiresAdmin, guest bool
	for _, r := range chain {
		requiresAuth = requiresAuth || r.RequiresAuth
		requiresAdmin = requiresAdmin || r.RequiresAdmin
		guest = guest || r.Guest
	}
	authenticated := session != nil && session.IsAuthenticated()
	admin := session != nil && session.IsAdmin()

	switch {
	case requiresAuth && !authenticated:
		decision.Outcome = RedirectToLogin
		decision.Location = LoginRedirect(fullPath)
	case requiresAdmin && authenticated && !admin:
		decision.Outcome = RedirectToHome
		decision.Location = HomePath
	case guest && authenticated:
		decision.Outcome = RedirectToHome
		decision.Location = HomePath
	}
	return decision
}

// Resolve returns the route name and path parameters for target.
func (g *Guard) Resolve(target string) (string, map[string]string, bool) {
	chain, name, params := g.match(normalizeTarget(target))
	return name, params, chain != nil
}

func (g *Guard) match(fullPath string) ([]Route, string, map[string]string) {
	u, err := url.Parse(fullPath)
	if err != nil {
		return nil, "", nil
	}
	path := u.Path
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	// Matching ignores case so "/Admin" is guarded like "/admin".
	req := &http.Request{Method: http.MethodGet, URL: &url.URL{Path: strings.ToLower(path)}}
	var m mux.RouteMatch
	if !g.router.Match(req, &m) || m.Route == nil {
		return nil, "", nil
	}
	name := m.Route.GetName()
	template, err := m.Route.GetPathTemplate()
	if err != nil {
		return g.chains[name], name, m.Vars
	}
	return g.chains[name], name, pathParams(template, path)
}

// LoginRedirect builds the login location that returns to fullPath afterwards.
func LoginRedirect(fullPath string) string {
	q := url.Values{}
	q.Set(RedirectParam, fullPath)
	return LoginPath + "?" + q.Encode()
}

// RedirectTarget extracts the post-login destination from a login location,
// falling back to fallback when absent or not a local path.
func RedirectTarget(location, fallback string) string {
	u, err := url.Parse(location)
	if err != nil {
		return fallback
	}
	target := u.Query().Get(RedirectParam)
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return fallback
	}
	return target
}

func normalizeTarget(target string) string {
	target = strings.TrimSpace(target)
	if target == "" {
		return HomePath
	}
	if !strings.HasPrefix(target, "/") {
		target = "/" + target
	}
	return target
}
