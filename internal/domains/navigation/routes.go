// Package navigation decides which storefront views a session may open.
package navigation

import (
	"strings"

	users "github.com/Apurer/gamestore-client/internal/domains/users/domain"
)

// Well-known paths.
const (
	HomePath     = "/"
	LoginPath    = "/login"
	RegisterPath = "/register"
	GamesPath    = "/games"
	AdminPath    = "/admin"

	// RedirectParam carries the originally requested path on the login redirect.
	RedirectParam = "redirect"
)

// Route is one entry of the route table. Child paths are relative to their
// parent; a child inherits its ancestors' flags through the matched chain.
type Route struct {
	Path          string
	Name          string
	Guest         bool
	RequiresAuth  bool
	RequiresAdmin bool
	Children      []Route
}

// Routes is the storefront route table.
var Routes = []Route{
	{Path: "/", Name: "Home"},
	{Path: "/login", Name: "Login", Guest: true},
	{Path: "/register", Name: "Register", Guest: true},
	{Path: "/games", Name: "Games"},
	{Path: "/games/:id", Name: "GameDetail"},
	{Path: "/my-games", Name: "MyGames", RequiresAuth: true},
	{Path: "/my-orders", Name: "MyOrders", RequiresAuth: true},
	{
		Path: "/admin", Name: "Admin", RequiresAuth: true, RequiresAdmin: true,
		Children: []Route{
			{Path: "games", Name: "AdminGames"},
			{Path: "users", Name: "AdminUsers"},
			{Path: "orders", Name: "AdminOrders"},
		},
	},
}

// LandingPath is where a freshly logged in user is sent: administrators to
// the home page, everyone else to the catalog.
func LandingPath(user *users.User) string {
	if user.IsAdmin() {
		return HomePath
	}
	return GamesPath
}

func joinPath(parent, child string) string {
	if strings.HasPrefix(child, "/") {
		return child
	}
	return strings.TrimSuffix(parent, "/") + "/" + child
}

// muxTemplate turns ":param" segments into gorilla/mux "{param}" variables
// and lowercases the static segments, since paths are matched lowercased.
func muxTemplate(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if strings.HasPrefix(seg, ":") && len(seg) > 1 {
			segments[i] = "{" + seg[1:] + "}"
		} else {
			segments[i] = strings.ToLower(seg)
		}
	}
	return strings.Join(segments, "/")
}

// pathParams reads the variables of a mux template out of path, keeping
// the case path was written in.
func pathParams(template, path string) map[string]string {
	names := strings.Split(template, "/")
	values := strings.Split(path, "/")
	if len(names) != len(values) {
		return nil
	}
	var params map[string]string
	for i, seg := range names {
		if !strings.HasPrefix(seg, "{") || !strings.HasSuffix(seg, "}") {
			continue
		}
		name, _, _ := strings.Cut(seg[1:len(seg)-1], ":")
		if params == nil {
			params = map[string]string{}
		}
		params[name] = values[i]
	}
	return params
}
