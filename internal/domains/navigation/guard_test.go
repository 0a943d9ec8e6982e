package navigation

import (
	"testing"

	"github.com/stretchr/testify/require"

	users "github.com/Apurer/gamestore-client/internal/domains/users/domain"
)

type fakeSession struct {
	authenticated bool
	admin         bool
}

func (f fakeSession) IsAuthenticated() bool { return f.authenticated }
func (f fakeSession) IsAdmin() bool         { return f.authenticated && f.admin }

var (
	guest     = fakeSession{}
	member    = fakeSession{authenticated: true}
	adminUser = fakeSession{authenticated: true, admin: true}
)

func TestGuard_Check(t *testing.T) {
	guard := MustNewGuard(Routes)

	tests := []struct {
		name     string
		session  fakeSession
		target   string
		outcome  Outcome
		location string
		route    string
	}{
		{name: "home is open", session: guest, target: "/", outcome: Allowed, route: "Home"},
		{name: "catalog is open", session: guest, target: "/games", outcome: Allowed, route: "Games"},
		{name: "game detail is open", session: guest, target: "/games/42", outcome: Allowed, route: "GameDetail"},
		{name: "auth route redirects guest to login", session: guest, target: "/my-games", outcome: RedirectToLogin, location: "/login?redirect=%2Fmy-games", route: "MyGames"},
		{name: "login redirect keeps query", session: guest, target: "/my-orders?page=2", outcome: RedirectToLogin, location: "/login?redirect=%2Fmy-orders%3Fpage%3D2", route: "MyOrders"},
		{name: "auth route open to member", session: member, target: "/my-orders", outcome: Allowed, route: "MyOrders"},
		{name: "admin route sends guest to login", session: guest, target: "/admin/users", outcome: RedirectToLogin, location: "/login?redirect=%2Fadmin%2Fusers", route: "AdminUsers"},
		{name: "admin route sends member home", session: member, target: "/admin", outcome: RedirectToHome, location: "/", route: "Admin"},
		{name: "admin child inherits flags", session: member, target: "/admin/orders", outcome: RedirectToHome, location: "/", route: "AdminOrders"},
		{name: "admin route open to admin", session: adminUser, target: "/admin/games", outcome: Allowed, route: "AdminGames"},
		{name: "guest route open to guest", session: guest, target: "/login", outcome: Allowed, route: "Login"},
		{name: "guest route sends member home", session: member, target: "/register", outcome: RedirectToHome, location: "/", route: "Register"},
		{name: "guest route sends admin home", session: adminUser, target: "/login", outcome: RedirectToHome, location: "/", route: "Login"},
		{name: "trailing slash", session: guest, target: "/my-games/", outcome: RedirectToLogin, location: "/login?redirect=%2Fmy-games%2F", route: "MyGames"},
		{name: "mixed case admin sends guest to login", session: guest, target: "/Admin", outcome: RedirectToLogin, location: "/login?redirect=%2FAdmin", route: "Admin"},
		{name: "upper case auth route sends guest to login", session: guest, target: "/MY-GAMES", outcome: RedirectToLogin, location: "/login?redirect=%2FMY-GAMES", route: "MyGames"},
		{name: "upper case admin child sends member home", session: member, target: "/ADMIN/users", outcome: RedirectToHome, location: "/", route: "AdminUsers"},
		{name: "mixed case guest route sends member home", session: member, target: "/Login", outcome: RedirectToHome, location: "/", route: "Login"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			decision := guard.Check(tc.session, tc.target)
			require.Equal(t, tc.outcome, decision.Outcome)
			require.Equal(t, tc.location, decision.Location)
			require.True(t, decision.Matched)
			require.Equal(t, tc.route, decision.Route)
		})
	}
}

func TestGuard_UnknownPathIsAllowed(t *testing.T) {
	guard := MustNewGuard(Routes)

	decision := guard.Check(guest, "/nowhere/at/all")
	require.Equal(t, Allowed, decision.Outcome)
	require.False(t, decision.Matched)
	require.Empty(t, decision.Location)
}

func TestGuard_NilSessionIsUnauthenticated(t *testing.T) {
	guard := MustNewGuard(Routes)

	decision := guard.Check(nil, "/my-games")
	require.Equal(t, RedirectToLogin, decision.Outcome)
}

func TestGuard_ResolveReturnsParams(t *testing.T) {
	guard := MustNewGuard(Routes)

	name, params, ok := guard.Resolve("/games/g-17")
	require.True(t, ok)
	require.Equal(t, "GameDetail", name)
	require.Equal(t, map[string]string{"id": "g-17"}, params)

	name, params, ok = guard.Resolve("/GAMES/G-17")
	require.True(t, ok)
	require.Equal(t, "GameDetail", name)
	require.Equal(t, map[string]string{"id": "G-17"}, params)

	_, params, ok = guard.Resolve("/Games")
	require.True(t, ok)
	require.Empty(t, params)
}

func TestNewGuard_RejectsDuplicateNames(t *testing.T) {
	_, err := NewGuard([]Route{{Path: "/a", Name: "A"}, {Path: "/b", Name: "A"}})
	require.Error(t, err)

	_, err = NewGuard([]Route{{Path: "/a"}})
	require.Error(t, err)
}

func TestRedirectTarget(t *testing.T) {
	require.Equal(t, "/my-orders?page=2", RedirectTarget(LoginRedirect("/my-orders?page=2"), "/games"))
	require.Equal(t, "/games", RedirectTarget("/login", "/games"))
	require.Equal(t, "/games", RedirectTarget("/login?redirect=https://evil.example", "/games"))
	require.Equal(t, "/games", RedirectTarget("/login?redirect=//evil.example", "/games"))
}

func TestLandingPath(t *testing.T) {
	require.Equal(t, "/", LandingPath(&users.User{Role: users.RoleAdmin}))
	require.Equal(t, "/games", LandingPath(&users.User{Role: users.RoleUser}))
	require.Equal(t, "/games", LandingPath(nil))
}
