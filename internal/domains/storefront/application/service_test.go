package application

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	catalog "github.com/Apurer/gamestore-client/internal/domains/catalog/domain"
	sessiondomain "github.com/Apurer/gamestore-client/internal/domains/session/domain"
	sessionmemory "github.com/Apurer/gamestore-client/internal/domains/session/adapters/memory"
	store "github.com/Apurer/gamestore-client/internal/domains/store/domain"
	"github.com/Apurer/gamestore-client/internal/domains/storefront/ports"
	users "github.com/Apurer/gamestore-client/internal/domains/users/domain"
)

func regularAuth() *ports.AuthResult {
	return &ports.AuthResult{
		Token: "t1",
		User:  &users.User{ID: "7", Email: "a@b.com", Role: users.RoleUser},
	}
}

func loggedIn(t *testing.T, api *fakeAPI) (*Service, *sessionmemory.Storage) {
	t.Helper()
	storage := sessionmemory.NewStorage()
	svc := NewService(api, storage)
	_, err := svc.Login(context.Background(), users.Credentials{Email: "a@b.com", Password: "x"})
	require.NoError(t, err)
	return svc, storage
}

func TestLogin_StoresSessionAndBearer(t *testing.T) {
	api := &fakeAPI{auth: regularAuth()}
	storage := sessionmemory.NewStorage()
	svc := NewService(api, storage)
	ctx := context.Background()

	session, err := svc.Login(ctx, users.Credentials{Email: " a@b.com ", Password: "x"})
	require.NoError(t, err)
	require.Equal(t, "t1", session.Token)
	require.True(t, svc.IsAuthenticated())
	require.False(t, svc.IsAdmin())
	require.Equal(t, "t1", api.Bearer())

	token, ok, err := storage.Get(ctx, sessiondomain.KeyToken)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "t1", token)

	raw, ok, err := storage.Get(ctx, sessiondomain.KeyUser)
	require.NoError(t, err)
	require.True(t, ok)
	var stored users.User
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	require.Equal(t, catalog.ID("7"), stored.ID)
	require.Equal(t, users.RoleUser, stored.Role)
}

func TestLogin_InvalidInputSkipsRemoteCall(t *testing.T) {
	api := &fakeAPI{auth: regularAuth()}
	svc := NewService(api, sessionmemory.NewStorage())

	_, err := svc.Login(context.Background(), users.Credentials{Email: "not-an-email", Password: "x"})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Empty(t, api.Calls())
}

func TestLogin_FailureLeavesCacheUnchanged(t *testing.T) {
	rejected := ports.Rejected("login", 401, "Invalid credentials", []byte(`{"message":"Invalid credentials"}`), nil)
	api := &fakeAPI{authErr: rejected}
	storage := sessionmemory.NewStorage()
	svc := NewService(api, storage)

	_, err := svc.Login(context.Background(), users.Credentials{Email: "a@b.com", Password: "bad"})
	require.ErrorIs(t, err, ports.ErrServerRejected)
	require.EqualError(t, err, "Invalid credentials")
	require.False(t, svc.IsAuthenticated())
	require.Nil(t, svc.CurrentUser())
	require.Zero(t, storage.Len())
	require.Empty(t, api.bearers)
}

func TestLogin_PersistFailureRollsBack(t *testing.T) {
	api := &fakeAPI{auth: regularAuth()}
	storage := newFailingStorage(1)
	svc := NewService(api, storage)

	_, err := svc.Login(context.Background(), users.Credentials{Email: "a@b.com", Password: "x"})
	require.ErrorIs(t, err, ErrPersistSession)
	require.ErrorIs(t, err, errDiskFull)
	require.False(t, svc.IsAuthenticated())
	require.Empty(t, storage.entries)
	require.ElementsMatch(t, []string{sessiondomain.KeyToken, sessiondomain.KeyUser}, storage.removed)
	require.Empty(t, api.bearers)
}

func TestLogin_PersistFailureKeepsPreviousSession(t *testing.T) {
	ctx := context.Background()
	second := &ports.AuthResult{
		Token: "t2",
		User:  &users.User{ID: "8", Email: "c@d.com", Role: users.RoleAdmin},
	}

	tests := []struct {
		name      string
		storage   *failingStorage
		wantToken string
		wantUser  catalog.ID
	}{
		{
			name:      "previous session written back",
			storage:   &failingStorage{entries: map[string]string{}, allowed: 10, reject: "t2"},
			wantToken: "t1",
			wantUser:  "7",
		},
		{
			name:    "storage unwritable signs out",
			storage: newFailingStorage(2),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{auth: regularAuth()}
			svc := NewService(api, tt.storage)
			_, err := svc.Login(ctx, users.Credentials{Email: "a@b.com", Password: "x"})
			require.NoError(t, err)

			api.auth = second
			_, err = svc.Login(ctx, users.Credentials{Email: "c@d.com", Password: "y"})
			require.ErrorIs(t, err, ErrPersistSession)

			token, ok, err := tt.storage.Get(ctx, sessiondomain.KeyToken)
			require.NoError(t, err)
			require.Equal(t, tt.wantToken, token)
			require.Equal(t, tt.wantToken != "", ok)
			require.Equal(t, tt.wantToken, svc.Session().Token)
			require.Equal(t, tt.wantToken, api.Bearer())
			require.False(t, svc.IsAdmin())

			raw, ok, err := tt.storage.Get(ctx, sessiondomain.KeyUser)
			require.NoError(t, err)
			if tt.wantUser.IsZero() {
				require.False(t, ok)
				require.Nil(t, svc.CurrentUser())
				return
			}
			require.True(t, ok)
			var stored users.User
			require.NoError(t, json.Unmarshal([]byte(raw), &stored))
			require.Equal(t, tt.wantUser, stored.ID)
			require.Equal(t, tt.wantUser, svc.CurrentUser().ID)
		})
	}
}

func TestRegister_StoresSession(t *testing.T) {
	api := &fakeAPI{auth: &ports.AuthResult{
		Token: "t2",
		User:  &users.User{ID: "8", Email: "new@b.com", Username: "newbie", Role: users.RoleUser},
	}}
	svc := NewService(api, sessionmemory.NewStorage())

	session, err := svc.Register(context.Background(), users.Registration{Username: "newbie", Email: "new@b.com", Password: "secret"})
	require.NoError(t, err)
	require.Equal(t, "newbie", session.User.Username)
	require.Equal(t, "t2", api.Bearer())
}

func TestRegister_ServerPayloadIsKept(t *testing.T) {
	payload := []byte(`{"message":"Email already in use","field":"email"}`)
	api := &fakeAPI{authErr: ports.Rejected("register", 409, "Email already in use", payload, nil)}
	svc := NewService(api, sessionmemory.NewStorage())

	_, err := svc.Register(context.Background(), users.Registration{Username: "dup", Email: "a@b.com", Password: "secret"})
	var apiErr *ports.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 409, apiErr.Status)
	require.JSONEq(t, string(payload), string(apiErr.Payload))
}

func TestLogout_ClearsEverything(t *testing.T) {
	api := &fakeAPI{auth: regularAuth()}
	svc, storage := loggedIn(t, api)
	ctx := context.Background()

	svc.Logout(ctx)

	require.False(t, svc.IsAuthenticated())
	require.Nil(t, svc.CurrentUser())
	require.Empty(t, api.Bearer())
	_, ok, _ := storage.Get(ctx, sessiondomain.KeyToken)
	require.False(t, ok)
	_, ok, _ = storage.Get(ctx, sessiondomain.KeyUser)
	require.False(t, ok)
}

func TestIsAdmin(t *testing.T) {
	tests := []struct {
		name string
		auth *ports.AuthResult
		want bool
	}{
		{name: "admin", auth: &ports.AuthResult{Token: "t", User: &users.User{ID: "1", Role: users.RoleAdmin}}, want: true},
		{name: "user", auth: &ports.AuthResult{Token: "t", User: &users.User{ID: "2", Role: users.RoleUser}}, want: false},
		{name: "unknown role", auth: &ports.AuthResult{Token: "t", User: &users.User{ID: "3", Role: "Admin"}}, want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(&fakeAPI{auth: tc.auth}, nil)
			_, err := svc.Login(context.Background(), users.Credentials{Email: "a@b.com", Password: "x"})
			require.NoError(t, err)
			require.Equal(t, tc.want, svc.IsAdmin())
		})
	}

	require.False(t, NewService(&fakeAPI{}, nil).IsAdmin())
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	userJSON := `{"id":7,"email":"a@b.com","role":"admin"}`

	t.Run("complete session", func(t *testing.T) {
		storage := sessionmemory.NewStorage()
		require.NoError(t, storage.Set(ctx, sessiondomain.KeyToken, "t1"))
		require.NoError(t, storage.Set(ctx, sessiondomain.KeyUser, userJSON))
		api := &fakeAPI{}
		svc := NewService(api, storage)

		require.NoError(t, svc.Restore(ctx))
		require.True(t, svc.IsAdmin())
		require.Equal(t, "t1", api.Bearer())
	})

	t.Run("token without user is discarded", func(t *testing.T) {
		storage := sessionmemory.NewStorage()
		require.NoError(t, storage.Set(ctx, sessiondomain.KeyToken, "t1"))
		svc := NewService(&fakeAPI{}, storage)

		require.NoError(t, svc.Restore(ctx))
		require.False(t, svc.IsAuthenticated())
		require.Zero(t, storage.Len())
	})

	t.Run("corrupt user is discarded", func(t *testing.T) {
		storage := sessionmemory.NewStorage()
		require.NoError(t, storage.Set(ctx, sessiondomain.KeyToken, "t1"))
		require.NoError(t, storage.Set(ctx, sessiondomain.KeyUser, "{not json"))
		svc := NewService(&fakeAPI{}, storage)

		require.NoError(t, svc.Restore(ctx))
		require.False(t, svc.IsAuthenticated())
		require.Zero(t, storage.Len())
	})

	t.Run("empty storage", func(t *testing.T) {
		svc := NewService(&fakeAPI{}, sessionmemory.NewStorage())
		require.NoError(t, svc.Restore(ctx))
		require.False(t, svc.IsAuthenticated())
	})
}

func TestFetchGames_ReplacesCache(t *testing.T) {
	api := &fakeAPI{games: []catalog.Game{{ID: "g1", Title: "Doom"}, {ID: "g2", Title: "Quake"}}}
	svc := NewService(api, nil)
	ctx := context.Background()

	_, err := svc.FetchGames(ctx)
	require.NoError(t, err)
	require.Equal(t, api.games, svc.Games())

	api.games = []catalog.Game{{ID: "g3", Title: "Hexen"}}
	_, err = svc.FetchGames(ctx)
	require.NoError(t, err)
	require.Equal(t, []catalog.Game{{ID: "g3", Title: "Hexen"}}, svc.Games())
}

func TestFetchGames_FailureKeepsPreviousSnapshot(t *testing.T) {
	api := &fakeAPI{games: []catalog.Game{{ID: "g1"}}}
	svc := NewService(api, nil)
	ctx := context.Background()

	_, err := svc.FetchGames(ctx)
	require.NoError(t, err)

	api.err = errOffline
	_, err = svc.FetchGames(ctx)
	require.ErrorIs(t, err, ports.ErrUnreachable)
	require.Equal(t, []catalog.Game{{ID: "g1"}}, svc.Games())
}

func TestProjectionsAreCopies(t *testing.T) {
	api := &fakeAPI{games: []catalog.Game{{ID: "g1", Title: "Doom"}}}
	svc := NewService(api, nil)
	_, err := svc.FetchGames(context.Background())
	require.NoError(t, err)

	games := svc.Games()
	games[0].Title = "changed"
	require.Equal(t, "Doom", svc.Games()[0].Title)
}

func TestAuthenticatedOperationsRequireToken(t *testing.T) {
	api := &fakeAPI{}
	svc := NewService(api, nil)
	ctx := context.Background()

	checks := map[string]func() error{
		"my games":    func() error { _, err := svc.FetchMyGames(ctx); return err },
		"orders":      func() error { _, err := svc.FetchOrders(ctx); return err },
		"all orders":  func() error { _, err := svc.FetchAllOrders(ctx); return err },
		"users":       func() error { _, err := svc.FetchUsers(ctx); return err },
		"user status": func() error { _, err := svc.UpdateUserStatus(ctx, "5", users.StatusBlocked); return err },
		"profile":     func() error { _, err := svc.FetchUserProfile(ctx); return err },
		"buy":         func() error { _, err := svc.CreateOrder(ctx, "g1"); return err },
		"confirm":     func() error { _, err := svc.ConfirmOrder(ctx, "o1"); return err },
		"create game": func() error { _, err := svc.CreateGame(ctx, catalog.GameInput{Title: "Doom"}); return err },
		"update game": func() error { _, err := svc.UpdateGame(ctx, "g1", catalog.GameInput{Title: "Doom"}); return err },
		"delete game": func() error { return svc.DeleteGame(ctx, "g1") },
	}
	for name, call := range checks {
		err := call()
		require.ErrorIs(t, err, ports.ErrNoToken, name)
		require.EqualError(t, err, ports.MessageNoToken, name)
		require.Equal(t, ports.KindLocalPrecondition, ports.KindOf(err), name)
	}
	require.Empty(t, api.Calls())
}

func TestFetchOrders_ReplacesCache(t *testing.T) {
	api := &fakeAPI{auth: regularAuth(), orders: []store.Order{{ID: "o1", GameID: "g1", Status: store.StatusPending}}}
	svc, _ := loggedIn(t, api)

	orders, err := svc.FetchOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, orders, svc.Orders())
}

func TestFetchMyGames_ReplacesCache(t *testing.T) {
	api := &fakeAPI{auth: regularAuth(), myGames: []catalog.Game{{ID: "g1"}}}
	svc, _ := loggedIn(t, api)

	_, err := svc.FetchMyGames(context.Background())
	require.NoError(t, err)
	require.Equal(t, []catalog.Game{{ID: "g1"}}, svc.PurchasedGames())
}

func TestFetchUserProfile_ReplacesAndPersistsUser(t *testing.T) {
	api := &fakeAPI{auth: regularAuth()}
	svc, storage := loggedIn(t, api)
	ctx := context.Background()

	api.user = &users.User{ID: "7", Email: "a@b.com", Role: users.RoleUser, PurchasedGames: []catalog.ID{"g1"}}
	user, err := svc.FetchUserProfile(ctx)
	require.NoError(t, err)
	require.Equal(t, []catalog.ID{"g1"}, user.PurchasedGames)
	require.Equal(t, []catalog.ID{"g1"}, svc.CurrentUser().PurchasedGames)
	require.Equal(t, "t1", svc.Session().Token)

	raw, ok, err := storage.Get(ctx, sessiondomain.KeyUser)
	require.NoError(t, err)
	require.True(t, ok)
	require.Contains(t, raw, `"purchasedGames":["g1"]`)
}

func TestCheckGameOwnership(t *testing.T) {
	ctx := context.Background()

	t.Run("no session answers not owned without a call", func(t *testing.T) {
		api := &fakeAPI{ownership: &ports.Ownership{Owned: true}}
		svc := NewService(api, nil)
		require.Equal(t, ports.Ownership{Owned: false}, svc.CheckGameOwnership(ctx, "g1"))
		require.Empty(t, api.Calls())
	})

	t.Run("server answer wins", func(t *testing.T) {
		api := &fakeAPI{auth: regularAuth(), ownership: &ports.Ownership{Owned: true}}
		svc, _ := loggedIn(t, api)
		require.True(t, svc.CheckGameOwnership(ctx, "g9").Owned)
	})

	t.Run("offline falls back to cached purchases", func(t *testing.T) {
		auth := regularAuth()
		auth.User.PurchasedGames = []catalog.ID{"g1"}
		api := &fakeAPI{auth: auth}
		svc, _ := loggedIn(t, api)
		api.err = errOffline

		require.Equal(t, ports.Ownership{Owned: true}, svc.CheckGameOwnership(ctx, "g1"))
		require.Equal(t, ports.Ownership{Owned: false}, svc.CheckGameOwnership(ctx, "g2"))
	})

	t.Run("rejection also falls back", func(t *testing.T) {
		api := &fakeAPI{auth: regularAuth()}
		svc, _ := loggedIn(t, api)
		api.err = ports.Rejected("check ownership", 500, "boom", nil, nil)

		require.False(t, svc.CheckGameOwnership(ctx, "g1").Owned)
	})
}

func TestUpdateUserStatus_RejectsUnknownStatus(t *testing.T) {
	api := &fakeAPI{auth: regularAuth()}
	svc, _ := loggedIn(t, api)

	_, err := svc.UpdateUserStatus(context.Background(), "5", "suspended")
	require.ErrorIs(t, err, ErrInvalidInput)

	user, err := svc.UpdateUserStatus(context.Background(), "5", users.StatusBlocked)
	require.NoError(t, err)
	require.Equal(t, users.StatusBlocked, user.Status)
}

func TestCreateGame_ValidatesInput(t *testing.T) {
	api := &fakeAPI{auth: regularAuth()}
	svc, _ := loggedIn(t, api)
	ctx := context.Background()

	_, err := svc.CreateGame(ctx, catalog.GameInput{Title: "  ", Price: 10})
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.CreateGame(ctx, catalog.GameInput{Title: "Doom", Price: -1})
	require.ErrorIs(t, err, ErrInvalidInput)

	game, err := svc.CreateGame(ctx, catalog.GameInput{Title: "Doom", Price: 10})
	require.NoError(t, err)
	require.Equal(t, "Doom", game.Title)
}

func TestConcurrentFetchesKeepOneSnapshot(t *testing.T) {
	api := &fakeAPI{games: []catalog.Game{{ID: "g1"}, {ID: "g2"}}}
	svc := NewService(api, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.FetchGames(ctx)
			require.NoError(t, err, fmt.Sprint(i))
			_ = svc.Games()
		}()
	}
	wg.Wait()
	require.Equal(t, api.games, svc.Games())
}
