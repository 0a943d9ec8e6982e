package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	catalog "github.com/Apurer/gamestore-client/internal/domains/catalog/domain"
	storefrontports "github.com/Apurer/gamestore-client/internal/domains/storefront/ports"
	users "github.com/Apurer/gamestore-client/internal/domains/users/domain"
	apierrors "github.com/Apurer/gamestore-client/internal/shared/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewClient(server.URL + "/api")
	require.NoError(t, err)
	return client
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestNewClient_ValidatesBaseURL(t *testing.T) {
	for _, raw := range []string{"", "   ", "ftp://example.com", "http://", "::bad"} {
		_, err := NewClient(raw)
		require.Error(t, err, raw)
	}
	client, err := NewClient("https://api.example.com/v1/")
	require.NoError(t, err)
	require.Equal(t, "https://api.example.com/v1", client.BaseURL())
}

func TestLogin_SendsCredentialsAndDecodesSession(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NotEmpty(t, r.Header.Get(requestIDHeader))
		require.Empty(t, r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, map[string]string{"email": "a@b.com", "password": "x"}, body)

		writeJSON(w, http.StatusOK, map[string]any{
			"token": "t1",
			"user":  map[string]any{"id": 7, "email": "a@b.com", "role": "user"},
		})
	})

	result, err := client.Login(context.Background(), users.Credentials{Email: "a@b.com", Password: "x"})
	require.NoError(t, err)
	require.Equal(t, "t1", result.Token)
	require.Equal(t, catalog.ID("7"), result.User.ID)
	require.Equal(t, users.RoleUser, result.User.Role)
}

func TestLogin_MissingTokenIsMalformed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"user": map[string]any{"id": 1}})
	})

	_, err := client.Login(context.Background(), users.Credentials{Email: "a@b.com", Password: "x"})
	require.ErrorIs(t, err, storefrontports.ErrServerRejected)
	require.EqualError(t, err, storefrontports.MessageBadResponse)
}

func TestLogin_ServerMessageSurfacesVerbatim(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid credentials"})
	})

	_, err := client.Login(context.Background(), users.Credentials{Email: "a@b.com", Password: "bad"})
	var apiErr *storefrontports.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, storefrontports.KindServerRejected, apiErr.Kind)
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)
	require.Equal(t, "Invalid credentials", apiErr.Message)
	require.JSONEq(t, `{"message":"Invalid credentials"}`, string(apiErr.Payload))
}

func TestLogin_FallbackMessageWithoutPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Login(context.Background(), users.Credentials{Email: "a@b.com", Password: "x"})
	require.EqualError(t, err, "login failed")
}

func TestBearerIsAttachedAfterSetBearer(t *testing.T) {
	var seen []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, []any{})
	})
	ctx := context.Background()

	_, err := client.ListGames(ctx)
	require.NoError(t, err)
	client.SetBearer("t1")
	_, err = client.ListMyGames(ctx)
	require.NoError(t, err)
	client.SetBearer("")
	_, err = client.ListGames(ctx)
	require.NoError(t, err)

	require.Equal(t, []string{"", "Bearer t1", ""}, seen)
}

func TestProblemDetailsAreDecoded(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		problem := apierrors.ErrForbidden.WithDetail("admin role required")
		w.Header().Set("Content-Type", apierrors.ContentTypeProblemJSON)
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(problem)
	})

	_, err := client.ListUsers(context.Background())
	var apiErr *storefrontports.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "admin role required", apiErr.Message)
	require.NotNil(t, apiErr.Problem)
	require.Equal(t, apierrors.TypeForbidden, apiErr.Problem.Type)
}

func TestPlainTextErrorBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "game not found", http.StatusNotFound)
	})

	_, err := client.GetGame(context.Background(), "42")
	require.EqualError(t, err, "game not found")
	var apiErr *storefrontports.Error
	require.ErrorAs(t, err, &apiErr)
	require.JSONEq(t, `"game not found\n"`, string(apiErr.Payload))
}

func TestUnreachableServer(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	client, err := NewClient(server.URL)
	require.NoError(t, err)
	server.Close()

	_, err = client.ListGames(context.Background())
	require.ErrorIs(t, err, storefrontports.ErrUnreachable)
	require.EqualError(t, err, storefrontports.MessageUnreachable)
}

func TestMissingPathParamIsSetupFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("no request expected, got %s", r.URL.Path)
	})

	_, err := client.ConfirmOrder(context.Background(), "")
	require.ErrorIs(t, err, storefrontports.ErrRequestSetup)
	require.Contains(t, err.Error(), "error setting up confirm order request")
}

func TestPathParamsAreEscaped(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/games/a%2Fb/check-ownership", r.URL.EscapedPath())
		writeJSON(w, http.StatusOK, map[string]bool{"owned": true})
	})

	ownership, err := client.CheckOwnership(context.Background(), "a/b")
	require.NoError(t, err)
	require.True(t, ownership.Owned)
}

func TestCreateGame_JSONWithoutImage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "Doom", body["title"])
		writeJSON(w, http.StatusCreated, map[string]any{"id": "g1", "title": "Doom", "price": 9.99})
	})

	game, err := client.CreateGame(context.Background(), catalog.GameInput{Title: "Doom", Price: 9.99})
	require.NoError(t, err)
	require.Equal(t, catalog.ID("g1"), game.ID)
}

func TestUpdateGame_MultipartWithImage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/api/games/g1", r.URL.Path)
		require.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "Doom", r.FormValue("title"))
		require.Equal(t, "19.5", r.FormValue("price"))

		file, header, err := r.FormFile(ImageField)
		require.NoError(t, err)
		defer file.Close()
		require.Equal(t, "cover.png", header.Filename)
		require.Equal(t, "image/png", header.Header.Get("Content-Type"))
		content, err := io.ReadAll(file)
		require.NoError(t, err)
		require.Equal(t, "png-bytes", string(content))

		writeJSON(w, http.StatusOK, map[string]any{"id": "g1", "title": "Doom", "price": 19.5, "imageUrl": "/uploads/cover.png"})
	})

	game, err := client.UpdateGame(context.Background(), "g1", catalog.GameInput{
		Title: "Doom",
		Price: 19.5,
		Image: &catalog.Attachment{Filename: "/tmp/cover.png", Content: strings.NewReader("png-bytes")},
	})
	require.NoError(t, err)
	require.Equal(t, "/uploads/cover.png", game.ImageURL)
}

func TestUpdateGame_UnreadableImageIsSetupFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := client.UpdateGame(context.Background(), "g1", catalog.GameInput{
		Title: "Doom",
		Image: &catalog.Attachment{Filename: "cover.png", Content: failingReader{}},
	})
	require.ErrorIs(t, err, storefrontports.ErrRequestSetup)
}

func TestUpdateUserStatus_RequiresStatusInResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/users/5/status", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{"id": 5})
	})

	_, err := client.UpdateUserStatus(context.Background(), "5", users.StatusBlocked)
	require.ErrorIs(t, err, storefrontports.ErrServerRejected)
	require.EqualError(t, err, storefrontports.MessageBadResponse)
}

func TestDeleteGame_AcceptsEmptyBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.DeleteGame(context.Background(), "g1"))
}

func TestMalformedJSONIsRejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"games":`))
	})

	_, err := client.ListGames(context.Background())
	var apiErr *storefrontports.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, storefrontports.KindServerRejected, apiErr.Kind)
	require.Equal(t, http.StatusOK, apiErr.Status)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk error") }
