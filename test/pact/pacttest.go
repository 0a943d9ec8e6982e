//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "gamestore-api"
	ConsumerName = "gamestore-cli"

	StateCatalogSeeded = "the catalog has games"
	StateUserExists    = "user pact-user exists"
	StateGameMissing   = "no game with id missing-game"
	StateNoSession     = "no session"
)

const (
	MissingGameID = "missing-game"

	UserEmail    = "pact.user@example.com"
	UserName     = "pact-user"
	UserPassword = "pact-pass"
)

const (
	exampleGameID    = "a3f1c2d4-0000-4000-8000-000000000001"
	exampleGameTitle = "Starfall Tactics"
	exampleUserID    = "a3f1c2d4-0000-4000-8000-000000000002"
	exampleToken     = "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJwYWN0In0.c2ln"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the CLI consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleGame provides stable test data for catalog interactions.
func ExampleGame() map[string]any {
	return map[string]any{
		"id":       exampleGameID,
		"title":    exampleGameTitle,
		"price":    29.99,
		"genre":    "Strategy",
		"platform": "PC",
	}
}

// ExampleUser provides stable test data for the authenticated profile.
func ExampleUser() map[string]any {
	return map[string]any{
		"id":       exampleUserID,
		"email":    UserEmail,
		"username": UserName,
		"role":     "user",
	}
}

// ExampleToken is a placeholder bearer token; providers issue their own.
func ExampleToken() string {
	return exampleToken
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
