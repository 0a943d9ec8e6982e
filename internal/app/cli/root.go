// Package cli implements the gamestore command line storefront.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Apurer/gamestore-client/internal/domains/storefront/ports"
)

// Exit codes for consistent error handling across the CLI.
const (
	ExitSuccess = 0
	// ExitError indicates a general error condition.
	ExitError = 1
	// ExitUsage indicates invalid command usage (bad flags, missing args).
	ExitUsage = 2
	// ExitAuth indicates a missing session, a guard redirect or a 401/403.
	ExitAuth = 5
	// ExitNetwork indicates the API could not be reached.
	ExitNetwork = 6
)

// runner carries per-invocation state shared by all commands.
type runner struct {
	out     io.Writer
	errOut  io.Writer
	v       *viper.Viper
	cfgFile string
	envFile string
	app     *App
}

type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// Execute runs the CLI with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := &runner{out: stdout, errOut: stderr, v: newViper()}
	root := r.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if r.app != nil {
		r.app.Close()
	}
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
	}
	return exitCode(err)
}

func (r *runner) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "gamestore",
		Short: "Browse and buy games from the terminal",
		Long: `gamestore is a command line storefront for the game marketplace API.

The session is kept in local storage between invocations, so log in once and
the following commands run as that user.

Configuration:
  Settings are read from flags, GAMESTORE_* environment variables, a .env
  file, and gamestore.yaml in the current directory or ~/.gamestore/.
  Example: GAMESTORE_API_URL=http://localhost:3000/api`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return r.setup(cmd.Context())
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err: err}
	})

	flags := root.PersistentFlags()
	flags.StringVar(&r.cfgFile, "config", "", "config file (default: ./gamestore.yaml)")
	flags.StringVar(&r.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	flags.String("api-url", "", "marketplace API base URL")
	flags.Duration("timeout", 0, "HTTP request timeout")
	flags.String("storage", "", "session storage: sqlite, memory or postgres")
	flags.String("storage-path", "", "SQLite session file")
	flags.String("postgres-dsn", "", "PostgreSQL DSN for postgres storage")
	flags.String("profile", "", "session profile name for postgres storage")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	for key, flag := range map[string]string{
		"api_url":      "api-url",
		"timeout":      "timeout",
		"storage":      "storage",
		"storage_path": "storage-path",
		"postgres_dsn": "postgres-dsn",
		"profile":      "profile",
		"log_level":    "log-level",
	} {
		_ = r.v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(
		r.loginCommand(),
		r.registerCommand(),
		r.logoutCommand(),
		r.whoamiCommand(),
		r.gamesCommand(),
		r.ordersCommand(),
		r.adminCommand(),
		r.routeCommand(),
	)
	return root
}

func (r *runner) setup(ctx context.Context) error {
	cfg, err := LoadConfig(r.v, r.cfgFile, r.envFile)
	if err != nil {
		return err
	}
	app, err := NewApp(ctx, cfg, r.errOut)
	if err != nil {
		return err
	}
	r.app = app
	return nil
}

// exactArgs wraps cobra.ExactArgs so arity mistakes map to ExitUsage.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError{err: err}
		}
		return nil
	}
}

func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var (
		usage    usageError
		redirect *RedirectError
		apiErr   *ports.Error
	)
	switch {
	case errors.As(err, &usage):
		return ExitUsage
	case errors.As(err, &redirect):
		return ExitAuth
	case errors.As(err, &apiErr):
		switch apiErr.Kind {
		case ports.KindUnreachable:
			return ExitNetwork
		case ports.KindLocalPrecondition:
			return ExitAuth
		case ports.KindServerRejected:
			if apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden {
				return ExitAuth
			}
		}
	}
	return ExitError
}
