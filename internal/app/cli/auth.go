package cli

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/Apurer/gamestore-client/internal/domains/navigation"
	users "github.com/Apurer/gamestore-client/internal/domains/users/domain"
)

func (r *runner) loginCommand() *cobra.Command {
	var (
		credentials users.Credentials
		redirect    string
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with email and password",
		Long: `Log in to the marketplace. The token and profile are saved locally.

Examples:
  gamestore login --email user@example.com --password secret
  gamestore login --email user@example.com --password secret --redirect /my-orders`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := r.app.Navigate(navigation.LoginPath); err != nil {
				return err
			}
			session, err := r.app.Storefront().Login(cmd.Context(), credentials)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			success(r.out, "Logged in as %s (%s)", session.User.Email, session.User.Role)
			fmt.Fprintf(r.out, "Continue at %s\n", continueAt(redirect, session.User))
			return nil
		},
	}
	cmd.Flags().StringVar(&credentials.Email, "email", "", "account email")
	cmd.Flags().StringVar(&credentials.Password, "password", "", "account password")
	cmd.Flags().StringVar(&redirect, "redirect", "", "path to continue at after logging in")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (r *runner) registerCommand() *cobra.Command {
	var registration users.Registration
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := r.app.Navigate(navigation.RegisterPath); err != nil {
				return err
			}
			session, err := r.app.Storefront().Register(cmd.Context(), registration)
			if err != nil {
				return fmt.Errorf("registration failed: %w", err)
			}
			success(r.out, "Welcome, %s! You are now logged in.", displayName(session.User))
			fmt.Fprintf(r.out, "Continue at %s\n", navigation.LandingPath(session.User))
			return nil
		},
	}
	cmd.Flags().StringVar(&registration.Username, "username", "", "display name")
	cmd.Flags().StringVar(&registration.Email, "email", "", "account email")
	cmd.Flags().StringVar(&registration.Password, "password", "", "account password (min 4 characters)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (r *runner) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := r.app.Navigate(navigation.HomePath); err != nil {
				return err
			}
			if !r.app.Storefront().IsAuthenticated() {
				fmt.Fprintln(r.out, "Not logged in.")
				return nil
			}
			r.app.Storefront().Logout(cmd.Context())
			success(r.out, "Logged out.")
			return nil
		},
	}
}

func (r *runner) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Long:  "Show the current session. When logged in, the profile is refreshed from the API.",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := r.app.Navigate(navigation.HomePath); err != nil {
				return err
			}
			sf := r.app.Storefront()
			if !sf.IsAuthenticated() {
				fmt.Fprintln(r.out, "Not logged in.")
				return nil
			}
			user := sf.CurrentUser()
			if refreshed, err := sf.FetchUserProfile(cmd.Context()); err != nil {
				fmt.Fprintf(r.errOut, "warning: showing saved profile: %v\n", err)
			} else {
				user = refreshed
			}
			fields := [][2]string{
				{"ID", user.ID.String()},
				{"Username", user.Username},
				{"Email", user.Email},
				{"Role", string(user.Role)},
				{"Games owned", fmt.Sprint(len(user.PurchasedGames))},
			}
			if user.Status != "" {
				fields = append(fields, [2]string{"Status", string(user.Status)})
			}
			if expiry, ok := tokenExpiry(sf.Session().Token); ok {
				fields = append(fields, [2]string{"Token expires", expiry.Local().Format(time.DateTime)})
			}
			renderFields(r.out, fields)
			return nil
		},
	}
}

// continueAt picks the post-login destination: the requested local path,
// or the landing page for the user's role.
func continueAt(redirect string, user *users.User) string {
	fallback := navigation.LandingPath(user)
	if redirect == "" {
		return fallback
	}
	return navigation.RedirectTarget(navigation.LoginRedirect(redirect), fallback)
}

func displayName(user *users.User) string {
	if user.Username != "" {
		return user.Username
	}
	return user.Email
}

// tokenExpiry reads the exp claim without verifying the signature; the
// client never holds the signing key.
func tokenExpiry(raw string) (time.Time, bool) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
