package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	catalog "github.com/Apurer/gamestore-client/internal/domains/catalog/domain"
	"github.com/Apurer/gamestore-client/internal/domains/navigation"
	users "github.com/Apurer/gamestore-client/internal/domains/users/domain"
)

const (
	adminGamesPath  = navigation.AdminPath + "/games"
	adminUsersPath  = navigation.AdminPath + "/users"
	adminOrdersPath = navigation.AdminPath + "/orders"
)

func (r *runner) adminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage games, users and orders (admin only)",
	}
	cmd.AddCommand(r.adminGamesCommand(), r.adminUsersCommand(), r.adminOrdersCommand())
	return cmd
}

// gameFlags holds the flag values of a game mutation.
type gameFlags struct {
	input catalog.GameInput
	image string
}

func (f *gameFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.input.Title, "title", "", "game title")
	flags.StringVar(&f.input.Description, "description", "", "game description")
	flags.Float64Var(&f.input.Price, "price", 0, "price in dollars")
	flags.StringVar(&f.input.Genre, "genre", "", "genre")
	flags.StringVar(&f.input.Platform, "platform", "", "platform")
	flags.StringVar(&f.image, "image", "", "cover image file to upload")
}

// overlay copies the flags that were set onto base.
func (f *gameFlags) overlay(flags *pflag.FlagSet, base catalog.Game) catalog.GameInput {
	in := catalog.GameInput{
		Title:       base.Title,
		Description: base.Description,
		Price:       base.Price,
		Genre:       base.Genre,
		Platform:    base.Platform,
	}
	if flags.Changed("title") {
		in.Title = f.input.Title
	}
	if flags.Changed("description") {
		in.Description = f.input.Description
	}
	if flags.Changed("price") {
		in.Price = f.input.Price
	}
	if flags.Changed("genre") {
		in.Genre = f.input.Genre
	}
	if flags.Changed("platform") {
		in.Platform = f.input.Platform
	}
	return in
}

// attach opens the image file, if any. The returned func closes it.
func (f *gameFlags) attach(in *catalog.GameInput) (func(), error) {
	if f.image == "" {
		return func() {}, nil
	}
	file, err := os.Open(f.image)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	in.Image = &catalog.Attachment{Filename: file.Name(), Content: file}
	return func() { _ = file.Close() }, nil
}

func (r *runner) adminGamesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "games",
		Short: "Create, update and delete games",
	}

	var createFlags gameFlags
	create := &cobra.Command{
		Use:   "create",
		Short: "Add a game to the catalog",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := r.app.Navigate(adminGamesPath); err != nil {
				return err
			}
			input := createFlags.input
			closeImage, err := createFlags.attach(&input)
			if err != nil {
				return err
			}
			defer closeImage()
			game, err := r.app.Storefront().CreateGame(cmd.Context(), input)
			if err != nil {
				return fmt.Errorf("create game: %w", err)
			}
			success(r.out, "Game %s created", game.ID)
			renderGame(r.out, game)
			return nil
		},
	}
	createFlags.register(create.Flags())
	_ = create.MarkFlagRequired("title")

	var updateFlags gameFlags
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a game; unset flags keep their value",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := r.app.Navigate(adminGamesPath); err != nil {
				return err
			}
			id := catalog.ID(args[0])
			sf := r.app.Storefront()
			current, err := sf.FetchGame(cmd.Context(), id)
			if err != nil {
				return err
			}
			input := updateFlags.overlay(cmd.Flags(), *current)
			closeImage, err := updateFlags.attach(&input)
			if err != nil {
				return err
			}
			defer closeImage()
			game, err := sf.UpdateGame(cmd.Context(), id, input)
			if err != nil {
				return fmt.Errorf("update game: %w", err)
			}
			success(r.out, "Game %s updated", game.ID)
			renderGame(r.out, game)
			return nil
		},
	}
	updateFlags.register(update.Flags())

	cmd.AddCommand(
		create,
		update,
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Remove a game from the catalog",
			Args:  exactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := r.app.Navigate(adminGamesPath); err != nil {
					return err
				}
				if err := r.app.Storefront().DeleteGame(cmd.Context(), catalog.ID(args[0])); err != nil {
					return fmt.Errorf("delete game: %w", err)
				}
				success(r.out, "Game %s deleted", args[0])
				return nil
			},
		},
	)
	return cmd
}

func (r *runner) adminUsersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List accounts and change their status",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all accounts",
			Args:  exactArgs(0),
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := r.app.Navigate(adminUsersPath); err != nil {
					return err
				}
				list, err := r.app.Storefront().FetchUsers(cmd.Context())
				if err != nil {
					return err
				}
				renderUsers(r.out, list)
				return nil
			},
		},
		&cobra.Command{
			Use:   "status <id> <active|blocked>",
			Short: "Activate or block an account",
			Args:  exactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := r.app.Navigate(adminUsersPath); err != nil {
					return err
				}
				user, err := r.app.Storefront().UpdateUserStatus(cmd.Context(), catalog.ID(args[0]), users.Status(args[1]))
				if err != nil {
					return fmt.Errorf("update status: %w", err)
				}
				success(r.out, "User %s is now %s", user.Email, user.Status)
				return nil
			},
		},
	)
	return cmd
}

func (r *runner) adminOrdersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Review every order",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all orders",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := r.app.Navigate(adminOrdersPath); err != nil {
				return err
			}
			orders, err := r.app.Storefront().FetchAllOrders(cmd.Context())
			if err != nil {
				return err
			}
			renderOrders(r.out, orders, true)
			return nil
		},
	})
	return cmd
}
