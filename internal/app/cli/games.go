package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	catalog "github.com/Apurer/gamestore-client/internal/domains/catalog/domain"
	"github.com/Apurer/gamestore-client/internal/domains/navigation"
)

func (r *runner) gamesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "games",
		Short: "Browse the catalog",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all games",
			Args:  exactArgs(0),
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := r.app.Navigate(navigation.GamesPath); err != nil {
					return err
				}
				games, err := r.app.Storefront().FetchGames(cmd.Context())
				if err != nil {
					return err
				}
				renderGames(r.out, games)
				return nil
			},
		},
		&cobra.Command{
			Use:   "show <id>",
			Short: "Show one game and whether you own it",
			Args:  exactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id := catalog.ID(args[0])
				if err := r.app.Navigate(gamePath(id)); err != nil {
					return err
				}
				sf := r.app.Storefront()
				game, err := sf.FetchGame(cmd.Context(), id)
				if err != nil {
					return err
				}
				renderGame(r.out, game)
				if sf.IsAuthenticated() {
					owned := "no"
					if sf.CheckGameOwnership(cmd.Context(), id).Owned {
						owned = "yes"
					}
					renderFields(r.out, [][2]string{{"Owned", owned}})
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "mine",
			Short: "List the games you own",
			Args:  exactArgs(0),
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := r.app.Navigate("/my-games"); err != nil {
					return err
				}
				games, err := r.app.Storefront().FetchMyGames(cmd.Context())
				if err != nil {
					return err
				}
				renderGames(r.out, games)
				return nil
			},
		},
	)
	return cmd
}

func gamePath(id catalog.ID) string {
	return fmt.Sprintf("%s/%s", navigation.GamesPath, url.PathEscape(id.String()))
}
