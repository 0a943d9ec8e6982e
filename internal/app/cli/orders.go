package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	catalog "github.com/Apurer/gamestore-client/internal/domains/catalog/domain"
)

const myOrdersPath = "/my-orders"

func (r *runner) ordersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Buy games and review your orders",
	}

	var confirm bool
	buy := &cobra.Command{
		Use:   "buy <gameId>",
		Short: "Place an order for a game",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID := catalog.ID(args[0])
			if err := r.app.Navigate(gamePath(gameID)); err != nil {
				return err
			}
			sf := r.app.Storefront()
			order, err := sf.CreateOrder(cmd.Context(), gameID)
			if err != nil {
				return fmt.Errorf("purchase failed: %w", err)
			}
			success(r.out, "Order %s created (%s)", order.ID, order.Status)
			if !confirm {
				fmt.Fprintf(r.out, "Confirm with: gamestore orders confirm %s\n", order.ID)
				return nil
			}
			confirmed, err := sf.ConfirmOrder(cmd.Context(), order.ID)
			if err != nil {
				return fmt.Errorf("confirm order: %w", err)
			}
			success(r.out, "Order %s %s", confirmed.ID, confirmed.Status)
			return nil
		},
	}
	buy.Flags().BoolVar(&confirm, "confirm", false, "confirm the order right away")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List your orders",
			Args:  exactArgs(0),
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := r.app.Navigate(myOrdersPath); err != nil {
					return err
				}
				orders, err := r.app.Storefront().FetchOrders(cmd.Context())
				if err != nil {
					return err
				}
				renderOrders(r.out, orders, false)
				return nil
			},
		},
		buy,
		&cobra.Command{
			Use:   "confirm <orderId>",
			Short: "Confirm a pending order",
			Args:  exactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := r.app.Navigate(myOrdersPath); err != nil {
					return err
				}
				order, err := r.app.Storefront().ConfirmOrder(cmd.Context(), catalog.ID(args[0]))
				if err != nil {
					return fmt.Errorf("confirm order: %w", err)
				}
				success(r.out, "Order %s %s", order.ID, order.Status)
				return nil
			},
		},
	)
	return cmd
}
