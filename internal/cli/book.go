package cli

import (
	"github.com/spf13/cobra"

	"github.com/gopalmandloi007/tradedeck/internal/models"
	"github.com/gopalmandloi007/tradedeck/internal/orders"
	"github.com/gopalmandloi007/tradedeck/pkg/utils"
)

func addBookCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newOrdersCmd(app))
	rootCmd.AddCommand(newTradesCmd(app))
	rootCmd.AddCommand(newJournalCmd(app))
}

func newOrdersCmd(app *App) *cobra.Command {
	var pendingOnly bool

	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Show the order book",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx := cmd.Context()

			var book []models.Order
			if pendingOnly {
				pending, err := app.dispatcher().PendingOrders(ctx)
				if err != nil {
					return err
				}
				book = pending
			} else {
				all, err := app.Client.GetOrders(ctx)
				if err != nil {
					return err
				}
				for _, o := range all {
					o.Status = orders.NormalizeStatus(o)
					book = append(book, o)
				}
			}

			if output.IsJSON() {
				return output.JSON(book)
			}
			if len(book) == 0 {
				output.Info("No orders.")
				return nil
			}

			output.Printf("%-14s %-22s %-5s %-10s %8s %8s %8s %10s %10s %-17s %s\n",
				"ID", "Symbol", "Side", "Type", "Qty", "Filled", "Left", "Limit", "Stop", "Status", "Tag")
			output.Rule()
			for _, o := range book {
				output.Printf("%-14s %-22s %-5s %-10s %8d %8d %8d %10.2f %10.2f %-17s %s\n",
					o.ID, o.Instrument.Symbol, o.Side, o.Type,
					o.Quantity, o.FilledQty, o.RemainingQty,
					o.LimitPrice, o.StopPrice, o.Status, o.Tag)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&pendingOnly, "pending", false, "show only orders open for modify/cancel")
	return cmd
}

func newTradesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "trades",
		Short: "Show the trade book",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			trades, err := app.Client.GetTrades(cmd.Context())
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(trades)
			}
			if len(trades) == 0 {
				output.Info("No trades today.")
				return nil
			}

			output.Printf("%-14s %-14s %-22s %-5s %8s %10s %14s %s\n",
				"Order", "Trade", "Symbol", "Side", "Qty", "Price", "Value", "Tag")
			output.Rule()
			for _, t := range trades {
				output.Printf("%-14s %-14s %-22s %-5s %8d %10.2f %14s %s\n",
					t.OrderID, t.TradeID, t.Instrument.Symbol, t.Side,
					t.Quantity, t.Price, utils.FormatIndianCurrency(t.Value), t.Tag)
			}
			return nil
		},
	}
}

func newJournalCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Show recent order action outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if app.Journal == nil {
				output.Warning("Action journal is unavailable.")
				return nil
			}
			entries, err := app.Journal.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(entries)
			}
			if len(entries) == 0 {
				output.Info("No recorded actions.")
				return nil
			}

			output.Printf("%-20s %-10s %-11s %-22s %-14s %-8s %s\n",
				"Time", "Broker", "Action", "Symbol", "Order ID", "Result", "Message")
			output.Rule()
			for _, e := range entries {
				result := output.ColoredString(ColorGreen, "accepted")
				if !e.Accepted {
					result = output.ColoredString(ColorRed, "rejected")
				}
				output.Printf("%-20s %-10s %-11s %-22s %-14s %-8s %s\n",
					e.Time.Local().Format("2006-01-02 15:04:05"),
					e.Broker, e.Action, e.Symbol, e.OrderID, result, e.Message)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "number of entries to show")
	return cmd
}
