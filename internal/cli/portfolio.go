package cli

import (
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/gopalmandloi007/tradedeck/internal/quotes"
	"github.com/gopalmandloi007/tradedeck/pkg/utils"
)

func addPortfolioCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newHoldingsCmd(app))
	rootCmd.AddCommand(newPositionsCmd(app))
	rootCmd.AddCommand(newFundsCmd(app))
}

func newHoldingsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "holdings",
		Short: "Show holdings with day and overall P&L",
		Long: `Shows delivery holdings with investment, current value, overall P&L and
day P&L. Day P&L uses the close of the last trading day, found by
scanning back through daily candles so weekends and exchange holidays
do not break the figure.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx := cmd.Context()

			resolver := quotes.NewResolver(app.Client, app.Config.Broker.LookbackDays, app.Logger)
			engine := quotes.NewEngine(app.Client, resolver)

			rows, err := engine.HoldingRows(ctx, time.Now())
			if err != nil {
				return err
			}
			sort.Slice(rows, func(i, j int) bool {
				return rows[i].Holding.Instrument.Symbol < rows[j].Holding.Instrument.Symbol
			})

			if output.IsJSON() {
				return output.JSON(rows)
			}

			if len(rows) == 0 {
				output.Info("No holdings.")
				return nil
			}

			output.Printf("%-22s %8s %10s %10s %14s %14s %14s %9s %14s %9s\n",
				"Symbol", "Qty", "Avg", "LTP", "Invested", "Current", "Today P&L", "Today%", "Overall P&L", "Overall%")
			output.Rule()
			for _, row := range rows {
				h := row.Holding
				output.Printf("%-22s %8d %10.2f %10s %14s %14s %14s %9s %14s %9s\n",
					h.Instrument.Symbol,
					h.Quantity,
					h.AveragePrice,
					ltpCell(h.LTP, h.LTPKnown),
					utils.FormatIndianCurrency(row.Investment),
					output.FormatMoneyMaybe(row.CurrentValue, row.CurrentValueKnown),
					output.FormatPnLMaybe(row.TodayPnL, row.TodayKnown),
					output.FormatPctMaybe(row.TodayPct, row.TodayValid),
					output.FormatPnLMaybe(row.UnrealizedPnL, row.UnrealizedKnown),
					output.FormatPctMaybe(row.UnrealizedPct, row.UnrealizedValid),
				)
				if row.RealizedKnown {
					output.Dim("  realized on %d exited: %s", h.ExitedQty, utils.FormatPnL(row.RealizedPnL))
				}
			}
			output.Rule()

			s := quotes.Summarize(rows)
			output.Printf("%-22s %8s %10s %10s %14s %14s %14s %9s %14s %9s\n",
				"TOTAL", "", "", "",
				utils.FormatIndianCurrency(s.Investment),
				output.FormatMoneyMaybe(s.CurrentValue, s.CurrentKnown),
				output.FormatPnLMaybe(s.TodayPnL, s.TodayKnown),
				"",
				output.FormatPnLMaybe(s.UnrealizedPnL, s.CurrentKnown),
				output.FormatPctMaybe(s.UnrealizedPct, s.UnrealizedValid),
			)
			if s.RealizedKnown {
				output.Printf("Realized P&L (exited quantity): %s\n", output.FormatPnL(s.RealizedPnL))
			}
			if !s.CurrentAllKnown || !s.TodayAllKnown {
				output.Warning("Some rows lack live or historical prices; totals cover priced rows only.")
			}
			return nil
		},
	}
}

func ltpCell(ltp float64, known bool) string {
	if !known {
		return utils.NotAvailable
	}
	return utils.FormatIndianCurrency(ltp)
}

func newPositionsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "positions",
		Short: "Show net positions",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			positions, err := app.Client.GetPositions(cmd.Context())
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(positions)
			}
			if len(positions) == 0 {
				output.Info("No positions.")
				return nil
			}

			output.Printf("%-22s %-9s %8s %10s %10s %10s %14s %14s\n",
				"Symbol", "Product", "Net Qty", "Buy Avg", "Sell Avg", "LTP", "Realized", "Unrealized")
			output.Rule()
			var realized, unrealized float64
			for _, p := range positions {
				output.Printf("%-22s %-9s %8d %10.2f %10.2f %10s %14s %14s\n",
					p.Instrument.Symbol,
					p.Product,
					p.NetQty,
					p.BuyAvg,
					p.SellAvg,
					ltpCell(p.LTP, p.LTPKnown),
					output.FormatPnL(p.RealizedPnL),
					output.FormatPnL(p.UnrealizedPnL),
				)
				realized += p.RealizedPnL
				unrealized += p.UnrealizedPnL
			}
			output.Rule()
			output.Printf("%-22s %-9s %8s %10s %10s %10s %14s %14s\n",
				"TOTAL", "", "", "", "", "",
				output.FormatPnL(realized), output.FormatPnL(unrealized))
			return nil
		},
	}
}

func newFundsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "funds",
		Short: "Show account funds and margin",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			funds, err := app.Client.GetFunds(cmd.Context())
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(funds)
			}

			output.Printf("Available:   %s\n", utils.FormatIndianCurrency(funds.Available))
			output.Printf("Used margin: %s\n", utils.FormatIndianCurrency(funds.UsedMargin))
			output.Printf("Net:         %s\n", utils.FormatIndianCurrency(funds.Net))
			output.Printf("Collateral:  %s\n", utils.FormatIndianCurrency(funds.TotalCollateral))
			return nil
		},
	}
}
