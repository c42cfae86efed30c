package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/gopalmandloi007/tradedeck/internal/broker"
	"github.com/gopalmandloi007/tradedeck/internal/models"
	"github.com/gopalmandloi007/tradedeck/internal/orders"
)

func addTradeCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newPlaceCmd(app))
	rootCmd.AddCommand(newModifyCmd(app))
	rootCmd.AddCommand(newCancelCmd(app))
	rootCmd.AddCommand(newExitCmd(app))
	rootCmd.AddCommand(newGTTCmd(app))
	rootCmd.AddCommand(newOCOCmd(app))
}

// orderFlags carries the shared place/modify flag set.
type orderFlags struct {
	side    string
	typ     string
	product string
	qty     int
	amount  float64
	limit   float64
	stop    float64
	tag     string
}

func (f *orderFlags) register(cmd *cobra.Command, withAmount bool) {
	cmd.Flags().StringVar(&f.side, "side", "BUY", "order side (BUY or SELL)")
	cmd.Flags().StringVar(&f.typ, "type", "MARKET", "order type (MARKET, LIMIT, SL-M, SL-L)")
	cmd.Flags().StringVar(&f.product, "product", "", "product type (CNC, INTRADAY, NRML; default from config)")
	cmd.Flags().IntVar(&f.qty, "qty", 0, "quantity in shares")
	if withAmount {
		cmd.Flags().Float64Var(&f.amount, "amount", 0, "target cash amount in INR, sized to shares by price")
	}
	cmd.Flags().Float64Var(&f.limit, "limit", 0, "limit price (LIMIT and SL-L)")
	cmd.Flags().Float64Var(&f.stop, "stop", 0, "stop/trigger price (SL-M and SL-L)")
}

func (f *orderFlags) productOrDefault(app *App) models.ProductType {
	p := f.product
	if p == "" {
		p = app.Config.Broker.DefaultProduct
	}
	return models.ProductType(strings.ToUpper(p))
}

func printOutcome(output *Output, action string, outcome *orders.Outcome) {
	if output.IsJSON() {
		output.JSON(outcome)
		return
	}
	if outcome.Accepted {
		if outcome.OrderID != "" {
			output.Success("✓ %s accepted (order %s)", action, outcome.OrderID)
		} else {
			output.Success("✓ %s accepted", action)
		}
		if outcome.Message != "" {
			output.Dim("  %s", outcome.Message)
		}
	} else {
		output.Error("✗ %s rejected: %s", action, outcome.Message)
	}
}

func newPlaceCmd(app *App) *cobra.Command {
	flags := &orderFlags{}

	cmd := &cobra.Command{
		Use:   "place <symbol>",
		Short: "Place a new order",
		Long: `Places an order for a symbol. Size with --qty, or with --amount to
spend a target cash amount: the quantity is the amount floor-divided by
the limit price (limit-type orders) or the live price.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			outcome, err := app.dispatcher().Place(cmd.Context(), orders.PlaceRequest{
				Symbol:     args[0],
				Side:       models.OrderSide(strings.ToUpper(flags.side)),
				Type:       models.OrderType(strings.ToUpper(flags.typ)),
				Product:    flags.productOrDefault(app),
				Quantity:   flags.qty,
				Amount:     flags.amount,
				LimitPrice: flags.limit,
				StopPrice:  flags.stop,
				Tag:        flags.tag,
			})
			if err != nil {
				return err
			}
			printOutcome(output, "place", outcome)
			return nil
		},
	}

	flags.register(cmd, true)
	cmd.Flags().StringVar(&flags.tag, "tag", "", "free-text order tag")
	return cmd
}

func newModifyCmd(app *App) *cobra.Command {
	flags := &orderFlags{}
	var symbol string

	cmd := &cobra.Command{
		Use:   "modify <order-id>",
		Short: "Modify a pending order",
		Long: `Replaces price and quantity fields on a pending order. A disclosed
quantity of a tenth of the new quantity (minimum one share) is declared
where the broker requires it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			outcome, err := app.dispatcher().Modify(cmd.Context(), args[0], orders.ModifyRequest{
				Symbol:     symbol,
				Side:       models.OrderSide(strings.ToUpper(flags.side)),
				Type:       models.OrderType(strings.ToUpper(flags.typ)),
				Product:    flags.productOrDefault(app),
				Quantity:   flags.qty,
				LimitPrice: flags.limit,
				StopPrice:  flags.stop,
			})
			if err != nil {
				return err
			}
			printOutcome(output, "modify", outcome)
			return nil
		},
	}

	flags.register(cmd, false)
	cmd.Flags().StringVar(&symbol, "symbol", "", "trading symbol of the order")
	return cmd
}

func newCancelCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <order-id> [order-id...]",
		Short: "Cancel pending orders",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			d := app.dispatcher()

			var firstErr error
			for _, orderID := range args {
				outcome, err := d.Cancel(cmd.Context(), orderID)
				if err != nil {
					output.Error("✗ cancel %s: %v", orderID, err)
					if firstErr == nil {
						firstErr = err
					}
					continue
				}
				printOutcome(output, "cancel "+orderID, outcome)
			}
			return firstErr
		},
	}
}

func newExitCmd(app *App) *cobra.Command {
	var all bool
	var positions bool

	cmd := &cobra.Command{
		Use:   "exit [symbol...]",
		Short: "Square off holdings or positions at market",
		Long: `Exits holdings (or net positions with --positions) with market orders
for the full quantity. Net-short positions are bought back. Name the
symbols to exit, or pass --all. Failures do not stop the batch; every
target reports its own outcome.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx := cmd.Context()

			if !all && len(args) == 0 {
				output.Warning("Nothing selected: name symbols or pass --all.")
				return nil
			}
			selected := make(map[string]bool, len(args))
			for _, s := range args {
				selected[strings.ToUpper(s)] = true
			}
			want := func(symbol string) bool {
				return all || selected[strings.ToUpper(symbol)]
			}

			var targets []orders.ExitTarget
			if positions {
				book, err := app.Client.GetPositions(ctx)
				if err != nil {
					return err
				}
				for _, p := range book {
					if p.NetQty != 0 && want(p.Instrument.Symbol) {
						targets = append(targets, orders.ExitTarget{
							Instrument: p.Instrument,
							Quantity:   p.NetQty,
							Product:    p.Product,
						})
					}
				}
			} else {
				holdings, err := app.Client.GetHoldings(ctx)
				if err != nil {
					return err
				}
				for _, h := range holdings {
					if h.Quantity > 0 && want(h.Instrument.Symbol) {
						targets = append(targets, orders.ExitTarget{
							Instrument: h.Instrument,
							Quantity:   h.Quantity,
							Product:    models.ProductCNC,
						})
					}
				}
			}

			if len(targets) == 0 {
				output.Info("Nothing to exit.")
				return nil
			}

			outcomes := app.dispatcher().ExitAll(ctx, targets)
			if output.IsJSON() {
				return output.JSON(outcomes)
			}
			for _, oc := range outcomes {
				symbol := oc.Target.Instrument.Symbol
				switch {
				case oc.Err != nil:
					output.Error("✗ %s: %v", symbol, oc.Err)
				case oc.Outcome.Accepted:
					output.Success("✓ %s exited (order %s)", symbol, oc.Outcome.OrderID)
				default:
					output.Error("✗ %s rejected: %s", symbol, oc.Outcome.Message)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "exit every holding or position")
	cmd.Flags().BoolVar(&positions, "positions", false, "exit net positions instead of holdings")
	return cmd
}

func newGTTCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gtt",
		Short: "Conditional (good-till-triggered) orders",
	}

	var flags orderFlags
	var trigger float64
	var direction string

	place := &cobra.Command{
		Use:   "place <symbol>",
		Short: "Place a conditional order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			outcome, err := app.dispatcher().PlaceGTT(cmd.Context(), broker.GTTSpec{
				Instrument:   app.Client.QualifySymbol(args[0]),
				Side:         models.OrderSide(strings.ToUpper(flags.side)),
				Product:      flags.productOrDefault(app),
				Quantity:     flags.qty,
				TriggerPrice: trigger,
				LimitPrice:   flags.limit,
				Direction:    triggerDirection(direction),
			})
			if err != nil {
				return err
			}
			printOutcome(output, "gtt place", outcome)
			return nil
		},
	}
	flags.register(place, false)
	place.Flags().Float64Var(&trigger, "trigger", 0, "trigger price")
	place.Flags().StringVar(&direction, "direction", "above", "trigger direction (above or below)")

	var mflags orderFlags
	var mtrigger float64
	var mdirection string
	var msymbol string

	modify := &cobra.Command{
		Use:   "modify <trigger-id>",
		Short: "Modify a conditional order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			outcome, err := app.dispatcher().ModifyGTT(cmd.Context(), args[0], broker.GTTSpec{
				Instrument:   app.Client.QualifySymbol(msymbol),
				Side:         models.OrderSide(strings.ToUpper(mflags.side)),
				Product:      mflags.productOrDefault(app),
				Quantity:     mflags.qty,
				TriggerPrice: mtrigger,
				LimitPrice:   mflags.limit,
				Direction:    triggerDirection(mdirection),
			})
			if err != nil {
				return err
			}
			printOutcome(output, "gtt modify", outcome)
			return nil
		},
	}
	mflags.register(modify, false)
	modify.Flags().Float64Var(&mtrigger, "trigger", 0, "trigger price")
	modify.Flags().StringVar(&mdirection, "direction", "above", "trigger direction (above or below)")
	modify.Flags().StringVar(&msymbol, "symbol", "", "trading symbol of the trigger")

	cancel := &cobra.Command{
		Use:   "cancel <trigger-id>",
		Short: "Cancel a conditional order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			outcome, err := app.dispatcher().CancelGTT(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printOutcome(output, "gtt cancel", outcome)
			return nil
		},
	}

	cmd.AddCommand(place, modify, cancel)
	return cmd
}

func triggerDirection(s string) models.TriggerDirection {
	if strings.EqualFold(s, "below") {
		return models.TriggerBelow
	}
	return models.TriggerAbove
}

func newOCOCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oco",
		Short: "One-cancels-other order pairs",
	}

	var side, product, remarks string
	var targetQty, stopQty int
	var targetPrice, stopPrice float64

	registerLegs := func(c *cobra.Command) {
		c.Flags().StringVar(&side, "side", "SELL", "order side (BUY or SELL)")
		c.Flags().StringVar(&product, "product", "", "product type (default from config)")
		c.Flags().IntVar(&targetQty, "target-qty", 0, "target leg quantity")
		c.Flags().IntVar(&stopQty, "stop-qty", 0, "stoploss leg quantity")
		c.Flags().Float64Var(&targetPrice, "target", 0, "target leg price")
		c.Flags().Float64Var(&stopPrice, "stop", 0, "stoploss leg price")
	}

	ocoSpec := func(symbol string) broker.OCOSpec {
		p := product
		if p == "" {
			p = app.Config.Broker.DefaultProduct
		}
		return broker.OCOSpec{
			Instrument:    app.Client.QualifySymbol(symbol),
			Side:          models.OrderSide(strings.ToUpper(side)),
			Product:       models.ProductType(strings.ToUpper(p)),
			TargetQty:     targetQty,
			TargetPrice:   targetPrice,
			StoplossQty:   stopQty,
			StoplossPrice: stopPrice,
			Remarks:       remarks,
		}
	}

	place := &cobra.Command{
		Use:   "place <symbol>",
		Short: "Place an OCO pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			outcome, err := app.dispatcher().PlaceOCO(cmd.Context(), ocoSpec(args[0]))
			if err != nil {
				return err
			}
			printOutcome(output, "oco place", outcome)
			return nil
		},
	}
	registerLegs(place)
	place.Flags().StringVar(&remarks, "remarks", "", "free-text remarks")

	var msymbol string
	modify := &cobra.Command{
		Use:   "modify <trigger-id>",
		Short: "Modify an OCO pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			outcome, err := app.dispatcher().ModifyOCO(cmd.Context(), args[0], ocoSpec(msymbol))
			if err != nil {
				return err
			}
			printOutcome(output, "oco modify", outcome)
			return nil
		},
	}
	registerLegs(modify)
	modify.Flags().StringVar(&msymbol, "symbol", "", "trading symbol of the pair")

	cancel := &cobra.Command{
		Use:   "cancel <trigger-id>",
		Short: "Cancel an OCO pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			outcome, err := app.dispatcher().CancelOCO(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printOutcome(output, "oco cancel", outcome)
			return nil
		},
	}

	cmd.AddCommand(place, modify, cancel)
	return cmd
}
