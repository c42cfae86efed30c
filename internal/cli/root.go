// Package cli provides the command-line interface for the dashboard.
package cli

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gopalmandloi007/tradedeck/internal/broker"
	"github.com/gopalmandloi007/tradedeck/internal/config"
	"github.com/gopalmandloi007/tradedeck/internal/logging"
	"github.com/gopalmandloi007/tradedeck/internal/orders"
	"github.com/gopalmandloi007/tradedeck/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2024-06-01"
)

// App holds the application dependencies.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Client  broker.Client
	Journal *store.JournalStore
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	rootCmd := &cobra.Command{
		Use:   "tradedeck",
		Short: "Broker account dashboard for Fyers and Definedge",
		Long: `tradedeck is a terminal dashboard for Indian broker accounts.

It shows holdings with holiday-aware day P&L, positions, order and trade
books, and dispatches order actions (place, modify, cancel, exit, GTT and
OCO) against the configured broker.

Use 'tradedeck help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}

			if override, _ := cmd.Flags().GetString("broker"); override != "" {
				app.Config.Broker.Active = override
			}
			if err := app.Config.Validate(); err != nil {
				return err
			}

			client, err := newBrokerClient(app.Config, app.Logger)
			if err != nil {
				return err
			}
			app.Client = client
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/tradedeck)")
	rootCmd.PersistentFlags().String("broker", "", "broker to use for this invocation (fyers or definedge)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	// Action journal; commands work without it.
	dbPath := filepath.Join(config.DefaultConfigDir(), "tradedeck.db")
	journal, err := store.NewJournalStore(dbPath)
	if err != nil {
		logger.Warn().Err(err).Msg("action journal unavailable")
	} else {
		app.Journal = journal
	}

	addCoreCommands(rootCmd, app)
	addPortfolioCommands(rootCmd, app)
	addBookCommands(rootCmd, app)
	addTradeCommands(rootCmd, app)
	addSessionCommands(rootCmd, app)

	return rootCmd
}

// newBrokerClient builds the client for the active broker from config.
func newBrokerClient(cfg *config.Config, logger zerolog.Logger) (broker.Client, error) {
	switch cfg.Broker.Active {
	case "fyers":
		creds := cfg.Credentials.Fyers
		if creds.ClientID == "" || creds.AccessToken == "" {
			return nil, fmt.Errorf("fyers credentials missing; set client_id and access_token in credentials.toml")
		}
		return broker.NewFyersClient(
			broker.FyersConfig{Timeout: cfg.Broker.Timeout},
			broker.FyersSession(creds.ClientID, creds.AccessToken),
			logger,
		), nil
	case "definedge":
		creds := cfg.Credentials.Definedge
		if creds.SessionKey == "" || creds.APISecret == "" {
			return nil, fmt.Errorf("definedge credentials missing; set api_session_key and api_secret in credentials.toml")
		}
		return broker.NewDefinedgeClient(
			broker.DefinedgeConfig{Timeout: cfg.Broker.Timeout},
			broker.DefinedgeSession(creds.SessionKey, creds.APISecret),
			logger,
		), nil
	default:
		return nil, fmt.Errorf("unknown broker: %s", cfg.Broker.Active)
	}
}

// dispatcher builds the order dispatcher for the active client.
func (a *App) dispatcher() *orders.Dispatcher {
	var journal orders.Journal
	if a.Journal != nil {
		journal = a.Journal
	}
	return orders.NewDispatcher(a.Client, journal, a.Logger)
}

func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// The root's PersistentPreRunE needs credentials; version should
		// work without any.
		PersistentPreRun: func(cmd *cobra.Command, args []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("tradedeck v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate application configuration.",
		// Inspecting config must not require broker credentials.
		PersistentPreRun: func(cmd *cobra.Command, args []string) {},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			output.Info("Broker")
			output.Printf("  active:           %s\n", app.Config.Broker.Active)
			output.Printf("  default exchange: %s\n", app.Config.Broker.DefaultExchange)
			output.Printf("  default product:  %s\n", app.Config.Broker.DefaultProduct)
			output.Printf("  timeout:          %s\n", app.Config.Broker.Timeout)
			output.Printf("  lookback days:    %d\n", app.Config.Broker.LookbackDays)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]bool{"valid": true})
			}
			output.Success("✓ Configuration is valid")
			return nil
		},
	})

	return cmd
}
