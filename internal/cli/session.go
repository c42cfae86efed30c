package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	apperrors "github.com/gopalmandloi007/tradedeck/internal/errors"
	"github.com/gopalmandloi007/tradedeck/pkg/utils"
)

func addSessionCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newStatusCmd(app))
	rootCmd.AddCommand(newSessionCmd(app))
}

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show market and broker session status",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			marketStatus := utils.GetMarketStatus()

			// A funds fetch doubles as a session probe: an AuthError means
			// the key expired.
			sessionOK := true
			sessionMsg := "active"
			if _, err := app.Client.GetFunds(cmd.Context()); err != nil {
				sessionOK = false
				if apperrors.IsAuth(err) {
					sessionMsg = "expired; update credentials and retry"
				} else {
					sessionMsg = err.Error()
				}
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"broker":          app.Client.Name(),
					"market":          marketStatus,
					"session_active":  sessionOK,
					"session_message": sessionMsg,
				})
			}

			color.Cyan("Market")
			switch marketStatus {
			case utils.MarketOpen:
				color.Green("  OPEN (NSE 9:15-15:30 IST)")
			case utils.MarketPreOpen:
				color.Yellow("  PRE-OPEN (9:00-9:15 IST)")
			default:
				output.Dim("  CLOSED")
			}

			color.Cyan("Broker session (%s)", app.Client.Name())
			if sessionOK {
				color.Green("  ✓ %s", sessionMsg)
			} else {
				color.Red("  ✗ %s", sessionMsg)
			}
			return nil
		},
	}
}

func newSessionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Broker session management",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "refresh",
		Short: "Refresh the broker session",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Client.RefreshSession(cmd.Context()); err != nil {
				if apperrors.IsAuth(err) {
					output.Error("Session refresh requires a new login: %v", err)
					output.Dim("Update credentials.toml with fresh keys from the broker portal.")
					return err
				}
				return err
			}
			output.Success("✓ Session refreshed")
			return nil
		},
	})

	return cmd
}
