package cli

import (
	"os"

	"github.com/andy/billbook/internal/app"
	"github.com/spf13/cobra"
)

var appInstance *app.App

var rootCmd = &cobra.Command{
	Use:   "billbook",
	Short: "Keep shop invoices and send them over WhatsApp",
	Long: `Billbook stores your invoices in an encrypted local database and sends them
to customers as WhatsApp messages. When WhatsApp cannot be opened the message
is copied to your clipboard instead.

By default, running billbook without arguments launches the interactive TUI.
Use subcommands for CLI operations.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		// Default behavior: launch TUI
		launchTUI(cmd, args)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetApp sets the app instance for commands to use.
// Delivery notices go to stderr until the TUI takes over.
func SetApp(a *app.App) {
	appInstance = a
	a.Notifier.Set(newCLINotifier(os.Stderr))
}

func init() {
	// Consumed in main before the app is built; declared here so cobra accepts it
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log at debug level")

	rootCmd.AddCommand(invoicesCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(tuiCmd)
}
