package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset data in the database",
	Long: `Reset data in the database.

Examples:
  billbook reset invoices    # Delete all invoices and their items
  billbook reset all         # Wipe everything: invoices and store settings
  billbook reset all --forget-key   # Also remove the database file and stored password`,
}

var resetInvoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Delete all invoices and their items",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmPrompt("This will delete ALL invoices. Continue?") {
			fmt.Println("Cancelled.")
			return nil
		}

		if err := appInstance.InvoiceRepo.DeleteAll(context.Background()); err != nil {
			return fmt.Errorf("failed to clear invoices: %w", err)
		}

		fmt.Println("All invoices have been deleted.")
		return nil
	},
}

var resetAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Delete ALL data: invoices and store settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmPrompt("This will delete ALL data (invoices and store settings). Continue?") {
			fmt.Println("Cancelled.")
			return nil
		}

		forget, _ := cmd.Flags().GetBool("forget-key")
		if forget {
			if err := appInstance.Wipe(); err != nil {
				return fmt.Errorf("failed to wipe database: %w", err)
			}
			fmt.Println("Database removed and encryption key forgotten. The next run will ask for a new password.")
			return nil
		}

		ctx := context.Background()

		if err := appInstance.InvoiceRepo.DeleteAll(ctx); err != nil {
			return fmt.Errorf("failed to clear invoices: %w", err)
		}
		if err := appInstance.SettingsRepo.DeleteAll(ctx); err != nil {
			return fmt.Errorf("failed to clear settings: %w", err)
		}

		fmt.Println("All data has been deleted.")
		return nil
	},
}

func confirmPrompt(message string) bool {
	fmt.Printf("%s [y/N] ", message)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return isYes(input)
}

func isYes(input string) bool {
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func init() {
	resetCmd.AddCommand(resetInvoicesCmd)
	resetCmd.AddCommand(resetAllCmd)

	resetAllCmd.Flags().Bool("forget-key", false, "Remove the database file and the stored encryption key")
}
