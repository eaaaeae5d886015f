package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage store settings",
	Long: `Show and update the store details printed at the top of every invoice message.
Settings are stored per user email (see user.email in the config file).`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show store settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		settings, err := appInstance.SettingsService.Get(ctx, appInstance.UserKey())
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}

		fmt.Printf("Email:    %s\n", appInstance.Config.User.Email)
		fmt.Printf("Store:    %s\n", settings.DisplayName())
		fmt.Printf("Phone:    %s\n", settings.Phone)
		fmt.Printf("Address:  %s\n", settings.Address)
		fmt.Printf("Currency: %s\n", settings.CurrencySymbol())
		if !settings.UpdatedAt.IsZero() {
			fmt.Printf("Updated:  %s\n", settings.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update store settings",
	Long: `Update one or more store settings. Flags that are not given keep their value.

Example:
  billbook settings set --name "Rao General Store" --phone 9876543210`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		changed := false
		if cmd.Flags().Changed("email") {
			appInstance.Config.User.Email, _ = cmd.Flags().GetString("email")
			if err := appInstance.SaveConfig(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			changed = true
		}

		settings, err := appInstance.SettingsService.Get(ctx, appInstance.UserKey())
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}

		if cmd.Flags().Changed("name") {
			settings.Name, _ = cmd.Flags().GetString("name")
			changed = true
		}
		if cmd.Flags().Changed("phone") {
			settings.Phone, _ = cmd.Flags().GetString("phone")
			changed = true
		}
		if cmd.Flags().Changed("address") {
			settings.Address, _ = cmd.Flags().GetString("address")
			changed = true
		}
		if cmd.Flags().Changed("currency") {
			settings.Currency, _ = cmd.Flags().GetString("currency")
			changed = true
		}

		if !changed {
			return fmt.Errorf("nothing to update: pass --email, --name, --phone, --address or --currency")
		}

		if err := appInstance.SettingsService.Save(ctx, settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}

		fmt.Println("✓ Settings saved")
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)

	settingsSetCmd.Flags().String("email", "", "Account email (selects which settings document is used)")
	settingsSetCmd.Flags().String("name", "", "Store name")
	settingsSetCmd.Flags().String("phone", "", "Store phone number")
	settingsSetCmd.Flags().String("address", "", "Store address")
	settingsSetCmd.Flags().String("currency", "", "Currency symbol")
}
