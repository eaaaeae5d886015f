package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/andy/billbook/internal/domain"
	"github.com/andy/billbook/internal/repository"
	"github.com/spf13/cobra"
)

var invoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Manage invoices",
	Long:  `Create, import, list, and send invoices.`,
}

var invoicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invoices",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		customer, _ := cmd.Flags().GetString("customer")
		limit, _ := cmd.Flags().GetInt("limit")

		invoices, err := appInstance.InvoiceService.ListInvoices(ctx, repository.InvoiceFilter{
			Customer: customer,
			Limit:    limit,
		})
		if err != nil {
			return fmt.Errorf("failed to list invoices: %w", err)
		}

		if len(invoices) == 0 {
			fmt.Println("No invoices found")
			return nil
		}

		currency := currencySymbol(ctx)

		// Print table header
		fmt.Printf("%-5s %-15s %-24s %-15s %-12s\n", "ID", "Number", "Customer", "Phone", "Total")
		fmt.Println(strings.Repeat("-", 75))

		for _, invoice := range invoices {
			fmt.Printf("%-5d %-15s %-24s %-15s %s\n",
				invoice.ID,
				truncate(invoice.Reference(), 15),
				truncate(invoice.CustomerName, 24),
				truncate(invoice.Phone(), 15),
				formatMoney(currency, invoice.Total),
			)
		}

		fmt.Printf("\nTotal: %d invoice(s)\n", len(invoices))
		return nil
	},
}

var invoicesShowCmd = &cobra.Command{
	Use:   "show [id | --number N]",
	Short: "Show invoice details",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		id, err := resolveInvoiceID(ctx, cmd, args)
		if err != nil {
			return err
		}

		invoice, err := appInstance.InvoiceService.GetInvoice(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get invoice: %w", err)
		}

		currency := currencySymbol(ctx)

		fmt.Println(strings.Repeat("=", 60))
		fmt.Printf("Invoice: %s\n", invoice.Reference())
		fmt.Println(strings.Repeat("=", 60))
		fmt.Printf("Customer: %s\n", invoice.CustomerName)
		fmt.Printf("Phone:    %s\n", invoice.Phone())
		fmt.Printf("Date:     %s\n", invoice.Date)
		fmt.Println()

		if len(invoice.Items) > 0 {
			fmt.Printf("%-32s %8s %14s\n", "Item", "Qty", "Amount")
			fmt.Println(strings.Repeat("-", 60))
			for _, item := range invoice.Items {
				fmt.Printf("%-32s %8s %14s\n",
					truncate(item.Name, 32),
					strconv.FormatFloat(item.Quantity, 'f', -1, 64),
					formatMoney(currency, item.Total),
				)
			}
			fmt.Println(strings.Repeat("-", 60))
		}

		fmt.Printf("Subtotal: %s\n", formatMoney(currency, invoice.Subtotal))
		if invoice.Discount > 0 {
			fmt.Printf("Discount: -%s\n", formatMoney(currency, invoice.Discount))
		}
		if invoice.Tax > 0 {
			fmt.Printf("Tax:      +%s\n", formatMoney(currency, invoice.Tax))
		}
		fmt.Printf("Total:    %s\n", formatMoney(currency, invoice.Total))
		fmt.Println(strings.Repeat("=", 60))
		return nil
	},
}

var invoicesAddCmd = &cobra.Command{
	Use:   "add [customer]",
	Short: "Add an invoice",
	Long: `Add an invoice for a customer. Items use the form name:quantity:total.

Example:
  billbook invoices add "Asha Rao" --phone 9876543210 --item "Rice 5kg:2:640" --item "Oil:1:185.50"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		number, _ := cmd.Flags().GetString("number")
		phone, _ := cmd.Flags().GetString("phone")
		date, _ := cmd.Flags().GetString("date")
		rawItems, _ := cmd.Flags().GetStringArray("item")
		discount, _ := cmd.Flags().GetFloat64("discount")
		tax, _ := cmd.Flags().GetFloat64("tax")

		invoice := domain.NewInvoice(number, args[0])
		invoice.CustomerPhone = phone
		if date != "" {
			invoice.Date = date
		}
		invoice.Discount = discount
		invoice.Tax = tax

		for _, raw := range rawItems {
			item, err := parseItem(raw)
			if err != nil {
				return err
			}
			invoice.Items = append(invoice.Items, item)
		}

		created, err := appInstance.InvoiceService.CreateInvoice(ctx, invoice)
		if err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}

		fmt.Printf("✓ Invoice created: %s (ID: %d)\n", created.Reference(), created.ID)
		fmt.Printf("  Total: %s\n", formatMoney(currencySymbol(ctx), created.Total))
		return nil
	},
}

var invoicesImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import invoices from a JSON file (use - for stdin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		var r io.Reader = os.Stdin
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()
			r = f
		}

		imported, err := appInstance.InvoiceService.ImportJSON(ctx, r)
		for _, inv := range imported {
			fmt.Printf("✓ Imported %s (ID: %d)\n", inv.Reference(), inv.ID)
		}
		if err != nil {
			return fmt.Errorf("import stopped: %w", err)
		}

		fmt.Printf("\n%d invoice(s) imported\n", len(imported))
		return nil
	},
}

var invoicesDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete an invoice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes && !confirmPrompt(fmt.Sprintf("Delete invoice #%d?", id)) {
			fmt.Println("Cancelled.")
			return nil
		}

		if err := appInstance.InvoiceService.DeleteInvoice(ctx, id); err != nil {
			return fmt.Errorf("failed to delete invoice: %w", err)
		}

		fmt.Printf("✓ Invoice #%d deleted\n", id)
		return nil
	},
}

var invoicesMessageCmd = &cobra.Command{
	Use:   "message [id | --number N]",
	Short: "Print the WhatsApp message for an invoice",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		id, err := resolveInvoiceID(ctx, cmd, args)
		if err != nil {
			return err
		}

		_, msg, err := appInstance.InvoiceService.ComposeMessage(ctx, id, appInstance.UserKey())
		if err != nil {
			return fmt.Errorf("failed to compose message: %w", err)
		}

		fmt.Println(msg)
		return nil
	},
}

var invoicesSendCmd = &cobra.Command{
	Use:   "send [id | --number N]",
	Short: "Send an invoice to the customer over WhatsApp",
	Long: `Open WhatsApp with the invoice message addressed to the customer.
If WhatsApp cannot be opened, the message is copied to the clipboard.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		id, err := resolveInvoiceID(ctx, cmd, args)
		if err != nil {
			return err
		}

		phone, _ := cmd.Flags().GetString("phone")

		result, err := appInstance.SendService.Send(ctx, id, appInstance.UserKey(), phone)
		if err != nil {
			// The notifier already explained a missing number
			if errors.Is(err, domain.ErrMissingDestination) {
				return nil
			}
			return fmt.Errorf("failed to send invoice: %w", err)
		}

		switch result.Outcome {
		case domain.OutcomeHandedOff:
			fmt.Printf("✓ Opened WhatsApp for +%s\n", result.Number)
		case domain.OutcomeClipboardFallback:
			if result.ClipboardErr == nil {
				fmt.Println("✓ Message copied to clipboard")
			}
		}
		return nil
	},
}

func init() {
	invoicesCmd.AddCommand(invoicesListCmd)
	invoicesCmd.AddCommand(invoicesShowCmd)
	invoicesCmd.AddCommand(invoicesAddCmd)
	invoicesCmd.AddCommand(invoicesImportCmd)
	invoicesCmd.AddCommand(invoicesDeleteCmd)
	invoicesCmd.AddCommand(invoicesMessageCmd)
	invoicesCmd.AddCommand(invoicesSendCmd)

	// List flags
	invoicesListCmd.Flags().String("customer", "", "Filter by customer name")
	invoicesListCmd.Flags().Int("limit", 0, "Maximum number of invoices to show")

	// Add flags
	invoicesAddCmd.Flags().String("number", "", "Invoice number (generated when empty)")
	invoicesAddCmd.Flags().String("phone", "", "Customer mobile number")
	invoicesAddCmd.Flags().String("date", "", "Invoice date, YYYY-MM-DD (defaults to today)")
	invoicesAddCmd.Flags().StringArray("item", nil, "Line item as name:quantity:total (repeatable)")
	invoicesAddCmd.Flags().Float64("discount", 0, "Discount amount")
	invoicesAddCmd.Flags().Float64("tax", 0, "Tax amount")

	// Lookup by number
	invoicesShowCmd.Flags().String("number", "", "Look up the invoice by number instead of ID")
	invoicesMessageCmd.Flags().String("number", "", "Look up the invoice by number instead of ID")
	invoicesSendCmd.Flags().String("number", "", "Look up the invoice by number instead of ID")

	// Delete flags
	invoicesDeleteCmd.Flags().BoolP("yes", "y", false, "Skip confirmation")

	// Send flags
	invoicesSendCmd.Flags().String("phone", "", "Send to this number instead of the customer's")
}
