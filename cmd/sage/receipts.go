package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okaimono/sage/internal/cli"
)

func receiptsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "receipts",
		Short: "Manage your receipt history",
	}
	cmd.AddCommand(receiptsListCmd())
	cmd.AddCommand(receiptsShowCmd())
	cmd.AddCommand(receiptsEditCmd())
	cmd.AddCommand(receiptsDeleteCmd())
	cmd.AddCommand(receiptsClearCmd())
	return cmd
}

func receiptsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your analyzed receipts, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			userID, err := requireUser()
			if err != nil {
				return err
			}
			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to open storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			receipts, err := store.GetReceiptsByUser(ctx, userID)
			if err != nil {
				return fmt.Errorf("failed to load receipts: %w", err)
			}
			if len(receipts) == 0 {
				cmd.Println(cli.SubtleStyle.Render("No receipts yet."))
				return nil
			}

			cmd.Println(cli.TitleStyle.Render(cli.ReceiptIcon + " Receipts"))
			for _, receipt := range receipts {
				storeName := receipt.StoreName
				if storeName == "" {
					storeName = "(unknown store)"
				}
				cmd.Printf("%s  %s  %s  %s\n",
					receipt.ID,
					receipt.PurchaseDate,
					storeName,
					cli.SubtleStyle.Render(receipt.CreatedAt.Format("2006-01-02 15:04")))
			}
			return nil
		},
	}
}

func receiptsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <receipt-id>",
		Short: "Print one receipt's stored analysis JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			userID, err := requireUser()
			if err != nil {
				return err
			}
			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to open storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			receipt, err := store.GetReceiptByID(ctx, args[0], userID)
			if err != nil {
				return fmt.Errorf("failed to load receipt: %w", err)
			}
			cmd.Println(receipt.Result)
			return nil
		},
	}
}

func receiptsEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <receipt-id>",
		Short: "Replace a receipt's stored analysis JSON",
		Long: `Replace the stored analysis payload of one receipt. The new JSON is
read from --file, or from stdin when --file is omitted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			userID, err := requireUser()
			if err != nil {
				return err
			}
			file, _ := cmd.Flags().GetString("file")

			var payload []byte
			if file == "" || file == "-" {
				payload, err = io.ReadAll(os.Stdin)
			} else {
				payload, err = os.ReadFile(file)
			}
			if err != nil {
				return fmt.Errorf("failed to read new payload: %w", err)
			}
			result := strings.TrimSpace(string(payload))
			if result == "" {
				return fmt.Errorf("new payload is empty")
			}

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to open storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			if _, err := store.UpdateReceiptResult(ctx, args[0], userID, result); err != nil {
				return fmt.Errorf("failed to update receipt: %w", err)
			}
			cmd.Println("Receipt updated")
			return nil
		},
	}
	cmd.Flags().String("file", "", "file with the replacement JSON (default: stdin)")
	return cmd
}

func receiptsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <receipt-id>",
		Short: "Delete one receipt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			userID, err := requireUser()
			if err != nil {
				return err
			}
			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to open storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteReceipt(ctx, args[0], userID); err != nil {
				return fmt.Errorf("failed to delete receipt: %w", err)
			}
			cmd.Println("Receipt deleted")
			return nil
		},
	}
}

func receiptsClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete your entire receipt history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			userID, err := requireUser()
			if err != nil {
				return err
			}
			confirmed, _ := cmd.Flags().GetBool("yes")
			if !confirmed {
				return fmt.Errorf("pass --yes to confirm deleting all receipts")
			}

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to open storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteReceiptsByUser(ctx, userID); err != nil {
				return fmt.Errorf("failed to clear receipts: %w", err)
			}
			cmd.Println("Receipt history cleared")
			return nil
		},
	}
	cmd.Flags().Bool("yes", false, "confirm deletion")
	return cmd
}
