package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/carolinadevia11/coparently/internal/api"
	"github.com/carolinadevia11/coparently/internal/auth"
	"github.com/carolinadevia11/coparently/internal/export"
	"github.com/carolinadevia11/coparently/internal/money"
	"github.com/carolinadevia11/coparently/internal/receipt"
	"github.com/carolinadevia11/coparently/internal/tracker"
	"github.com/carolinadevia11/coparently/logging"
)

func main() {
	exportPath := flag.String("export", "", "write an expense report to this .xlsx or .csv file")
	receiptID := flag.String("receipt", "", "stage the receipt of this expense ID for viewing")
	flag.Parse()

	if err := logging.Init(os.Getenv("LOG_LEVEL")); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}

	logging.Logger.Info("coparently expense tracker starting...")

	baseURL := os.Getenv("API_BASE_URL")
	if baseURL == "" {
		logging.Logger.Error("API_BASE_URL environment variable is not set")
		os.Exit(1)
	}
	cred := auth.FromEnv()
	if err := cred.Check(); err != nil {
		logging.Logger.Errorf("credential check failed: %v", err)
		os.Exit(1)
	}

	client := api.NewClient(baseURL, cred)
	t := tracker.New(client)

	ctx := context.Background()
	if err := t.Start(ctx); err != nil {
		logging.Logger.Errorf("startup failed: %v", err)
		os.Exit(1)
	}

	printOverview(t)

	if *exportPath != "" {
		if err := writeReport(t, *exportPath); err != nil {
			logging.Logger.Errorf("report export failed: %v", err)
			os.Exit(1)
		}
		logging.Logger.Infof("report written to %s", *exportPath)
	}

	if *receiptID != "" {
		if err := viewReceipt(ctx, t, baseURL, cred, *receiptID); err != nil {
			logging.Logger.Errorf("receipt viewing failed: %v", err)
			os.Exit(1)
		}
	}
}

func printOverview(t *tracker.Tracker) {
	summary := t.Summary()
	fmt.Println("Shared expenses")
	fmt.Printf("  Total: %s  You owe: %s  Owed to you: %s\n",
		money.FormatUSD(summary.TotalAmount),
		money.FormatUSD(summary.UserOwes),
		money.FormatUSD(summary.UserOwed))
	fmt.Printf("  Pending: %d  Approved: %d  Disputed: %d  Paid: %d\n",
		summary.PendingCount, summary.ApprovedCount, summary.DisputedCount, summary.PaidCount)

	expenses := t.Expenses()
	if len(expenses) == 0 {
		fmt.Println("  No expenses yet.")
		return
	}
	for _, e := range expenses {
		fmt.Printf("  %s  %-30s %-10s %-8s paid by %s, your share %s\n",
			e.Date.Format("2006-01-02"),
			e.Description,
			e.Category,
			e.Status,
			t.PayerLabel(e.PaidBy),
			money.FormatUSD(t.ViewerShare(e)))
	}
}

// viewReceipt stages the expense's receipt as a local copy and removes it once
// the viewer is done, or after the handle's TTL, whichever comes first.
func viewReceipt(ctx context.Context, t *tracker.Tracker, baseURL string, cred auth.Credential, id string) error {
	for _, e := range t.Expenses() {
		if e.ID != id {
			continue
		}
		if !e.HasReceipt() {
			return fmt.Errorf("expense %q has no receipt attached", id)
		}
		h, err := receipt.NewRetriever(baseURL).Fetch(ctx, e.ReceiptURL, cred)
		if err != nil {
			return err
		}
		fmt.Printf("Receipt staged at %s (removed automatically after %s)\n", h.Path(), receipt.DefaultHandleTTL)
		fmt.Println("Press Enter when finished viewing.")
		fmt.Scanln()
		h.Release()
		return nil
	}
	return fmt.Errorf("expense %q not found", id)
}

func writeReport(t *tracker.Tracker, path string) error {
	report := export.Report{
		Viewer:      t.ViewerEmail(),
		Expenses:    t.Expenses(),
		Summary:     t.Summary(),
		PayerLabel:  t.PayerLabel,
		ViewerShare: t.ViewerShare,
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return report.WriteXLSX(file)
	case ".csv":
		return report.WriteCSV(file)
	default:
		return fmt.Errorf("unsupported report format %q, use .xlsx or .csv", filepath.Ext(path))
	}
}
