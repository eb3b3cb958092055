package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"parcelpoint-web/internal/booking"

	"github.com/spf13/cobra"
)

var paymentsCmd = &cobra.Command{
	Use:   "payments",
	Short: "Inspect the local payment request audit log",
}

var paymentsLimit int

var paymentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent payment requests, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		payments, err := requireStorage().ListPaymentRequests(ctx, paymentsLimit)
		if err != nil {
			slog.Error("Failed to list payment requests", "error", err)
			os.Exit(1)
		}

		if len(payments) == 0 {
			fmt.Println("No payment requests found")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "REFERENCE\tKIND\tDEVICE\tLOCKER\tPHONE\tAMOUNT\tHOURS\tSTATUS\tCREATED AT\tERROR")
		for _, p := range payments {
			locker := p.LockerID
			if locker == "" {
				locker = p.LockerSize
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%s\t%s\t%s\n",
				p.ReferenceID,
				p.Kind,
				p.DeviceID,
				locker,
				booking.MaskPhone(p.PhoneNumber),
				p.Amount,
				p.Hours,
				p.Status,
				p.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				p.Error,
			)
		}
		w.Flush()
	},
}

var pruneOlderThan time.Duration

var paymentsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete payment requests older than the given age",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		if pruneOlderThan <= 0 {
			fmt.Fprintln(os.Stderr, "--older-than must be positive")
			os.Exit(1)
		}

		cutoff := time.Now().UTC().Add(-pruneOlderThan)
		n, err := requireStorage().PrunePaymentRequests(ctx, cutoff)
		if err != nil {
			slog.Error("Failed to prune payment requests", "error", err)
			os.Exit(1)
		}
		fmt.Printf("Deleted %d payment requests created before %s\n", n, cutoff.Local().Format(time.RFC3339))
	},
}

func init() {
	paymentsListCmd.Flags().IntVarP(&paymentsLimit, "limit", "n", 50, "maximum number of rows")
	paymentsPruneCmd.Flags().DurationVar(&pruneOlderThan, "older-than", 90*24*time.Hour, "age of the oldest record to keep")

	paymentsCmd.AddCommand(paymentsListCmd, paymentsPruneCmd)
	rootCmd.AddCommand(paymentsCmd)
}
