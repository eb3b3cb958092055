package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"parcelpoint-web/internal/storage"

	"github.com/spf13/cobra"
)

var messagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "Review contact and account deletion submissions",
}

var (
	messagesKind  string
	messagesLimit int
)

var messagesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored form submissions, newest first",
	Long:  `List stored form submissions. Valid kinds: contact, account_deletion. Empty lists both.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		kind := storage.MessageKind(messagesKind)
		switch kind {
		case "", storage.MessageKindContact, storage.MessageKindAccountDeletion:
		default:
			slog.Error("Invalid kind", "kind", messagesKind)
			fmt.Println("Valid kinds: contact, account_deletion")
			os.Exit(1)
		}

		messages, err := requireStorage().ListMessages(ctx, kind, messagesLimit)
		if err != nil {
			slog.Error("Failed to list messages", "error", err)
			os.Exit(1)
		}

		if len(messages) == 0 {
			fmt.Println("No messages found")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tKIND\tNAME\tEMAIL\tPHONE\tCREATED AT\tMESSAGE")
		for _, m := range messages {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				m.ID,
				m.Kind,
				m.Name,
				m.Email,
				m.Phone,
				m.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				preview(m.Body, 60),
			)
		}
		w.Flush()
	},
}

// preview flattens body to a single line of at most n runes.
func preview(body string, n int) string {
	line := strings.Join(strings.Fields(body), " ")
	if r := []rune(line); len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return line
}

func init() {
	messagesListCmd.Flags().StringVarP(&messagesKind, "kind", "k", "", "only list this kind")
	messagesListCmd.Flags().IntVarP(&messagesLimit, "limit", "n", 50, "maximum number of rows")

	messagesCmd.AddCommand(messagesListCmd)
	rootCmd.AddCommand(messagesCmd)
}
