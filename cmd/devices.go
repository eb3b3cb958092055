package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"parcelpoint-web/internal/api"
	"parcelpoint-web/internal/config"

	"github.com/spf13/cobra"
)

const CLI_TIMEOUT = 30 * time.Second

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Inspect locker stations",
	Long:  `Query the ParcelPoint API for locker stations and their availability.`,
}

var devicesListAll bool

var devicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List locker stations with available lockers per size",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), CLI_TIMEOUT)
		defer cancel()

		svc, _, err := newBookingService(cliConfig(), nil)
		if err != nil {
			slog.Error("Failed to initialize booking service", "error", err)
			os.Exit(1)
		}

		devices, err := svc.GetDevicesOverview(ctx)
		if err != nil {
			slog.Error("Failed to list devices", "error", err)
			os.Exit(1)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DEVICE ID\tNAME\tSTATUS\tSMALL\tMEDIUM\tLARGE\tAVAILABLE\tLAST SEEN")
		shown := 0
		for _, device := range devices {
			if !devicesListAll && !device.IsActive() {
				continue
			}
			shown++
			status := "active"
			if !device.IsActive() {
				status = "inactive"
			}
			lastSeen := ""
			if device.LastSeen != nil {
				lastSeen = device.LastSeen.Local().Format("2006-01-02 15:04:05")
			}
			m := device.LockerMetrics
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d/%d\t%s\n",
				device.ID,
				device.Name,
				status,
				sizeColumn(m.Small),
				sizeColumn(m.Medium),
				sizeColumn(m.Large),
				m.TotalAvailable,
				m.Total,
				lastSeen,
			)
		}
		w.Flush()

		if shown == 0 {
			fmt.Println("No locker stations found")
		}
	},
}

func sizeColumn(m api.LockerSizeMetric) string {
	return fmt.Sprintf("%d/%d", m.Available, m.Total)
}

// cliConfig is the loaded configuration with the overview cache disabled,
// so commands always show live data.
func cliConfig() *config.Config {
	c := *cfg
	c.Cache.Type = "none"
	return &c
}

func init() {
	devicesListCmd.Flags().BoolVarP(&devicesListAll, "all", "a", false, "include inactive stations")
	devicesCmd.AddCommand(devicesListCmd)
	rootCmd.AddCommand(devicesCmd)
}
