package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"parcelpoint-web/internal/booking"
	"parcelpoint-web/internal/config"
	"parcelpoint-web/internal/wizard"

	qrcode "github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"
)

var bookingCmd = &cobra.Command{
	Use:   "booking",
	Short: "Booking and extension link tools",
}

var (
	linkBaseURL string
	linkQRFile  string
)

var bookingLinkCmd = &cobra.Command{
	Use:   "link <device-id> <locker-id>",
	Short: "Generate an extension link for a locker",
	Long:  `Generate the link printed on a locker for extending an active booking. Optionally writes the link as a QR code PNG.`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		origin := linkBaseURL
		if origin == "" {
			origin = cfg.BaseURL
		}
		if origin == "" {
			fmt.Fprintln(os.Stderr, "Base URL is not configured, use --base-url")
			os.Exit(1)
		}

		link := booking.GenerateExtensionLink(origin, args[0], args[1])
		fmt.Println(link)

		if linkQRFile == "" {
			return
		}
		png, err := qrcode.Encode(link, qrcode.Medium, config.QR_IMAGE_SIZE)
		if err != nil {
			slog.Error("Error generating QR code", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(linkQRFile, png, 0644); err != nil {
			slog.Error("Error saving QR code", "error", err, "file", linkQRFile)
			os.Exit(1)
		}
		slog.Debug("QR code saved", "file", linkQRFile)
	},
}

var bookingDecodeCmd = &cobra.Command{
	Use:   "decode <token>",
	Short: "Decode an extension link token",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		target, ok := booking.DecodeExtensionToken(args[0])
		if !ok {
			fmt.Fprintln(os.Stderr, "Invalid extension token")
			os.Exit(1)
		}
		fmt.Printf("Device: %s\nLocker: %s\n", target.DeviceID, target.LockerID)
	},
}

var bookingLookupCmd = &cobra.Command{
	Use:   "lookup <device-id> <phone>",
	Short: "Show the active booking for a phone number at a device",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		phone := wizard.FormatPhoneNumber(args[1])
		if !wizard.ValidatePhoneNumber(phone) {
			fmt.Fprintf(os.Stderr, "Invalid phone number %q\n", args[1])
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), CLI_TIMEOUT)
		defer cancel()

		svc, _, err := newBookingService(cliConfig(), nil)
		if err != nil {
			slog.Error("Failed to initialize booking service", "error", err)
			os.Exit(1)
		}

		b, err := svc.GetBookingDetails(ctx, args[0], phone)
		if errors.Is(err, booking.ErrBookingNotFound) {
			fmt.Printf("No booking found for %s at %s\n", booking.MaskPhone(phone), args[0])
			return
		} else if err != nil {
			slog.Error("Failed to look up booking", "error", err)
			os.Exit(1)
		}

		fmt.Printf("Booking:  %s\n", b.BookingID)
		fmt.Printf("Locker:   %d\n", b.LockerID)
		fmt.Printf("Phone:    %s\n", booking.MaskPhone(b.OwnerPhoneNo))
		fmt.Printf("Status:   %s\n", b.Status)
		fmt.Printf("Created:  %s\n", b.CreatedAt.Local().Format("2006-01-02 15:04"))
		fmt.Printf("Expires:  %s\n", b.ExpiresAt.Local().Format("2006-01-02 15:04"))
	},
}

func init() {
	bookingLinkCmd.Flags().StringVar(&linkBaseURL, "base-url", "", "public origin of the site (default from config)")
	bookingLinkCmd.Flags().StringVar(&linkQRFile, "qr", "", "write the link as a QR code PNG to this file")

	bookingCmd.AddCommand(bookingLinkCmd, bookingDecodeCmd, bookingLookupCmd)
	rootCmd.AddCommand(bookingCmd)
}
