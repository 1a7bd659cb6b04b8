package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"ocean-tracker/internal/core/config"
	"ocean-tracker/internal/core/logger"
	"ocean-tracker/internal/features/shipments/domain"
	"ocean-tracker/internal/features/shipments/ports"
	"ocean-tracker/internal/wire"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// TrackingNumberCmd prints freshly generated tracking numbers.
func TrackingNumberCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "tracking-number",
		Short: "Generate tracking numbers",
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := domain.NewTrackingNumberGenerator()
			for i := 0; i < count; i++ {
				tn, err := gen.Generate()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), tn)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "how many numbers to print")
	return cmd
}

// TrackCmd prints a shipment's tracking history from the configured store.
func TrackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "track <tracking-number>",
		Short: "Show a shipment's tracking history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(svc ports.ShipmentService) error {
				s, err := svc.Track(cmd.Context(), args[0])
				if err != nil {
					return trackError(args[0], err)
				}
				printHistory(cmd.OutOrStdout(), s)
				return nil
			})
		},
	}
}

func printHistory(out io.Writer, s *domain.Shipment) {
	header := fmt.Sprintf("%s  %s  %s → %s", color.New(color.Bold).Sprint(s.TrackingNumber), statusColor(s.Status), s.Origin, s.Destination)
	if s.Status.IsTerminal() {
		header += color.New(color.FgHiBlack).Sprint("  (closed)")
	}
	fmt.Fprintln(out, header)
	for _, e := range s.TrackingHistory {
		fmt.Fprintf(out, "  %s  %-24s %s\n", e.Timestamp.Format("2006-01-02 15:04"), e.Status, color.New(color.FgHiBlack).Sprint(e.Location))
	}
}

// trackError adds a format hint when a lookup misses on input that is not shaped like a generated number.
func trackError(input string, err error) error {
	tn := strings.ToUpper(strings.TrimSpace(input))
	if errors.Is(err, domain.ErrNotFound) && !domain.IsTrackingNumber(tn) {
		return fmt.Errorf("%w (generated numbers look like OCT12345678AB9Z)", err)
	}
	return err
}

func statusColor(s domain.Status) string {
	switch s {
	case domain.StatusDeliveryCompleted, domain.StatusDelivered, domain.StatusDeliveredToRecipient:
		return color.New(color.FgHiGreen).Sprint(s)
	case domain.StatusDelayed, domain.StatusHandoverRequested, domain.StatusPickupRequested:
		return color.New(color.FgYellow).Sprint(s)
	case domain.StatusCancelled:
		return color.New(color.FgRed).Sprint(s)
	case domain.StatusInTransit, domain.StatusPickedUp:
		return color.New(color.FgCyan).Sprint(s)
	default:
		return color.New(color.FgWhite).Sprint(s)
	}
}

// withService wires the configured store for the duration of fn.
func withService(ctx context.Context, fn func(svc ports.ShipmentService) error) error {
	cfg, err := config.Load(".")
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Environment, "warn"); err != nil {
		return err
	}
	defer logger.Sync()

	c, err := wire.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Close(context.Background())

	return fn(c.Service)
}
