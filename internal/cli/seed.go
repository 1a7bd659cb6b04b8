package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"ocean-tracker/internal/features/shipments/domain"
	"ocean-tracker/internal/features/shipments/ports"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var seedAdmin = domain.Actor{Role: domain.RoleAdmin, ID: "seed", UserID: "SEED", Name: "octctl seed"}

var seedRoutes = []struct {
	origin, destination string
}{
	{"Colombo", "Kandy"},
	{"Colombo", "Galle"},
	{"Negombo", "Jaffna"},
	{"Kandy", "Trincomalee"},
	{"Galle", "Matara"},
}

// SeedCmd inserts sample shipments through the admin path.
func SeedCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert sample shipments into the configured store",
		Long: `Insert sample shipments spread over every status.

Examples:
  octctl seed            # 10 shipments
  octctl seed -n 50`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(svc ports.ShipmentService) error {
				return seed(cmd.Context(), svc, count, cmd.OutOrStdout())
			})
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 10, "number of shipments to create")
	return cmd
}

func seed(ctx context.Context, svc ports.ShipmentService, count int, out io.Writer) error {
	statuses := domain.AllStatuses()
	for i := 0; i < count; i++ {
		route := seedRoutes[i%len(seedRoutes)]
		status := statuses[i%len(statuses)]

		s, err := svc.CreateDirect(ctx, seedAdmin, domain.DirectRequest{
			Status:            status,
			Origin:            route.origin,
			Destination:       route.destination,
			EstimatedDelivery: time.Now().UTC().Add(domain.EstimatedDeliveryWindow),
			SenderName:        fmt.Sprintf("Sample Sender %d", i+1),
			RecipientName:     fmt.Sprintf("Sample Recipient %d", i+1),
			ItemTypes:         []string{"Documents"},
		})
		if err != nil {
			return fmt.Errorf("seed %d: %w", i+1, err)
		}
		fmt.Fprintf(out, "%s %s %s\n", color.New(color.FgHiGreen).Sprint("✓"), s.TrackingNumber, statusColor(s.Status))
	}
	return nil
}
