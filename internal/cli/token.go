package cli

import (
	"fmt"
	"time"

	"ocean-tracker/internal/core/auth"
	"ocean-tracker/internal/core/config"

	"github.com/spf13/cobra"
)

// TokenCmd mints an x-auth-token for local testing.
func TokenCmd() *cobra.Command {
	var (
		secret string
		claims auth.Claims
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a signed x-auth-token for local testing",
		Long: `Mint an HS256 token with the claims the API expects.

The secret defaults to JWT_SECRET from the environment or .env.

Examples:
  octctl token --role admin --id a1
  octctl token --role driver --id d1 --user-id D1 --name "Jane Doe" --ttl 8h`,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch claims.Role {
			case auth.RoleAdmin, auth.RoleUser, auth.RoleDriver:
			default:
				return fmt.Errorf("invalid role %q: must be admin, user or driver", claims.Role)
			}
			if claims.ID == "" {
				return fmt.Errorf("--id is required")
			}

			if secret == "" {
				cfg, err := config.Load(".")
				if err != nil {
					return err
				}
				secret = cfg.Auth.JWTSecret
			}

			token, err := auth.Issue(secret, claims, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "signing secret (defaults to JWT_SECRET)")
	cmd.Flags().StringVar(&claims.Role, "role", auth.RoleUser, "role claim: admin, user or driver")
	cmd.Flags().StringVar(&claims.ID, "id", "", "internal account id")
	cmd.Flags().StringVar(&claims.UserID, "user-id", "", "external user id (drivers are assigned by it)")
	cmd.Flags().StringVar(&claims.Name, "name", "", "display name")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime, 0 for no expiry")

	return cmd
}
