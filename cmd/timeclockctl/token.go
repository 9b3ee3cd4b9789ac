package main

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/config"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/jwt"
	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	var (
		companyID string
		subject   string
		role      string
		ttl       string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for an admin or an attendance device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := jwt.Role(role)
			if r != jwt.RoleAdmin && r != jwt.RoleDevice {
				return fmt.Errorf("--role must be %q or %q", jwt.RoleAdmin, jwt.RoleDevice)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if ttl == "" {
				ttl = cfg.JWT.AccessExpiration
			}

			token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, ttl).GenerateAccessToken(subject, companyID, r)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", time.Unix(expiresAt, 0).UTC().Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&companyID, "company", "", "Company ID the token is scoped to")
	cmd.Flags().StringVar(&subject, "subject", "timeclockctl", "Token subject, such as a device serial")
	cmd.Flags().StringVar(&role, "role", string(jwt.RoleAdmin), "admin or device")
	cmd.Flags().StringVar(&ttl, "ttl", "", "Token lifetime, e.g. 720h (default JWT_ACCESS_EXPIRATION_TIME)")
	_ = cmd.MarkFlagRequired("company")
	return cmd
}
