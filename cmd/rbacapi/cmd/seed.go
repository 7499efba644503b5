package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idenning2003/fullstack/internal/core/service"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the default authorities, roles and admin user",
	Long: `Creates AUTHORITY_READ, USER_READ, USER_WRITE, ROLE_READ and ROLE_WRITE, the
ADMIN and USER roles, and the admin account from ADMIN_USERNAME/ADMIN_PASSWORD.
Anything that already exists is left as is. serve runs the same step on start.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close(context.Background())

		seeder := service.NewSeeder(a.store, a.hasher, cfg.Admin.Username, cfg.Admin.Password, log)
		if err := seeder.Seed(ctx); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "seed complete")
		return nil
	},
}
