package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/idenning2003/fullstack/internal/pkg/config"
	"github.com/idenning2003/fullstack/pkg/logger"
)

var (
	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "rbacapi",
	Short: "RBAC API server",
	Long: `rbacapi authenticates users by username and password, issues bearer tokens
and gates the management API on the authorities granted through roles.

Configuration is read from the environment (TOKEN_SECRET is required).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		log = logger.Init(logger.Options{
			Level:   cfg.LogLevel,
			Pretty:  cfg.IsDevelopment(),
			Service: "rbacapi",
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
