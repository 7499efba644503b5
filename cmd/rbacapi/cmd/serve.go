package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/idenning2003/fullstack/internal/api"
	"github.com/idenning2003/fullstack/internal/core/service"
	"github.com/idenning2003/fullstack/internal/infrastructure/security"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the RBAC API server",
	Long:  `Seeds the store, then serves the HTTP API until SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// The pool outlives ctx so in-flight requests can finish hashing
		// during shutdown.
		poolCtx, cancelPool := context.WithCancel(context.Background())
		defer cancelPool()

		a, err := newApp(poolCtx)
		if err != nil {
			return err
		}
		defer a.close(context.Background())

		seeder := service.NewSeeder(a.store, a.hasher, cfg.Admin.Username, cfg.Admin.Password, log)
		if err := seeder.Seed(ctx); err != nil {
			return fmt.Errorf("seed: %w", err)
		}

		codec := security.NewJWTCodec(cfg.Token.SecretBytes, cfg.Token.TTL())
		deps := api.Deps{
			Auth:        service.NewAuthService(a.store, a.hasher, codec, a.guard, time.Now, log),
			Identity:    service.NewIdentityService(a.store, a.hasher, codec, time.Now, log),
			Users:       service.NewUserService(a.store, cfg.Paging.DefaultSize, cfg.Paging.MaxSize, log),
			Roles:       service.NewRoleService(a.store, log),
			Authorities: service.NewAuthorityService(a.store.Authorities, log),
			Mongo:       a.mongoDB,
			Log:         log,
			Clock:       time.Now,
		}
		if a.redis != nil {
			deps.Redis = a.redis
		}
		e := api.NewRouter(deps)

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("port", cfg.Port).Str("store", cfg.Store.Driver).Msg("server starting")
			if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err, ok := <-errCh:
			if ok {
				return fmt.Errorf("server: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown")
		}
		cancelPool()
		log.Info().Msg("server stopped")
		return nil
	},
}
