package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/formsmith/internal/httpapi"
)

func newServeCmd(c *cli) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the forms HTTP API",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger := c.logger(cmd, true)
			svc, closeStore, err := c.attachStore(ctx, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			if addr == "" {
				addr = c.cfg.GetString(cfgKeyHTTPAddr)
			}
			handler := httpapi.NewHandler(httpapi.Config{
				Logger:         logger,
				Forms:          svc,
				AllowedOrigins: allowedOrigins(c.cfg),
				Auth: httpapi.AuthConfig{
					Secret:   []byte(c.cfg.GetString(cfgKeyJWTSecret)),
					Issuer:   c.cfg.GetString(cfgKeyJWTIssuer),
					Audience: c.cfg.GetString(cfgKeyJWTAudience),
				},
			})
			if err := httpapi.Serve(ctx, addr, handler.Router(), logger); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: http.addr from config, \":5000\")")
	return cmd
}

