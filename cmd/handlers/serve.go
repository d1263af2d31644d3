package handlers

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"postforge/internal/config"
	"postforge/internal/logger"
	"postforge/internal/server"
)

// NewServeCmd creates the serve command for starting the HTTP server.
func NewServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the postforge JSON API server.

Clients identify themselves with an X-User-ID header; shared posts under
/api/shares/{id} are public.

Examples:
  # Start on the configured address (default :8080)
  postforge serve

  # Start on a custom address
  postforge serve --addr :3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config: :8080)")
	return cmd
}

func runServe(ctx context.Context, addr string) error {
	log := logger.Get()

	serverCfg := config.Get().Server
	if addr != "" {
		serverCfg.Addr = addr
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	srv := server.New(st, buildGenerator(st), serverCfg)

	serverErrors := make(chan error, 1)
	go func() {
		log.Info(fmt.Sprintf("Server listening on %s", serverCfg.Addr))
		serverErrors <- srv.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return err
	case sig := <-shutdown:
		log.Info("shutdown signal received", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	return nil
}
