package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/safewatch/safewatch/internal/devserver"
)

// DevserverCmd returns the devserver command.
func DevserverCmd() *cobra.Command {
	var (
		addr  string
		empty bool
	)
	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Run an in-memory backend for local development",
		Long: `Serve the alert, account and contact procedures from memory with a
small demo data set. Point development_url at the printed address.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend := devserver.New()
			if !empty {
				backend.Seed()
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           backend.Router(devserver.DefaultPrefix),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.ListenAndServe()
			}()
			fmt.Fprintf(cmd.OutOrStdout(), "Serving procedures at http://%s%s\n", displayAddr(addr), devserver.DefaultPrefix)

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("devserver: %w", err)
				}
				return nil
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "localhost:3000", "Listen address")
	cmd.Flags().BoolVar(&empty, "empty", false, "Start without demo data")
	return cmd
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
