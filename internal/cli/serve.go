package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/crosswire/internal/server"
)

const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command, which runs the HTTP API until
// the command context is cancelled.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noCache   bool
		noArchive bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP conversion API",
		Long: `Run the HTTP conversion API.

Endpoints:
  POST /v1/convert/{format}   convert the request body
  POST /v1/inspect            summarize the request body
  GET  /v1/puzzles            list archived puzzles (also POST, GET/DELETE /{id})
  GET  /healthz               build info`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.Config.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := server.Options{}
			if !noArchive {
				arc, err := c.openArchive(ctx)
				if err != nil {
					return err
				}
				defer arc.Close()
				opts.Archive = arc
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           server.New(runner, c.Logger, opts),
				ReadHeaderTimeout: 10 * time.Second,
			}
			errc := make(chan error, 1)
			go func() { errc <- srv.ListenAndServe() }()
			c.Logger.Info("listening", "addr", addr, "archive", !noArchive)

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}
			c.Logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the conversion cache")
	cmd.Flags().BoolVar(&noArchive, "no-archive", false, "do not mount the /v1/puzzles routes")
	return cmd
}
