package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/InVisionApp/go-logger"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.opencensus.io/stats/view"
	"golang.org/x/time/rate"

	health "github.com/hirenkeraliya/go-health"
	healthhttp "github.com/hirenkeraliya/go-health/http"
	"github.com/hirenkeraliya/go-health/opencensus"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(opts *Options) *cobra.Command {
	var (
		addr           string
		path           string
		classification string
		freshPerMinute int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the due checks every minute and expose their results over HTTP",
		Args:  cobra.NoArgs,

		RunE: func(cmd *cobra.Command, _ []string) error {
			listener := opencensus.NewMetricsListener(
				opencensus.WithClassification(classification),
				opencensus.WithLogger(opts.logger),
			)
			if err := view.Register(listener.DefaultViews()...); err != nil {
				return errors.Wrap(err, "register metric views")
			}
			defer view.Unregister(listener.DefaultViews()...)

			h, err := opts.newHealth(
				health.WithCheckListeners(listener),
				health.WithHealthListeners(listener),
			)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			h.Start(ctx)
			defer h.Stop()

			mux := http.NewServeMux()
			var handlerOpts []healthhttp.HandlerOption
			if freshPerMinute > 0 {
				handlerOpts = append(handlerOpts, healthhttp.WithFreshLimit(rate.Every(time.Minute/time.Duration(freshPerMinute)), 1))
			}
			mux.Handle(path, healthhttp.HandleHealthJSON(h, handlerOpts...))
			server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

			serveErr := make(chan error, 1)
			go func() {
				serveErr <- server.ListenAndServe()
			}()
			opts.logger.WithFields(log.Fields{"addr": addr, "path": path}).Info("serving health")

			select {
			case err := <-serveErr:
				return errors.Wrap(err, "serve health")
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return errors.Wrap(err, "shutdown")
			}
			opts.logger.Info("stopped")

			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "address to listen on")
	cmd.Flags().StringVar(&path, "path", "/health", "path of the health endpoint")
	cmd.Flags().IntVar(&freshPerMinute, "fresh-per-minute", 6, "how many ?fresh=true requests per minute may run the checks, 0 for unlimited")
	cmd.Flags().StringVar(&classification, "classification", "", "classification tag of the exported metrics, e.g. liveness")

	return cmd
}
