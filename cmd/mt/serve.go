package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	httpadapter "github.com/meetingtool/mt/internal/adapter/http"
	"github.com/meetingtool/mt/internal/adapter/configfile"
	"github.com/meetingtool/mt/internal/usecase/join"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(v *viper.Viper) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve today's agenda and meeting redirects over HTTP",
		Long: `serve exposes the schedule read-only:

  GET /api/agenda           today's entries and the current selection
  GET /api/meetings/{alias} the URL for a name or alias
  GET /go                   redirect to the current meeting
  GET /go/{alias}           redirect to a meeting by name or alias`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prof, log, err := setup(v)
			if err != nil {
				return err
			}
			defer log.Sync()

			svc := join.New(configfile.New(prof.ConfigPath), nil, log)
			if err := svc.Check(cmd.Context(), false); err != nil {
				return errors.Wrapf(err, "check %s", prof.ConfigPath)
			}
			return serve(cmd.Context(), addr, svc, log, func(a string) {
				fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", a)
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8765", "Listen address")
	return cmd
}

// serve binds addr, reports the bound address through ready, and runs
// until ctx is done, then shuts the server down gracefully.
func serve(ctx context.Context, addr string, src httpadapter.AgendaSource, log *zap.Logger, ready func(string)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrap(err, "http server")
	}

	mux := http.NewServeMux()
	httpadapter.NewHandler(src, log).RegisterRoutes(mux)
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	bound := ln.Addr().String()
	errCh := make(chan error, 1)
	go func() {
		log.Info("http server started", zap.String("addr", bound))
		errCh <- srv.Serve(ln)
	}()
	ready(bound)

	select {
	case err := <-errCh:
		return errors.Wrap(err, "http server")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Info("http server stopping")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	return nil
}
