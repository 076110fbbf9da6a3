package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"fintrack-go/internal/app"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func serveCmd(rt *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the chat webhook",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), rt)
		},
	}
}

func serve(ctx context.Context, rt *cliState) error {
	log := rt.log
	log.Info("app: starting", "env", rt.cfg.Env, "store", rt.cfg.Store)

	application, err := app.New(ctx, rt.cfg, log)
	if err != nil {
		log.Critical("app: init failed", "err", err)
		return err
	}

	srv := application.HTTPServer()
	log.Info("http: listening", "addr", srv.Addr)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("app: shutdown signal received")
	case err := <-serverErrCh:
		if err != nil {
			log.Critical("http: server failed", "addr", srv.Addr, "err", err)
			runErr = err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("http: graceful shutdown failed", "err", err)
		runErr = errors.Join(runErr, err)
	}
	if err := application.Close(); err != nil {
		log.Error("app: close failed", "err", err)
		runErr = errors.Join(runErr, err)
	}

	if runErr == nil {
		log.Info("app: stopped")
	}
	return runErr
}
