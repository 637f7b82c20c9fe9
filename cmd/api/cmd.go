package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/GregMSThompson/investor-portal/internal/bootstrap"
	"github.com/GregMSThompson/investor-portal/internal/config"
	"github.com/GregMSThompson/investor-portal/internal/router"
)

const shutdownTimeout = 10 * time.Second

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(ctx, cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// stores, registry and services
	app := bootstrap.NewApp(cfg, bs)
	defer app.Close()

	// router
	r := router.NewRouter(app.Deps, app.Auth(cfg, bs))
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		bs.Log.Info("server listening", "addr", srv.Addr, "storage", cfg.Storage, "auth", cfg.AuthMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		bs.Log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	exitOnError("server stopped", g.Wait(), bs.Log)
}
