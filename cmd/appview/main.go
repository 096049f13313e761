package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/smslycloud/codeweb/appview"
	"github.com/smslycloud/codeweb/appview/state"
	"github.com/smslycloud/codeweb/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l := log.New("appview")
	slog.SetDefault(l)

	c, err := appview.LoadConfig(ctx)
	if err != nil {
		l.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if c.Debug {
		l = log.NewDebug("appview")
		slog.SetDefault(l)
	}
	if c.Dev {
		l.Info("running in dev mode, session cookies are not marked secure")
	}

	s, err := state.Make(c, l)
	if err != nil {
		l.Error("failed to setup state", "error", err)
		os.Exit(1)
	}
	defer s.Close()

	go s.PurgeSessions(ctx, time.Hour)

	srv := &http.Server{
		Addr:              c.ListenAddr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	l.Info("starting server", "address", c.ListenAddr, "api", c.APIEndpoint)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.Error("server error", "error", err)
	}
}
