package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/kongbun/internal/app"
	"github.com/MrJamesThe3rd/kongbun/internal/auth"
	"github.com/MrJamesThe3rd/kongbun/internal/config"
	kongbunHttp "github.com/MrJamesThe3rd/kongbun/internal/http"
	broadcastHandler "github.com/MrJamesThe3rd/kongbun/internal/http/broadcast"
	campaignHandler "github.com/MrJamesThe3rd/kongbun/internal/http/campaign"
	contributionHandler "github.com/MrJamesThe3rd/kongbun/internal/http/contribution"
	exportHandler "github.com/MrJamesThe3rd/kongbun/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/kongbun/internal/http/importcsv"
	topicHandler "github.com/MrJamesThe3rd/kongbun/internal/http/topic"
	"github.com/MrJamesThe3rd/kongbun/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err == nil {
		err = cfg.ValidateAPI()
	}

	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:     cfg.Telemetry.Enabled,
		Endpoint:    cfg.Telemetry.Endpoint,
		ServiceName: cfg.App.Name,
	})
	if err != nil {
		slog.Error("failed to set up tracing", "error", err)
		os.Exit(1)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialise services", "error", err)
		os.Exit(1)
	}
	defer a.DB.Close()

	router := kongbunHttp.New(
		kongbunHttp.Options{
			Verifier:       auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer),
			Timeout:        cfg.Server.Timeout,
			AllowedOrigins: cfg.CORS.AllowedOrigins,
		},
		kongbunHttp.Handlers{
			Topics:        topicHandler.NewHandler(a.Ledger, a.Rollup),
			Campaigns:     campaignHandler.NewHandler(a.Ledger, a.Rollup, a.Resolver),
			Contributions: contributionHandler.NewHandler(a.Ledger, a.Resolver),
			Broadcasts:    broadcastHandler.NewHandler(a.Broadcast),
			Import:        importHandler.NewHandler(a.Importer),
			Export:        exportHandler.NewHandler(a.Export),
		},
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("starting server", "addr", srv.Addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("tracing shutdown failed", "error", err)
	}
}
