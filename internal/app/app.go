// Package app builds the ledger services from configuration.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/kongbun/internal/broadcast"
	"github.com/MrJamesThe3rd/kongbun/internal/config"
	"github.com/MrJamesThe3rd/kongbun/internal/database"
	"github.com/MrJamesThe3rd/kongbun/internal/export"
	"github.com/MrJamesThe3rd/kongbun/internal/importer"
	"github.com/MrJamesThe3rd/kongbun/internal/ledger"
	"github.com/MrJamesThe3rd/kongbun/internal/ledger/store"
	"github.com/MrJamesThe3rd/kongbun/internal/lifecycle"
	"github.com/MrJamesThe3rd/kongbun/internal/media"
	"github.com/MrJamesThe3rd/kongbun/internal/notify"
	"github.com/MrJamesThe3rd/kongbun/internal/rollup"
)

type App struct {
	DB        *sql.DB
	Resolver  media.Resolver
	Ledger    *ledger.Service
	Rollup    *rollup.Service
	Broadcast *broadcast.Service
	Importer  *importer.Service
	Export    *export.Service
}

// New opens the database, applies migrations and wires every service.
// The caller closes App.DB.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	dialect, err := database.ParseDialect(cfg.DB.Driver)
	if err != nil {
		return nil, err
	}

	policy, err := lifecycle.PolicyByName(cfg.Ledger.CampaignTransitions)
	if err != nil {
		return nil, err
	}

	resolver, err := newResolver(ctx, cfg)
	if err != nil {
		return nil, err
	}

	db, err := database.Open(dialect, cfg.ConnectionString())
	if err != nil {
		return nil, err
	}

	st := store.New(db, dialect)

	ledgerSvc := ledger.NewService(st,
		ledger.WithTransitionPolicy(policy),
		ledger.WithRequireOpenCampaign(cfg.Ledger.RequireOpenCampaign),
	)

	return &App{
		DB:        db,
		Resolver:  resolver,
		Ledger:    ledgerSvc,
		Rollup:    rollup.NewService(st),
		Broadcast: broadcast.NewService(st, newDispatcher(cfg)),
		Importer:  importer.NewService(ledgerSvc, importer.NewParser()),
		Export:    export.NewService(ledgerSvc, resolver),
	}, nil
}

func newResolver(ctx context.Context, cfg *config.Config) (media.Resolver, error) {
	switch cfg.Media.Driver {
	case "url":
		r, err := media.NewBaseURL(cfg.Media.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("configuring slip storage: %w", err)
		}

		return r, nil
	case "s3":
		r, err := media.NewS3(ctx, media.S3Config{
			Bucket:   cfg.Media.S3Bucket,
			Region:   cfg.Media.S3Region,
			Endpoint: cfg.Media.S3Endpoint,
			TTL:      cfg.Media.PresignTTL,
		})
		if err != nil {
			return nil, fmt.Errorf("configuring slip storage: %w", err)
		}

		return r, nil
	}

	return media.Passthrough{}, nil
}

func newDispatcher(cfg *config.Config) broadcast.Dispatcher {
	if cfg.Notify.WebhookURL == "" {
		slog.Warn("no broadcast webhook configured, broadcasts will only be logged")
		return notify.Log{}
	}

	return notify.NewWebhook(cfg.Notify.WebhookURL,
		notify.WithBearerToken(cfg.Notify.Token),
		notify.WithHTTPClient(&http.Client{Timeout: cfg.Notify.Timeout}),
	)
}
