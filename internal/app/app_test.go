package app_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/kongbun/internal/app"
	"github.com/MrJamesThe3rd/kongbun/internal/config"
	"github.com/MrJamesThe3rd/kongbun/internal/lifecycle"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{}
	cfg.DB.Driver = "sqlite"
	cfg.DB.Path = filepath.Join(t.TempDir(), "app.db")
	cfg.Media.Driver = "none"

	return cfg
}

func TestNew(t *testing.T) {
	t.Run("SQLite", func(t *testing.T) {
		cfg := sqliteConfig(t)
		cfg.Media.Driver = "url"
		cfg.Media.BaseURL = "https://cdn.example.test"
		cfg.Ledger.CampaignTransitions = lifecycle.PolicyForward

		a, err := app.New(context.Background(), cfg)
		require.NoError(t, err)
		t.Cleanup(func() { a.DB.Close() })

		assert.NotNil(t, a.Ledger)
		assert.NotNil(t, a.Rollup)
		assert.NotNil(t, a.Broadcast)
		assert.NotNil(t, a.Importer)
		assert.NotNil(t, a.Export)

		url, err := a.Resolver.Resolve(context.Background(), "slips/a.jpg")
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.test/slips/a.jpg", url)
	})

	t.Run("UnknownDriver", func(t *testing.T) {
		cfg := sqliteConfig(t)
		cfg.DB.Driver = "mysql"

		_, err := app.New(context.Background(), cfg)
		assert.ErrorContains(t, err, "mysql")
	})

	t.Run("UnknownPolicy", func(t *testing.T) {
		cfg := sqliteConfig(t)
		cfg.Ledger.CampaignTransitions = "sideways"

		_, err := app.New(context.Background(), cfg)
		assert.ErrorIs(t, err, lifecycle.ErrUnknownPolicy)
	})

	t.Run("RelativeMediaURL", func(t *testing.T) {
		cfg := sqliteConfig(t)
		cfg.Media.Driver = "url"
		cfg.Media.BaseURL = "cdn/slips"

		_, err := app.New(context.Background(), cfg)
		assert.Error(t, err)
	})
}
