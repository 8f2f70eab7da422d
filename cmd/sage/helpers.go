package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/okaimono/sage/internal/canonical"
	"github.com/okaimono/sage/internal/common"
	"github.com/okaimono/sage/internal/config"
	"github.com/okaimono/sage/internal/engine"
	"github.com/okaimono/sage/internal/estat"
	"github.com/okaimono/sage/internal/service"
	"github.com/okaimono/sage/internal/storage"
	"github.com/okaimono/sage/internal/vision"
)

// initStorage opens the configured database with migrations applied.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	} else {
		dbPath = config.ExpandPath(dbPath)
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

// requireUser returns the acting user id from flags or configuration.
func requireUser() (string, error) {
	userID := viper.GetString("user.id")
	if userID == "" {
		return "", fmt.Errorf("user id is required: pass --user or set SAGE_USER_ID")
	}
	return userID, nil
}

// initPriceSource builds the e-Stat client when configured. Without an
// application id every lookup reports not-found, so analysis still works
// with explicit "no reference" judgments.
func initPriceSource() engine.PriceSource {
	appID := viper.GetString("estat.app_id")
	if appID == "" {
		return nil
	}

	client, err := estat.NewClient(estat.Config{
		AppID:       appID,
		BaseURL:     viper.GetString("estat.base_url"),
		StatsDataID: viper.GetString("estat.stats_data_id"),
		Timeout:     viper.GetDuration("estat.timeout"),
	})
	if err != nil {
		return nil
	}
	return client
}

// initVision builds the vision client when configured.
func initVision() (vision.Client, error) {
	apiKey := viper.GetString("gemini.api_key")
	if apiKey == "" {
		return nil, fmt.Errorf("vision analysis requires gemini.api_key (SAGE_GEMINI_API_KEY)")
	}
	return vision.NewClient(vision.Config{
		APIKey:        apiKey,
		BaseURL:       viper.GetString("gemini.base_url"),
		Model:         viper.GetString("gemini.model"),
		FallbackModel: viper.GetString("gemini.model_fallback"),
		Timeout:       viper.GetDuration("gemini.timeout"),
	})
}

// initEngine wires storage, rule tables, reference prices and the optional
// vision client into an analysis engine.
func initEngine(store service.Storage, analyzer engine.VisionAnalyzer) (*engine.AnalysisEngine, error) {
	resolver, err := canonical.NewResolver(canonical.DefaultTables())
	if err != nil {
		return nil, fmt.Errorf("failed to compile rule tables: %w", err)
	}

	prices := initPriceSource()
	if prices == nil {
		prices = noPriceSource{}
	}
	return engine.New(store, resolver, prices, analyzer), nil
}

// noPriceSource reports every lookup as not-found. Used when no e-Stat
// application id is configured.
type noPriceSource struct{}

func (noPriceSource) LookupPrice(_ context.Context, canonical string) (*estat.PriceInfo, error) {
	return nil, fmt.Errorf("reference prices not configured, none for %q: %w", canonical, common.ErrNotFound)
}
