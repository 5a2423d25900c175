package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/matiasbn/dj-wizard/internal/config"
	"github.com/matiasbn/dj-wizard/internal/logger"
)

// ExecuteConfigCommand edits the configuration file when --set pairs are
// given, otherwise it prints the effective configuration.
func ExecuteConfigCommand(ctx context.Context, cfg *config.Config, sets []string) error {
	if len(sets) == 0 {
		printConfig(ctx, cfg)

		return nil
	}

	for _, pair := range sets {
		key, value, found := strings.Cut(pair, "=")

		key = strings.TrimSpace(key)
		if !found || key == "" {
			return fmt.Errorf("%w: '%s'", ErrMalformedSetPair, pair)
		}

		if err := config.SaveConfigValue(key, value); err != nil {
			return fmt.Errorf("failed to set '%s': %w", key, err)
		}

		logger.Infof(ctx, "Set '%s'.", key)
	}

	return nil
}

// maskSecret hides stored secrets while still showing whether they are set.
func maskSecret(value string) string {
	if value == "" {
		return "(not set)"
	}

	return "(set)"
}

// printConfig prints the effective configuration, masking stored secrets.
func printConfig(ctx context.Context, cfg *config.Config) {
	logger.Infof(ctx, "Configuration file: %s", config.UsedConfigFile())
	logger.Infof(ctx, "user: %s", cfg.User)
	logger.Infof(ctx, "session_cookie: %s", maskSecret(cfg.SessionCookie))
	logger.Infof(ctx, "download_path: %s", cfg.DownloadPath)
	logger.Infof(ctx, "log_level: %s", cfg.LogLevel)
	logger.Infof(ctx, "max_workers: %d", cfg.MaxWorkers)
	logger.Infof(ctx, "migration_workers: %d", cfg.MigrationWorkers)
	logger.Infof(ctx, "rate_budget_override: %d", cfg.RateBudgetOverride)
	logger.Infof(ctx, "user_agent: %s", cfg.UserAgent)
	logger.Infof(ctx, "retry_attempts_count: %d", cfg.RetryAttemptsCount)
	logger.Infof(ctx, "min_retry_pause: %s", cfg.MinRetryPause)
	logger.Infof(ctx, "max_retry_pause: %s", cfg.MaxRetryPause)
	logger.Infof(ctx, "listing_rate_per_second: %.1f", cfg.ListingRatePerSecond)
	logger.Infof(ctx, "firebase_project: %s", cfg.FirebaseProject)
	logger.Infof(ctx, "firebase_user_id: %s", cfg.FirebaseUserID)
	logger.Infof(ctx, "google_client_id: %s", cfg.GoogleClientID)
	logger.Infof(ctx, "google_refresh_token: %s", maskSecret(cfg.GoogleRefreshToken))
	logger.Infof(ctx, "spotify_client_id: %s", cfg.SpotifyClientID)
	logger.Infof(ctx, "spotify_client_secret: %s", maskSecret(cfg.SpotifyClientSecret))
	logger.Infof(ctx, "ipfs_api_url: %s", cfg.IPFSAPIURL)
}
