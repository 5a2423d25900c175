package app

import (
	"context"

	"github.com/matiasbn/dj-wizard/internal/config"
	"github.com/matiasbn/dj-wizard/internal/logger"
	"github.com/matiasbn/dj-wizard/internal/service/auth"
)

// ExecuteLoginCommand opens a browser, waits for the user to log in to the
// catalog, extracts the session cookie pair, and saves it to the
// configuration file.
func ExecuteLoginCommand(ctx context.Context, cfg *config.Config) {
	logger.Info(ctx, "Starting catalog login")

	// Create the browser login service.
	authService, err := auth.NewService(cfg)
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize the login service: %v", err)
		return
	}

	// Perform login and extract the session cookie pair.
	cookieHeader, err := authService.LoginAndExtractCookie(ctx)
	if err != nil {
		logger.Fatalf(ctx, "Login failed: %v", err)
		return
	}

	// Update configuration with the fresh session.
	cfg.SessionCookie = cookieHeader

	// Save configuration to file.
	if err = config.SaveConfig(cfg); err != nil {
		logger.Fatalf(ctx, "Failed to save configuration: %v", err)
		return
	}

	// Print success message.
	logger.Info(ctx, "Configuration updated successfully!")
	logger.Info(ctx, "Login complete! You can now queue and download tracks.")
	logger.Info(ctx, "")
	logger.Info(ctx, "Try ingesting a listing:")
	logger.Info(ctx, "dj-wizard url \"https://soundeo.com/list/tracks?genreFilter=11\"")
	logger.Info(ctx, "")
	logger.Info(ctx, "Then drain the queue:")
	logger.Info(ctx, "dj-wizard queue")
}
