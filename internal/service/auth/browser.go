package auth

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"

	"github.com/matiasbn/dj-wizard/internal/logger"
)

// startBrowser launches a visible Chrome with a throwaway profile and opens
// a stealth page on it.
func (s *ServiceImpl) startBrowser(ctx context.Context) error {
	// A fresh profile keeps stale catalog sessions out of the flow and
	// avoids fingerprintable profile reuse.
	profileDir, err := os.MkdirTemp("", "dj-wizard-login-*")
	if err != nil {
		return fmt.Errorf("failed to create a browser profile directory: %w", err)
	}

	s.tempDir = profileDir

	// The user types credentials into this window, so it must be visible.
	launch := launcher.New().
		Headless(false).
		UserDataDir(profileDir)

	// Prefer the system Chrome; rod downloads a Chromium build otherwise.
	if chromePath, found := launcher.LookPath(); found {
		logger.Debugf(ctx, "Using system browser at %s", chromePath)

		launch = launch.Bin(chromePath)
	}

	controlURL, err := launch.Launch()
	if err != nil {
		return fmt.Errorf("failed to launch the browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)

	if logger.IsDebugLevel() {
		// Trace logs every CDP action; slow motion makes them watchable.
		browser = browser.Trace(true).SlowMotion(browserSlowMotion)
	}

	if err := browser.Connect(); err != nil {
		return fmt.Errorf("failed to connect to the browser: %w", err)
	}

	s.browser = browser

	// The stealth page patches the fingerprint surface that headless
	// detectors probe, before any catalog page loads.
	page, err := stealth.Page(browser)
	if err != nil {
		return fmt.Errorf("failed to open a stealth page: %w", err)
	}

	s.page = page

	logger.Debugf(ctx, "Browser ready (profile %s, control %s)", profileDir, controlURL)

	return nil
}

// currentURL reports the URL of the login page. Errors cover both transport
// failures and a window the user already closed; rod can panic on a dead
// control connection, which is mapped to an error here.
func (s *ServiceImpl) currentURL() (pageURL string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("browser connection lost: %v", r)
		}
	}()

	info, err := s.page.Info()
	if err != nil {
		return "", err
	}

	return info.URL, nil
}

// shutdown closes the browser and deletes the throwaway profile.
func (s *ServiceImpl) shutdown(ctx context.Context) {
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			logger.Debugf(ctx, "Browser close: %v", err)
		}
	}

	if s.tempDir == "" {
		return
	}

	// Chrome releases its profile locks shortly after the process exits.
	time.Sleep(browserCleanupDelay)

	if err := os.RemoveAll(s.tempDir); err != nil {
		logger.Debugf(ctx, "Profile directory %s not removed: %v", s.tempDir, err)
	}
}
