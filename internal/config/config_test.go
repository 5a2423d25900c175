package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/matiasbn/dj-wizard/internal/constants"
)

// validTestConfig returns a config that passes ValidateConfig,
// with the download path rooted in a per-test temporary directory.
func validTestConfig(t *testing.T) *Config {
	t.Helper()

	return &Config{
		User:                 "dj@example.com",
		SessionCookie:        "test_cookie",
		DownloadPath:         t.TempDir(),
		LogLevel:             "info",
		MaxWorkers:           4,
		MigrationWorkers:     3,
		RateBudgetOverride:   0,
		RetryAttemptsCount:   3,
		MinRetryPause:        "1s",
		MaxRetryPause:        "3s",
		ListingRatePerSecond: 2.0,
	}
}

// TestConfigStruct tests the Config struct fields.
func TestConfigStruct(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		User:                 "dj@example.com",
		SessionCookie:        "cookie_value",
		DownloadPath:         "/music",
		LogLevel:             "debug",
		MaxWorkers:           4,
		MigrationWorkers:     3,
		RateBudgetOverride:   100,
		UserAgent:            "custom-agent",
		RetryAttemptsCount:   5,
		MinRetryPause:        "1s",
		MaxRetryPause:        "3s",
		ListingRatePerSecond: 2.5,
		FirebaseProject:      "my-project",
		FirebaseUserID:       "user-1",
		GoogleClientID:       "client-id",
		GoogleRefreshToken:   "refresh-token",
		SpotifyClientID:      "spotify-id",
		SpotifyClientSecret:  "spotify-secret",
		IPFSAPIURL:           "http://127.0.0.1:5001",
	}

	assert.Equal(t, "dj@example.com", cfg.User)
	assert.Equal(t, "cookie_value", cfg.SessionCookie)
	assert.Equal(t, "/music", cfg.DownloadPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, int64(4), cfg.MaxWorkers)
	assert.Equal(t, int64(3), cfg.MigrationWorkers)
	assert.Equal(t, int64(100), cfg.RateBudgetOverride)
	assert.Equal(t, "custom-agent", cfg.UserAgent)
	assert.Equal(t, int64(5), cfg.RetryAttemptsCount)
	assert.Equal(t, "1s", cfg.MinRetryPause)
	assert.Equal(t, "3s", cfg.MaxRetryPause)
	assert.InDelta(t, 2.5, cfg.ListingRatePerSecond, 0.0001)
	assert.Equal(t, "my-project", cfg.FirebaseProject)
	assert.Equal(t, "user-1", cfg.FirebaseUserID)
	assert.Equal(t, "client-id", cfg.GoogleClientID)
	assert.Equal(t, "refresh-token", cfg.GoogleRefreshToken)
	assert.Equal(t, "spotify-id", cfg.SpotifyClientID)
	assert.Equal(t, "spotify-secret", cfg.SpotifyClientSecret)
	assert.Equal(t, "http://127.0.0.1:5001", cfg.IPFSAPIURL)
}

// TestConstants tests the package constants.
func TestConstants(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://soundeo.com", SoundeoBaseURL)
	assert.Equal(t, ".dj-wizard", DefaultConfigDirName)
	assert.Equal(t, "config.yaml", DefaultConfigFilename)
	assert.Equal(t, 1*1024*1024, DefaultMaxLogLength)
}

// TestDefaultConfigPath tests the default config file location.
func TestDefaultConfigPath(t *testing.T) {
	t.Parallel()

	path := DefaultConfigPath()
	assert.Contains(t, path, DefaultConfigDirName)
	assert.Equal(t, DefaultConfigFilename, filepath.Base(path))
}

// TestLoadConfig tests the LoadConfig function.
//
//nolint:tparallel,paralleltest // Subtests share viper's global state.
func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name           string
		configFilename string
		configContent  string
		expectError    bool
		expectedError  string
		check          func(t *testing.T, cfg *Config)
	}{
		{
			name:           "valid config file",
			configFilename: "valid.yaml",
			configContent: `
user: "dj@example.com"
session_cookie: "test_cookie"
download_path: "/music"
log_level: "debug"
max_workers: 2
firebase_project: "my-project"
`,
			expectError: false,
			check: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "dj@example.com", cfg.User)
				assert.Equal(t, "test_cookie", cfg.SessionCookie)
				assert.Equal(t, "/music", cfg.DownloadPath)
				assert.Equal(t, "debug", cfg.LogLevel)
				assert.Equal(t, int64(2), cfg.MaxWorkers)
				assert.Equal(t, "my-project", cfg.FirebaseProject)
			},
		},
		{
			name:           "missing file falls back to defaults",
			configFilename: "does_not_exist.yaml",
			expectError:    false,
			check: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Empty(t, cfg.SessionCookie)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Equal(t, int64(4), cfg.MaxWorkers)
				assert.Equal(t, int64(3), cfg.MigrationWorkers)
				assert.Equal(t, int64(3), cfg.RetryAttemptsCount)
				assert.Equal(t, "1s", cfg.MinRetryPause)
				assert.Equal(t, "3s", cfg.MaxRetryPause)
				assert.InDelta(t, 2.0, cfg.ListingRatePerSecond, 0.0001)
				assert.Equal(t, "http://127.0.0.1:5001", cfg.IPFSAPIURL)
			},
		},
		{
			name:           "invalid yaml",
			configFilename: "invalid.yaml",
			configContent: `
invalid: yaml: content: [unclosed
`,
			expectError:   true,
			expectedError: "failed to read config from file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// LoadConfig works through the global viper, so earlier
			// subtests would otherwise leak their file values into the
			// missing-file defaults path.
			viper.Reset()

			var (
				tempDir    = t.TempDir()
				configPath = filepath.Join(tempDir, tt.configFilename)
			)

			if tt.configContent != "" {
				err := os.WriteFile(configPath, []byte(tt.configContent), constants.DefaultFilePermissions)
				require.NoError(t, err)
			}

			cfg, err := LoadConfig(configPath)

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				assert.Nil(t, cfg)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)

			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

// TestLoadConfig_EnvironmentSecrets tests that secrets come from the environment.
//
//nolint:paralleltest // t.Setenv is incompatible with parallel tests.
func TestLoadConfig_EnvironmentSecrets(t *testing.T) {
	viper.Reset()

	t.Setenv("GOOGLE_CLIENT_SECRET", "env_google_secret")
	t.Setenv("SPOTIFY_CLIENT_ID", "env_spotify_id")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "env_spotify_secret")

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `
spotify_client_id: "file_spotify_id"
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), constants.DefaultFilePermissions))

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "env_google_secret", cfg.GoogleClientSecret)
	assert.Equal(t, "env_spotify_id", cfg.SpotifyClientID, "environment should override the file")
	assert.Equal(t, "env_spotify_secret", cfg.SpotifyClientSecret)
}

// TestValidateConfig tests the ValidateConfig function.
func TestValidateConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		mutate      func(cfg *Config)
		expectError bool
		expectedErr error
		errorMsg    string
	}{
		{
			name:        "valid config",
			mutate:      func(_ *Config) {},
			expectError: false,
		},
		{
			name: "empty download path",
			mutate: func(cfg *Config) {
				cfg.DownloadPath = "   "
			},
			expectError: true,
			expectedErr: ErrEmptyDownloadPath,
		},
		{
			name: "invalid log level",
			mutate: func(cfg *Config) {
				cfg.LogLevel = "nonsense"
			},
			expectError: true,
			expectedErr: ErrUnknownLogLevel,
		},
		{
			name: "zero max workers",
			mutate: func(cfg *Config) {
				cfg.MaxWorkers = 0
			},
			expectError: true,
			expectedErr: ErrInvalidWorkerCount,
		},
		{
			name: "negative migration workers",
			mutate: func(cfg *Config) {
				cfg.MigrationWorkers = -1
			},
			expectError: true,
			expectedErr: ErrInvalidMigrationWorkers,
		},
		{
			name: "negative rate budget override",
			mutate: func(cfg *Config) {
				cfg.RateBudgetOverride = -5
			},
			expectError: true,
			expectedErr: ErrInvalidRateBudgetOverride,
		},
		{
			name: "zero retry attempts",
			mutate: func(cfg *Config) {
				cfg.RetryAttemptsCount = 0
			},
			expectError: true,
			expectedErr: ErrInvalidRetryAttempts,
		},
		{
			name: "unparseable min retry pause",
			mutate: func(cfg *Config) {
				cfg.MinRetryPause = "not-a-duration"
			},
			expectError: true,
			errorMsg:    "failed to parse min retry pause",
		},
		{
			name: "unparseable max retry pause",
			mutate: func(cfg *Config) {
				cfg.MaxRetryPause = "not-a-duration"
			},
			expectError: true,
			errorMsg:    "failed to parse max retry pause",
		},
		{
			name: "max retry pause below min",
			mutate: func(cfg *Config) {
				cfg.MinRetryPause = "5s"
				cfg.MaxRetryPause = "1s"
			},
			expectError: true,
			expectedErr: ErrRetryPauseOrder,
		},
		{
			name: "zero listing rate",
			mutate: func(cfg *Config) {
				cfg.ListingRatePerSecond = 0
			},
			expectError: true,
			expectedErr: ErrInvalidListingRate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validTestConfig(t)
			tt.mutate(cfg)

			err := ValidateConfig(cfg)

			if tt.expectError {
				require.Error(t, err)

				if tt.expectedErr != nil {
					require.ErrorIs(t, err, tt.expectedErr)
				}

				if tt.errorMsg != "" {
					assert.Contains(t, err.Error(), tt.errorMsg)
				}

				return
			}

			require.NoError(t, err)
			assert.Equal(t, SoundeoBaseURL, cfg.SoundeoBaseURL)
			assert.Equal(t, zapcore.InfoLevel, cfg.ParsedLogLevel)
			assert.Equal(t, time.Second, cfg.ParsedMinRetryPause)
			assert.Equal(t, 3*time.Second, cfg.ParsedMaxRetryPause)
		})
	}
}

// TestValidateConfig_CreatesDownloadPath tests that missing download directories are created.
func TestValidateConfig_CreatesDownloadPath(t *testing.T) {
	t.Parallel()

	cfg := validTestConfig(t)
	cfg.DownloadPath = filepath.Join(t.TempDir(), "nested", "music")

	require.NoError(t, ValidateConfig(cfg))

	info, err := os.Stat(cfg.DownloadPath)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

// TestValidateSession tests the session cookie check.
func TestValidateSession(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateSession(&Config{SessionCookie: "cookie"}))
	require.ErrorIs(t, ValidateSession(&Config{SessionCookie: "   "}), ErrEmptySessionCookie)
	require.ErrorIs(t, ValidateSession(&Config{}), ErrEmptySessionCookie)
}

// TestValidateCloudConfig tests the cloud mirror settings check.
func TestValidateCloudConfig(t *testing.T) {
	t.Parallel()

	validCloud := func() *Config {
		return &Config{
			FirebaseProject:    "my-project",
			FirebaseUserID:     "user-1",
			GoogleClientID:     "client-id",
			GoogleClientSecret: "client-secret",
			GoogleRefreshToken: "refresh-token",
		}
	}

	tests := []struct {
		name        string
		mutate      func(cfg *Config)
		expectedErr error
	}{
		{
			name:   "valid cloud config",
			mutate: func(_ *Config) {},
		},
		{
			name:        "missing project",
			mutate:      func(cfg *Config) { cfg.FirebaseProject = "" },
			expectedErr: ErrEmptyFirebaseProject,
		},
		{
			name:        "missing user id",
			mutate:      func(cfg *Config) { cfg.FirebaseUserID = "" },
			expectedErr: ErrEmptyFirebaseUserID,
		},
		{
			name:        "missing client id",
			mutate:      func(cfg *Config) { cfg.GoogleClientID = "" },
			expectedErr: ErrEmptyGoogleClientID,
		},
		{
			name:        "missing client secret",
			mutate:      func(cfg *Config) { cfg.GoogleClientSecret = "" },
			expectedErr: ErrEmptyGoogleClientSecret,
		},
		{
			name:        "missing refresh token",
			mutate:      func(cfg *Config) { cfg.GoogleRefreshToken = "" },
			expectedErr: ErrEmptyGoogleRefreshToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validCloud()
			tt.mutate(cfg)

			err := ValidateCloudConfig(cfg)

			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// TestValidateSpotifyConfig tests the Spotify credentials check.
func TestValidateSpotifyConfig(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateSpotifyConfig(&Config{
		SpotifyClientID:     "id",
		SpotifyClientSecret: "secret",
	}))
	require.ErrorIs(t, ValidateSpotifyConfig(&Config{SpotifyClientID: "id"}), ErrEmptySpotifyCredentials)
	require.ErrorIs(t, ValidateSpotifyConfig(&Config{SpotifyClientSecret: "secret"}), ErrEmptySpotifyCredentials)
}

// TestSaveConfigValue tests in-place config file updates.
//
//nolint:tparallel,paralleltest // Subtests share viper's global state.
func TestSaveConfigValue(t *testing.T) {
	t.Run("updates existing key preserving order", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		original := `user: "dj@example.com"
session_cookie: "old_cookie"
download_path: "/music"
`
		require.NoError(t, os.WriteFile(configPath, []byte(original), constants.DefaultFilePermissions))

		// Point viper at the file the same way LoadConfig does.
		viper.SetConfigFile(configPath)

		require.NoError(t, SaveConfigValue("session_cookie", "new_cookie"))

		content, err := os.ReadFile(configPath)
		require.NoError(t, err)

		updated := string(content)
		assert.Contains(t, updated, `session_cookie: "new_cookie"`)
		assert.Contains(t, updated, "user: ")
		assert.Contains(t, updated, "download_path: ")
		assert.NotContains(t, updated, "old_cookie")

		// The user key must still come first.
		assert.Less(t,
			strings.Index(updated, "user:"),
			strings.Index(updated, "session_cookie:"),
			"key order should be preserved")
	})

	t.Run("appends missing key", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		original := `user: "dj@example.com"
`
		require.NoError(t, os.WriteFile(configPath, []byte(original), constants.DefaultFilePermissions))

		viper.SetConfigFile(configPath)

		require.NoError(t, SaveConfigValue("firebase_project", "my-project"))

		content, err := os.ReadFile(configPath)
		require.NoError(t, err)
		assert.Contains(t, string(content), `firebase_project: "my-project"`)
		assert.Contains(t, string(content), "user: ")
	})

	t.Run("creates missing file", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "fresh", "config.yaml")

		viper.SetConfigFile(configPath)

		require.NoError(t, SaveConfigValue("session_cookie", "fresh_cookie"))

		content, err := os.ReadFile(configPath)
		require.NoError(t, err)
		assert.Contains(t, string(content), "fresh_cookie")
	})
}

