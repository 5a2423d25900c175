package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/matiasbn/dj-wizard/internal/constants"
	"github.com/matiasbn/dj-wizard/internal/logger"
)

// Config holds all configuration settings.
type Config struct {
	// User is the Soundeo account email. Informational only.
	User string `mapstructure:"user"`
	// SessionCookie is the opaque Soundeo session cookie written by the login command.
	SessionCookie string `mapstructure:"session_cookie"`
	// DownloadPath is the directory where downloaded files and the state snapshot live.
	DownloadPath string `mapstructure:"download_path"`
	// LogLevel specifies the logging verbosity level.
	LogLevel string `mapstructure:"log_level"`
	// MaxWorkers is the number of concurrent download workers.
	MaxWorkers int64 `mapstructure:"max_workers"`
	// MigrationWorkers is the number of concurrent cloud migration workers.
	MigrationWorkers int64 `mapstructure:"migration_workers"`
	// RateBudgetOverride caps the refreshed download budget. Zero means server truth.
	RateBudgetOverride int64 `mapstructure:"rate_budget_override"`
	// UserAgent overrides the desktop User-Agent sent to the catalog. Empty uses the default.
	UserAgent string `mapstructure:"user_agent"`
	// RetryAttemptsCount is the number of retry attempts for transient catalog failures.
	RetryAttemptsCount int64 `mapstructure:"retry_attempts_count"`
	// MinRetryPause is the minimum pause duration before retrying.
	MinRetryPause string `mapstructure:"min_retry_pause"`
	// MaxRetryPause is the maximum pause duration before retrying.
	MaxRetryPause string `mapstructure:"max_retry_pause"`
	// ListingRatePerSecond limits catalog listing and metadata requests during genre walks.
	ListingRatePerSecond float64 `mapstructure:"listing_rate_per_second"`
	// FirebaseProject is the cloud project id the mirror writes to.
	FirebaseProject string `mapstructure:"firebase_project"`
	// FirebaseUserID is the users/{user_id} document root in the cloud store.
	FirebaseUserID string `mapstructure:"firebase_user_id"`
	// GoogleClientID is the OAuth client id used by the cloud mirror.
	GoogleClientID string `mapstructure:"google_client_id"`
	// GoogleRefreshToken is the OAuth refresh token used by the cloud mirror.
	GoogleRefreshToken string `mapstructure:"google_refresh_token"`
	// SpotifyClientID is the Spotify application client id.
	SpotifyClientID string `mapstructure:"spotify_client_id"`
	// SpotifyClientSecret is the Spotify application client secret.
	SpotifyClientSecret string `mapstructure:"spotify_client_secret"`
	// IPFSAPIURL is the HTTP RPC endpoint of the IPFS node used for backups.
	IPFSAPIURL string `mapstructure:"ipfs_api_url"`
	// SoundeoBaseURL is the base URL for the Soundeo catalog (set automatically).
	SoundeoBaseURL string
	// GoogleClientSecret is the OAuth client secret, taken from GOOGLE_CLIENT_SECRET.
	GoogleClientSecret string
	// ParsedLogLevel is the parsed zap log level.
	ParsedLogLevel zapcore.Level
	// ParsedMinRetryPause is the parsed minimum retry pause duration.
	ParsedMinRetryPause time.Duration
	// ParsedMaxRetryPause is the parsed maximum retry pause duration.
	ParsedMaxRetryPause time.Duration
}

const (
	// SoundeoBaseURL is the base URL for the Soundeo catalog.
	SoundeoBaseURL = "https://soundeo.com"

	// DefaultConfigDirName is the directory under $HOME holding the configuration file.
	DefaultConfigDirName = ".dj-wizard"

	// DefaultConfigFilename is the default name of the configuration file.
	DefaultConfigFilename = "config.yaml"

	// DefaultMaxLogLength is the default maximum size (in bytes) for logged HTTP dumps.
	DefaultMaxLogLength = 1 * 1024 * 1024 // 1 MB

	// defaultMaxWorkers is the download worker pool size when not configured.
	defaultMaxWorkers = 4

	// defaultMigrationWorkers is the cloud migration pool size when not configured.
	defaultMigrationWorkers = 3

	// defaultRetryAttempts is the transient-failure retry count when not configured.
	defaultRetryAttempts = 3

	// defaultListingRate is the catalog politeness limit (requests per second) when not configured.
	defaultListingRate = 2.0

	// defaultIPFSAPIURL is the IPFS HTTP RPC endpoint when not configured.
	defaultIPFSAPIURL = "http://127.0.0.1:5001"

	// envGoogleClientSecret, envSpotifyClientID and envSpotifyClientSecret are
	// the environment variables carrying secrets that never live in the file.
	envGoogleClientSecret  = "GOOGLE_CLIENT_SECRET"
	envSpotifyClientID     = "SPOTIFY_CLIENT_ID"
	envSpotifyClientSecret = "SPOTIFY_CLIENT_SECRET"
)

// Static error definitions for better error handling.
var (
	// ErrEmptySessionCookie indicates that the Soundeo session cookie is missing.
	ErrEmptySessionCookie = errors.New("session cookie is empty, run 'dj-wizard login' first")
	// ErrEmptyDownloadPath indicates that the download path is missing.
	ErrEmptyDownloadPath = errors.New("download path cannot be empty")
	// ErrUnknownLogLevel indicates that the log level is not recognized.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrInvalidWorkerCount indicates that the download worker count is invalid.
	ErrInvalidWorkerCount = errors.New("max workers must be a positive integer")
	// ErrInvalidMigrationWorkers indicates that the migration worker count is invalid.
	ErrInvalidMigrationWorkers = errors.New("migration workers must be a positive integer")
	// ErrInvalidRateBudgetOverride indicates that the budget override is negative.
	ErrInvalidRateBudgetOverride = errors.New("rate budget override cannot be negative")
	// ErrInvalidRetryAttempts indicates that the retry attempts count is invalid.
	ErrInvalidRetryAttempts = errors.New("retry attempts count must be a positive integer")
	// ErrInvalidMinRetryPause indicates that the min retry pause duration is invalid.
	ErrInvalidMinRetryPause = errors.New("min_retry_pause must be positive")
	// ErrInvalidMaxRetryPause indicates that the max retry pause duration is invalid.
	ErrInvalidMaxRetryPause = errors.New("max_retry_pause must be positive")
	// ErrRetryPauseOrder indicates that max_retry_pause is below min_retry_pause.
	ErrRetryPauseOrder = errors.New("max_retry_pause must not be less than min_retry_pause")
	// ErrInvalidListingRate indicates that the listing rate limit is invalid.
	ErrInvalidListingRate = errors.New("listing_rate_per_second must be positive")
	// ErrEmptyFirebaseProject indicates that the cloud project id is missing.
	ErrEmptyFirebaseProject = errors.New("firebase_project cannot be empty")
	// ErrEmptyFirebaseUserID indicates that the cloud user document root is missing.
	ErrEmptyFirebaseUserID = errors.New("firebase_user_id cannot be empty")
	// ErrEmptyGoogleClientID indicates that the OAuth client id is missing.
	ErrEmptyGoogleClientID = errors.New("google_client_id cannot be empty")
	// ErrEmptyGoogleClientSecret indicates that GOOGLE_CLIENT_SECRET is not set.
	ErrEmptyGoogleClientSecret = errors.New("GOOGLE_CLIENT_SECRET environment variable is not set")
	// ErrEmptyGoogleRefreshToken indicates that the OAuth refresh token is missing.
	ErrEmptyGoogleRefreshToken = errors.New("google_refresh_token cannot be empty")
	// ErrEmptySpotifyCredentials indicates that the Spotify client credentials are missing.
	ErrEmptySpotifyCredentials = errors.New("spotify client id and secret are required")
)

// DefaultConfigPath returns $HOME/.dj-wizard/config.yaml, falling back to a
// relative path when the home directory cannot be resolved.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(DefaultConfigDirName, DefaultConfigFilename)
	}

	return filepath.Join(home, DefaultConfigDirName, DefaultConfigFilename)
}

// UsedConfigFile returns the configuration file the last LoadConfig call
// actually read, falling back to the default path before any load.
func UsedConfigFile() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}

	return DefaultConfigPath()
}

// LoadConfig loads configuration settings from a YAML file.
// A missing file is not an error: the returned config carries the defaults,
// so the login and config commands can run before any file exists.
func LoadConfig(configFilename string) (*Config, error) {
	if configFilename == "" {
		configFilename = DefaultConfigPath()
	}

	viper.SetConfigFile(configFilename)
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var pathError *fs.PathError
		if !errors.As(err, &pathError) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config from file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvironmentOverrides(&cfg)

	return &cfg, nil
}

// setDefaults registers the default value of every optional setting.
func setDefaults() {
	viper.SetDefault("log_level", "info")
	viper.SetDefault("max_workers", defaultMaxWorkers)
	viper.SetDefault("migration_workers", defaultMigrationWorkers)
	viper.SetDefault("retry_attempts_count", defaultRetryAttempts)
	viper.SetDefault("min_retry_pause", "1s")
	viper.SetDefault("max_retry_pause", "3s")
	viper.SetDefault("listing_rate_per_second", defaultListingRate)
	viper.SetDefault("ipfs_api_url", defaultIPFSAPIURL)
	viper.SetDefault("download_path", filepath.Join("~", "Music", "dj-wizard"))
}

// applyEnvironmentOverrides copies secrets from the environment into the config.
// Environment values win over file values so deployments can rotate them
// without touching the file.
func applyEnvironmentOverrides(cfg *Config) {
	cfg.GoogleClientSecret = os.Getenv(envGoogleClientSecret)

	if clientID := os.Getenv(envSpotifyClientID); clientID != "" {
		cfg.SpotifyClientID = clientID
	}

	if clientSecret := os.Getenv(envSpotifyClientSecret); clientSecret != "" {
		cfg.SpotifyClientSecret = clientSecret
	}
}

// ValidateConfig checks the configuration for validity and sets derived fields.
// It does not require a session cookie; commands that talk to the catalog
// check that separately via ValidateSession.
//
//nolint:cyclop // Validation functions naturally have high complexity due to sequential checks.
func ValidateConfig(cfg *Config) error {
	cfg.SoundeoBaseURL = SoundeoBaseURL

	downloadPath, err := expandHomePath(strings.TrimSpace(cfg.DownloadPath))
	if err != nil {
		return fmt.Errorf("failed to resolve download path: %w", err)
	}

	if downloadPath == "" {
		return ErrEmptyDownloadPath
	}

	cfg.DownloadPath = downloadPath

	if err = os.MkdirAll(downloadPath, constants.DefaultFolderPermissions); err != nil {
		return fmt.Errorf("failed to create download path: %w", err)
	}

	parsedLogLevel, isLogLevelCorrect := logger.ParseLogLevel(cfg.LogLevel)
	if !isLogLevelCorrect {
		return fmt.Errorf("%w: '%s'", ErrUnknownLogLevel, cfg.LogLevel)
	}

	cfg.ParsedLogLevel = parsedLogLevel

	if cfg.MaxWorkers <= 0 {
		return ErrInvalidWorkerCount
	}

	if cfg.MigrationWorkers <= 0 {
		return ErrInvalidMigrationWorkers
	}

	if cfg.RateBudgetOverride < 0 {
		return ErrInvalidRateBudgetOverride
	}

	if cfg.RetryAttemptsCount <= 0 {
		return ErrInvalidRetryAttempts
	}

	cfg.ParsedMinRetryPause, err = time.ParseDuration(cfg.MinRetryPause)
	if err != nil {
		return fmt.Errorf("failed to parse min retry pause: %w", err)
	}

	if cfg.ParsedMinRetryPause <= 0 {
		return ErrInvalidMinRetryPause
	}

	cfg.ParsedMaxRetryPause, err = time.ParseDuration(cfg.MaxRetryPause)
	if err != nil {
		return fmt.Errorf("failed to parse max retry pause: %w", err)
	}

	if cfg.ParsedMaxRetryPause <= 0 {
		return ErrInvalidMaxRetryPause
	}

	if cfg.ParsedMaxRetryPause < cfg.ParsedMinRetryPause {
		return ErrRetryPauseOrder
	}

	if cfg.ListingRatePerSecond <= 0 {
		return ErrInvalidListingRate
	}

	return nil
}

// ValidateSession checks that a catalog session cookie is present.
func ValidateSession(cfg *Config) error {
	if strings.TrimSpace(cfg.SessionCookie) == "" {
		return ErrEmptySessionCookie
	}

	return nil
}

// ValidateCloudConfig checks the settings the cloud mirror requires.
func ValidateCloudConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.FirebaseProject) == "" {
		return ErrEmptyFirebaseProject
	}

	if strings.TrimSpace(cfg.FirebaseUserID) == "" {
		return ErrEmptyFirebaseUserID
	}

	if strings.TrimSpace(cfg.GoogleClientID) == "" {
		return ErrEmptyGoogleClientID
	}

	if strings.TrimSpace(cfg.GoogleClientSecret) == "" {
		return ErrEmptyGoogleClientSecret
	}

	if strings.TrimSpace(cfg.GoogleRefreshToken) == "" {
		return ErrEmptyGoogleRefreshToken
	}

	return nil
}

// ValidateSpotifyConfig checks the settings the Spotify pairing requires.
func ValidateSpotifyConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.SpotifyClientID) == "" || strings.TrimSpace(cfg.SpotifyClientSecret) == "" {
		return ErrEmptySpotifyCredentials
	}

	return nil
}

// SaveConfig saves the session cookie and user to the config file while
// preserving the original format and order of the remaining keys.
func SaveConfig(cfg *Config) error {
	if err := SaveConfigValue("session_cookie", cfg.SessionCookie); err != nil {
		return err
	}

	if cfg.User != "" {
		return SaveConfigValue("user", cfg.User)
	}

	return nil
}

// SaveConfigValue updates a single top-level string key in the config file,
// preserving the order and formatting of everything else.
// A missing file is created with the current settings first.
func SaveConfigValue(key, value string) error {
	configFile := getConfigFilePath()

	// Read the original file content.
	originalContent, err := os.ReadFile(configFile)
	if err != nil {
		if createErr := handleMissingConfigFile(configFile, key, value, err); createErr != nil {
			return createErr
		}

		originalContent, err = os.ReadFile(configFile)
		if err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Parse YAML while preserving order using yaml.Node.
	var node yaml.Node
	if err = yaml.Unmarshal(originalContent, &node); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Update the value in the node tree.
	updateStringValueInNode(&node, key, value)

	// Marshal back to YAML (preserves order).
	newContent, err := yaml.Marshal(&node)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	// Write the file back with preserved order.
	if err = os.WriteFile(configFile, newContent, constants.DefaultFilePermissions); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// getConfigFilePath returns the config file path from viper or the default.
func getConfigFilePath() string {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		return DefaultConfigPath()
	}

	return configFile
}

// handleMissingConfigFile creates a new config file if it doesn't exist.
func handleMissingConfigFile(configFile, key, value string, err error) error {
	if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(configFile), constants.DefaultFolderPermissions); mkdirErr != nil {
		return fmt.Errorf("failed to create config directory: %w", mkdirErr)
	}

	// File doesn't exist, create it with viper.
	viper.Set(key, value)

	if err = viper.SafeWriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	return nil
}

// updateStringValueInNode updates a top-level string value in the YAML node tree,
// appending the key when it is not present yet.
func updateStringValueInNode(node *yaml.Node, key, value string) {
	// The root node is a document node, content[0] is the actual map.
	if len(node.Content) == 0 || node.Content[0].Kind != yaml.MappingNode {
		return
	}

	mapNode := node.Content[0]

	// Iterate through key-value pairs (stored as alternating nodes).
	for i := 0; i < len(mapNode.Content); i += 2 {
		keyNode := mapNode.Content[i]
		valueNode := mapNode.Content[i+1]

		if keyNode.Value == key {
			// Update the value while preserving style.
			valueNode.Value = value

			// Ensure it's quoted if it contains special characters.
			if valueNode.Style == 0 {
				valueNode.Style = yaml.DoubleQuotedStyle
			}

			return
		}
	}

	// Key not present: append it to the mapping.
	mapNode.Content = append(mapNode.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Value: value, Style: yaml.DoubleQuotedStyle},
	)
}

// expandHomePath expands a leading "~" to the user's home directory.
func expandHomePath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~"+string(os.PathSeparator)) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}

		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}

	return path, nil
}
