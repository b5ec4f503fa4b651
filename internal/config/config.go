// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// AITransport selects how the AI backend is called. The transport is an
// explicit deployment decision, never inferred from the endpoint URL.
type AITransport string

const (
	// AITransportSync calls the backend as a single blocking HTTP request.
	AITransportSync AITransport = "sync"
	// AITransportQueue submits a job and polls a status endpoint until the
	// backend reports a terminal state.
	AITransportQueue AITransport = "queue"
)

// Config holds the application configuration.
type Config struct {
	App    AppConfig
	Logger LoggerConfig
	Server ServerConfig
	Auth   AuthConfig
	Data   DataConfig
	AI     AIConfig
	Media  MediaConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Name         string
	PublicURL    string        // Optional, used in generated asset URLs
	Port         string        // Server port (default: 8080)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 120s, cover uploads and AI calls)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	// PASETO v4 symmetric key for access tokens (32 bytes)
	AccessTokenKey []byte
	// Session durations
	AccessTokenDuration  time.Duration // e.g., 15m
	RefreshTokenDuration time.Duration // e.g., 720h (30 days)
}

// DataConfig holds persistent storage configuration.
type DataConfig struct {
	// BasePath is the root directory for all server state: the document
	// store, the history database, and stored images live under it.
	BasePath string
}

// AIConfig holds the AI backend configuration.
type AIConfig struct {
	// Endpoint is the base URL of the generation backend.
	Endpoint string
	// Transport selects sync or queue delivery (default: sync).
	Transport AITransport
	// ConnectTimeout bounds connection establishment for sync calls (default: 10s).
	ConnectTimeout time.Duration
	// ReadTimeout bounds the full sync exchange (default: 90s).
	ReadTimeout time.Duration
	// PollInterval is the delay between queue status checks (default: 5s).
	PollInterval time.Duration
	// PollLimit is the maximum number of status checks before giving up (default: 180).
	PollLimit int
	// RequestsPerMinute rate-limits outbound calls per user (default: 6).
	RequestsPerMinute int
}

// MediaConfig holds image storage configuration.
type MediaConfig struct {
	// ImagePath is the directory for stored images (default: {data}/images).
	ImagePath string
	// MaxUploadBytes caps cover uploads and fetched remote images (default: 10MiB).
	MaxUploadBytes int64
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	// Define command-line flags.
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := flag.String("data-path", "", "Base path for server data")
	serverName := flag.String("server-name", "", "Name for the server")
	serverPublicURL := flag.String("public-url", "", "Public server url")

	// Auth flags
	accessTokenDuration := flag.String("access-token-duration", "", "Access token lifetime (e.g., 15m)")
	refreshTokenDuration := flag.String("refresh-token-duration", "", "Refresh token lifetime (e.g., 720h)")

	// Server flags
	serverPort := flag.String("port", "", "Server port (default: 8080)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 120s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")

	// AI backend flags
	aiEndpoint := flag.String("ai-endpoint", "", "Base URL of the AI generation backend")
	aiTransport := flag.String("ai-transport", "", "AI transport: sync or queue (default: sync)")
	aiConnectTimeout := flag.String("ai-connect-timeout", "", "AI connect timeout (default: 10s)")
	aiReadTimeout := flag.String("ai-read-timeout", "", "AI read timeout for sync calls (default: 90s)")
	aiPollInterval := flag.String("ai-poll-interval", "", "Queue status poll interval (default: 5s)")
	aiPollLimit := flag.String("ai-poll-limit", "", "Max queue status polls (default: 180)")

	envFile := flag.String("env-file", ".env", "Path to .env file")

	// Parse flags but don't exit on error - we want to handle it gracefully.
	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	// Build config with proper precedence.
	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Name:      getConfigValue(*serverName, "SERVER_NAME", "Glossy Server"),
			PublicURL: getConfigValue(*serverPublicURL, "SERVER_PUBLIC_URL", ""),
			Port:      getConfigValue(*serverPort, "SERVER_PORT", "8080"),
		},
		Auth: AuthConfig{
			AccessTokenKey: nil, // Will be set by auth.LoadOrGenerateKey in main
		},
		Data: DataConfig{
			BasePath: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		AI: AIConfig{
			Endpoint:          getConfigValue(*aiEndpoint, "AI_ENDPOINT", ""),
			Transport:         AITransport(getConfigValue(*aiTransport, "AI_TRANSPORT", string(AITransportSync))),
			PollLimit:         getIntConfigValue(*aiPollLimit, "AI_POLL_LIMIT", 180),
			RequestsPerMinute: getIntConfigValue("", "AI_REQUESTS_PER_MINUTE", 6),
		},
		Media: MediaConfig{
			MaxUploadBytes: int64(getIntConfigValue("", "MEDIA_MAX_UPLOAD_BYTES", 10*1024*1024)),
		},
	}

	// Parse auth durations.
	accessDurationStr := getConfigValue(*accessTokenDuration, "ACCESS_TOKEN_DURATION", "15m")
	accessDuration, err := time.ParseDuration(accessDurationStr)
	if err != nil {
		return nil, fmt.Errorf("invalid access token duration %q: %w", accessDurationStr, err)
	}
	cfg.Auth.AccessTokenDuration = accessDuration

	refreshDurationStr := getConfigValue(*refreshTokenDuration, "REFRESH_TOKEN_DURATION", "720h")
	refreshDuration, err := time.ParseDuration(refreshDurationStr)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token duration %q: %w", refreshDurationStr, err)
	}
	cfg.Auth.RefreshTokenDuration = refreshDuration

	// Parse server timeouts.
	readTimeoutStr := getConfigValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s")
	readTimeoutDuration, err := time.ParseDuration(readTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid read timeout %q: %w", readTimeoutStr, err)
	}
	cfg.Server.ReadTimeout = readTimeoutDuration

	// The write timeout has to outlast a full sync AI exchange.
	writeTimeoutStr := getConfigValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "120s")
	writeTimeoutDuration, err := time.ParseDuration(writeTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid write timeout %q: %w", writeTimeoutStr, err)
	}
	cfg.Server.WriteTimeout = writeTimeoutDuration

	idleTimeoutStr := getConfigValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s")
	idleTimeoutDuration, err := time.ParseDuration(idleTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid idle timeout %q: %w", idleTimeoutStr, err)
	}
	cfg.Server.IdleTimeout = idleTimeoutDuration

	// Parse AI backend timeouts.
	aiConnectStr := getConfigValue(*aiConnectTimeout, "AI_CONNECT_TIMEOUT", "10s")
	aiConnectDuration, err := time.ParseDuration(aiConnectStr)
	if err != nil {
		return nil, fmt.Errorf("invalid AI connect timeout %q: %w", aiConnectStr, err)
	}
	cfg.AI.ConnectTimeout = aiConnectDuration

	aiReadStr := getConfigValue(*aiReadTimeout, "AI_READ_TIMEOUT", "90s")
	aiReadDuration, err := time.ParseDuration(aiReadStr)
	if err != nil {
		return nil, fmt.Errorf("invalid AI read timeout %q: %w", aiReadStr, err)
	}
	cfg.AI.ReadTimeout = aiReadDuration

	aiPollStr := getConfigValue(*aiPollInterval, "AI_POLL_INTERVAL", "5s")
	aiPollDuration, err := time.ParseDuration(aiPollStr)
	if err != nil {
		return nil, fmt.Errorf("invalid AI poll interval %q: %w", aiPollStr, err)
	}
	cfg.AI.PollInterval = aiPollDuration

	// Expand and validate the data path.
	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	// Expand the image path (defaults to {data}/images).
	if err := cfg.expandImagePath(); err != nil {
		return nil, fmt.Errorf("invalid image path: %w", err)
	}

	// Validate configuration.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Data.BasePath == "" {
		return errors.New("data base path cannot be empty after expansion")
	}

	switch c.AI.Transport {
	case AITransportSync, AITransportQueue:
	default:
		return fmt.Errorf("invalid AI transport: %s (must be sync or queue)", c.AI.Transport)
	}

	if c.AI.PollLimit <= 0 {
		return fmt.Errorf("invalid AI poll limit: %d (must be positive)", c.AI.PollLimit)
	}

	// AI.Endpoint can be empty - interaction endpoints then report the
	// backend as unreachable instead of refusing to boot.

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPath expands ~ and makes the path absolute.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "Glossy", "data")

	expanded, err := expandPath(c.Data.BasePath, defaultPath)
	if err != nil {
		return err
	}
	c.Data.BasePath = expanded
	return nil
}

// expandImagePath expands ~ and makes the path absolute.
// Defaults to {data}/images if not specified.
func (c *Config) expandImagePath() error {
	defaultPath := filepath.Join(c.Data.BasePath, "images")

	expanded, err := expandPath(c.Media.ImagePath, defaultPath)
	if err != nil {
		return err
	}
	c.Media.ImagePath = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=value.
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present.
		value = strings.Trim(value, `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
