// Package config loads server configuration from command-line flags,
// environment variables, a .env file, an optional YAML config file and
// defaults, in that order of precedence.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched for a YAML config file when none is given.
var DefaultConfigPaths = []string{
	"reeltrack.yaml",
	"reeltrack.yml",
}

// Config holds the application configuration.
type Config struct {
	App    AppConfig
	Logger LoggerConfig
	Data   DataConfig
	Server ServerConfig
	TMDB   TMDBConfig
	Gemini GeminiConfig
	Remote RemoteConfig
	Import ImportConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DataConfig holds on-disk storage locations.
type DataConfig struct {
	// BasePath holds the SQLite database, the search index and the provider cache.
	BasePath string
}

// DatabasePath is the SQLite library file.
func (d DataConfig) DatabasePath() string { return filepath.Join(d.BasePath, "reeltrack.db") }

// SearchIndexPath is the bleve index directory.
func (d DataConfig) SearchIndexPath() string { return filepath.Join(d.BasePath, "search") }

// CachePath is the badger directory for provider responses.
func (d DataConfig) CachePath() string { return filepath.Join(d.BasePath, "cache") }

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// CORSOrigins lists allowed browser origins. Empty allows any origin.
	CORSOrigins []string
	// RateLimitPerMinute caps requests per client IP. Zero disables the limit.
	RateLimitPerMinute int
}

// TMDBConfig holds metadata provider configuration.
type TMDBConfig struct {
	APIKey         string
	BaseURL        string
	ImageBaseURL   string
	Timeout        time.Duration
	RequestSpacing time.Duration
	CacheTTL       time.Duration
}

// Enabled reports whether a TMDB key was configured.
func (c TMDBConfig) Enabled() bool { return c.APIKey != "" }

// GeminiConfig holds suggestion provider configuration.
type GeminiConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Enabled reports whether a Gemini key was configured.
func (c GeminiConfig) Enabled() bool { return c.APIKey != "" }

// RemoteConfig holds the remote library mirror configuration.
type RemoteConfig struct {
	// BaseURL of the remote library backend. Empty disables mirroring.
	BaseURL      string
	Timeout      time.Duration
	SyncInterval time.Duration
}

// Enabled reports whether mirroring is configured.
func (c RemoteConfig) Enabled() bool { return c.BaseURL != "" }

// ImportConfig holds import configuration.
type ImportConfig struct {
	// WatchDir is a drop folder for Stremio export files. Empty disables watching.
	WatchDir string
	// Enrich looks imported titles up on TMDB when a key is configured.
	Enrich bool
}

// LoadConfig loads configuration from the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load loads configuration with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. YAML config file (-config, CONFIG_PATH or DefaultConfigPaths).
// 5. Default values (lowest priority).
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("reeltrack", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := fs.String("data-path", "", "Base path for the database, search index and cache")

	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 30s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := fs.String("cors-origins", "", "Comma-separated allowed origins (default: any)")
	rateLimit := fs.String("rate-limit", "", "Requests per minute per client IP (default: 300, 0 disables)")

	tmdbKey := fs.String("tmdb-api-key", "", "TMDB API key")
	tmdbSpacing := fs.String("tmdb-request-spacing", "", "Minimum spacing between TMDB requests (default: 300ms)")
	tmdbCacheTTL := fs.String("tmdb-cache-ttl", "", "How long TMDB responses are cached (default: 24h)")

	geminiKey := fs.String("gemini-api-key", "", "Gemini API key")
	geminiModel := fs.String("gemini-model", "", "Gemini model (default: gemini-2.0-flash)")

	remoteURL := fs.String("remote-url", "", "Base URL of the remote library backend")
	syncInterval := fs.String("sync-interval", "", "How often the library is mirrored (default: 5m)")

	importDir := fs.String("import-dir", "", "Drop folder watched for Stremio exports")
	importEnrich := fs.String("import-enrich", "", "Enrich imported titles from TMDB (default: true)")

	envFile := fs.String("env-file", ".env", "Path to .env file")
	configFile := fs.String("config", "", "Path to a YAML config file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	yml, err := loadConfigFile(getConfigValue(*configFile, "CONFIG_PATH", ""))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", yml.value("app.environment", "development")),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", yml.value("logger.level", "info")),
		},
		Data: DataConfig{
			BasePath: getConfigValue(*dataPath, "DATA_PATH", yml.value("data.path", "")),
		},
		Server: ServerConfig{
			Port:               getConfigValue(*serverPort, "SERVER_PORT", yml.value("server.port", "8080")),
			CORSOrigins:        splitList(getConfigValue(*corsOrigins, "CORS_ORIGINS", yml.list("server.cors_origins"))),
			RateLimitPerMinute: getIntConfigValue(*rateLimit, "RATE_LIMIT_PER_MINUTE", yml.intValue("server.rate_limit_per_minute", 300)),
		},
		TMDB: TMDBConfig{
			APIKey:       getConfigValue(*tmdbKey, "TMDB_API_KEY", yml.value("tmdb.api_key", "")),
			BaseURL:      getConfigValue("", "TMDB_BASE_URL", yml.value("tmdb.base_url", "https://api.themoviedb.org/3")),
			ImageBaseURL: getConfigValue("", "TMDB_IMAGE_BASE_URL", yml.value("tmdb.image_base_url", "https://image.tmdb.org/t/p/w500")),
		},
		Gemini: GeminiConfig{
			APIKey:  getConfigValue(*geminiKey, "GEMINI_API_KEY", yml.value("gemini.api_key", "")),
			BaseURL: getConfigValue("", "GEMINI_BASE_URL", yml.value("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")),
			Model:   getConfigValue(*geminiModel, "GEMINI_MODEL", yml.value("gemini.model", "gemini-2.0-flash")),
		},
		Remote: RemoteConfig{
			BaseURL: strings.TrimRight(getConfigValue(*remoteURL, "REMOTE_URL", yml.value("remote.url", "")), "/"),
		},
		Import: ImportConfig{
			WatchDir: getConfigValue(*importDir, "IMPORT_DIR", yml.value("import.dir", "")),
			Enrich:   getBoolConfigValue(*importEnrich, "IMPORT_ENRICH", yml.boolValue("import.enrich", true)),
		},
	}

	durations := []struct {
		dst          *time.Duration
		flagValue    string
		envKey       string
		fileKey      string
		defaultValue string
	}{
		{&cfg.Server.ReadTimeout, *readTimeout, "SERVER_READ_TIMEOUT", "server.read_timeout", "15s"},
		{&cfg.Server.WriteTimeout, *writeTimeout, "SERVER_WRITE_TIMEOUT", "server.write_timeout", "30s"},
		{&cfg.Server.IdleTimeout, *idleTimeout, "SERVER_IDLE_TIMEOUT", "server.idle_timeout", "60s"},
		{&cfg.TMDB.Timeout, "", "TMDB_TIMEOUT", "tmdb.timeout", "10s"},
		{&cfg.TMDB.RequestSpacing, *tmdbSpacing, "TMDB_REQUEST_SPACING", "tmdb.request_spacing", "300ms"},
		{&cfg.TMDB.CacheTTL, *tmdbCacheTTL, "TMDB_CACHE_TTL", "tmdb.cache_ttl", "24h"},
		{&cfg.Gemini.Timeout, "", "GEMINI_TIMEOUT", "gemini.timeout", "60s"},
		{&cfg.Remote.Timeout, "", "REMOTE_TIMEOUT", "remote.timeout", "10s"},
		{&cfg.Remote.SyncInterval, *syncInterval, "SYNC_INTERVAL", "remote.sync_interval", "5m"},
	}
	for _, d := range durations {
		value := getConfigValue(d.flagValue, d.envKey, yml.value(d.fileKey, d.defaultValue))
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.envKey, value, err)
		}
		*d.dst = parsed
	}

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}
	if cfg.Import.WatchDir != "" {
		expanded, err := expandPath(cfg.Import.WatchDir, "")
		if err != nil {
			return nil, fmt.Errorf("invalid import dir: %w", err)
		}
		cfg.Import.WatchDir = expanded
	}

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

	if c.Server.RateLimitPerMinute < 0 {
		return fmt.Errorf("invalid rate limit: %d", c.Server.RateLimitPerMinute)
	}
	if c.TMDB.RequestSpacing < 0 {
		return fmt.Errorf("invalid TMDB request spacing: %s", c.TMDB.RequestSpacing)
	}
	if c.Remote.Enabled() && c.Remote.SyncInterval <= 0 {
		return fmt.Errorf("sync interval must be positive, got %s", c.Remote.SyncInterval)
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty, defaultPath is returned as is.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPath defaults the data directory to ~/ReelTrack/data.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "ReelTrack", "data")

	expanded, err := expandPath(c.Data.BasePath, defaultPath)
	if err != nil {
		return err
	}
	c.Data.BasePath = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(strValue)
	if err != nil {
		return defaultValue
	}
	return result
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// fileLayer reads values from the YAML config file. Missing keys fall back
// to the supplied default.
type fileLayer struct {
	k *koanf.Koanf
}

// loadConfigFile loads the YAML file at path. With an empty path the first
// existing DefaultConfigPaths entry is used, and no file at all is not an error.
func loadConfigFile(path string) (fileLayer, error) {
	k := koanf.New(".")
	if path == "" {
		for _, candidate := range DefaultConfigPaths {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
		if path == "" {
			return fileLayer{k: k}, nil
		}
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fileLayer{}, fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	return fileLayer{k: k}, nil
}

func (f fileLayer) value(path, defaultValue string) string {
	if !f.k.Exists(path) {
		return defaultValue
	}
	return f.k.String(path)
}

func (f fileLayer) intValue(path string, defaultValue int) int {
	if !f.k.Exists(path) {
		return defaultValue
	}
	return f.k.Int(path)
}

func (f fileLayer) boolValue(path string, defaultValue bool) bool {
	if !f.k.Exists(path) {
		return defaultValue
	}
	return f.k.Bool(path)
}

// list accepts either a YAML sequence or a comma-separated string and
// returns it comma-joined for splitList.
func (f fileLayer) list(path string) string {
	if !f.k.Exists(path) {
		return ""
	}
	if s, ok := f.k.Get(path).(string); ok {
		return s
	}
	return strings.Join(f.k.Strings(path), ",")
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	f, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
