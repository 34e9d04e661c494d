package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Data:   DataConfig{BasePath: "/some/path"},
		Remote: RemoteConfig{SyncInterval: time.Minute},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"DEBUG", true}, // case insensitive
		{"trace", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_Limits(t *testing.T) {
	cfg := validConfig()
	cfg.Data.BasePath = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Server.RateLimitPerMinute = -1
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Remote.BaseURL = "http://mirror"
	cfg.Remote.SyncInterval = 0
	assert.Error(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATA_PATH", t.TempDir())

	cfg, err := Load([]string{"-env-file", filepath.Join(t.TempDir(), "missing.env")})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 300*time.Millisecond, cfg.TMDB.RequestSpacing)
	assert.Equal(t, 24*time.Hour, cfg.TMDB.CacheTTL)
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
	assert.Equal(t, 300, cfg.Server.RateLimitPerMinute)
	assert.True(t, cfg.Import.Enrich)
	assert.False(t, cfg.TMDB.Enabled())
	assert.False(t, cfg.Remote.Enabled())
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"# local settings\nSERVER_PORT=9000\nTMDB_API_KEY=\"from-file\"\nLOG_LEVEL=warn\n",
	), 0o600))

	t.Setenv("DATA_PATH", dir)
	t.Setenv("LOG_LEVEL", "debug")
	// Registered so the value loaded from the file is reset after the test.
	t.Setenv("SERVER_PORT", "")
	t.Setenv("TMDB_API_KEY", "")

	cfg, err := Load([]string{"-env-file", envFile, "-port", "7000", "-cors-origins", "http://a.test, http://b.test"})
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Server.Port, "flag beats .env")
	assert.Equal(t, "debug", cfg.Logger.Level, "env beats .env")
	assert.Equal(t, "from-file", cfg.TMDB.APIKey, ".env beats default")
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
	assert.Equal(t, filepath.Join(dir, "reeltrack.db"), cfg.Data.DatabasePath())
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "reeltrack.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
logger:
  level: warn
server:
  port: 9100
  rate_limit_per_minute: 60
  cors_origins:
    - http://a.test
    - http://b.test
tmdb:
  request_spacing: 1s
import:
  enrich: false
`), 0o600))

	t.Setenv("DATA_PATH", dir)
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := Load([]string{"-env-file", "", "-config", configFile})
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Logger.Level, "env beats config file")
	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, 60, cfg.Server.RateLimitPerMinute)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
	assert.Equal(t, time.Second, cfg.TMDB.RequestSpacing)
	assert.False(t, cfg.Import.Enrich)
	assert.Equal(t, 24*time.Hour, cfg.TMDB.CacheTTL, "unset keys keep defaults")
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Setenv("DATA_PATH", t.TempDir())

	_, err := Load([]string{"-env-file", "", "-config", filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("DATA_PATH", t.TempDir())

	_, err := Load([]string{"-env-file", "", "-sync-interval", "soon"})
	assert.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("~/films", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "films"), got)

	got, err = expandPath("", "/default")
	require.NoError(t, err)
	assert.Equal(t, "/default", got)

	got, err = expandPath("/a/../b", "")
	require.NoError(t, err)
	assert.Equal(t, "/b", got)
}

func TestGetBoolConfigValue(t *testing.T) {
	t.Setenv("SOME_BOOL", "YES")
	assert.True(t, getBoolConfigValue("", "SOME_BOOL", false))
	assert.False(t, getBoolConfigValue("off", "SOME_BOOL", true))
	assert.True(t, getBoolConfigValue("", "UNSET_BOOL_KEY", true))
}

func TestGetIntConfigValue(t *testing.T) {
	t.Setenv("SOME_INT", "42")
	assert.Equal(t, 42, getIntConfigValue("", "SOME_INT", 1))
	assert.Equal(t, 7, getIntConfigValue("7", "SOME_INT", 1))
	assert.Equal(t, 1, getIntConfigValue("nope", "SOME_INT", 1))
}
