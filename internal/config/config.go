// Package config loads client settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment variable, e.g. EDUCONECT_API_URL.
const EnvPrefix = "EDUCONECT"

const maxPageSize = 100

// Config holds all client configuration.
type Config struct {
	APIURL     string
	APITimeout time.Duration
	StateDir   string
	LogLevel   string
	LogFormat  string
	// RedisURL selects shared Redis session storage. Empty means files under StateDir.
	RedisURL string
	PageSize int
	// Token overrides the persisted session token for one-shot commands.
	Token string
}

// Load reads configuration from the environment with defaults.
// A .env file in the working directory is loaded if present.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env is optional

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetTypeByDefaultValue(true)
	v.AutomaticEnv()

	v.SetDefault("api_url", "http://localhost:8080/api")
	v.SetDefault("api_timeout", 30*time.Second)
	v.SetDefault("state_dir", "~/.educonect")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("redis_url", "")
	v.SetDefault("page_size", 12)
	v.SetDefault("token", "")

	stateDir, err := expandHome(v.GetString("state_dir"))
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	cfg := &Config{
		APIURL:     strings.TrimRight(v.GetString("api_url"), "/"),
		APITimeout: v.GetDuration("api_timeout"),
		StateDir:   stateDir,
		LogLevel:   v.GetString("log_level"),
		LogFormat:  v.GetString("log_format"),
		RedisURL:   v.GetString("redis_url"),
		PageSize:   clampPageSize(v.GetInt("page_size")),
		Token:      strings.TrimSpace(v.GetString("token")),
	}
	if cfg.APITimeout <= 0 {
		cfg.APITimeout = 30 * time.Second
	}
	return cfg, nil
}

// LogFile is where the client writes its logs; stdout belongs to the terminal UI.
func (c *Config) LogFile() string {
	return filepath.Join(c.StateDir, "educonect.log")
}

func clampPageSize(n int) int {
	switch {
	case n <= 0:
		return 12
	case n > maxPageSize:
		return maxPageSize
	default:
		return n
	}
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}
