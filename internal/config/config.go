package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultHost is the public room service.
	DefaultHost = "https://meetenjoy.herokuapp.com"
	// AppDirName is the directory created under the per-user config dir.
	AppDirName = "meetenjoy"
	// ConfigFileName is the name of the alias/name document.
	ConfigFileName = "config.json"
)

type Config struct {
	Host       string // room service base URL, ex: "https://meetenjoy.herokuapp.com"
	ConfigPath string // path to the alias/name document

	LogLevel  string // "debug" | "info" | "warn" | "error", empty => per-command default
	PrettyLog bool   // true => console encoder, false => JSON unless stderr is a TTY

	ExportTimeout time.Duration // timeout of the export fetch (ex: 10s)

	// Redirect server
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	ReloadInterval  time.Duration // interval to re-read the config document while serving
	AllowedCIDRS    []string      // peers allowed to POST /reload, ex: "127.0.0.1,10.0.0.0/8"

	// Redis (optional, empty RedisAddr disables usage counters)
	RedisAddr           string
	RedisUser           string
	RedisPassword       string
	RedisDB             int
	RedisConnectTimeout time.Duration // total time to retry connecting (ex: 5s)
	RedisRetryInterval  time.Duration // initial wait between retries, doubles up to RedisMaxWait
	RedisMaxWait        time.Duration
	RedisPingTimeout    time.Duration
}

// Load reads settings from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	configPath := getenv("MJ_CONFIG_PATH", "")
	if configPath == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		configPath = p
	}

	cfg := &Config{
		Host:       strings.TrimRight(getenv("MJ_HOST", DefaultHost), "/"),
		ConfigPath: expandTilde(configPath),

		LogLevel:  getenv("MJ_LOG_LEVEL", ""),
		PrettyLog: mustBool("MJ_PRETTY_LOG", false),

		ExportTimeout: mustDuration("MJ_EXPORT_TIMEOUT", 10*time.Second),

		ListenPort:      getenv("MJ_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("MJ_SHUTDOWN_TIMEOUT", 5*time.Second),
		ReloadInterval:  mustDuration("MJ_RELOAD_INTERVAL", 30*time.Second),
		AllowedCIDRS:    splitAndTrim(getenv("MJ_ALLOWED_CIDRS", "127.0.0.1,::1")),

		RedisAddr:           getenv("MJ_REDIS_ADDR", ""),
		RedisUser:           getenv("MJ_REDIS_USERNAME", ""),
		RedisPassword:       getenv("MJ_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("MJ_REDIS_DB", 0),
		RedisConnectTimeout: mustDuration("MJ_REDIS_CONNECT_TIMEOUT", 5*time.Second),
		RedisRetryInterval:  mustDuration("MJ_REDIS_RETRY_INTERVAL", 500*time.Millisecond),
		RedisMaxWait:        mustDuration("MJ_REDIS_MAX_WAIT", 2*time.Second),
		RedisPingTimeout:    mustDuration("MJ_REDIS_PING_TIMEOUT", time.Second),
	}

	if cfg.Host == "" {
		return nil, fmt.Errorf("MJ_HOST must not be empty")
	}

	return cfg, nil
}

// LevelOr returns the configured log level, or def when none is set.
func (c *Config) LevelOr(def string) string {
	if c.LogLevel == "" {
		return def
	}
	return c.LogLevel
}

// DefaultConfigPath returns <user config dir>/meetenjoy/config.json.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config dir: %w", err)
	}
	return filepath.Join(dir, AppDirName, ConfigFileName), nil
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
