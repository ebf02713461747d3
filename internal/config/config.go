package config

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all service configuration.
type Config struct {
	Addr      string
	DBPath    string // optional SQLite export consulted before the embedded table
	DataDir   string // optional directory of IEEE CSV exports replacing the embedded snapshot
	CacheSize int
	RateLimit int // requests per minute per client, 0 disables limiting
	Debug     bool

	ShutdownTimeout time.Duration
}

// Load parses command line flags and environment variables to populate Config.
// Flags take precedence over environment variables.
func Load() *Config {
	cfg, _ := Parse(flag.CommandLine, os.Args[1:])
	return cfg
}

// Parse fills a Config from the environment and then from args using fs.
func Parse(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}

	// Defaults and Environment Variables
	cfg.Addr = getEnv("MACOUI_ADDR", ":8080")
	cfg.DBPath = getEnv("MACOUI_DB", "")
	cfg.DataDir = getEnv("MACOUI_DATA_DIR", "")
	cfg.CacheSize = getEnvInt("MACOUI_CACHE", 10000)
	cfg.RateLimit = getEnvInt("MACOUI_RATE_LIMIT", 600)
	cfg.Debug = getEnvBool("MACOUI_DEBUG", false)

	// Command Line Flags (Override Env)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP server address")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to SQLite registry export (empty to disable)")
	fs.StringVar(&cfg.DataDir, "data", cfg.DataDir, "Directory with IEEE CSV exports (empty for embedded snapshot)")
	fs.IntVar(&cfg.CacheSize, "cache", cfg.CacheSize, "Lookup cache size for the SQLite export")
	fs.IntVar(&cfg.RateLimit, "rate-limit", cfg.RateLimit, "Requests per minute per client (0 to disable)")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable verbose debug logging")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", 5*time.Second, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if cfg.DBPath != "" {
		cfg.DBPath = ensureDir(cfg.DBPath)
	}

	return cfg, nil
}

// LogLevel maps the debug switch to a slog level.
func (c *Config) LogLevel() slog.Level {
	if c.Debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

// ensureDir creates the parent directory of path if it doesn't exist.
func ensureDir(path string) string {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		slog.Warn("could not create database directory", "path", path, "error", err)
	}
	return path
}
