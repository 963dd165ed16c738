// Package config loads server settings from flags, falling back to
// environment variables and then to built-in defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Addr                string
	AllowOrigins        string
	MatchmakingInterval time.Duration
	WSReadBufferSize    int
	WSWriteBufferSize   int
	LogLevel            string
}

func Default() Config {
	return Config{
		Addr:                ":3000",
		AllowOrigins:        "http://localhost:5173",
		MatchmakingInterval: time.Second,
		WSReadBufferSize:    1024,
		WSWriteBufferSize:   1024,
		LogLevel:            "info",
	}
}

// Load parses args (without the program name) on top of the environment.
func Load(args []string) (Config, error) {
	cfg := Default()
	cfg.Addr = envString("CHESS_ADDR", cfg.Addr)
	cfg.AllowOrigins = envString("CHESS_ALLOW_ORIGINS", cfg.AllowOrigins)
	cfg.LogLevel = envString("CHESS_LOG_LEVEL", cfg.LogLevel)
	interval, err := envDuration("CHESS_MATCHMAKING_INTERVAL", cfg.MatchmakingInterval)
	if err != nil {
		return Config{}, err
	}
	cfg.MatchmakingInterval = interval

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "Address to listen on")
	fs.StringVar(&cfg.AllowOrigins, "allow-origins", cfg.AllowOrigins, "Comma separated CORS origins")
	fs.DurationVar(&cfg.MatchmakingInterval, "matchmaking-interval", cfg.MatchmakingInterval, "How often queued players are paired")
	fs.IntVar(&cfg.WSReadBufferSize, "ws-read-buffer", cfg.WSReadBufferSize, "WebSocket read buffer size in bytes")
	fs.IntVar(&cfg.WSWriteBufferSize, "ws-write-buffer", cfg.WSWriteBufferSize, "WebSocket write buffer size in bytes")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: trace, debug, info, warn, error")
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: empty listen address", ErrInvalidConfig)
	}
	if c.MatchmakingInterval <= 0 {
		return fmt.Errorf("%w: matchmaking interval must be positive", ErrInvalidConfig)
	}
	if c.WSReadBufferSize <= 0 || c.WSWriteBufferSize <= 0 {
		return fmt.Errorf("%w: websocket buffer sizes must be positive", ErrInvalidConfig)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Origins splits AllowOrigins for the websocket origin check.
func (c Config) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(c.AllowOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func (c Config) Level() (log.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "info":
		return log.LevelInfo, nil
	case "warn":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	}
	return log.LevelInfo, fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.LogLevel)
}

func envString(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d, nil
	}
	// bare numbers are seconds
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidConfig, key, value)
	}
	return time.Duration(seconds) * time.Second, nil
}
