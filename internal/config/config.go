package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "PROMPTLAB"

// Config keys. Each maps to PROMPTLAB_<KEY with "." replaced by "_">.
const (
	KeyServerPort            = "server.port"
	KeyServerShutdownTimeout = "server.shutdown_timeout"
	KeyCORSAllowOrigins      = "cors.allow_origins"
	KeyLogLevel              = "log.level"
	KeyLogFile               = "log.file"
	KeyLogMaxSizeMB          = "log.max_size_mb"
	KeyLogMaxBackups         = "log.max_backups"
	KeyLogMaxAgeDays         = "log.max_age_days"
	KeyIdempotencyTTL        = "idempotency.ttl"
	KeyMCPEnabled            = "mcp.enabled"
	KeyEventsBuffer          = "events.buffer"
)

type Config struct {
	Server      ServerConfig
	CORS        CORSConfig
	Log         LogConfig
	Idempotency IdempotencyConfig
	MCP         MCPConfig
	Events      EventsConfig
}

type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
}

// Addr returns the listen address for the HTTP server.
func (c ServerConfig) Addr() string { return fmt.Sprintf(":%d", c.Port) }

type CORSConfig struct {
	AllowOrigins []string
}

// LogConfig controls slog output. An empty File logs to stdout.
type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type IdempotencyConfig struct {
	TTL time.Duration
}

type MCPConfig struct {
	Enabled bool
}

type EventsConfig struct {
	Buffer int
}

// New returns a viper instance with defaults and environment binding applied.
// Flags may be bound to it before Load is called.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyServerPort, 8000)
	v.SetDefault(KeyServerShutdownTimeout, 10*time.Second)
	v.SetDefault(KeyCORSAllowOrigins, []string{"*"})
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyLogMaxSizeMB, 100)
	v.SetDefault(KeyLogMaxBackups, 3)
	v.SetDefault(KeyLogMaxAgeDays, 28)
	v.SetDefault(KeyIdempotencyTTL, 10*time.Minute)
	v.SetDefault(KeyMCPEnabled, true)
	v.SetDefault(KeyEventsBuffer, 64)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads an optional .env file, then the optional YAML config file at
// path, and resolves the final configuration. A missing .env is not an error;
// a missing config file is an error only when path was given explicitly.
func Load(v *viper.Viper, path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := Config{
		Server: ServerConfig{
			Port:            v.GetInt(KeyServerPort),
			ShutdownTimeout: v.GetDuration(KeyServerShutdownTimeout),
		},
		CORS: CORSConfig{
			AllowOrigins: splitList(v.GetStringSlice(KeyCORSAllowOrigins)),
		},
		Log: LogConfig{
			Level:      v.GetString(KeyLogLevel),
			File:       v.GetString(KeyLogFile),
			MaxSizeMB:  v.GetInt(KeyLogMaxSizeMB),
			MaxBackups: v.GetInt(KeyLogMaxBackups),
			MaxAgeDays: v.GetInt(KeyLogMaxAgeDays),
		},
		Idempotency: IdempotencyConfig{
			TTL: v.GetDuration(KeyIdempotencyTTL),
		},
		MCP: MCPConfig{
			Enabled: v.GetBool(KeyMCPEnabled),
		},
		Events: EventsConfig{
			Buffer: v.GetInt(KeyEventsBuffer),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// splitList flattens list values that arrive as one comma-separated string,
// as they do from environment variables.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		out = append(out, strings.FieldsFunc(v, func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		})...)
	}
	return out
}

func (c Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid %s %d: must be 1-65535", KeyServerPort, c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid %s: must be positive", KeyServerShutdownTimeout)
	}
	if c.Idempotency.TTL <= 0 {
		return fmt.Errorf("invalid %s: must be positive", KeyIdempotencyTTL)
	}
	if c.Events.Buffer <= 0 {
		return fmt.Errorf("invalid %s: must be positive", KeyEventsBuffer)
	}
	if len(c.CORS.AllowOrigins) == 0 {
		return fmt.Errorf("invalid %s: at least one origin required", KeyCORSAllowOrigins)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid %s %q: want debug, info, warn or error", KeyLogLevel, c.Log.Level)
	}
	return nil
}
