// Package config loads process configuration from .env, struct defaults and
// GYMDESK_* environment variables, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
)

// Environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is everything main needs to wire the server.
type Config struct {
	Env           string        `default:"development"`
	Addr          string        `default:":8080"`
	DBPath        string        `default:"gymdesk.db"`
	LogLevel      string        `default:"info"`
	AdminEmail    string        `default:"admin@gymdesk.local"`
	AdminPassword string        `default:""`
	ResendKey     string        `default:""`
	EmailFrom     string        `default:"Gym Desk <noreply@gymdesk.local>"`
	ReplyTo       string        `default:""`
	CloudinaryURL string        `default:""`
	CSRFKey       string        `default:""`
	OutboxEvery   time.Duration `default:"1m"`
	SlowQuery     time.Duration `default:"50ms"`
	SlowRequest   time.Duration `default:"500ms"`
	SeedSamples   bool          `default:"true"`
}

// IsProduction reports whether Env is production.
func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// SlogLevel maps LogLevel onto a slog level; unknown values mean info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Validate rejects configurations that cannot start a production server.
func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("GYMDESK_ADDR must not be empty")
	}
	if c.DBPath == "" {
		return errors.New("GYMDESK_DB_PATH must not be empty")
	}
	if c.OutboxEvery <= 0 {
		return errors.New("GYMDESK_OUTBOX_INTERVAL must be positive")
	}
	if c.IsProduction() && len(c.CSRFKey) < 32 {
		return errors.New("GYMDESK_CSRF_KEY must be at least 32 bytes in production")
	}
	return nil
}

// Load reads envFile (if it exists) into the process environment, then builds a Config.
// PRE: envFile may be empty to skip .env loading
// POST: Returns a validated Config
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from defaults overridden by lookup.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return Config{}, fmt.Errorf("config defaults: %w", err)
	}

	strs := map[string]*string{
		"GYMDESK_ENV":            &c.Env,
		"GYMDESK_ADDR":           &c.Addr,
		"GYMDESK_DB_PATH":        &c.DBPath,
		"GYMDESK_LOG_LEVEL":      &c.LogLevel,
		"GYMDESK_ADMIN_EMAIL":    &c.AdminEmail,
		"GYMDESK_ADMIN_PASSWORD": &c.AdminPassword,
		"GYMDESK_RESEND_KEY":     &c.ResendKey,
		"GYMDESK_EMAIL_FROM":     &c.EmailFrom,
		"GYMDESK_REPLY_TO":       &c.ReplyTo,
		"GYMDESK_CLOUDINARY_URL": &c.CloudinaryURL,
		"GYMDESK_CSRF_KEY":       &c.CSRFKey,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup("GYMDESK_OUTBOX_INTERVAL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("GYMDESK_OUTBOX_INTERVAL: %w", err)
		}
		c.OutboxEvery = d
	}
	if v, ok := lookup("GYMDESK_SEED_SAMPLES"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("GYMDESK_SEED_SAMPLES: %w", err)
		}
		c.SeedSamples = b
	}
	millis := map[string]*time.Duration{
		"GYMDESK_SLOW_QUERY_MS":   &c.SlowQuery,
		"GYMDESK_SLOW_REQUEST_MS": &c.SlowRequest,
	}
	for key, dst := range millis {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		ms, err := strconv.Atoi(v)
		if err != nil || ms <= 0 {
			return Config{}, fmt.Errorf("%s must be a positive integer, got %q", key, v)
		}
		*dst = time.Duration(ms) * time.Millisecond
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}
