package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"wizkid-challenge/internal/app"
	"wizkid-challenge/internal/domain"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "WIZKID_"

// Progress backends.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	App       App       `yaml:"app"`
	Server    Server    `yaml:"server"`
	Challenge Challenge `yaml:"challenge"`
	Catalog   Catalog   `yaml:"catalog"`
	Progress  Progress  `yaml:"progress"`
	Redis     Redis     `yaml:"redis"`
	Postgres  Postgres  `yaml:"postgres"`
	Daily     Daily     `yaml:"daily"`
}

type App struct {
	Name     string `yaml:"name" env:"APP_NAME"`
	Env      string `yaml:"env" env:"APP_ENV"`
	Timezone string `yaml:"timezone" env:"TIMEZONE"`
}

type Server struct {
	Port string `yaml:"port" env:"PORT"`
}

type Challenge struct {
	SessionLength     string   `yaml:"sessionLength" env:"SESSION_LENGTH"`
	SampleSize        int      `yaml:"sampleSize" env:"SAMPLE_SIZE"`
	BasePoints        int      `yaml:"basePoints" env:"BASE_POINTS"`
	StreakBonusFactor float64  `yaml:"streakBonusFactor" env:"STREAK_BONUS_FACTOR"`
	StreakPolicy      string   `yaml:"streakPolicy" env:"STREAK_POLICY"`
	Subjects          []string `yaml:"subjects" env:"SUBJECTS" envSeparator:","`
}

type Catalog struct {
	Path string `yaml:"path" env:"CATALOG_PATH"`
}

type Progress struct {
	Backend    string `yaml:"backend" env:"PROGRESS_BACKEND"`
	Key        string `yaml:"key" env:"PROGRESS_KEY"`
	SQLitePath string `yaml:"sqlitePath" env:"SQLITE_PATH"`
}

type Redis struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
	TTL      string `yaml:"ttl" env:"REDIS_TTL"`
}

type Postgres struct {
	URL string `yaml:"url" env:"POSTGRES_URL"`
}

type Daily struct {
	CacheTTL string `yaml:"cacheTTL" env:"DAILY_CACHE_TTL"`
}

// Default returns the configuration used when no file or override sets a value.
func Default() Config {
	scoring := app.DefaultScoringConfig()
	return Config{
		App:    App{Name: "wizkid-challenge", Env: "development"},
		Server: Server{Port: "8080"},
		Challenge: Challenge{
			SessionLength:     app.DefaultSessionLength.String(),
			SampleSize:        app.DefaultSampleSize,
			BasePoints:        scoring.BasePoints,
			StreakBonusFactor: scoring.StreakBonusFactor,
			StreakPolicy:      string(app.StreakReset),
		},
		Progress: Progress{Backend: BackendSQLite},
		Redis:    Redis{TTL: "10m"},
		Daily:    Daily{CacheTTL: "1h"},
	}
}

// Load reads YAML config from path on top of Default, then applies
// WIZKID_* environment overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadDotEnv loads variables from the given .env files, skipping missing ones.
// Variables already set in the process environment win.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Validate rejects settings the engine cannot run with.
func (c Config) Validate() error {
	switch c.Progress.Backend {
	case BackendMemory, BackendSQLite:
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("progress backend %q needs redis.addr", c.Progress.Backend)
		}
	case BackendPostgres:
		if c.Postgres.URL == "" {
			return fmt.Errorf("progress backend %q needs postgres.url", c.Progress.Backend)
		}
	default:
		return fmt.Errorf("unknown progress backend %q", c.Progress.Backend)
	}
	if _, err := app.ParseStreakPolicy(c.Challenge.StreakPolicy); err != nil {
		return err
	}
	if _, err := c.Subjects(); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Challenge.SampleSize < 0 || c.Challenge.BasePoints < 0 || c.Challenge.StreakBonusFactor < 0 {
		return errors.New("challenge sizes and points must not be negative")
	}
	return nil
}

// Location resolves app.timezone; empty means the host's local zone.
func (c Config) Location() (*time.Location, error) {
	if c.App.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.App.Timezone, err)
	}
	return loc, nil
}

// Subjects returns the configured subject order, or the default order.
func (c Config) Subjects() ([]domain.Subject, error) {
	if len(c.Challenge.Subjects) == 0 {
		return domain.DefaultSubjects, nil
	}
	subjects := make([]domain.Subject, 0, len(c.Challenge.Subjects))
	for _, raw := range c.Challenge.Subjects {
		s := domain.Subject(raw)
		if !s.Valid() {
			return nil, fmt.Errorf("unknown subject %q", raw)
		}
		subjects = append(subjects, s)
	}
	return subjects, nil
}

// Selector builds the daily question selector.
func (c Config) Selector() app.Selector {
	subjects, err := c.Subjects()
	if err != nil {
		subjects = domain.DefaultSubjects
	}
	return app.Selector{Subjects: subjects, SampleSize: c.Challenge.SampleSize}
}

// Scoring builds the per-answer scoring constants.
func (c Config) Scoring() app.ScoringConfig {
	return app.ScoringConfig{
		BasePoints:        c.Challenge.BasePoints,
		StreakBonusFactor: c.Challenge.StreakBonusFactor,
	}
}

// SessionLength parses challenge.sessionLength.
func (c Config) SessionLength() time.Duration {
	return TTLDuration(c.Challenge.SessionLength, app.DefaultSessionLength)
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
