package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/comitanigiacomo/kanso-nutrition/internal/core/domain"
)

var ErrMissingSecret = errors.New("JWT_SECRET is required")

type DBConfig struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     string
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.Name)
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret   string
	Issuer   string
	Duration time.Duration
}

type HTTPConfig struct {
	Port            string
	RateLimit       int
	RateWindow      time.Duration
	ShutdownTimeout time.Duration
}

// AWSConfig enables the SNS sink when SNSTopicArn is set.
type AWSConfig struct {
	Region      string
	SNSTopicArn string
}

type Config struct {
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	HTTP      HTTPConfig
	AWS       AWSConfig
	Analytics domain.AnalyticsConfig
	Reminder  domain.ReminderConfig
	// RemindersEnabled switches the background scheduler on.
	RemindersEnabled bool
}

// Load reads an optional .env file, then the environment. Unset variables
// fall back to defaults; malformed ones are reported.
func Load(envFiles ...string) (Config, error) {
	_ = godotenv.Load(envFiles...)

	p := &parser{}

	cfg := Config{
		DB: DBConfig{
			User:     getEnv("DB_USER", "kanso_user"),
			Password: getEnv("DB_PASSWORD", "secret"),
			Name:     getEnv("DB_NAME", "kanso_db"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       p.int("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:   os.Getenv("JWT_SECRET"),
			Issuer:   getEnv("JWT_ISSUER", "kanso-nutrition"),
			Duration: p.duration("JWT_DURATION", 24*time.Hour),
		},
		HTTP: HTTPConfig{
			Port:            getEnv("PORT", "8080"),
			RateLimit:       p.int("RATE_LIMIT", 100),
			RateWindow:      p.duration("RATE_WINDOW", time.Minute),
			ShutdownTimeout: p.duration("SHUTDOWN_TIMEOUT", 5*time.Second),
		},
		AWS: AWSConfig{
			Region:      getEnv("AWS_REGION", "eu-west-1"),
			SNSTopicArn: os.Getenv("SNS_TOPIC_ARN"),
		},
		RemindersEnabled: p.bool("REMINDERS_ENABLED", true),
	}

	analytics := domain.DefaultAnalyticsConfig()
	analytics.GoalMetRatio = p.float("GOAL_MET_RATIO", analytics.GoalMetRatio)
	analytics.OverLimitRatio = p.float("OVER_LIMIT_RATIO", analytics.OverLimitRatio)
	analytics.TrendEpsilon = p.float("TREND_EPSILON", analytics.TrendEpsilon)
	analytics.ConsistencyThreshold = p.float("CONSISTENCY_THRESHOLD", analytics.ConsistencyThreshold)
	analytics.DefaultWindowDays = p.int("TREND_DEFAULT_DAYS", analytics.DefaultWindowDays)
	analytics.MaxWindowDays = p.int("TREND_MAX_DAYS", analytics.MaxWindowDays)
	analytics.DeriveGoals = p.bool("DERIVE_GOALS", analytics.DeriveGoals)
	cfg.Analytics = analytics

	reminder := domain.DefaultReminderConfig()
	if times := os.Getenv("REMINDER_TIMES"); times != "" {
		reminder.DefaultTimes = splitList(times)
	}
	if tz := os.Getenv("REMINDER_TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			p.fail("REMINDER_TIMEZONE", err)
		} else {
			reminder.DefaultLocation = loc
		}
	}
	reminder.TickInterval = p.duration("REMINDER_TICK", reminder.TickInterval)
	reminder.GracePeriod = p.duration("REMINDER_GRACE", reminder.GracePeriod)
	reminder.Workers = p.int("REMINDER_WORKERS", reminder.Workers)
	cfg.Reminder = reminder

	if err := errors.Join(p.errs...); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if cfg.JWT.Secret == "" {
		return Config{}, ErrMissingSecret
	}
	if err := cfg.Analytics.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parser collects every malformed variable instead of stopping at the first.
type parser struct {
	errs []error
}

func (p *parser) fail(key string, err error) {
	p.errs = append(p.errs, fmt.Errorf("invalid %s: %w", key, err))
}

func (p *parser) int(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key, err)
		return fallback
	}
	return v
}

func (p *parser) float(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(key, err)
		return fallback
	}
	return v
}

func (p *parser) bool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(key, err)
		return fallback
	}
	return v
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		p.fail(key, err)
		return fallback
	}
	return v
}
