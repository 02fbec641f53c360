package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-nutrition/internal/core/domain"
)

func TestLoad(t *testing.T) {
	t.Run("Success: defaults", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s3cret")

		cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))

		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.HTTP.Port)
		assert.Equal(t, 100, cfg.HTTP.RateLimit)
		assert.Equal(t, 24*time.Hour, cfg.JWT.Duration)
		assert.Equal(t, domain.DefaultAnalyticsConfig(), cfg.Analytics)
		assert.Equal(t, []string{"08:00", "13:00", "19:00"}, cfg.Reminder.DefaultTimes)
		assert.Empty(t, cfg.AWS.SNSTopicArn)
	})

	t.Run("Success: overrides", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("PORT", "9090")
		t.Setenv("DB_HOST", "db")
		t.Setenv("GOAL_MET_RATIO", "0.95")
		t.Setenv("TREND_DEFAULT_DAYS", "14")
		t.Setenv("REMINDER_TIMES", "07:30, 12:00,,")
		t.Setenv("REMINDER_TIMEZONE", "Europe/Rome")
		t.Setenv("REMINDERS_ENABLED", "false")

		cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))

		require.NoError(t, err)
		assert.Equal(t, "9090", cfg.HTTP.Port)
		assert.Equal(t, "postgres://kanso_user:secret@db:5432/kanso_db?sslmode=disable", cfg.DB.DSN())
		assert.Equal(t, 0.95, cfg.Analytics.GoalMetRatio)
		assert.Equal(t, 14, cfg.Analytics.DefaultWindowDays)
		assert.Equal(t, []string{"07:30", "12:00"}, cfg.Reminder.DefaultTimes)
		assert.Equal(t, "Europe/Rome", cfg.Reminder.DefaultLocation.String())
		assert.False(t, cfg.RemindersEnabled)
	})

	t.Run("Success: values from a .env file", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		os.Unsetenv("JWT_SECRET")
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("JWT_SECRET=from-file\nSNS_TOPIC_ARN=arn:aws:sns:eu-west-1:1:t\n"), 0o600))
		t.Cleanup(func() {
			os.Unsetenv("SNS_TOPIC_ARN")
		})

		cfg, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "from-file", cfg.JWT.Secret)
		assert.Equal(t, "arn:aws:sns:eu-west-1:1:t", cfg.AWS.SNSTopicArn)
	})

	t.Run("Fail: missing secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")

		_, err := Load(filepath.Join(t.TempDir(), "missing.env"))

		assert.ErrorIs(t, err, ErrMissingSecret)
	})

	t.Run("Fail: every malformed value is reported", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("RATE_LIMIT", "lots")
		t.Setenv("JWT_DURATION", "forever")

		_, err := Load(filepath.Join(t.TempDir(), "missing.env"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "RATE_LIMIT")
		assert.Contains(t, err.Error(), "JWT_DURATION")
	})

	t.Run("Fail: inconsistent analytics thresholds", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("OVER_LIMIT_RATIO", "0.5")

		_, err := Load(filepath.Join(t.TempDir(), "missing.env"))

		assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	})
}
