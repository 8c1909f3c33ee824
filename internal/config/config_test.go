package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "rezervasyon")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("LOCK_WAIT", "2s")

	c := Load()
	assert.Equal(t, "8080", c.Port)
	assert.Empty(t, c.DBPass)
	assert.True(t, c.AutoMigrate)
	assert.Equal(t, 2*time.Second, c.LockWait)
	assert.Equal(t, 10*time.Second, c.LockTTL)
	assert.Equal(t, 25, c.DBMaxConns)
}

func TestRabbitURL(t *testing.T) {
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("RABBITMQ_HOST", "mq")
	assert.Equal(t, "amqp://guest:guest@mq:5672/", RabbitURL())

	t.Setenv("RABBITMQ_URL", "amqp://u:p@broker:5672/vh")
	assert.Equal(t, "amqp://u:p@broker:5672/vh", RabbitURL())
}

func TestLoadRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "10s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	c := LoadRateLimitConfig()
	assert.Equal(t, 1, c.Capacity)
	assert.Equal(t, 50*time.Second, c.TTL)
}

func TestLoadSMSConfigRequiresCredentials(t *testing.T) {
	t.Setenv("SMS_ENABLED", "true")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("TWILIO_AUTH_TOKEN", "")
	t.Setenv("TWILIO_FROM", "+15005550006")
	assert.False(t, LoadSMSConfig().Enabled)

	t.Setenv("TWILIO_AUTH_TOKEN", "tok")
	assert.True(t, LoadSMSConfig().Enabled)
}

func TestLoadSchedulerConfigMinimumInterval(t *testing.T) {
	t.Setenv("SCHEDULER_INTERVAL", "10s")
	c := LoadSchedulerConfig()
	assert.Equal(t, time.Minute, c.Interval)
	assert.Equal(t, 2*time.Hour, c.ReminderLead)
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_BOOL", "off")
	t.Setenv("X_INT", "nope")
	t.Setenv("X_DUR", "90s")
	assert.False(t, envBool("X_BOOL", true))
	assert.Equal(t, 7, envInt("X_INT", 7))
	assert.Equal(t, 90*time.Second, envDur("X_DUR", 0))
	assert.Equal(t, "d", envStr("X_MISSING", "d"))
}
