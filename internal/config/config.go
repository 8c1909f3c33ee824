package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds the core runtime configuration. Each field corresponds to an
// environment variable; optional features (rate limit, cache, SMS,
// scheduler) have their own loaders.
type Config struct {
	Env       string // application environment (e.g. "dev", "prod")
	Port      string // HTTP port to listen on
	DBUser    string // database username
	DBPass    string // database password (optional)
	DBHost    string // database host address
	DBPort    string // database port number
	DBName    string // database name
	JWTSecret string // secret used to verify access tokens

	DBMaxConns    int           // connection pool size
	DBMaxLifetime time.Duration // connection recycle age

	AutoMigrate bool          // create tables at startup
	LockPrefix  string        // Redis key prefix for booking locks
	LockTTL     time.Duration // expiry of a Redis booking lock
	LockWait    time.Duration // how long a request waits for a busy table
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:       must("APP_ENV"),
		Port:      must("APP_PORT"),
		DBUser:    must("DB_USER"),
		DBPass:    os.Getenv("DB_PASS"), // empty allowed
		DBHost:    must("DB_HOST"),
		DBPort:    must("DB_PORT"),
		DBName:    must("DB_NAME"),
		JWTSecret: must("JWT_SECRET"),

		DBMaxConns:    envInt("DB_MAX_CONNS", 25),
		DBMaxLifetime: envDur("DB_CONN_MAX_LIFETIME", 30*time.Minute),

		AutoMigrate: envBool("DB_AUTO_MIGRATE", true),
		LockPrefix:  envStr("LOCK_PREFIX", "rezlock"),
		LockTTL:     envDur("LOCK_TTL", 10*time.Second),
		LockWait:    envDur("LOCK_WAIT", 5*time.Second),
	}
}

// RabbitURL returns the AMQP connection string. RABBITMQ_URL wins over the
// individual RABBITMQ_* parts.
func RabbitURL() string {
	if u := os.Getenv("RABBITMQ_URL"); u != "" {
		return u
	}
	user := envStr("RABBITMQ_USER", "guest")
	pass := envStr("RABBITMQ_PASS", "guest")
	host := envStr("RABBITMQ_HOST", "localhost")
	port := envStr("RABBITMQ_PORT", "5672")
	return "amqp://" + user + ":" + pass + "@" + host + ":" + port + "/"
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
