// Package config loads application configuration from environment
// variables, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable.
type Config struct {
	Env            string // APP_ENV (dev, test, prod)
	Port           string // APP_PORT
	DBUser         string // DB_USER
	DBPass         string // DB_PASS (may be empty)
	DBHost         string // DB_HOST
	DBPort         string // DB_PORT
	DBName         string // DB_NAME
	DBMigrate      bool   // DB_MIGRATE applies the embedded schema at start-up
	JWTSecret      string // JWT_SECRET
	AccessTTLMin   int    // ACCESS_TOKEN_TTL_MIN
	RefreshTTLDays int    // REFRESH_TOKEN_TTL_DAYS
	BcryptCost     int    // BCRYPT_COST

	PublicBaseURL    string // PUBLIC_BASE_URL, prefix of guest links and QR codes
	BingoCenterFree  bool   // BINGO_CENTER_FREE counts the free space towards lines
	BootstrapEmail   string // BOOTSTRAP_ADMIN_EMAIL
	BootstrapPass    string // BOOTSTRAP_ADMIN_PASSWORD
	RabbitURL        string // RABBITMQ_URL; empty disables messaging
	NotificationsLog string // NOTIFICATIONS_LOG, file the consumer appends to
	LogLevel         string // LOG_LEVEL
	LogFormat        string // LOG_FORMAT (console or json)
}

// IsDev reports whether the service runs in a development environment.
func (c Config) IsDev() bool { return c.Env == "dev" || c.Env == "development" || c.Env == "local" }

// Load reads .env (if present) and the environment. Every missing or
// malformed required variable is reported in the returned error.
func Load() (Config, error) {
	_ = godotenv.Load() // a missing .env is fine

	r := &reader{}
	cfg := Config{
		Env:            r.must("APP_ENV"),
		Port:           r.must("APP_PORT"),
		DBUser:         r.must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         r.must("DB_HOST"),
		DBPort:         r.must("DB_PORT"),
		DBName:         r.must("DB_NAME"),
		DBMigrate:      envBool("DB_MIGRATE", false),
		JWTSecret:      r.must("JWT_SECRET"),
		AccessTTLMin:   r.mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: r.mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     r.mustInt("BCRYPT_COST"),

		PublicBaseURL:    strings.TrimRight(envStr("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		BingoCenterFree:  envBool("BINGO_CENTER_FREE", false),
		BootstrapEmail:   os.Getenv("BOOTSTRAP_ADMIN_EMAIL"),
		BootstrapPass:    os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"),
		RabbitURL:        os.Getenv("RABBITMQ_URL"),
		NotificationsLog: envStr("NOTIFICATIONS_LOG", "logs/notifications.log"),
		LogLevel:         envStr("LOG_LEVEL", "info"),
		LogFormat:        envStr("LOG_FORMAT", ""),
	}
	if err := r.err(); err != nil {
		return Config{}, err
	}
	if (cfg.BootstrapEmail == "") != (cfg.BootstrapPass == "") {
		return Config{}, errors.New("BOOTSTRAP_ADMIN_EMAIL and BOOTSTRAP_ADMIN_PASSWORD must be set together")
	}
	return cfg, nil
}

// reader collects problems with required variables so all of them are
// reported at once.
type reader struct {
	problems []string
}

// must retrieves the value of a required environment variable.
func (r *reader) must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		r.problems = append(r.problems, "missing required env var: "+key)
	}
	return v
}

// mustInt is like must but converts the value into an integer.
func (r *reader) mustInt(key string) int {
	s := r.must(key)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		r.problems = append(r.problems, fmt.Sprintf("invalid int for %s: %q", key, s))
	}
	return n
}

func (r *reader) err() error {
	if len(r.problems) == 0 {
		return nil
	}
	return errors.New(strings.Join(r.problems, "; "))
}
