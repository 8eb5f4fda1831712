package config

import (
	"errors"
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config holds application configuration loaded from environment variables.
// Non-secret settings have development defaults; secrets have none.
type Config struct {
	AppName string
	Env     string // development, staging, production
	Port    string
	GinMode string

	StorageDriver string

	// Database. DatabaseURLRaw wins over the DB_* parts when set.
	DatabaseURLRaw string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	DBMaxConns     int32
	DBMinConns     int32
	DBMaxConnLife  time.Duration
	MigrationsDir  string

	// Redis; empty addr selects the in-process rate limiter
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// JWT
	JWTSecret string
	AccessTTL time.Duration

	// CORS
	CORSAllowedOrigins string // comma-separated

	// Client IP. Forwarding headers are believed only from these peers
	// (comma-separated IPs or CIDRs); empty trusts none.
	TrustedProxies  string
	TrustedPlatform string // "" or "cloudflare"

	// Mailgun
	MailgunDomain string
	MailgunAPIKey string
	MailgunSender string

	// RabbitMQ; empty URL disables the welcome email queue
	RabbitMQURL        string
	RabbitMQEmailQueue string

	MailSendEnabled     bool
	DebugMetricsEnabled bool
	HTTPLogEnabled      bool
}

var (
	ErrMissingJWTSecret = errors.New("JWT_SECRET is required")
	ErrMissingDatabase  = errors.New("DATABASE_URL or DB_USER and DB_PASSWORD are required")
	ErrUnknownStorage   = errors.New("STORAGE_DRIVER must be postgres or memory")
	ErrBadTrustedProxy  = errors.New("TRUSTED_PROXIES entries must be IPs or CIDRs")
	ErrBadPlatform      = errors.New("TRUSTED_PLATFORM must be empty or cloudflare")
	ErrMissingRabbitMQ  = errors.New("RABBITMQ_URL and RABBITMQ_EMAIL_QUEUE are required when MAIL_SEND_ENABLED")
	ErrMissingMailgun   = errors.New("MAILGUN_DOMAIN, MAILGUN_API_KEY and MAILGUN_SENDER are required when MAIL_SEND_ENABLED")
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %v, using default %v", key, err, def)
			return def
		}
		return b
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid int for %s: %v, using default %d", key, err, def)
			return def
		}
		return i
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using default %v", key, err, def)
			return def
		}
		return d
	}
	return def
}

// Load reads the API configuration from the environment and fails when a
// required secret is missing.
func Load() (*Config, error) {
	cfg := fromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadWorker reads the email worker configuration. Only the queue and
// Mailgun settings are checked, and only when sending is enabled.
func LoadWorker() (*Config, error) {
	cfg := fromEnv()
	if err := cfg.ValidateWorker(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromEnv() *Config {
	return &Config{
		AppName: getenv("APP_NAME", "product-catalog"),
		Env:     getenv("APP_ENV", "development"),
		Port:    getenv("PORT", "8080"),
		GinMode: getenv("GIN_MODE", "release"),

		StorageDriver: strings.ToLower(getenv("STORAGE_DRIVER", StoragePostgres)),

		DatabaseURLRaw: os.Getenv("DATABASE_URL"),
		DBHost:         getenv("DB_HOST", "localhost"),
		DBPort:         getenv("DB_PORT", "5432"),
		DBUser:         os.Getenv("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         getenv("DB_NAME", "catalog"),
		DBSSLMode:      getenv("DB_SSLMODE", "disable"),
		DBMaxConns:     int32(getint("DB_MAX_CONNS", 10)),
		DBMinConns:     int32(getint("DB_MIN_CONNS", 2)),
		DBMaxConnLife:  getdur("DB_MAX_CONN_LIFETIME", time.Hour),
		MigrationsDir:  getenv("MIGRATIONS_DIR", "db/migrations"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getint("REDIS_DB", 0),

		JWTSecret: os.Getenv("JWT_SECRET"),
		AccessTTL: getdur("JWT_EXPIRES_IN", time.Hour),

		CORSAllowedOrigins: getenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		TrustedProxies:     os.Getenv("TRUSTED_PROXIES"),
		TrustedPlatform:    strings.ToLower(os.Getenv("TRUSTED_PLATFORM")),

		MailgunDomain: os.Getenv("MAILGUN_DOMAIN"),
		MailgunAPIKey: os.Getenv("MAILGUN_API_KEY"),
		MailgunSender: os.Getenv("MAILGUN_SENDER"),

		RabbitMQURL:        os.Getenv("RABBITMQ_URL"),
		RabbitMQEmailQueue: getenv("RABBITMQ_EMAIL_QUEUE", "emails"),

		MailSendEnabled:     getbool("MAIL_SEND_ENABLED", false),
		DebugMetricsEnabled: getbool("DEBUG_METRICS_ENABLED", false),
		HTTPLogEnabled:      getbool("HTTP_LOG_ENABLED", false),
	}
}

// Validate checks the settings that have no safe default.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return ErrMissingJWTSecret
	}
	switch c.StorageDriver {
	case StorageMemory:
	case StoragePostgres:
		if c.DatabaseURLRaw == "" && (c.DBUser == "" || c.DBPassword == "") {
			return ErrMissingDatabase
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorage, c.StorageDriver)
	}
	return c.validateClientIP()
}

// ValidateWorker checks what cmd/email_worker needs to consume and send.
func (c *Config) ValidateWorker() error {
	if !c.MailSendEnabled {
		return nil
	}
	if c.RabbitMQURL == "" || c.RabbitMQEmailQueue == "" {
		return ErrMissingRabbitMQ
	}
	if c.MailgunDomain == "" || c.MailgunAPIKey == "" || c.MailgunSender == "" {
		return ErrMissingMailgun
	}
	return nil
}

func (c *Config) validateClientIP() error {
	for _, p := range c.TrustedProxyList() {
		if net.ParseIP(p) != nil {
			continue
		}
		if _, _, err := net.ParseCIDR(p); err != nil {
			return fmt.Errorf("%w: %q", ErrBadTrustedProxy, p)
		}
	}
	if c.TrustedPlatform != "" && c.TrustedPlatform != "cloudflare" {
		return fmt.Errorf("%w: %q", ErrBadPlatform, c.TrustedPlatform)
	}
	return nil
}

// UseMemoryStorage reports whether repositories are kept in process.
func (c *Config) UseMemoryStorage() bool { return c.StorageDriver == StorageMemory }

// DatabaseURL returns a DSN compatible with pgx.
func (c *Config) DatabaseURL() string {
	if c.DatabaseURLRaw != "" {
		return c.DatabaseURLRaw
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}

// MailEnabled reports whether welcome emails should be queued.
func (c *Config) MailEnabled() bool {
	return c.MailSendEnabled && c.RabbitMQURL != "" && c.RabbitMQEmailQueue != ""
}

// CORSOrigins returns the allowed origins as slice
func (c *Config) CORSOrigins() []string { return splitList(c.CORSAllowedOrigins) }

// TrustedProxyList returns the proxies whose forwarding headers are honored.
func (c *Config) TrustedProxyList() []string { return splitList(c.TrustedProxies) }

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}
