// Package config provides centralized configuration management for the server.
// Settings come from environment variables (optionally seeded from a .env
// file by the caller), fall back to defaults, and are validated on startup
// so a misconfiguration fails fast.
package config

import (
	"strconv"
	"time"
)

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Paging   PagingConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Export   ExportConfig
	Audit    AuditConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the per-request middleware timeout; it also bounds
	// every unit of work started by a request (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// DatabaseConfig holds store settings.
type DatabaseConfig struct {
	// Driver selects the store: postgres or sqlite (default: postgres)
	Driver string `env:"DB_DRIVER" default:"postgres"`

	// URL is the PostgreSQL connection string, required for postgres.
	// Supports both DATABASE_URL and DB_URL.
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// SQLitePath is the database file for the sqlite driver; ":memory:"
	// keeps everything in process (default: pmadmin.db)
	SQLitePath string `env:"SQLITE_PATH" default:"pmadmin.db"`

	// AutoMigrate applies the embedded schema at startup (default: true)
	AutoMigrate bool `env:"DB_AUTO_MIGRATE" default:"true"`

	MaxConns        int           `env:"DB_MAX_CONNS" default:"20"`
	MinConns        int           `env:"DB_MIN_CONNS" default:"2"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// PagingConfig holds list view settings.
type PagingConfig struct {
	// PageSize is the default number of rows per list page (default: 10)
	PageSize int `env:"PAGING_PAGE_SIZE" default:"10"`

	// MaxPageSize caps a page size requested via query string (default: 100)
	MaxPageSize int `env:"PAGING_MAX_PAGE_SIZE" default:"100"`

	// EmptyRedirectCreate sends every empty list to its create form, not
	// only the kinds that opt in (default: false)
	EmptyRedirectCreate bool `env:"PAGING_EMPTY_REDIRECT_CREATE" default:"false"`
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the limit per client IP (default: 120)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`

	// WriteLimit is requests per minute for POST endpoints (default: 30)
	WriteLimit int `env:"RATE_LIMIT_WRITE" default:"30"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// ExportConfig bounds concurrent CSV exports.
type ExportConfig struct {
	// MaxConcurrent is the number of exports streaming at once (default: 4)
	MaxConcurrent int `env:"EXPORT_MAX_CONCURRENT" default:"4"`

	// MaxWait is how long an export waits for a free slot (default: 10s)
	MaxWait time.Duration `env:"EXPORT_MAX_WAIT" default:"10s"`
}

// AuditConfig holds audit log retention settings.
type AuditConfig struct {
	// RetentionDays is how long audit entries are kept; 0 keeps them
	// forever (default: 365)
	RetentionDays int `env:"AUDIT_RETENTION_DAYS" default:"365"`

	// BatchSize is the number of entries purged per statement (default: 5000)
	BatchSize int `env:"AUDIT_PURGE_BATCH_SIZE" default:"5000"`

	// CheckInterval is how often the purge runs (default: 24h)
	CheckInterval time.Duration `env:"AUDIT_PURGE_INTERVAL" default:"24h"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
