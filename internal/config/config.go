// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import "time"

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Dataset  DatasetConfig
	Table    TableConfig
	Session  SessionConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 0 for SSE)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"0s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for non-streaming requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`

	// EventHeartbeat is how often an idle SSE stream sends a keep-alive comment (default: 15s)
	EventHeartbeat time.Duration `env:"SERVER_EVENT_HEARTBEAT" default:"15s"`
}

// DatasetConfig selects where the table rows come from.
// Rows are loaded once at startup and never refetched.
type DatasetConfig struct {
	// Source is one of: embedded, file, postgres, mysql (default: embedded)
	Source string `env:"DATASET_SOURCE" default:"embedded"`

	// Path is the JSON file read when Source is "file"
	Path string `env:"DATASET_PATH"`

	// PostgresURL is the PostgreSQL connection string used when Source is "postgres".
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	PostgresURL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MySQLDSN is the go-sql-driver DSN used when Source is "mysql"
	MySQLDSN string `env:"MYSQL_DSN"`

	// Table is the database table holding the records (default: people)
	Table string `env:"DATASET_TABLE" default:"people"`

	// MaxConns caps the pool while loading (default: 4)
	MaxConns int `env:"DATASET_MAX_CONNS" default:"4"`

	// LoadTimeout bounds the one-time load (default: 30s)
	LoadTimeout time.Duration `env:"DATASET_LOAD_TIMEOUT" default:"30s"`
}

// TableConfig holds table behaviour settings.
type TableConfig struct {
	// PageSize is the initial page size (default: 6)
	PageSize int `env:"TABLE_PAGE_SIZE" default:"6"`

	// PageSizes are the choices offered by the page-size selector (default: 6,10,20,25,50)
	PageSizes []int `env:"TABLE_PAGE_SIZES" default:"6,10,20,25,50"`

	// MaxMultiSort caps the number of simultaneously sorted columns (default: 2)
	MaxMultiSort int `env:"TABLE_MAX_MULTI_SORT" default:"2"`

	// SearchDebounce is the idle time before a typed search is applied (default: 500ms)
	SearchDebounce time.Duration `env:"TABLE_SEARCH_DEBOUNCE" default:"500ms"`

	// SearchKeepAccents makes search accent-sensitive, so "jose" no longer
	// finds "José" (default: false)
	SearchKeepAccents bool `env:"TABLE_SEARCH_KEEP_ACCENTS" default:"false"`

	// Locale selects the label table: es or en (default: es)
	Locale string `env:"TABLE_LOCALE" default:"es"`

	// LabelsFile optionally overrides the built-in label table with a YAML file
	LabelsFile string `env:"TABLE_LABELS_FILE"`
}

// SessionConfig holds browser session settings.
type SessionConfig struct {
	// CookieName is the session cookie name (default: datetable_session)
	CookieName string `env:"SESSION_COOKIE_NAME" default:"datetable_session"`

	// SecureCookie marks the session cookie Secure (default: false)
	SecureCookie bool `env:"SESSION_SECURE_COOKIE" default:"false"`

	// TTL is how long an idle session is kept (default: 30m)
	TTL time.Duration `env:"SESSION_TTL" default:"30m"`

	// SweepInterval is how often expired sessions are torn down (default: 1m)
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" default:"1m"`

	// MaxSessions caps concurrently live sessions (default: 10000)
	MaxSessions int `env:"SESSION_MAX" default:"10000"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 600).
	// Keystrokes are posted individually, so this is higher than a form app needs.
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"600"`

	// ExportLimit is requests per minute for export endpoints (default: 10)
	ExportLimit int `env:"RATE_LIMIT_EXPORT" default:"10"`

	// ExportMaxConcurrent caps exports generated at once (default: 4)
	ExportMaxConcurrent int `env:"EXPORT_MAX_CONCURRENT" default:"4"`

	// ExportWait is how long an export waits for a free slot (default: 5s)
	ExportWait time.Duration `env:"EXPORT_WAIT" default:"5s"`
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

	// File receives the terminal frontend's logs; empty discards them
	File string `env:"LOG_FILE"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	if c.Host == "" {
		return ":" + itoa(c.Port)
	}
	return c.Host + ":" + itoa(c.Port)
}

// itoa converts an int to string without importing strconv in this file.
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var b [20]byte
	n := len(b)
	neg := i < 0
	if neg {
		i = -i
	}
	for i > 0 {
		n--
		b[n] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		n--
		b[n] = '-'
	}
	return string(b[n:])
}
