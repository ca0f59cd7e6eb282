package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Data source kinds accepted by DATA_SOURCE.
const (
	SourceREST     = "rest"
	SourcePostgres = "postgres"
)

// Analytics modes accepted by ANALYTICS_MODE.
const (
	// AnalyticsAuto uses server-computed trends/stats for unfiltered views and
	// recomputes locally once a trim filter narrows the listing set.
	AnalyticsAuto = "auto"
	// AnalyticsClient always recomputes locally.
	AnalyticsClient = "client"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// Example ENV:
//
//	SERVER_PORT=8080
//	DATA_SOURCE=rest
//	UPSTREAM_API_URL=http://localhost:8000/api
//	POSTGRES_HOST=localhost
//	POSTGRES_DB=nfs_index
//	ANALYTICS_MODE=auto
type Config struct {
	Server    ServerConfig
	Postgres  PostgresConfig
	Upstream  UpstreamConfig
	Dashboard DashboardConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string
	RequestTimeout time.Duration // per request context deadline
	RateLimitRPS   float64       // per client IP refill rate
	RateLimitBurst int           // per client IP bucket size
}

// PostgresConfig defines connection details for PostgreSQL.
//
// URL is the computed DSN used by database/sql.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// UpstreamConfig configures the client of the listings REST API.
type UpstreamConfig struct {
	BaseURL  string        // e.g. http://localhost:8000/api
	Timeout  time.Duration // per request
	RPS      float64       // outbound requests per second, 0 disables throttling
	PageSize int           // listings page size when paging through /listings
	Retries  int           // extra attempts on network errors, 429 and 5xx
}

// DashboardConfig holds settings of the dashboard views and sessions.
type DashboardConfig struct {
	DataSource    string        // rest|postgres
	AnalyticsMode string        // auto|client
	DefaultModel  string        // model name preselected on new sessions
	SessionTTL    time.Duration // idle sessions older than this are evicted
}

// AppConfig is the globally accessible configuration instance, populated by LoadConfig.
var AppConfig Config

// LoadConfig initializes the global AppConfig.
//
// Precedence (lowest to highest): defaults, .env file, environment variables.
// Missing or invalid required fields terminate the process via validateConfig.
func LoadConfig() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_REQUEST_TIMEOUT", "10s")
	viper.SetDefault("RATE_LIMIT_RPS", 1)
	viper.SetDefault("RATE_LIMIT_BURST", 60)

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "nfs_index")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	viper.SetDefault("UPSTREAM_API_URL", "http://localhost:8000/api")
	viper.SetDefault("UPSTREAM_TIMEOUT", "10s")
	viper.SetDefault("UPSTREAM_RPS", 10)
	viper.SetDefault("UPSTREAM_PAGE_SIZE", 50)
	viper.SetDefault("UPSTREAM_RETRIES", 2)

	viper.SetDefault("DATA_SOURCE", SourceREST)
	viper.SetDefault("ANALYTICS_MODE", AnalyticsAuto)
	viper.SetDefault("DEFAULT_MODEL", "SLR McLaren")
	viper.SetDefault("SESSION_TTL", "30m")

	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	viper.AutomaticEnv()

	AppConfig = Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			RequestTimeout: viper.GetDuration("SERVER_REQUEST_TIMEOUT"),
			RateLimitRPS:   viper.GetFloat64("RATE_LIMIT_RPS"),
			RateLimitBurst: viper.GetInt("RATE_LIMIT_BURST"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
		Upstream: UpstreamConfig{
			BaseURL:  strings.TrimRight(viper.GetString("UPSTREAM_API_URL"), "/"),
			Timeout:  viper.GetDuration("UPSTREAM_TIMEOUT"),
			RPS:      viper.GetFloat64("UPSTREAM_RPS"),
			PageSize: viper.GetInt("UPSTREAM_PAGE_SIZE"),
			Retries:  viper.GetInt("UPSTREAM_RETRIES"),
		},
		Dashboard: DashboardConfig{
			DataSource:    strings.ToLower(viper.GetString("DATA_SOURCE")),
			AnalyticsMode: strings.ToLower(viper.GetString("ANALYTICS_MODE")),
			DefaultModel:  viper.GetString("DEFAULT_MODEL"),
			SessionTTL:    viper.GetDuration("SESSION_TTL"),
		},
	}

	AppConfig.Postgres.URL = AppConfig.Postgres.DSN()

	validateConfig()
}

// DSN builds the PostgreSQL connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User,
		p.Password,
		p.Host,
		p.Port,
		p.DBName,
		p.SSLMode,
	)
}

// problems lists missing or invalid settings of c.
func (c Config) problems() []string {
	var missing []string

	if c.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if c.Server.RequestTimeout <= 0 {
		missing = append(missing, "SERVER_REQUEST_TIMEOUT")
	}
	if c.Server.RateLimitRPS <= 0 || c.Server.RateLimitBurst <= 0 {
		missing = append(missing, "RATE_LIMIT_RPS/RATE_LIMIT_BURST")
	}

	switch c.Dashboard.DataSource {
	case SourceREST:
		if c.Upstream.BaseURL == "" {
			missing = append(missing, "UPSTREAM_API_URL")
		}
		if c.Upstream.Timeout <= 0 {
			missing = append(missing, "UPSTREAM_TIMEOUT")
		}
		if c.Upstream.PageSize <= 0 {
			missing = append(missing, "UPSTREAM_PAGE_SIZE")
		}
		if c.Upstream.Retries < 0 {
			missing = append(missing, "UPSTREAM_RETRIES")
		}
	case SourcePostgres:
		missing = append(missing, c.Postgres.problems()...)
	default:
		missing = append(missing, "DATA_SOURCE (rest|postgres)")
	}

	if c.Dashboard.AnalyticsMode != AnalyticsAuto && c.Dashboard.AnalyticsMode != AnalyticsClient {
		missing = append(missing, "ANALYTICS_MODE (auto|client)")
	}
	if c.Dashboard.SessionTTL <= 0 {
		missing = append(missing, "SESSION_TTL")
	}
	return missing
}

func (p PostgresConfig) problems() []string {
	var missing []string
	if p.Host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if p.Port == 0 {
		missing = append(missing, "POSTGRES_PORT")
	}
	if p.User == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if p.Password == "" {
		missing = append(missing, "POSTGRES_PASSWORD")
	}
	if p.DBName == "" {
		missing = append(missing, "POSTGRES_DB")
	}
	return missing
}

// ValidatePostgres returns an error when the Postgres settings are incomplete.
// Ingestion always needs the database, whatever DATA_SOURCE says.
func ValidatePostgres(p PostgresConfig) error {
	if missing := p.problems(); len(missing) > 0 {
		return fmt.Errorf("missing postgres settings: %v", missing)
	}
	return nil
}

// validateConfig terminates the application when required settings are missing.
func validateConfig() {
	if missing := AppConfig.problems(); len(missing) > 0 {
		log.Fatalf("❌ Missing or invalid environment variables: %v\n", missing)
	}
}
