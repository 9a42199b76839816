// Package config loads the server configuration from config.toml, an
// optional .env file and FOOD_ prefixed environment variables.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Log       LogConfig       `mapstructure:"log"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Crypto    CryptoConfig    `mapstructure:"crypto"`
	Swagger   SwaggerConfig   `mapstructure:"swagger"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Port string `mapstructure:"port"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"` // postgres or sqlite
	Path            string `mapstructure:"path"`   // sqlite file path, ":memory:" allowed
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // in minutes
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // in minutes
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JWTConfig holds JWT settings
type JWTConfig struct {
	Secret                 string        `mapstructure:"secret"`
	AccessTokenExpiration  time.Duration `mapstructure:"access_token_expiration"`
	RefreshTokenExpiration time.Duration `mapstructure:"refresh_token_expiration"`
	Issuer                 string        `mapstructure:"issuer"`
	RefreshSecret          string        `mapstructure:"refresh_secret"`
	MaxRefreshCount        int           `mapstructure:"max_refresh_count"`
	// Leeway tolerates clock skew when checking exp, nbf and iat
	Leeway time.Duration `mapstructure:"leeway"`
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration `mapstructure:"read_timeout"`
	WriteTimeout     time.Duration `mapstructure:"write_timeout"`
	IdleTimeout      time.Duration `mapstructure:"idle_timeout"`
	MaxHeaderBytes   int           `mapstructure:"max_header_bytes"`
	MaxBodySize      int64         `mapstructure:"max_body_size"`
	MaxUploadSize    int64         `mapstructure:"max_upload_size"` // multipart uploads such as menu CSV files
	CORSAllowOrigins []string      `mapstructure:"cors_allow_origins"`
	CORSAllowMethods []string      `mapstructure:"cors_allow_methods"`
	CORSAllowHeaders []string      `mapstructure:"cors_allow_headers"`
	TrustedProxies   []string      `mapstructure:"trusted_proxies"`
	AuthRateLimit    int           `mapstructure:"auth_rate_limit"` // requests per minute per client IP on login and register
	AuthRateBurst    int           `mapstructure:"auth_rate_burst"`
}

// CryptoConfig holds the key used to seal card verification values
type CryptoConfig struct {
	EncryptionKey string `mapstructure:"encryption_key"` // 64 hex characters (AES-256)
}

// SwaggerConfig holds Swagger documentation endpoint configuration
type SwaggerConfig struct {
	Enabled     bool     `mapstructure:"enabled"`
	RequireAuth bool     `mapstructure:"require_auth"` // Require a valid access token to view the docs
	AllowedIPs  []string `mapstructure:"allowed_ips"`  // IPs or CIDRs; empty allows every client
}

// StorageConfig holds S3-compatible object storage settings used for
// restaurant and menu item images
type StorageConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	Endpoint          string        `mapstructure:"endpoint"` // e.g. "http://localhost:9000" for MinIO
	Region            string        `mapstructure:"region"`
	Bucket            string        `mapstructure:"bucket"`
	AccessKey         string        `mapstructure:"access_key"`
	SecretKey         string        `mapstructure:"secret_key"`
	UseSSL            bool          `mapstructure:"use_ssl"`
	UsePathStyle      bool          `mapstructure:"use_path_style"`     // Required by MinIO and most self-hosted backends
	PublicURL         string        `mapstructure:"public_url"`         // Base URL images are served from; defaults to endpoint/bucket
	PresignExpiration time.Duration `mapstructure:"presign_expiration"` // Lifetime of presigned upload URLs
	MaxImageSize      int64         `mapstructure:"max_image_size"`     // Largest accepted image in bytes
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool    `mapstructure:"enabled"`            // Whether to enable OpenTelemetry
	CollectorEndpoint string  `mapstructure:"collector_endpoint"` // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 `mapstructure:"sampling_ratio"`     // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName       string  `mapstructure:"service_name"`       // Service name for traces
	Insecure          bool    `mapstructure:"insecure"`           // Use insecure (non-TLS) connection (development only)
	DBTraceEnabled    bool    `mapstructure:"db_trace_enabled"`   // Enable database query tracing (otelgorm)
	DBLogFullSQL      bool    `mapstructure:"db_log_full_sql"`    // Record full SQL statements in spans
	MetricsEnabled    bool    `mapstructure:"metrics_enabled"`    // Export OTLP metrics (order counters, DB pool gauges)
	MetricsInterval   int     `mapstructure:"metrics_interval"`   // Metric export interval in seconds
	LogsEnabled       bool    `mapstructure:"logs_enabled"`       // Mirror zap entries to the OTLP log exporter
	ProfilingEnabled  bool    `mapstructure:"profiling_enabled"`  // Continuous profiling with Pyroscope
	ProfilingAddress  string  `mapstructure:"profiling_address"`  // Pyroscope server address
}
// defaults registers every key Load reads. Keys need a default, even an
// empty one, for AutomaticEnv to reach them through Unmarshal.
var defaults = map[string]any{
	"app.name": "foodorder-backend",
	"app.env":  "development",
	"app.port": "8080",

	"database.driver":             DriverPostgres,
	"database.path":               "foodorder.db",
	"database.host":               "localhost",
	"database.port":               5432,
	"database.user":               "postgres",
	"database.password":           "",
	"database.dbname":             "foodorder",
	"database.sslmode":            "disable",
	"database.max_open_conns":     25,
	"database.max_idle_conns":     5,
	"database.conn_max_lifetime":  60,
	"database.conn_max_idle_time": 30,

	"redis.enabled":  false,
	"redis.host":     "localhost",
	"redis.port":     6379,
	"redis.password": "",
	"redis.db":       0,

	"jwt.secret":                   "",
	"jwt.refresh_secret":           "",
	"jwt.issuer":                   "foodorder-backend",
	"jwt.access_token_expiration":  24 * time.Hour,
	"jwt.refresh_token_expiration": 7 * 24 * time.Hour,
	"jwt.max_refresh_count":        10,
	"jwt.leeway":                   30 * time.Second,

	"log.level":  "info",
	"log.format": "console",
	"log.output": "stdout",

	"http.read_timeout":     15 * time.Second,
	"http.write_timeout":    15 * time.Second,
	"http.idle_timeout":     60 * time.Second,
	"http.max_header_bytes": 1 << 20,
	"http.max_body_size":    1 << 20,
	"http.max_upload_size":  5 << 20,
	// no default origin: cross-origin requests stay blocked until configured
	"http.cors_allow_origins": []string{},
	"http.cors_allow_methods": []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
	"http.cors_allow_headers": []string{"Content-Type", "Authorization", "X-Request-ID"},
	"http.trusted_proxies":    []string{},
	"http.auth_rate_limit":    20,
	"http.auth_rate_burst":    5,

	"crypto.encryption_key": "",

	"swagger.enabled":      false,
	"swagger.require_auth": false,
	"swagger.allowed_ips":  []string{},

	"storage.enabled":            false,
	"storage.endpoint":           "http://localhost:9000",
	"storage.region":             "us-east-1",
	"storage.bucket":             "foodorder-images",
	"storage.access_key":         "",
	"storage.secret_key":         "",
	"storage.use_ssl":            false,
	"storage.use_path_style":     true,
	"storage.public_url":         "",
	"storage.presign_expiration": 15 * time.Minute,
	"storage.max_image_size":     5 << 20,

	"telemetry.enabled":            false,
	"telemetry.collector_endpoint": "localhost:4317",
	"telemetry.sampling_ratio":     1.0,
	"telemetry.service_name":       "foodorder-backend",
	"telemetry.insecure":           false,
	"telemetry.db_trace_enabled":   false,
	"telemetry.db_log_full_sql":    false,
	"telemetry.metrics_enabled":    false,
	"telemetry.metrics_interval":   60,
	"telemetry.logs_enabled":       false,
	"telemetry.profiling_enabled":  false,
	"telemetry.profiling_address":  "http://localhost:4040",
}

// legacyEnv maps keys to the unprefixed variable names older frontend
// deployments export
var legacyEnv = map[string]string{
	"crypto.encryption_key":   "ENCRYPTION_KEY",
	"http.cors_allow_origins": "FRONTEND_URLS",
}

// Load reads configuration. Precedence, highest first:
//  1. FOOD_ environment variables, e.g. FOOD_DATABASE_PASSWORD
//  2. the unprefixed ENCRYPTION_KEY and FRONTEND_URLS
//  3. config.toml in ., ./config or /etc/foodorder
//  4. built-in defaults
//
// A .env file in the working directory is loaded into the environment first
// when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("toml")
	for _, dir := range []string{".", "./config", "/etc/foodorder"} {
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("FOOD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		if err := v.BindEnv(key, "FOOD_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), legacy); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	cfg.normalize()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// normalize cleans values that arrive from the environment as raw strings
func (c *Config) normalize() {
	c.Crypto.EncryptionKey = strings.TrimSpace(c.Crypto.EncryptionKey)
	c.Storage.PublicURL = strings.TrimRight(c.Storage.PublicURL, "/")
	for _, list := range []*[]string{
		&c.HTTP.CORSAllowOrigins,
		&c.HTTP.CORSAllowMethods,
		&c.HTTP.CORSAllowHeaders,
		&c.HTTP.TrustedProxies,
		&c.Swagger.AllowedIPs,
	} {
		*list = splitList(*list)
	}
}

// splitList flattens comma separated entries and drops blanks
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, entry := range in {
		for part := range strings.SplitSeq(entry, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// validate checks every section and reports all problems at once
func (c *Config) validate() error {
	return errors.Join(
		c.Database.validate(),
		c.Crypto.validate(),
		c.Storage.validate(),
		c.Telemetry.validate(),
		c.validateProduction(),
	)
}

func (d *DatabaseConfig) validate() error {
	switch d.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverPostgres, DriverSQLite, d.Driver)
	}
	switch {
	case d.MaxOpenConns <= 0:
		return errors.New("database.max_open_conns must be positive")
	case d.MaxIdleConns < 0:
		return errors.New("database.max_idle_conns cannot be negative")
	case d.MaxIdleConns > d.MaxOpenConns:
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			d.MaxIdleConns, d.MaxOpenConns)
	}
	return nil
}

func (c *CryptoConfig) validate() error {
	if c.EncryptionKey == "" {
		return nil
	}
	if key, err := hex.DecodeString(c.EncryptionKey); err != nil || len(key) != 32 {
		return errors.New("crypto.encryption_key must be 64 hex characters")
	}
	return nil
}

func (s *StorageConfig) validate() error {
	if !s.Enabled {
		return nil
	}
	if s.AccessKey == "" || s.SecretKey == "" {
		return errors.New("storage.access_key and storage.secret_key are required when storage is enabled")
	}
	if s.PublicURL != "" {
		if u, err := url.Parse(s.PublicURL); err != nil || u.Scheme == "" || u.Host == "" {
			return errors.New("storage.public_url must be an absolute URL")
		}
	}
	return nil
}

func (t *TelemetryConfig) validate() error {
	if t.SamplingRatio < 0 || t.SamplingRatio > 1 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", t.SamplingRatio)
	}
	return nil
}

// validateProduction rejects development conveniences when app.env is
// production
func (c *Config) validateProduction() error {
	if !c.IsProduction() {
		return nil
	}

	var errs []error
	switch {
	case c.JWT.Secret == "":
		errs = append(errs, errors.New("jwt.secret is required in production"))
	case len(c.JWT.Secret) < 32:
		errs = append(errs, errors.New("jwt.secret must be at least 32 characters in production"))
	}
	if c.Crypto.EncryptionKey == "" {
		errs = append(errs, errors.New("crypto.encryption_key is required in production"))
	}
	if c.Database.Driver == DriverPostgres {
		if c.Database.Password == "" {
			errs = append(errs, errors.New("database.password is required in production"))
		}
		if c.Database.SSLMode == "disable" {
			errs = append(errs, errors.New("database.sslmode cannot be 'disable' in production"))
		}
	}
	for _, origin := range c.HTTP.CORSAllowOrigins {
		if origin == "*" {
			errs = append(errs, errors.New("http.cors_allow_origins cannot be '*' in production"))
		}
	}
	if c.Telemetry.DBLogFullSQL {
		errs = append(errs, errors.New("telemetry.db_log_full_sql must be false in production"))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether app.env is production
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// ObjectURL returns the public URL of a stored object
func (s *StorageConfig) ObjectURL(key string) string {
	base := s.PublicURL
	if base == "" {
		base = strings.TrimRight(s.Endpoint, "/") + "/" + s.Bucket
	}
	return base + "/" + strings.TrimLeft(key, "/")
}

// DSN returns a postgres URL with user and password escaped
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     d.DBName,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}
