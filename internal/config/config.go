package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Inventory InventoryConfig `yaml:"inventory"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`

	// LoginRatePerMinute caps login attempts per client IP.
	LoginRatePerMinute int `yaml:"login_rate_per_minute" env:"SERVER_LOGIN_RATE_PER_MINUTE" env-default:"10"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	QueryTimeout    time.Duration `yaml:"query_timeout"      env:"DATABASE_QUERY_TIMEOUT"      env-default:"5s"`
}

// AuthConfig holds authentication settings, including the bootstrap
// admin created on an empty database.
type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"       env:"AUTH_JWT_SECRET"       env-required:"true"`
	JWTIssuer      string        `yaml:"jwt_issuer"       env:"AUTH_JWT_ISSUER"       env-default:"brewmetric"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"12h"`
	BcryptCost     int           `yaml:"bcrypt_cost"      env:"AUTH_BCRYPT_COST"      env-default:"12"`

	BootstrapUsername string `yaml:"bootstrap_username" env:"AUTH_BOOTSTRAP_USERNAME" env-default:"admin"`
	BootstrapEmail    string `yaml:"bootstrap_email"    env:"AUTH_BOOTSTRAP_EMAIL"    env-default:"admin@brewmetric.local"`
	BootstrapPassword string `yaml:"bootstrap_password" env:"AUTH_BOOTSTRAP_PASSWORD" env-default:"Admin@123456"`
}

// InventoryConfig holds stock tracking parameters.
type InventoryConfig struct {
	// ExpiringWindowDays is how many days ahead an item counts as
	// "expiring soon".
	ExpiringWindowDays int `yaml:"expiring_window_days" env:"INVENTORY_EXPIRING_WINDOW_DAYS" env-default:"7"`

	// CategoriesRaw is the comma-separated set of valid categories.
	CategoriesRaw string `yaml:"categories" env:"INVENTORY_CATEGORIES" env-default:"Tea,Milk,Syrup,Topping,Packaging,Equipment,Other"`

	LowStockLimit    int `yaml:"low_stock_limit"    env:"INVENTORY_LOW_STOCK_LIMIT"    env-default:"10"`
	FeedLimit        int `yaml:"feed_limit"         env:"INVENTORY_FEED_LIMIT"         env-default:"50"`
	RecentWasteLimit int `yaml:"recent_waste_limit" env:"INVENTORY_RECENT_WASTE_LIMIT" env-default:"100"`

	// FeedRetentionDays is how long activity feed rows are kept before
	// cmd/cleanup-feed trims them. The feed is a cache over the audit
	// trail, so trimmed history stays queryable through reports.
	FeedRetentionDays int `yaml:"feed_retention_days" env:"INVENTORY_FEED_RETENTION_DAYS" env-default:"90"`

	// Categories is parsed from CategoriesRaw during validation.
	Categories []string `yaml:"-" env:"-"`
}

// ExpiringWindow returns the expiring-soon horizon as a duration.
func (c InventoryConfig) ExpiringWindow() time.Duration {
	return time.Duration(c.ExpiringWindowDays) * 24 * time.Hour
}

// IsValidCategory checks the category against the configured set.
func (c InventoryConfig) IsValidCategory(category string) bool {
	for _, known := range c.Categories {
		if known == category {
			return true
		}
	}
	return false
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
