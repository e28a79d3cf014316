package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App       AppConfig
	DB        DatabaseConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Logger    LoggerConfig
}

// AppConfig holds configuration for the HTTP server and the listing endpoints
type AppConfig struct {
	Env                    string `mapstructure:"APP_ENV"`
	HTTPPort               string `mapstructure:"HTTP_PORT"`
	Timezone               string `mapstructure:"APP_TIMEZONE"`
	DefaultPageLimit       int64  `mapstructure:"APP_DEFAULT_PAGE_LIMIT"`
	MaxPageLimit           int64  `mapstructure:"APP_MAX_PAGE_LIMIT"`
	QueryTimeoutSeconds    int    `mapstructure:"APP_QUERY_TIMEOUT_SECONDS"`
	ShutdownTimeoutSeconds int    `mapstructure:"APP_SHUTDOWN_TIMEOUT_SECONDS"`
	SwaggerFile            string `mapstructure:"APP_SWAGGER_FILE"`
}

// DatabaseConfig holds configuration for PostgreSQL
type DatabaseConfig struct {
	Host            string `mapstructure:"DB_HOST"`
	Port            string `mapstructure:"DB_PORT"`
	User            string `mapstructure:"DB_USER"`
	Password        string `mapstructure:"DB_PASSWORD"`
	Name            string `mapstructure:"DB_NAME"`
	SSLMode         string `mapstructure:"DB_SSLMODE"`
	MaxOpenConns    int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns    int    `mapstructure:"DB_MAX_IDLE_CONNS"`
	ConnMaxLifetime int    `mapstructure:"DB_CONN_MAX_LIFETIME_SECONDS"`
	ConnMaxIdleTime int    `mapstructure:"DB_CONN_MAX_IDLE_TIME_SECONDS"`
	ConnectRetries  int    `mapstructure:"DB_CONNECT_RETRIES"`
}

// MongoConfig holds configuration for MongoDB
type MongoConfig struct {
	URI            string `mapstructure:"MONGODB_URI"`
	Database       string `mapstructure:"MONGODB_DATABASE"`
	MaxPoolSize    uint64 `mapstructure:"MONGODB_MAX_POOL_SIZE"`
	MinPoolSize    uint64 `mapstructure:"MONGODB_MIN_POOL_SIZE"`
	ConnectRetries int    `mapstructure:"MONGODB_CONNECT_RETRIES"`
}

// RedisConfig holds configuration for the rate limiter store
type RedisConfig struct {
	Host        string `mapstructure:"REDIS_HOST"`
	Port        string `mapstructure:"REDIS_PORT"`
	Password    string `mapstructure:"REDIS_PASSWORD"`
	DB          int    `mapstructure:"REDIS_DB"`
	MaxRetries  int    `mapstructure:"REDIS_MAX_RETRIES"`
	PoolSize    int    `mapstructure:"REDIS_POOL_SIZE"`
	MinIdleConn int    `mapstructure:"REDIS_MIN_IDLE_CONN"`
}

// RateLimitConfig holds configuration for the token bucket limiter
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"RATE_LIMIT_ENABLED"`
	RequestsPerSecond float64 `mapstructure:"RATE_LIMIT_REQUESTS_PER_SECOND"`
	BurstCapacity     int     `mapstructure:"RATE_LIMIT_BURST_CAPACITY"`
}

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	Level            string  `mapstructure:"LOG_LEVEL"`
	Format           string  `mapstructure:"LOG_FORMAT"`
	OutputPath       string  `mapstructure:"LOG_OUTPUT_PATH"`
	SlowQuerySeconds float64 `mapstructure:"LOG_SLOW_QUERY_SECONDS"`
	EnableSampling   bool    `mapstructure:"LOG_ENABLE_SAMPLING"`
	ServiceName      string  `mapstructure:"SERVICE_NAME"`
	ServiceVersion   string  `mapstructure:"SERVICE_VERSION"`
}

// LoadConfig reads configuration from app.env in path and from environment variables.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("app") // app.env
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// env vars alone are fine
	}

	var config Config

	config.App.Env = v.GetString("APP_ENV")
	config.App.HTTPPort = v.GetString("HTTP_PORT")
	config.App.Timezone = v.GetString("APP_TIMEZONE")
	config.App.DefaultPageLimit = v.GetInt64("APP_DEFAULT_PAGE_LIMIT")
	config.App.MaxPageLimit = v.GetInt64("APP_MAX_PAGE_LIMIT")
	config.App.QueryTimeoutSeconds = v.GetInt("APP_QUERY_TIMEOUT_SECONDS")
	config.App.ShutdownTimeoutSeconds = v.GetInt("APP_SHUTDOWN_TIMEOUT_SECONDS")
	config.App.SwaggerFile = v.GetString("APP_SWAGGER_FILE")

	config.DB.Host = v.GetString("DB_HOST")
	config.DB.Port = v.GetString("DB_PORT")
	config.DB.User = v.GetString("DB_USER")
	config.DB.Password = v.GetString("DB_PASSWORD")
	config.DB.Name = v.GetString("DB_NAME")
	config.DB.SSLMode = v.GetString("DB_SSLMODE")
	config.DB.MaxOpenConns = v.GetInt("DB_MAX_OPEN_CONNS")
	config.DB.MaxIdleConns = v.GetInt("DB_MAX_IDLE_CONNS")
	config.DB.ConnMaxLifetime = v.GetInt("DB_CONN_MAX_LIFETIME_SECONDS")
	config.DB.ConnMaxIdleTime = v.GetInt("DB_CONN_MAX_IDLE_TIME_SECONDS")
	config.DB.ConnectRetries = v.GetInt("DB_CONNECT_RETRIES")

	config.Mongo.URI = v.GetString("MONGODB_URI")
	config.Mongo.Database = v.GetString("MONGODB_DATABASE")
	config.Mongo.MaxPoolSize = v.GetUint64("MONGODB_MAX_POOL_SIZE")
	config.Mongo.MinPoolSize = v.GetUint64("MONGODB_MIN_POOL_SIZE")
	config.Mongo.ConnectRetries = v.GetInt("MONGODB_CONNECT_RETRIES")

	config.Redis.Host = v.GetString("REDIS_HOST")
	config.Redis.Port = v.GetString("REDIS_PORT")
	config.Redis.Password = v.GetString("REDIS_PASSWORD")
	config.Redis.DB = v.GetInt("REDIS_DB")
	config.Redis.MaxRetries = v.GetInt("REDIS_MAX_RETRIES")
	config.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")
	config.Redis.MinIdleConn = v.GetInt("REDIS_MIN_IDLE_CONN")

	config.RateLimit.Enabled = v.GetBool("RATE_LIMIT_ENABLED")
	config.RateLimit.RequestsPerSecond = v.GetFloat64("RATE_LIMIT_REQUESTS_PER_SECOND")
	config.RateLimit.BurstCapacity = v.GetInt("RATE_LIMIT_BURST_CAPACITY")

	config.Logger.Level = v.GetString("LOG_LEVEL")
	config.Logger.Format = v.GetString("LOG_FORMAT")
	config.Logger.OutputPath = v.GetString("LOG_OUTPUT_PATH")
	config.Logger.SlowQuerySeconds = v.GetFloat64("LOG_SLOW_QUERY_SECONDS")
	config.Logger.EnableSampling = v.GetBool("LOG_ENABLE_SAMPLING")
	config.Logger.ServiceName = v.GetString("SERVICE_NAME")
	config.Logger.ServiceVersion = v.GetString("SERVICE_VERSION")

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_PORT", "3000")
	v.SetDefault("APP_TIMEZONE", "UTC")
	v.SetDefault("APP_DEFAULT_PAGE_LIMIT", 10)
	v.SetDefault("APP_MAX_PAGE_LIMIT", 100)
	v.SetDefault("APP_QUERY_TIMEOUT_SECONDS", 30)
	v.SetDefault("APP_SHUTDOWN_TIMEOUT_SECONDS", 10)
	v.SetDefault("APP_SWAGGER_FILE", "./api/swagger/transactions.swagger.json")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "transactions_compare")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_CONN_MAX_LIFETIME_SECONDS", 300)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME_SECONDS", 60)
	v.SetDefault("DB_CONNECT_RETRIES", 5)

	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGODB_DATABASE", "transactions_compare")
	v.SetDefault("MONGODB_MAX_POOL_SIZE", 25)
	v.SetDefault("MONGODB_MIN_POOL_SIZE", 0)
	v.SetDefault("MONGODB_CONNECT_RETRIES", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_MAX_RETRIES", 3)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_MIN_IDLE_CONN", 2)

	v.SetDefault("RATE_LIMIT_ENABLED", false)
	v.SetDefault("RATE_LIMIT_REQUESTS_PER_SECOND", 50.0)
	v.SetDefault("RATE_LIMIT_BURST_CAPACITY", 100)

	if v.GetString("APP_ENV") == "production" {
		v.SetDefault("LOG_LEVEL", "info")
		v.SetDefault("LOG_FORMAT", "json")
		v.SetDefault("LOG_ENABLE_SAMPLING", true)
	} else {
		v.SetDefault("LOG_LEVEL", "debug")
		v.SetDefault("LOG_FORMAT", "console")
		v.SetDefault("LOG_ENABLE_SAMPLING", false)
	}
	v.SetDefault("LOG_OUTPUT_PATH", "stdout")
	v.SetDefault("LOG_SLOW_QUERY_SECONDS", 0.2)
	v.SetDefault("SERVICE_NAME", "transactions-compare")
	v.SetDefault("SERVICE_VERSION", "1.0.0")
}

// Validate checks the loaded configuration before any connection is opened
func (c *Config) Validate() error {
	var problems []string

	if c.App.HTTPPort == "" {
		problems = append(problems, "HTTP_PORT is required")
	}
	if _, err := c.App.Location(); err != nil {
		problems = append(problems, fmt.Sprintf("APP_TIMEZONE is invalid: %v", err))
	}
	if c.App.DefaultPageLimit < 1 {
		problems = append(problems, "APP_DEFAULT_PAGE_LIMIT must be positive")
	}
	if c.App.MaxPageLimit < c.App.DefaultPageLimit {
		problems = append(problems, "APP_MAX_PAGE_LIMIT must be >= APP_DEFAULT_PAGE_LIMIT")
	}
	if c.DB.Host == "" || c.DB.Name == "" {
		problems = append(problems, "DB_HOST and DB_NAME are required")
	}
	if !strings.HasPrefix(c.Mongo.URI, "mongodb://") && !strings.HasPrefix(c.Mongo.URI, "mongodb+srv://") {
		problems = append(problems, "MONGODB_URI must start with mongodb:// or mongodb+srv://")
	}
	if c.Mongo.Database == "" {
		problems = append(problems, "MONGODB_DATABASE is required")
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.BurstCapacity < 1) {
		problems = append(problems, "rate limit requires positive RATE_LIMIT_REQUESTS_PER_SECOND and RATE_LIMIT_BURST_CAPACITY")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Location returns the timezone calendar-day filters are evaluated in
func (c AppConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// QueryTimeout bounds a single listing request against one backend
func (c AppConfig) QueryTimeout() time.Duration {
	return time.Duration(c.QueryTimeoutSeconds) * time.Second
}

// DSN returns the PostgreSQL Data Source Name
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}
