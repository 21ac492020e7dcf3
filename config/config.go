package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	Mongo         MongoConfig
	Auth          AuthConfig
	RateLimit     RateLimitConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
}

type ServerConfig struct {
	Port    string
	GinMode string
	AppEnv  string
}

type MongoConfig struct {
	URI            string
	Database       string
	TimeoutSeconds int
	MaxPoolSize    uint64
}

type AuthConfig struct {
	AdminAPIKey string
}

type RateLimitConfig struct {
	SubmissionMax           int
	SubmissionWindowMinutes int
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	ExporterEndpoint string
	ServiceName      string
	ServiceVersion   string
}

// Load reads configuration from environment variables (and a .env file if
// one is present).
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("PORT", "8081")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("MONGO_DATABASE", "mastery-house")
	v.SetDefault("MONGO_TIMEOUT_SECONDS", 10)
	v.SetDefault("MONGO_MAX_POOL_SIZE", 20)
	v.SetDefault("RATE_LIMIT_SUBMISSIONS", 3)
	v.SetDefault("RATE_LIMIT_WINDOW_MINUTES", 60)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "")
	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "")
	v.SetDefault("O11Y_SERVICE_NAME", "mastery-house-api")
	v.SetDefault("O11Y_SERVICE_VERSION", "1.0.0")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // .env file is optional

	cfg := &Config{
		Server: ServerConfig{
			Port:    v.GetString("PORT"),
			GinMode: v.GetString("GIN_MODE"),
			AppEnv:  v.GetString("APP_ENV"),
		},
		Mongo: MongoConfig{
			URI:            v.GetString("MONGO_URI"),
			Database:       v.GetString("MONGO_DATABASE"),
			TimeoutSeconds: v.GetInt("MONGO_TIMEOUT_SECONDS"),
			MaxPoolSize:    v.GetUint64("MONGO_MAX_POOL_SIZE"),
		},
		Auth: AuthConfig{
			AdminAPIKey: v.GetString("ADMIN_API_KEY"),
		},
		RateLimit: RateLimitConfig{
			SubmissionMax:           v.GetInt("RATE_LIMIT_SUBMISSIONS"),
			SubmissionWindowMinutes: v.GetInt("RATE_LIMIT_WINDOW_MINUTES"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			ExporterEndpoint: v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:      v.GetString("O11Y_SERVICE_NAME"),
			ServiceVersion:   v.GetString("O11Y_SERVICE_VERSION"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required fields. The database connection string is the one
// hard requirement: every binary here touches storage.
func (c *Config) Validate() error {
	if c.Mongo.URI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	return nil
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development"
}
