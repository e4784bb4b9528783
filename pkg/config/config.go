package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig        `yaml:"server" envconfig:"SERVER"`
	Storage   StorageConfig       `yaml:"storage" envconfig:"STORAGE"`
	Logging   LoggingConfig       `yaml:"logging" envconfig:"LOGGING"`
	JWT       JWTConfig           `yaml:"jwt" envconfig:"JWT"`
	Seeder    SeederConfig        `yaml:"seeder" envconfig:"SEEDER"`
	CORS      CORSConfig          `yaml:"cors" envconfig:"CORS"`
	RateLimit AuthRateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host    string `yaml:"host" envconfig:"HOST"`
	Port    int    `yaml:"port" envconfig:"PORT"`
	BaseURL string `yaml:"base_url" envconfig:"BASE_URL"`
}

// StorageConfig contains storage configuration
type StorageConfig struct {
	Type    string        `yaml:"type" envconfig:"TYPE"` // memory, mongodb
	MongoDB MongoDBConfig `yaml:"mongodb" envconfig:"MONGODB"`
}

// MongoDBConfig contains MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string `yaml:"uri" envconfig:"URI"`
	Database string `yaml:"database" envconfig:"DATABASE"`
	Timeout  int    `yaml:"timeout" envconfig:"TIMEOUT"` // seconds
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL"`   // debug, info, warn, error
	Format string `yaml:"format" envconfig:"FORMAT"` // json, text
}

// JWTConfig contains JWT configuration
type JWTConfig struct {
	Secret      string `yaml:"secret" envconfig:"SECRET"`
	ExpiryHours int    `yaml:"expiry_hours" envconfig:"EXPIRY_HOURS"`
	Issuer      string `yaml:"issuer" envconfig:"ISSUER"`
}

// SeederConfig contains holiday seeder worker configuration
type SeederConfig struct {
	Enabled       bool `yaml:"enabled" envconfig:"ENABLED"`
	IntervalHours int  `yaml:"interval_hours" envconfig:"INTERVAL_HOURS"`
}

// SetDefaults applies defaults for unset seeder values
func (c *SeederConfig) SetDefaults() {
	if c.IntervalHours <= 0 {
		c.IntervalHours = 24
	}
}

// CORSConfig contains CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	AllowedMethods   []string `yaml:"allowed_methods" envconfig:"ALLOWED_METHODS"`
	AllowedHeaders   []string `yaml:"allowed_headers" envconfig:"ALLOWED_HEADERS"`
	ExposedHeaders   []string `yaml:"exposed_headers" envconfig:"EXPOSED_HEADERS"`
	AllowCredentials bool     `yaml:"allow_credentials" envconfig:"ALLOW_CREDENTIALS"`
	MaxAge           int      `yaml:"max_age" envconfig:"MAX_AGE"` // seconds
}

// AuthRateLimitConfig contains login rate limiting configuration
type AuthRateLimitConfig struct {
	Enabled           bool `yaml:"enabled" envconfig:"ENABLED"`
	RequestsPerMinute int  `yaml:"requests_per_minute" envconfig:"REQUESTS_PER_MINUTE"`
	Burst             int  `yaml:"burst" envconfig:"BURST"`
	LockoutMinutes    int  `yaml:"lockout_minutes" envconfig:"LOCKOUT_MINUTES"`
}

// SetDefaults applies defaults for unset rate limit values
func (c *AuthRateLimitConfig) SetDefaults() {
	if c.RequestsPerMinute <= 0 {
		c.RequestsPerMinute = 10
	}
	if c.Burst <= 0 {
		c.Burst = 5
	}
	if c.LockoutMinutes <= 0 {
		c.LockoutMinutes = 15
	}
}

// Load loads configuration from file and environment variables
func Load(configFile string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Load from YAML file if provided (overrides defaults)
	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			// File doesn't exist, that's ok - we'll use defaults and env vars
		} else {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Override with environment variables (highest priority)
	if err := envconfig.Process("SCHOOL", cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Set BaseURL if not provided
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = fmt.Sprintf("http://%s:%d", cfg.Server.Host, cfg.Server.Port)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible default values
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Type: "memory",
			MongoDB: MongoDBConfig{
				URI:      "mongodb://localhost:27017",
				Database: "school",
				Timeout:  10,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		JWT: JWTConfig{
			ExpiryHours: 24,
			Issuer:      "school-backend",
		},
		Seeder: SeederConfig{
			Enabled:       true,
			IntervalHours: 24,
		},
		RateLimit: AuthRateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 10,
			Burst:             5,
			LockoutMinutes:    15,
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Storage.Type != "memory" && c.Storage.Type != "mongodb" {
		return fmt.Errorf("invalid storage type: %s (must be memory or mongodb)", c.Storage.Type)
	}

	if c.Storage.Type == "mongodb" && c.Storage.MongoDB.URI == "" {
		return fmt.Errorf("mongodb uri is required when using mongodb storage")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is required")
	}

	return nil
}

// Address returns the server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
