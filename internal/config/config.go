package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Identity provider configuration
	Auth AuthConfig

	// Thumbnail object storage configuration
	Storage StorageConfig

	// Profile provisioning poll after registration
	Provisioning ProvisioningConfig

	// Volunteer hours settings
	Hours HoursConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	SSLMode        string
	MaxOpenConns   int
	MaxIdleConns   int
	MaxLifetime    time.Duration
	MigrationsPath string
}

// AuthConfig holds the managed auth endpoint and token verification secret
type AuthConfig struct {
	URL       string
	AnonKey   string
	JWTSecret string
}

// StorageConfig holds S3-compatible bucket settings for project thumbnails
type StorageConfig struct {
	Endpoint          string
	Region            string
	AccessKey         string
	SecretKey         string
	Bucket            string
	PublicURL         string
	UsePathStyle      bool
	MaxThumbnailBytes int64
}

// ProvisioningConfig bounds the wait for a server-side created profile.
// Without External, sign-up creates the profile itself and never polls.
type ProvisioningConfig struct {
	External        bool
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxTries        int
}

// HoursConfig holds volunteer hour settings
type HoursConfig struct {
	GoalHours int
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", "postgres"),
			Name:           getEnv("DB_NAME", "volunteer_hours"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:   getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:   getIntEnv("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:    getDurationEnv("DB_MAX_LIFETIME", 5*time.Minute),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		},
		Auth: AuthConfig{
			URL:       getEnv("SUPABASE_URL", ""),
			AnonKey:   getEnv("SUPABASE_ANON_KEY", ""),
			JWTSecret: getEnv("SUPABASE_JWT_SECRET", ""),
		},
		Storage: StorageConfig{
			Endpoint:          getEnv("STORAGE_ENDPOINT", ""),
			Region:            getEnv("STORAGE_REGION", "us-east-1"),
			AccessKey:         getEnv("STORAGE_ACCESS_KEY", ""),
			SecretKey:         getEnv("STORAGE_SECRET_KEY", ""),
			Bucket:            getEnv("STORAGE_BUCKET", "project-thumbnails"),
			PublicURL:         getEnv("STORAGE_PUBLIC_URL", ""),
			UsePathStyle:      getBoolEnv("STORAGE_USE_PATH_STYLE", true),
			MaxThumbnailBytes: getInt64Env("THUMBNAIL_MAX_BYTES", 5*1024*1024), // 5MB
		},
		Provisioning: ProvisioningConfig{
			External:        getBoolEnv("PROFILE_PROVISIONED_EXTERNALLY", false),
			InitialInterval: getDurationEnv("PROFILE_POLL_INITIAL", 200*time.Millisecond),
			MaxInterval:     getDurationEnv("PROFILE_POLL_MAX_INTERVAL", 2*time.Second),
			MaxTries:        getIntEnv("PROFILE_POLL_MAX_TRIES", 8),
		},
		Hours: HoursConfig{
			GoalHours: getIntEnv("SERVICE_HOURS_GOAL", 80),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Auth.URL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.Auth.AnonKey == "" {
		return fmt.Errorf("SUPABASE_ANON_KEY is required")
	}
	if c.Provisioning.MaxTries < 1 {
		return fmt.Errorf("PROFILE_POLL_MAX_TRIES must be at least 1")
	}
	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
