package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers selectable with STORAGE_DRIVER.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	StorageDriver  string
	MigrationsPath string
	JWTSecret      string
	JWTIssuer      string
	RateLimit      string // ulule limiter format, e.g. "300-M"
	LogLevel       string

	CORSAllowedOrigins []string

	// Domain events are mirrored to PostHog when a key is set
	PosthogAPIKey   string `mapstructure:"POSTHOG_API_KEY"`
	PosthogEndpoint string `mapstructure:"POSTHOG_ENDPOINT"`

	TemplateCatalogPath string `mapstructure:"TEMPLATE_CATALOG_PATH"`
	DefaultPageSize     int    `mapstructure:"DEFAULT_PAGE_SIZE"`
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("STORAGE_DRIVER", StoragePostgres)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "bloqer")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "https://us.i.posthog.com")
	viper.SetDefault("TEMPLATE_CATALOG_PATH", "configs/templates.yaml")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DEFAULT_PAGE_SIZE", 50)

	// Environment variables override the defaults and the .env values
	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.StorageDriver = strings.ToLower(viper.GetString("STORAGE_DRIVER"))
	if cfg.StorageDriver != StoragePostgres && cfg.StorageDriver != StorageMemory {
		log.Printf("Warning: unknown STORAGE_DRIVER %q. Defaulting to %s.\n", cfg.StorageDriver, StoragePostgres)
		cfg.StorageDriver = StoragePostgres
	}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" && cfg.StorageDriver == StoragePostgres {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	// Load JWT Secret
	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "bloqer"
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", cfg.JWTIssuer)
	}

	cfg.DefaultPageSize = viper.GetInt("DEFAULT_PAGE_SIZE")
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 50
		log.Printf("Warning: Invalid DEFAULT_PAGE_SIZE. Defaulting to %d.\n", cfg.DefaultPageSize)
	}

	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	if cfg.PosthogAPIKey == "" {
		log.Println("Warning: POSTHOG_API_KEY not set. Domain events will only be logged.")
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.LogLevel = strings.ToLower(viper.GetString("LOG_LEVEL"))
	cfg.PosthogEndpoint = viper.GetString("POSTHOG_ENDPOINT")
	cfg.TemplateCatalogPath = viper.GetString("TEMPLATE_CATALOG_PATH")

	return cfg, nil
}
