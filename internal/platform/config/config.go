package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

// Config holds application configuration.
type Config struct {
	Port          string
	IsProduction  bool
	StoreDriver   string
	DatabaseURL   string
	EnableDBCheck bool
	MongoURI      string
	MongoDB       string
	BatchMaxOps   int
	Timezone      string
	Location      *time.Location

	JWTSecret       string
	JWTIssuer       string
	FrontendBaseURL string
	RateLimit       string

	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	// DashboardCacheTTL bounds how long a view is reused. Committed writes
	// expire views immediately unless the cache is unreachable at write time.
	DashboardCacheTTL time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("STORE_DRIVER", StoreMemory)
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DB", "salesops")
	viper.SetDefault("BATCH_MAX_OPS", 500)
	viper.SetDefault("TIMEZONE", "UTC")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "salesops-app")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("DASHBOARD_CACHE_TTL", "30s")

	// Environment variables override defaults and .env values.
	viper.AutomaticEnv()

	cfg := &Config{
		Port:            viper.GetString("PORT"),
		IsProduction:    viper.GetBool("IS_PRODUCTION"),
		StoreDriver:     strings.ToLower(viper.GetString("STORE_DRIVER")),
		DatabaseURL:     viper.GetString("PGSQL_URL"),
		EnableDBCheck:   viper.GetBool("ENABLE_DB_CHECK"),
		MongoURI:        viper.GetString("MONGO_URI"),
		MongoDB:         viper.GetString("MONGO_DB"),
		BatchMaxOps:     viper.GetInt("BATCH_MAX_OPS"),
		Timezone:        viper.GetString("TIMEZONE"),
		JWTSecret:       viper.GetString("JWT_SECRET"),
		JWTIssuer:       viper.GetString("JWT_ISSUER"),
		FrontendBaseURL: viper.GetString("FRONTEND_BASE_URL"),
		RateLimit:       viper.GetString("RATE_LIMIT"),
		RedisAddr:       viper.GetString("REDIS_ADDR"),
		RedisPassword:   viper.GetString("REDIS_PASSWORD"),
		RedisDB:         viper.GetInt("REDIS_DB"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	switch cfg.StoreDriver {
	case StoreMemory, StorePostgres, StoreMongo:
	default:
		log.Printf("Warning: unknown STORE_DRIVER '%s'. Defaulting to %s.\n", cfg.StoreDriver, StoreMemory)
		cfg.StoreDriver = StoreMemory
	}
	if cfg.StoreDriver == StorePostgres && cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	if cfg.BatchMaxOps <= 0 {
		cfg.BatchMaxOps = 500
		log.Printf("Warning: invalid BATCH_MAX_OPS. Defaulting to %d.\n", cfg.BatchMaxOps)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Printf("Warning: unknown TIMEZONE '%s'. Defaulting to UTC.\n", cfg.Timezone)
		cfg.Timezone = "UTC"
		loc = time.UTC
	}
	cfg.Location = loc

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cacheTTLStr := viper.GetString("DASHBOARD_CACHE_TTL")
	cacheTTL, err := time.ParseDuration(cacheTTLStr)
	if err != nil {
		cacheTTL = 30 * time.Second
		log.Printf("Warning: Invalid value for DASHBOARD_CACHE_TTL ('%s'). Defaulting to %s.\n", cacheTTLStr, cacheTTL)
	}
	cfg.DashboardCacheTTL = cacheTTL

	return cfg, nil
}
