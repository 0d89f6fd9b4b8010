package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// StoreMode selects the budget store backing the lifecycle engine.
// "local" uses the built-in Postgres-backed store; "remote" talks to an
// external system of record over HTTP.
const (
	StoreModeLocal  = "local"
	StoreModeRemote = "remote"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Budget store
	StoreMode    string
	StoreBaseURL string

	// Rate providers
	FXRateURL    string
	IndexRateURL string
	RateTimeout  time.Duration
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "obralink"),
		DBPassword: getEnv("DB_PASSWORD", "obralink"),
		DBName:     getEnv("DB_NAME", "obralink"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		// Budget store
		StoreMode:    getEnv("BUDGET_STORE_MODE", StoreModeLocal),
		StoreBaseURL: getEnv("BUDGET_STORE_URL", ""),

		// Rate providers
		FXRateURL:    getEnv("FX_RATE_URL", "https://api.bluelytics.com.ar/v2/latest"),
		IndexRateURL: getEnv("INDEX_RATE_URL", "https://prestamos.ikiwi.net.ar/api/v1/engine/cac/valores"),
	}

	// Parse JWT expiration duration
	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	// Parse rate provider timeout
	rateTimeoutStr := getEnv("RATE_TIMEOUT", "5s")
	rateTimeout, err := time.ParseDuration(rateTimeoutStr)
	if err != nil {
		log.Printf("Warning: invalid RATE_TIMEOUT value '%s', falling back to 5s\n", rateTimeoutStr)
		rateTimeout = 5 * time.Second
	}
	config.RateTimeout = rateTimeout

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
