package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Storage configuration. When PostgresURL is set the service uses
	// Postgres; otherwise it falls back to the JSON blob store in DataDir.
	DataDir     string
	PostgresURL string

	// AI assistant configuration
	GeminiAPIKey  string
	GeminiModelID string
	GeminiTimeout time.Duration

	// Auth configuration
	JWTSecret            string
	JWTAccessExpiration  time.Duration
	JWTRefreshExpiration time.Duration
	GoogleClientID       string
	GoogleClientSecret   string
	GoogleRedirectURL    string
	SuperAdminEmail      string
	SuperAdminPassword   string

	// Product image storage
	S3Region          string
	S3Bucket          string
	S3AccessKeyID     string
	S3AccessKeySecret string
}

// LoadConfig loads the application configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env if present; real environment variables win
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env file. Using environment variables.")
	}

	config := &Config{
		Port:         getEnvInt("PORT", 8080),
		ReadTimeout:  time.Duration(getEnvInt("READ_TIMEOUT", 15)) * time.Second,
		WriteTimeout: time.Duration(getEnvInt("WRITE_TIMEOUT", 60)) * time.Second,

		DataDir:     getEnvString("DATA_DIR", "./data"),
		PostgresURL: os.Getenv("POSTGRES_DB_URL"),

		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModelID: getEnvString("GEMINI_MODEL_ID", "gemini-2.5-flash"),
		GeminiTimeout: time.Duration(getEnvInt("GEMINI_TIMEOUT", 60)) * time.Second,

		JWTSecret:            os.Getenv("JWT_SECRET"),
		JWTAccessExpiration:  time.Duration(getEnvInt("JWT_ACCESS_EXPIRATION_MINUTES", 15)) * time.Minute,
		JWTRefreshExpiration: time.Duration(getEnvInt("JWT_REFRESH_EXPIRATION_HOURS", 168)) * time.Hour,
		GoogleClientID:       os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:   os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:    getEnvString("GOOGLE_REDIRECT_URL", "http://localhost:8080/v1/auth/google/callback"),
		SuperAdminEmail:      os.Getenv("SUPER_ADMIN_EMAIL"),
		SuperAdminPassword:   os.Getenv("SUPER_ADMIN_PASSWORD"),

		S3Region:          os.Getenv("S3_REGION"),
		S3Bucket:          os.Getenv("S3_BUCKET"),
		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3AccessKeySecret: os.Getenv("S3_ACCESS_KEY_SECRET"),
	}

	validateConfig(config)
	return config, nil
}

// validateConfig logs warnings for missing critical configuration
func validateConfig(config *Config) {
	if config.GeminiAPIKey == "" {
		log.Println("Warning: No Gemini API key provided. Assistant requests will fail.")
	}
	if config.JWTSecret == "" {
		log.Println("Warning: No JWT secret provided. Using an empty secret is unsafe.")
	}
	if config.S3Bucket == "" || config.S3Region == "" {
		log.Println("Warning: S3 storage not configured. Product image uploads will fail.")
	}
	if config.SuperAdminEmail == "" {
		log.Println("Warning: No super admin email configured. Nobody will be able to approve registrations.")
	}
}

// getEnvInt gets an integer from an environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// getEnvString gets a string from an environment variable with a default value
func getEnvString(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
