package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config - all environment settings for the pipeline
type Config struct {
	// Gemini API
	GeminiAPIKey      string
	GeminiVisionModel string
	GeminiImageModel  string

	// Supabase
	SupabaseURL        string
	SupabaseServiceKey string

	// Vercel Blob
	BlobStoreURL string
	BlobToken    string

	// Pacing between pipeline runs
	PairDelay time.Duration

	// Scraper
	ScrapeMaxScrolls int
	ScrapeSettle     time.Duration

	// Serve mode
	Port       string
	WeeklyCron string

	// Redis (serve mode only)
	RedisHost     string
	RedisPort     string
	RedisUsername string
	RedisPassword string
	RedisUseTLS   bool
}

var globalConfig *Config

// LoadConfig - load .env (if present) and the environment, validate credentials
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env file not found, using environment variables")
	}

	useTLS := true
	if tlsStr := os.Getenv("REDIS_USE_TLS"); tlsStr != "" {
		if parsed, err := strconv.ParseBool(tlsStr); err == nil {
			useTLS = parsed
		}
	}

	globalConfig = &Config{
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiVisionModel: getEnv("GEMINI_VISION_MODEL", "gemini-2.5-flash"),
		GeminiImageModel:  getEnv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),

		SupabaseURL:        getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey: getEnv("SUPABASE_SERVICE_KEY", ""),

		BlobStoreURL: getEnv("BLOB_STORE_URL", "https://blob.vercel-storage.com"),
		BlobToken:    getEnv("BLOB_READ_WRITE_TOKEN", ""),

		PairDelay: getEnvSeconds("PAIR_DELAY_SECONDS", 2),

		ScrapeMaxScrolls: getEnvInt("SCRAPE_MAX_SCROLLS", 15),
		ScrapeSettle:     getEnvSeconds("SCRAPE_SETTLE_SECONDS", 2),

		Port:       getEnv("PORT", "8080"),
		WeeklyCron: getEnv("WEEKLY_CRON", ""),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisUsername: getEnv("REDIS_USERNAME", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisUseTLS:   useTLS,
	}

	if err := globalConfig.validate(); err != nil {
		return nil, err
	}

	log.Println("✅ Configuration loaded successfully")
	log.Printf("   Supabase: %s", globalConfig.SupabaseURL)
	log.Printf("   Gemini: vision=%s image=%s", globalConfig.GeminiVisionModel, globalConfig.GeminiImageModel)
	log.Printf("   Blob store: %s", globalConfig.BlobStoreURL)
	log.Printf("   Pair delay: %s", globalConfig.PairDelay)

	return globalConfig, nil
}

// GetConfig - access the loaded configuration
func GetConfig() *Config {
	if globalConfig == nil {
		log.Fatal("❌ Config not loaded. Call LoadConfig() first.")
	}
	return globalConfig
}

// validate - required credentials must be present; fail loudly at startup
func (c *Config) validate() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabaseServiceKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_KEY is required")
	}
	if c.BlobToken == "" {
		return fmt.Errorf("BLOB_READ_WRITE_TOKEN is required")
	}
	return nil
}

// getEnv - read an environment variable with a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvSeconds(key string, defaultSeconds int) time.Duration {
	return time.Duration(getEnvInt(key, defaultSeconds)) * time.Second
}

// GetRedisAddr - Redis connection string
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}
