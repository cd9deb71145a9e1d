package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// JWT
	JWTSecret string

	// Gemini AI. Three keys split quota across the three usage
	// families: summaries, study material (notes + MCQ), and chat.
	GeminiSummaryKey     string
	GeminiStudyKey       string
	GeminiChatKey        string
	GeminiConcurrentReqs int
	GeminiTimeoutSecs    int

	// Quotas
	ChatDailyLimit    int
	CourseWindowHours int
	DurationWorkers   int

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:        getEnvOrDefault("PORT", "8080"),
		Env:         getEnvOrDefault("ENV", "development"),
		DatabaseURL: mustGetEnv("DATABASE_URL"),
		RedisURL:    mustGetEnv("REDIS_URL"),
		JWTSecret:   mustGetEnv("JWT_SECRET"),

		GeminiSummaryKey:     mustGetEnv("GEMINI_API_KEY_SUMMARY"),
		GeminiStudyKey:       getEnvOrDefault("GEMINI_API_KEY_STUDY", os.Getenv("GEMINI_API_KEY_SUMMARY")),
		GeminiChatKey:        getEnvOrDefault("GEMINI_API_KEY_CHAT", os.Getenv("GEMINI_API_KEY_SUMMARY")),
		GeminiConcurrentReqs: getEnvAsIntOrDefault("GEMINI_CONCURRENT_REQUESTS", 5),
		GeminiTimeoutSecs:    getEnvAsIntOrDefault("GEMINI_TIMEOUT_SECONDS", 90),

		ChatDailyLimit:    getEnvAsIntOrDefault("CHAT_DAILY_LIMIT", 10),
		CourseWindowHours: getEnvAsIntOrDefault("COURSE_CREATION_WINDOW_HOURS", 24),
		DurationWorkers:   getEnvAsIntOrDefault("DURATION_WORKERS", 2),

		FrontendURL: getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"),
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
