package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Source   SourceConfig
	Sync     SyncConfig
	Ai       AIConfig
	Vector   VectorConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type DatabaseConfig struct {
	Connection string
}

type SourceConfig struct {
	// Base64-encoded service account JSON with read access to the document.
	ServiceAccountBase64 string
	DocumentURL          string
}

type SyncConfig struct {
	// Cron spec for scheduled passes, e.g. "@every 6h".
	Schedule  string
	TopicName string
}

type AIConfig struct {
	EmbeddingProvider string // "gemini" or "ollama"
	GeminiApiKey      string
	OllamaBaseURL     string
	OllamaModel       string
}

type VectorConfig struct {
	Enabled   bool
	Dimension int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Source: SourceConfig{
			ServiceAccountBase64: getEnv("GOOGLE_SERVICE_ACCOUNT_BASE64", ""),
			DocumentURL:          getEnv("FULL_CONTENT_GOOGLE_DOCS_URL", ""),
		},
		Sync: SyncConfig{
			Schedule:  getEnv("SYNC_SCHEDULE", "@every 6h"),
			TopicName: getEnv("SYNC_TOPIC_NAME", "SYNC_CONTENT"),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			GeminiApiKey:      getEnv("GOOGLE_GEMINI_API_KEY", ""),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
		},
		Vector: VectorConfig{
			Enabled:   getEnvAsBool("ENABLE_VECTOR_SEARCH", true),
			Dimension: getEnvAsInt("VECTOR_DIMENSION", 768),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
