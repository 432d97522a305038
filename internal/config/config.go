package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Search   SearchConfig
	Storage  StorageConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JwtSecret          string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	EmbeddingProvider string // "gemini" or "ollama"
	OllamaBaseURL     string
	OllamaModel       string
	GeminiApiKey      string
	VectorDimension   int
	ChunkSize         int
	ChunkOverlap      int
	IngestTopic       string
	IngestStaleAfter  time.Duration
}

type SearchConfig struct {
	KeywordWeight  float64
	VectorWeight   float64
	ExternalWeight float64

	TitleMatchScore       float64
	DescriptionMatchScore float64
	FallbackMatchScore    float64

	MinSimilarity float64
	DefaultLimit  int

	CacheTTL      time.Duration
	SourceTimeout time.Duration

	SmartSearchURL string
	SmartSearchKey string
}

type StorageConfig struct {
	UploadDir string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JwtSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			GeminiApiKey:      getEnv("GOOGLE_GEMINI_API_KEY", ""),
			VectorDimension:   getEnvAsInt("VECTOR_DIMENSION", 768),
			ChunkSize:         getEnvAsInt("CHUNK_SIZE", 1000),
			ChunkOverlap:      getEnvAsInt("CHUNK_OVERLAP", 200),
			IngestTopic:       getEnv("INGEST_DOCUMENT_TOPIC_NAME", "INGEST_DOCUMENT"),
			IngestStaleAfter:  getEnvAsDuration("INGEST_STALE_AFTER", 15*time.Minute),
		},
		Search: SearchConfig{
			KeywordWeight:  getEnvAsFloat("SEARCH_KEYWORD_WEIGHT", 1.0),
			VectorWeight:   getEnvAsFloat("SEARCH_VECTOR_WEIGHT", 0.8),
			ExternalWeight: getEnvAsFloat("SEARCH_EXTERNAL_WEIGHT", 0.6),

			TitleMatchScore:       getEnvAsFloat("SEARCH_TITLE_MATCH_SCORE", 1.0),
			DescriptionMatchScore: getEnvAsFloat("SEARCH_DESCRIPTION_MATCH_SCORE", 0.8),
			FallbackMatchScore:    getEnvAsFloat("SEARCH_FALLBACK_MATCH_SCORE", 0.6),

			MinSimilarity: getEnvAsFloat("SEARCH_MIN_SIMILARITY", 0.35),
			DefaultLimit:  getEnvAsInt("SEARCH_DEFAULT_LIMIT", 20),

			CacheTTL:      getEnvAsDuration("SEARCH_CACHE_TTL", 300*time.Second),
			SourceTimeout: getEnvAsDuration("SEARCH_SOURCE_TIMEOUT", 5*time.Second),

			SmartSearchURL: getEnv("SMART_SEARCH_URL", ""),
			SmartSearchKey: getEnv("SMART_SEARCH_API_KEY", ""),
		},
		Storage: StorageConfig{
			UploadDir: getEnv("UPLOAD_DIR", "./uploads"),
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

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
