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
	SMTP     SMTPConfig
	Keys     APIKeys
	Ai       AIConfig
	Media    MediaConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JWTSecret          string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type APIKeys struct {
	GoogleGemini string
	GoogleSpeech string
}

type AIConfig struct {
	EmbeddingProvider string // "gemini" or "ollama"
	EmbeddingModel    string
	OllamaBaseURL     string
	LLMProvider       string // "gemini" or "ollama"
	SummaryModel      string
	FallbackModel     string
	QAModel           string
}

type MediaConfig struct {
	UploadDir      string
	MaxUploadMB    int
	Transcriber    string // "whisper" or "google"
	WhisperBin     string
	WhisperModel   string
	WhisperTimeout time.Duration
	YtDlpBin       string
	SpeechLanguage string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JWTSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "LectureNotes"),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			GoogleSpeech: getEnv("GOOGLE_SPEECH_API_KEY", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", ""),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			LLMProvider:       getEnv("LLM_PROVIDER", "gemini"),
			SummaryModel:      getEnv("SUMMARY_MODEL", "gemini-2.0-flash"),
			FallbackModel:     getEnv("FALLBACK_MODEL", "gemini-1.5-flash"),
			QAModel:           getEnv("QA_MODEL", "gemini-2.0-flash"),
		},
		Media: MediaConfig{
			UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
			MaxUploadMB:    getEnvAsInt("MAX_UPLOAD_MB", 200),
			Transcriber:    getEnv("TRANSCRIBER", "whisper"),
			WhisperBin:     getEnv("WHISPER_BIN", "whisper"),
			WhisperModel:   getEnv("WHISPER_MODEL", "./models/ggml-base.en.bin"),
			WhisperTimeout: getEnvAsDuration("WHISPER_TIMEOUT", 10*time.Minute),
			YtDlpBin:       getEnv("YT_DLP_BIN", "yt-dlp"),
			SpeechLanguage: getEnv("SPEECH_LANGUAGE", "en-US"),
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

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
