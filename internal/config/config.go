package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrConfiguration marks a fatal startup problem (missing credentials or files).
var ErrConfiguration = errors.New("configuration error")

type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	EventStore  EventStoreConfig
	Ai          AIConfig
	Translation TranslationConfig
	Retrieval   RetrievalConfig
	Session     SessionConfig
	Timeouts    TimeoutConfig
	Messaging   MessagingConfig
	Telemetry   TelemetryConfig
	Contacts    ContactsConfig
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

type EventStoreConfig struct {
	Path    string
	MaxRows int
}

type AIConfig struct {
	LLMProvider   string // "ollama", "gemini" or "openai"
	LLMModel      string
	OllamaBaseURL string
	OpenAIBaseURL string
	OpenAIKey     string
	GeminiKey     string

	EmbeddingProvider string // "gemini" or "ollama"
	EmbeddingModel    string
}

type TranslationConfig struct {
	Provider          string // "google", "llm" or "none"
	GoogleAPIKey      string
	CanonicalLanguage string
	DetectCacheTTL    time.Duration
}

type RetrievalConfig struct {
	// DistanceThreshold gates the best match. Lower scores are more similar.
	DistanceThreshold float64
	ProbeK            int
	TopK              int
	FetchK            int
	SearchType        string // "mmr" or "similarity"
	MMRLambda         float64
}

type SessionConfig struct {
	Backend            string // "memory" or "redis"
	RedisURL           string
	Capacity           int
	TTL                time.Duration
	HistoryWindow      int
	HistoryTokenBudget int
}

type TimeoutConfig struct {
	Detection   time.Duration
	Generation  time.Duration
	Translation time.Duration
	Retrieval   time.Duration
	StoreQuery  time.Duration
}

type MessagingConfig struct {
	NatsURL      string
	AuditEnabled bool
}

type TelemetryConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

type ContactsConfig struct {
	MappingPath string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		EventStore: EventStoreConfig{
			Path:    getEnv("EVENTS_DB_PATH", "college_events.db"),
			MaxRows: getEnvAsInt("EVENTS_MAX_ROWS", 50),
		},
		Ai: AIConfig{
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", ""),
			OpenAIKey:         getEnv("OPENAI_API_KEY", ""),
			GeminiKey:         getEnv("GOOGLE_GEMINI_API_KEY", ""),
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", ""),
		},
		Translation: TranslationConfig{
			Provider:          getEnv("TRANSLATION_PROVIDER", "google"),
			GoogleAPIKey:      getEnv("GOOGLE_TRANSLATE_API_KEY", ""),
			CanonicalLanguage: getEnv("CANONICAL_LANGUAGE", "en"),
			DetectCacheTTL:    getEnvAsDuration("DETECT_CACHE_TTL", 10*time.Minute),
		},
		Retrieval: RetrievalConfig{
			DistanceThreshold: getEnvAsFloat("RAG_DISTANCE_THRESHOLD", 0.7),
			ProbeK:            getEnvAsInt("RAG_PROBE_K", 1),
			TopK:              getEnvAsInt("RAG_TOP_K", 4),
			FetchK:            getEnvAsInt("RAG_FETCH_K", 20),
			SearchType:        getEnv("RAG_SEARCH_TYPE", "mmr"),
			MMRLambda:         getEnvAsFloat("RAG_MMR_LAMBDA", 0.5),
		},
		Session: SessionConfig{
			Backend:            getEnv("SESSION_BACKEND", "memory"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			Capacity:           getEnvAsInt("SESSION_CAPACITY", 10000),
			TTL:                getEnvAsDuration("SESSION_TTL", 2*time.Hour),
			HistoryWindow:      getEnvAsInt("SESSION_HISTORY_WINDOW", 6),
			HistoryTokenBudget: getEnvAsInt("SESSION_HISTORY_TOKEN_BUDGET", 1500),
		},
		Timeouts: TimeoutConfig{
			Detection:   getEnvAsDuration("TIMEOUT_DETECTION", 5*time.Second),
			Generation:  getEnvAsDuration("TIMEOUT_GENERATION", 60*time.Second),
			Translation: getEnvAsDuration("TIMEOUT_TRANSLATION", 10*time.Second),
			Retrieval:   getEnvAsDuration("TIMEOUT_RETRIEVAL", 10*time.Second),
			StoreQuery:  getEnvAsDuration("TIMEOUT_STORE_QUERY", 5*time.Second),
		},
		Messaging: MessagingConfig{
			NatsURL:      getEnv("NATS_URL", ""),
			AuditEnabled: getEnvAsBool("AUDIT_ENABLED", true),
		},
		Telemetry: TelemetryConfig{
			Enabled:     getEnvAsBool("OTEL_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "campusbot-backend"),
		},
		Contacts: ContactsConfig{
			MappingPath: getEnv("DEPARTMENT_MAPPING_PATH", "configs/department_mapping.json"),
		},
	}
}

// Validate reports missing credentials for the selected providers and missing
// required files. Any error it returns is fatal at startup.
func (c *Config) Validate() error {
	var problems []string

	if c.Database.Connection == "" {
		problems = append(problems, "DB_CONNECTION_STRING is not set")
	}

	switch c.Ai.LLMProvider {
	case "ollama":
	case "gemini":
		if c.Ai.GeminiKey == "" {
			problems = append(problems, "GOOGLE_GEMINI_API_KEY is required for LLM_PROVIDER=gemini")
		}
	case "openai":
		if c.Ai.OpenAIKey == "" {
			problems = append(problems, "OPENAI_API_KEY is required for LLM_PROVIDER=openai")
		}
	default:
		problems = append(problems, fmt.Sprintf("unsupported LLM_PROVIDER %q", c.Ai.LLMProvider))
	}

	switch c.Ai.EmbeddingProvider {
	case "ollama":
	case "gemini":
		if c.Ai.GeminiKey == "" {
			problems = append(problems, "GOOGLE_GEMINI_API_KEY is required for EMBEDDING_PROVIDER=gemini")
		}
	default:
		problems = append(problems, fmt.Sprintf("unsupported EMBEDDING_PROVIDER %q", c.Ai.EmbeddingProvider))
	}

	switch c.Translation.Provider {
	case "llm", "none":
	case "google":
		if c.Translation.GoogleAPIKey == "" {
			problems = append(problems, "GOOGLE_TRANSLATE_API_KEY is required for TRANSLATION_PROVIDER=google")
		}
	default:
		problems = append(problems, fmt.Sprintf("unsupported TRANSLATION_PROVIDER %q", c.Translation.Provider))
	}

	switch c.Session.Backend {
	case "memory", "redis":
	default:
		problems = append(problems, fmt.Sprintf("unsupported SESSION_BACKEND %q", c.Session.Backend))
	}

	if c.Retrieval.SearchType != "mmr" && c.Retrieval.SearchType != "similarity" {
		problems = append(problems, fmt.Sprintf("unsupported RAG_SEARCH_TYPE %q", c.Retrieval.SearchType))
	}

	if _, err := os.Stat(c.Contacts.MappingPath); err != nil {
		problems = append(problems, fmt.Sprintf("department mapping %s: %v", c.Contacts.MappingPath, err))
	}
	if _, err := os.Stat(c.EventStore.Path); err != nil {
		problems = append(problems, fmt.Sprintf("events database %s: %v", c.EventStore.Path, err))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrConfiguration, strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
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
