package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ProviderOpenAI = "openai"
	ProviderVertex = "vertex"
	ProviderNone   = "none"

	UserStoreMongo    = "mongo"
	UserStorePostgres = "postgres"
)

// Config is built once at startup and handed to the components that need it.
type Config struct {
	Env      string
	Port     string
	LogLevel string

	MongoURI    string
	MongoDB     string
	PostgresURI string
	UserStore   string
	RedisAddr   string

	JWTSecret      string
	JWTExpiryHours int

	MaxUploadBytes int64
	UploadDir      string

	LLMProvider     string
	LLMModel        string
	LLMTimeout      time.Duration
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	VertexProjectID string
	VertexLocation  string

	GCSBucket string

	CORSAllowOrigins []string
	StatsCacheTTL    time.Duration
}

func Load() *Config {
	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		MongoURI:    os.Getenv("MONGO_URI"),
		MongoDB:     getEnv("MONGO_DB", "resumeats"),
		PostgresURI: os.Getenv("POSTGRES_URI"),
		UserStore:   strings.ToLower(getEnv("USER_STORE", UserStoreMongo)),
		RedisAddr:   firstEnv("REDIS_ADDR", "REDIS_URI", "REDIS_URL"),

		JWTSecret:      getEnv("JWT_SECRET", ""),
		JWTExpiryHours: getEnvInt("JWT_EXPIRY_HOURS", 24*7),

		MaxUploadBytes: int64(getEnvInt("MAX_FILE_SIZE", 5<<20)),
		UploadDir:      getEnv("UPLOAD_DIR", os.TempDir()),

		LLMProvider:     strings.ToLower(getEnv("LLM_PROVIDER", ProviderOpenAI)),
		LLMModel:        os.Getenv("LLM_MODEL"),
		LLMTimeout:      time.Duration(getEnvInt("LLM_TIMEOUT_SECONDS", 30)) * time.Second,
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		VertexProjectID: os.Getenv("VERTEX_PROJECT_ID"),
		VertexLocation:  getEnv("VERTEX_LOCATION", "us-central1"),

		GCSBucket: os.Getenv("GCS_BUCKET"),

		CORSAllowOrigins: splitList(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		StatsCacheTTL:    time.Duration(getEnvInt("STATS_CACHE_TTL_SECONDS", 300)) * time.Second,
	}

	// without a key the analyzer runs heuristics only
	if cfg.LLMProvider == ProviderOpenAI && cfg.OpenAIAPIKey == "" {
		cfg.LLMProvider = ProviderNone
	}
	return cfg
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return &ConfigError{Field: "MONGO_URI", Message: "MONGO_URI is required"}
	}
	if c.JWTSecret == "" {
		if c.IsProduction() {
			return &ConfigError{Field: "JWT_SECRET", Message: "JWT_SECRET is required in production"}
		}
		c.JWTSecret = "dev-secret-change-me"
	}
	if c.UserStore == UserStorePostgres && c.PostgresURI == "" {
		return &ConfigError{Field: "POSTGRES_URI", Message: "POSTGRES_URI is required when USER_STORE=postgres"}
	}
	if c.MaxUploadBytes <= 0 {
		return &ConfigError{Field: "MAX_FILE_SIZE", Message: "MAX_FILE_SIZE must be positive"}
	}
	switch c.LLMProvider {
	case ProviderOpenAI, ProviderNone:
	case ProviderVertex:
		if c.VertexProjectID == "" {
			return &ConfigError{Field: "VERTEX_PROJECT_ID", Message: "VERTEX_PROJECT_ID is required for the vertex provider"}
		}
	default:
		return &ConfigError{Field: "LLM_PROVIDER", Message: "LLM_PROVIDER must be openai, vertex, or none"}
	}
	if c.LLMTimeout <= 0 {
		return &ConfigError{Field: "LLM_TIMEOUT_SECONDS", Message: "LLM_TIMEOUT_SECONDS must be positive"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
