package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"jobsearch-backend/internal/shared/telemetry"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	LogLevel        string
	CORSAllowOrigin []string

	DatabaseURL string
	DB          DBConfig

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	JobsCacheTTL  time.Duration

	ElasticsearchAddresses []string
	ElasticsearchIndex     string

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string

	LLMProvider   string
	LLMModel      string
	OpenAIAPIKey  string
	OpenAIBaseURL string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	UIRedirectURL      string
	JWTSecret          string
}

// DBConfig carries pool overrides; zero values keep the storage defaults.
type DBConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")
	return fromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:5173")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("JOBS_CACHE_TTL", "5m")
	v.SetDefault("ELASTICSEARCH_INDEX", "job_postings")
	v.SetDefault("OBJECT_STORE", "local")
	v.SetDefault("LOCAL_STORE_DIR", "./data")
	v.SetDefault("LLM_PROVIDER", "openai")
	v.SetDefault("LLM_MODEL", "gpt-4o-mini")
	return v
}

func fromViper(v *viper.Viper) Config {
	env := normalizeEnv(v.GetString("ENV"))
	dbURL := v.GetString("DATABASE_URL")

	if env == "production" && dbURL == "" {
		telemetry.Warn("config.database_url_missing", map[string]any{"env": env})
	}

	return Config{
		Port:            v.GetString("PORT"),
		Env:             env,
		LogLevel:        v.GetString("LOG_LEVEL"),
		CORSAllowOrigin: splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),

		DatabaseURL: dbURL,
		DB: DBConfig{
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
			ConnMaxIdleTime: v.GetDuration("DB_CONN_MAX_IDLE_TIME"),
			PingTimeout:     v.GetDuration("DB_PING_TIMEOUT"),
		},

		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),
		JobsCacheTTL:  v.GetDuration("JOBS_CACHE_TTL"),

		ElasticsearchAddresses: splitAndTrim(v.GetString("ELASTICSEARCH_ADDRESSES")),
		ElasticsearchIndex:     v.GetString("ELASTICSEARCH_INDEX"),

		ObjectStoreType: normalizeStoreType(v.GetString("OBJECT_STORE")),
		LocalStoreDir:   v.GetString("LOCAL_STORE_DIR"),
		AWSRegion:       v.GetString("AWS_REGION"),
		S3Bucket:        v.GetString("S3_BUCKET"),
		S3Prefix:        v.GetString("S3_PREFIX"),
		SSEKMSKeyID:     v.GetString("SSE_KMS_KEY_ID"),

		LLMProvider:   strings.ToLower(strings.TrimSpace(v.GetString("LLM_PROVIDER"))),
		LLMModel:      v.GetString("LLM_MODEL"),
		OpenAIAPIKey:  v.GetString("OPENAI_API_KEY"),
		OpenAIBaseURL: v.GetString("OPENAI_BASE_URL"),

		GoogleClientID:     v.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  v.GetString("GOOGLE_REDIRECT_URL"),
		UIRedirectURL:      v.GetString("UI_REDIRECT_URL"),
		JWTSecret:          v.GetString("JWT_SECRET"),
	}
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
