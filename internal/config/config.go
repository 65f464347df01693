package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/tair/lumina-storefront/pkg/database"
)

// Common holds settings shared by every service binary.
type Common struct {
	ServiceName    string
	Environment    string
	LogLevel       string
	JaegerEndpoint string
	HTTPPort       string
	AllowedOrigins []string
}

// IsDevelopment reports whether console logging should be used.
func (c Common) IsDevelopment() bool {
	return c.Environment == "development"
}

// Storefront configures cmd/storefront.
type Storefront struct {
	Common

	CatalogStore   string // memory or postgres
	CatalogLatency time.Duration
	DB             database.Config

	RedisAddr     string
	RedisPassword string

	KafkaBrokers []string
	KafkaGroupID string

	AuthServiceURL string
	JWTSecret      string

	CompletionURL    string
	CompletionModel  string
	CompletionAPIKey string

	BrowseDebounce time.Duration
	SessionIdleTTL time.Duration
	RateLimit      int
	CacheTTL       time.Duration
}

// Auth configures cmd/auth.
type Auth struct {
	Common

	UserStore string // memory or postgres
	DB        database.Config
	JWTSecret string
	TokenTTL  time.Duration
}

// LoadStorefront reads the storefront configuration from the environment,
// after loading an optional .env file.
func LoadStorefront() *Storefront {
	_ = godotenv.Load()

	return &Storefront{
		Common:           loadCommon("storefront", "8080"),
		CatalogStore:     getEnv("CATALOG_STORE", "memory"),
		CatalogLatency:   getDuration("CATALOG_LATENCY", 0),
		DB:               loadDB("catalogdb"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:     getList("KAFKA_BROKERS", nil),
		KafkaGroupID:     getEnv("KAFKA_GROUP_ID", "storefront-analytics"),
		AuthServiceURL:   getEnv("AUTH_SERVICE_URL", "http://localhost:8081"),
		JWTSecret:        getEnv("JWT_SECRET", "lumina-dev-secret"),
		CompletionURL:    getEnv("COMPLETION_URL", "https://generativelanguage.googleapis.com"),
		CompletionModel:  getEnv("COMPLETION_MODEL", "gemini-2.5-flash"),
		CompletionAPIKey: getEnv("COMPLETION_API_KEY", ""),
		BrowseDebounce:   getDuration("BROWSE_DEBOUNCE", 300*time.Millisecond),
		SessionIdleTTL:   getDuration("SESSION_IDLE_TTL", 2*time.Hour),
		RateLimit:        getInt("RATE_LIMIT_PER_MINUTE", 100),
		CacheTTL:         getDuration("CACHE_TTL", time.Minute),
	}
}

// LoadAuth reads the auth service configuration from the environment.
func LoadAuth() *Auth {
	_ = godotenv.Load()

	return &Auth{
		Common:    loadCommon("auth-service", "8081"),
		UserStore: getEnv("USER_STORE", "postgres"),
		DB:        loadDB("userdb"),
		JWTSecret: getEnv("JWT_SECRET", "lumina-dev-secret"),
		TokenTTL:  getDuration("TOKEN_TTL", 24*time.Hour),
	}
}

func loadCommon(defaultName, defaultPort string) Common {
	return Common{
		ServiceName:    getEnv("OTEL_SERVICE_NAME", defaultName),
		Environment:    getEnv("ENVIRONMENT", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		JaegerEndpoint: getEnv("JAEGER_ENDPOINT", ""),
		HTTPPort:       getEnv("HTTP_PORT", defaultPort),
		AllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

func loadDB(defaultName string) database.Config {
	return database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", defaultName),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}

func getList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
