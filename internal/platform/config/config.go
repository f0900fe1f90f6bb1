package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr               string
	Environment        string
	LogLevel           string
	DatabaseURL        string
	StoreDriver        string
	RunMigrations      bool
	MigrationsDir      string
	JWTSecret          string
	DataEncryptionKey  string
	MaxBodyBytes       int64
	RateLimitPerMinute int
	CORSAllowedOrigins []string
	PublicBaseURL      string
	MinimumWageFile    string
	DocumentFontPath   string
	AdviceProvider     string
	AdviceAPIKey       string
	AdviceBaseURL      string
	AdviceModel        string
	AdviceTimeout      time.Duration
	MetricsEnabled     bool
}

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"

	AdviceProviderGateway = "gateway"
	AdviceProviderGemini  = "gemini"
	AdviceProviderNone    = "none"
)

// Load reads the environment, after applying a .env file from the working
// directory when one exists. Variables already set win over the file.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "config: ignoring unreadable .env: %v\n", err)
	}
	return FromEnv()
}

func FromEnv() Config {
	return Config{
		Addr:               getEnv("APP_ADDR", ":8080"),
		Environment:        getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		StoreDriver:        strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
		RunMigrations:      getEnvBool("RUN_MIGRATIONS", true),
		MigrationsDir:      getEnv("MIGRATIONS_DIR", "migrations"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		DataEncryptionKey:  getEnv("DATA_ENCRYPTION_KEY", ""),
		MaxBodyBytes:       int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		PublicBaseURL:      getEnv("PUBLIC_BASE_URL", "http://localhost:5173"),
		MinimumWageFile:    getEnv("MINIMUM_WAGE_FILE", ""),
		DocumentFontPath:   getEnv("DOCUMENT_FONT_PATH", ""),
		AdviceProvider:     strings.ToLower(getEnv("ADVICE_PROVIDER", AdviceProviderGateway)),
		AdviceAPIKey:       getEnv("ADVICE_API_KEY", ""),
		AdviceBaseURL:      getEnv("ADVICE_BASE_URL", ""),
		AdviceModel:        getEnv("ADVICE_MODEL", ""),
		AdviceTimeout:      getEnvDuration("ADVICE_TIMEOUT", 60*time.Second),
		MetricsEnabled:     getEnvBool("METRICS_ENABLED", true),
	}
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) Validate() error {
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER is postgres")
		}
	case StoreDriverMemory:
		if c.IsProduction() {
			return fmt.Errorf("STORE_DRIVER=memory is not allowed in production")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be postgres or memory")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.IsProduction() {
		if len(c.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters in production")
		}
		if strings.TrimSpace(c.DataEncryptionKey) == "" {
			return fmt.Errorf("DATA_ENCRYPTION_KEY must be set in production to seal signatures at rest")
		}
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	switch c.AdviceProvider {
	case AdviceProviderGateway, AdviceProviderGemini:
		if c.AdviceTimeout <= 0 {
			return fmt.Errorf("ADVICE_TIMEOUT must be positive")
		}
	case AdviceProviderNone:
	default:
		return fmt.Errorf("ADVICE_PROVIDER must be gateway, gemini or none")
	}
	if strings.TrimSpace(c.PublicBaseURL) == "" {
		return fmt.Errorf("PUBLIC_BASE_URL is required")
	}
	return nil
}
