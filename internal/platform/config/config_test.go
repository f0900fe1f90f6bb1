package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		StoreDriver:        StoreDriverMemory,
		Environment:        "development",
		JWTSecret:          "secret",
		MaxBodyBytes:       4096,
		RateLimitPerMinute: 10,
		AdviceProvider:     AdviceProviderNone,
		PublicBaseURL:      "http://localhost:5173",
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.test, https://b.test,")
	t.Setenv("ADVICE_TIMEOUT", "15s")
	t.Setenv("RUN_MIGRATIONS", "false")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "not-a-number")

	cfg := FromEnv()
	require.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	require.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.CORSAllowedOrigins)
	require.Equal(t, 15*time.Second, cfg.AdviceTimeout)
	require.False(t, cfg.RunMigrations)
	require.Equal(t, 60, cfg.RateLimitPerMinute, "invalid values fall back to the default")
	require.Equal(t, ":8080", cfg.Addr)
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	cases := map[string]func(*Config){
		"postgres without url": func(c *Config) { c.StoreDriver = StoreDriverPostgres },
		"unknown driver":       func(c *Config) { c.StoreDriver = "sqlite" },
		"memory in production": func(c *Config) { c.Environment = "production" },
		"missing jwt secret":   func(c *Config) { c.JWTSecret = "" },
		"small body limit":     func(c *Config) { c.MaxBodyBytes = 10 },
		"zero rate limit":      func(c *Config) { c.RateLimitPerMinute = 0 },
		"unknown provider":     func(c *Config) { c.AdviceProvider = "openai" },
		"zero advice timeout": func(c *Config) {
			c.AdviceProvider = AdviceProviderGateway
			c.AdviceTimeout = 0
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestValidateProductionSecrets(t *testing.T) {
	cfg := validConfig()
	cfg.Environment = "production"
	cfg.StoreDriver = StoreDriverPostgres
	cfg.DatabaseURL = "postgres://localhost/contracts"
	cfg.JWTSecret = "short"
	require.ErrorContains(t, cfg.Validate(), "JWT_SECRET")

	cfg.JWTSecret = "0123456789abcdef0123456789abcdef"
	require.ErrorContains(t, cfg.Validate(), "DATA_ENCRYPTION_KEY")

	cfg.DataEncryptionKey = "key"
	require.NoError(t, cfg.Validate())
}
