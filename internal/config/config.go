package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderOllama    = "ollama"
	ProviderAnthropic = "anthropic"
)

const (
	SinkLog      = "log"
	SinkPostgres = "postgres"
	SinkRedis    = "redis"
	SinkSQLite   = "sqlite"
)

type Config struct {
	Env            string        `mapstructure:"ENV"`
	Port           string        `mapstructure:"PORT"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	CORSAllowed    string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`

	// EnableLiveAI switches the chat backend from the keyword rules to the
	// remote reasoning provider. Read once at startup.
	EnableLiveAI bool          `mapstructure:"ENABLE_LIVE_AI"`
	AIProvider   string        `mapstructure:"AI_PROVIDER"`
	AIBaseURL    string        `mapstructure:"AI_BASE_URL"`
	AIModel      string        `mapstructure:"AI_MODEL"`
	AIAPIKey     string        `mapstructure:"AI_API_KEY"`
	AITimeout    time.Duration `mapstructure:"AI_TIMEOUT"`
	AIMaxTokens  int           `mapstructure:"AI_MAX_TOKENS"`

	JWTSecret   string `mapstructure:"JWT_SECRET"`
	JWTIssuer   string `mapstructure:"JWT_ISSUER"`
	JWTAudience string `mapstructure:"JWT_AUDIENCE"`

	AuditSinks       string        `mapstructure:"AUDIT_SINKS"`
	AuditTimeout     time.Duration `mapstructure:"AUDIT_TIMEOUT"`
	DatabaseURL      string        `mapstructure:"DATABASE_URL"`
	RedisURL         string        `mapstructure:"REDIS_URL"`
	RedisAuditStream string        `mapstructure:"REDIS_AUDIT_STREAM"`
	SQLitePath       string        `mapstructure:"SQLITE_PATH"`

	TracingEnabled bool `mapstructure:"TRACING_ENABLED"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("ENABLE_LIVE_AI", false)
	v.SetDefault("AI_PROVIDER", ProviderOpenAI)
	v.SetDefault("AI_BASE_URL", "")
	v.SetDefault("AI_MODEL", "")
	v.SetDefault("AI_API_KEY", "")
	v.SetDefault("AI_TIMEOUT", "20s")
	v.SetDefault("AI_MAX_TOKENS", 512)
	v.SetDefault("JWT_SECRET", "STUB_SECRET_KEY_FOR_DEVELOPMENT_ONLY")
	v.SetDefault("JWT_ISSUER", "hrdesk")
	v.SetDefault("JWT_AUDIENCE", "hrdesk-api")
	v.SetDefault("AUDIT_SINKS", SinkLog)
	v.SetDefault("AUDIT_TIMEOUT", "2s")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_AUDIT_STREAM", "hrdesk:audit")
	v.SetDefault("SQLITE_PATH", "hrdesk-audit.db")
	v.SetDefault("TRACING_ENABLED", false)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var defaultModels = map[string]string{
	ProviderOpenAI:    "gpt-3.5-turbo",
	ProviderGemini:    "gemini-2.0-flash",
	ProviderOllama:    "llama3",
	ProviderAnthropic: "claude-3-5-haiku-latest",
}

// Model returns AI_MODEL, or the provider's default model when unset.
func (c Config) Model() string {
	if c.AIModel != "" {
		return c.AIModel
	}
	return defaultModels[c.AIProvider]
}

// Sinks returns the configured audit sink names, lower-cased and de-duplicated.
func (c Config) Sinks() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, p := range strings.Split(c.AuditSinks, ",") {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
