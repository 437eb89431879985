package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/lexyai/drafter/internal/entity"
	pkgRetry "github.com/lexyai/drafter/internal/pkg/retry"
)

// Completion providers
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
)

var defaultModels = map[string]string{
	ProviderAnthropic: "claude-sonnet-4-5",
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderGemini:    "gemini-2.5-flash",
}

var defaultBaseURLs = map[string]string{
	ProviderAnthropic: "https://api.anthropic.com/v1",
}

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr      string        `env:"SERVER_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10m"`

	// Database configuration, optional: without it outlines come from
	// requests or from the precedent directory
	DatabaseURL         string        `env:"DATABASE_URL"`
	MigrationsSource    string        `env:"MIGRATIONS_SOURCE" envDefault:"file://internal/repository/migrations"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// External service configurations
	LLMConnectorCfg      LLMConnectorConfig      `envPrefix:"LLM_"`
	CallbackConnectorCfg CallbackConnectorConfig `envPrefix:"CALLBACK_"`

	PrecedentCfg PrecedentConfig `envPrefix:"PRECEDENT_"`
	DraftCfg     DraftConfig     `envPrefix:"DRAFT_"`

	// Progress records expire this long after their last update; 0 keeps them forever
	ProgressTTL time.Duration `env:"PROGRESS_TTL" envDefault:"24h"`
	// How often the websocket progress stream polls for changes
	ProgressStreamInterval time.Duration `env:"PROGRESS_STREAM_INTERVAL" envDefault:"500ms"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// File upload configuration
	FileUploadCfg FileUploadConfig `envPrefix:"FILE_UPLOAD_"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

type LLMConnectorConfig struct {
	HTTPClientConfig
	Provider            string               `env:"PROVIDER" envDefault:"anthropic"`
	Model               string               `env:"MODEL"`
	APIKey              string               `env:"API_KEY"`
	AnthropicVersion    string               `env:"ANTHROPIC_VERSION" envDefault:"2023-06-01"`
	InputCostPerMillion float64              `env:"INPUT_COST_PER_MILLION" envDefault:"3.0"`
	Retry               pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type CallbackConnectorConfig struct {
	HTTPClientConfig
	CallbackEndpoint string               `env:"ENDPOINT"`
	Retry            pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"120s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"110s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL"`
}

// PrecedentConfig controls where outlines come from and how they are cached.
type PrecedentConfig struct {
	MaxSections     int           `env:"MAX_SECTIONS" envDefault:"7"`
	LoaderCacheSize int           `env:"LOADER_CACHE_SIZE" envDefault:"32"`
	LookupCacheSize int           `env:"LOOKUP_CACHE_SIZE" envDefault:"64"`
	LookupCacheTTL  time.Duration `env:"LOOKUP_CACHE_TTL" envDefault:"10m"`
	Dir             string        `env:"DIR"`
	Manifest        string        `env:"MANIFEST"`
}

// DraftConfig tunes chat turns and section drafting.
type DraftConfig struct {
	Concurrency        int     `env:"CONCURRENCY" envDefault:"1"`
	HistoryTurns       int     `env:"HISTORY_TURNS" envDefault:"12"`
	ChatMaxTokens      int     `env:"CHAT_MAX_TOKENS" envDefault:"800"`
	ChatTemperature    float64 `env:"CHAT_TEMPERATURE" envDefault:"0.5"`
	SectionMaxTokens   int     `env:"SECTION_MAX_TOKENS" envDefault:"1500"`
	SectionTemperature float64 `env:"SECTION_TEMPERATURE" envDefault:"0.4"`
}

// FileUploadConfig holds precedent upload limits
type FileUploadConfig struct {
	MaxFileSize   int64 `env:"MAX_FILE_SIZE" envDefault:"10485760"`   // 10 MiB
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"12582912"` // 12 MiB
}

// LoadConfig reads the -env flag and loads the matching configuration.
func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	return Load(*envFlag)
}

// Load reads .env.<environment> when present, then the process environment.
func Load(environment string) (*Config, error) {
	cfg, err := parse(environment)
	if err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadCatalog loads the configuration of the precedent tooling, which needs
// the database but no completion provider.
func LoadCatalog(environment string) (*Config, error) {
	cfg, err := parse(environment)
	if err != nil {
		return nil, err
	}

	if !cfg.HasDatabase() {
		return nil, fmt.Errorf("config validation failed: %w: DATABASE_URL is required", entity.ErrConfig)
	}

	return cfg, nil
}

func parse(environment string) (*Config, error) {
	envFile := getEnvFile(environment)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = environment
	cfg.applyProviderDefaults()
	return cfg, nil
}

func (cfg *Config) applyProviderDefaults() {
	llm := &cfg.LLMConnectorCfg
	llm.Provider = strings.ToLower(strings.TrimSpace(llm.Provider))
	if llm.Model == "" {
		llm.Model = defaultModels[llm.Provider]
	}
	if llm.Url == "" {
		llm.Url = defaultBaseURLs[llm.Provider]
	}
	if llm.APIKey == "" {
		llm.APIKey = llm.Token
	}
}

// HasDatabase reports whether outlines are looked up in PostgreSQL.
func (cfg *Config) HasDatabase() bool {
	return cfg.DatabaseURL != ""
}

// HasPrecedentFiles reports whether outlines can be read from .docx files.
func (cfg *Config) HasPrecedentFiles() bool {
	return cfg.PrecedentCfg.Dir != "" || cfg.PrecedentCfg.Manifest != ""
}

func validateConfig(cfg *Config) error {
	var (
		problems   []string
		missingKey bool
	)

	if !cfg.EnableMocks {
		switch cfg.LLMConnectorCfg.Provider {
		case ProviderAnthropic, ProviderOpenAI, ProviderGemini:
		default:
			problems = append(problems, fmt.Sprintf("LLM_PROVIDER must be one of anthropic, openai, gemini, got %q", cfg.LLMConnectorCfg.Provider))
		}
		if cfg.LLMConnectorCfg.APIKey == "" {
			missingKey = true
			problems = append(problems, "LLM_API_KEY is required unless ENABLE_MOCKS is set")
		}
	}

	if cfg.LLMConnectorCfg.InputCostPerMillion < 0 {
		problems = append(problems, fmt.Sprintf("LLM_INPUT_COST_PER_MILLION must not be negative, got %g", cfg.LLMConnectorCfg.InputCostPerMillion))
	}

	if cfg.PrecedentCfg.MaxSections < 1 || cfg.PrecedentCfg.MaxSections > 50 {
		problems = append(problems, fmt.Sprintf("PRECEDENT_MAX_SECTIONS must be between 1 and 50, got %d", cfg.PrecedentCfg.MaxSections))
	}

	if cfg.DraftCfg.Concurrency < 1 || cfg.DraftCfg.Concurrency > 16 {
		problems = append(problems, fmt.Sprintf("DRAFT_CONCURRENCY must be between 1 and 16, got %d", cfg.DraftCfg.Concurrency))
	}

	if cfg.DraftCfg.HistoryTurns < 0 {
		problems = append(problems, fmt.Sprintf("DRAFT_HISTORY_TURNS must not be negative, got %d", cfg.DraftCfg.HistoryTurns))
	}

	if cfg.DraftCfg.ChatMaxTokens < 1 || cfg.DraftCfg.SectionMaxTokens < 1 {
		problems = append(problems, "DRAFT_CHAT_MAX_TOKENS and DRAFT_SECTION_MAX_TOKENS must be positive")
	}

	if cfg.ProgressStreamInterval <= 0 {
		problems = append(problems, fmt.Sprintf("PROGRESS_STREAM_INTERVAL must be positive, got %s", cfg.ProgressStreamInterval))
	}

	if cfg.ProgressTTL < 0 {
		problems = append(problems, fmt.Sprintf("PROGRESS_TTL must not be negative, got %s", cfg.ProgressTTL))
	}

	if cfg.HasDatabase() {
		if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
			problems = append(problems, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
		}
		if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
			problems = append(problems, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
		}
	}

	if len(problems) > 0 {
		joined := strings.Join(problems, "\n  - ")
		if missingKey {
			return fmt.Errorf("%w: %w:\n  - %s", entity.ErrConfig, entity.ErrMissingAPIKey, joined)
		}
		return fmt.Errorf("%w:\n  - %s", entity.ErrConfig, joined)
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
