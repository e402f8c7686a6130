package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Defaults applied when neither env nor config.toml set a value.
const (
	DefaultServerPort        = ":8080"
	DefaultGeminiBaseURL     = "https://generativelanguage.googleapis.com/v1beta"
	DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	DefaultOpenRouterReferer = "https://ai-chat-app.vercel.app"
	DefaultOpenRouterTitle   = "AI Chat Assistant"
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "text"
)

// Config holds application configuration loaded from environment and file.
// Priority: Env vars (.env included) → config.toml → defaults
type Config struct {
	// ServerPort is the address to bind the server to (e.g., ":8080")
	ServerPort string `env:"SERVER_PORT"`

	// Provider secrets. Env only, never read from config.toml.
	GeminiAPIKey     string `env:"GEMINI_API_KEY"`
	OpenRouterAPIKey string `env:"OPENROUTER_API_KEY"`

	// Upstream endpoints, overridable for self-hosted gateways and tests
	GeminiBaseURL     string `env:"GEMINI_BASE_URL"`
	OpenRouterBaseURL string `env:"OPENROUTER_BASE_URL"`

	// OpenRouter attribution headers
	OpenRouterReferer string `env:"OPENROUTER_REFERER"`
	OpenRouterTitle   string `env:"OPENROUTER_TITLE"`

	// RateLimitPerMinute caps requests per client IP; 0 disables limiting
	RateLimitPerMinute int `env:"RATE_LIMIT_PER_MINUTE"`

	LogLevel  string `env:"LOG_LEVEL"`
	LogFormat string `env:"LOG_FORMAT"`
}

// Load reads configuration from .env, the TOML file and environment variables.
// Environment variables override file config values.
func Load() (*Config, error) {
	// A missing .env is the normal case in production.
	_ = godotenv.Load()

	fileConfig, err := LoadFile()
	if err != nil {
		return nil, fmt.Errorf("load config file: %w", err)
	}

	cfg := fromFile(fileConfig)
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.applyDefaults()

	return cfg, nil
}

// fromFile seeds a Config with the non-secret values of the TOML file.
func fromFile(fc *FileConfig) *Config {
	return &Config{
		ServerPort:         fc.ServerPort,
		GeminiBaseURL:      fc.Gemini.BaseURL,
		OpenRouterBaseURL:  fc.OpenRouter.BaseURL,
		OpenRouterReferer:  fc.OpenRouter.Referer,
		OpenRouterTitle:    fc.OpenRouter.Title,
		RateLimitPerMinute: fc.RateLimitPerMinute,
		LogLevel:           fc.LogLevel,
		LogFormat:          fc.LogFormat,
	}
}

func (c *Config) applyDefaults() {
	setDefault(&c.ServerPort, DefaultServerPort)
	setDefault(&c.GeminiBaseURL, DefaultGeminiBaseURL)
	setDefault(&c.OpenRouterBaseURL, DefaultOpenRouterBaseURL)
	setDefault(&c.OpenRouterReferer, DefaultOpenRouterReferer)
	setDefault(&c.OpenRouterTitle, DefaultOpenRouterTitle)
	setDefault(&c.LogLevel, DefaultLogLevel)
	setDefault(&c.LogFormat, DefaultLogFormat)
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// ClientConfig configures the terminal chat client.
type ClientConfig struct {
	// RelayURL is the full URL of the relay chat endpoint
	RelayURL string `env:"CHATRELAY_URL" envDefault:"http://localhost:8080/api/chat"`

	// Model is the model key selected for new sessions
	Model string `env:"CHATRELAY_MODEL" envDefault:"deepseek"`

	// PreferencesPath is the SQLite file holding client preferences
	PreferencesPath string `env:"CHATRELAY_PREFERENCES"`

	// HistoryTokenBudget trims old turns once the prompt estimate exceeds it; 0 disables
	HistoryTokenBudget int `env:"CHATRELAY_HISTORY_TOKENS" envDefault:"0"`
}

// LoadClient reads the chat client configuration from .env and the environment.
func LoadClient() (*ClientConfig, error) {
	_ = godotenv.Load()

	cfg := &ClientConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.PreferencesPath == "" {
		cfg.PreferencesPath = PreferencesPath()
	}
	return cfg, nil
}

// HasGeminiKey reports whether a Gemini secret is configured.
func (c *Config) HasGeminiKey() bool {
	return c.GeminiAPIKey != ""
}

// HasOpenRouterKey reports whether an OpenRouter secret is configured.
func (c *Config) HasOpenRouterKey() bool {
	return c.OpenRouterAPIKey != ""
}
