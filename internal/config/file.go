package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file structure.
// Provider secrets are deliberately absent: they come from the environment only.
type FileConfig struct {
	ServerPort         string         `toml:"server_port"`
	RateLimitPerMinute int            `toml:"rate_limit_per_minute"`
	LogLevel           string         `toml:"log_level"`
	LogFormat          string         `toml:"log_format"`
	Gemini             UpstreamConfig `toml:"gemini"`
	OpenRouter         UpstreamConfig `toml:"openrouter"`
}

// UpstreamConfig holds per-provider endpoint settings.
type UpstreamConfig struct {
	BaseURL string `toml:"base_url"`
	Referer string `toml:"referer"`
	Title   string `toml:"title"`
}

// ConfigPath returns the path to the config file (~/.chatrelay/config.toml).
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.toml")
}

// LoadFile loads configuration from the TOML file.
// Returns an empty FileConfig if the file doesn't exist.
func LoadFile() (*FileConfig, error) {
	return LoadFileFrom(ConfigPath())
}

// LoadFileFrom loads configuration from the TOML file at path.
func LoadFileFrom(path string) (*FileConfig, error) {
	cfg := &FileConfig{}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// EnsureConfigFile creates a default config file with commented examples if none exists.
func EnsureConfigFile() error {
	path := ConfigPath()

	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := EnsureDataDir(); err != nil {
		return err
	}

	defaultConfig := `# chatrelay configuration
# Provider keys are read from the environment only:
#   GEMINI_API_KEY, OPENROUTER_API_KEY

# server_port = ":8080"
# rate_limit_per_minute = 0   # 0 disables per-client limiting
# log_level = "info"          # debug, info, warn, error
# log_format = "text"         # text or json

# [gemini]
# base_url = "https://generativelanguage.googleapis.com/v1beta"

# [openrouter]
# base_url = "https://openrouter.ai/api/v1"
# referer = "https://ai-chat-app.vercel.app"
# title = "AI Chat Assistant"
`

	return os.WriteFile(path, []byte(defaultConfig), 0644)
}
