// Package config handles configuration loading for startychat.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"github.com/diogo/startychat/internal/models"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	EnableEmoji      bool `json:"enable_emoji" env:"STARTYCHAT_MARKDOWN_EMOJI"`
	PreserveNewLines bool `json:"preserve_newlines" env:"STARTYCHAT_MARKDOWN_NEWLINES"`
}

// Config represents the user configuration
type Config struct {
	// ServiceURL is the chat endpoint receiving {"message": ...} posts.
	ServiceURL string `json:"service_url" env:"STARTYCHAT_SERVICE_URL"`
	// ComponentsURL is the base URL serving components/<name>.html.
	// Empty means the bundled components are used.
	ComponentsURL string `json:"components_url,omitempty" env:"STARTYCHAT_COMPONENTS_URL"`

	// Timings, in milliseconds.
	ReplyDelayMs     int `json:"reply_delay_ms" env:"STARTYCHAT_REPLY_DELAY_MS"`
	RevealIntervalMs int `json:"reveal_interval_ms" env:"STARTYCHAT_REVEAL_INTERVAL_MS"`
	InitRetries      int `json:"init_retries" env:"STARTYCHAT_INIT_RETRIES"`
	InitBackoffMs    int `json:"init_backoff_ms" env:"STARTYCHAT_INIT_BACKOFF_MS"`
	InitFallbackMs   int `json:"init_fallback_ms" env:"STARTYCHAT_INIT_FALLBACK_MS"`

	// TimeoutSeconds bounds chat and fragment requests. Zero disables the limit.
	TimeoutSeconds int `json:"timeout_seconds" env:"STARTYCHAT_TIMEOUT_SECONDS"`

	Verbose  bool           `json:"verbose" env:"STARTYCHAT_VERBOSE"`
	Markdown MarkdownConfig `json:"markdown"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		EnableEmoji:      true,
		PreserveNewLines: true,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		ServiceURL:       models.DefaultServiceURL,
		ReplyDelayMs:     int(models.DefaultReplyDelay / time.Millisecond),
		RevealIntervalMs: int(models.DefaultRevealInterval / time.Millisecond),
		InitRetries:      models.DefaultInitRetries,
		InitBackoffMs:    int(models.DefaultInitBackoff / time.Millisecond),
		InitFallbackMs:   int(models.DefaultInitFallback / time.Millisecond),
		TimeoutSeconds:   0,
		Verbose:          false,
		Markdown:         DefaultMarkdownConfig(),
	}
}

// ReplyDelay is the pause between the outgoing entry and the placeholder.
func (c Config) ReplyDelay() time.Duration {
	return time.Duration(c.ReplyDelayMs) * time.Millisecond
}

// RevealInterval is the pause between revealed words.
func (c Config) RevealInterval() time.Duration {
	return time.Duration(c.RevealIntervalMs) * time.Millisecond
}

// InitBackoff is the linear backoff step between init retries.
func (c Config) InitBackoff() time.Duration {
	return time.Duration(c.InitBackoffMs) * time.Millisecond
}

// InitFallback is the delay before init is attempted without readiness.
func (c Config) InitFallback() time.Duration {
	return time.Duration(c.InitFallbackMs) * time.Millisecond
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	if dir := os.Getenv("STARTYCHAT_HOME"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".startychat"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetStoragePath returns the path to the local storage file
func GetStoragePath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "storage.json"), nil
}

// GetLogPath returns the path to the log file used by the interactive chat
func GetLogPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "startychat.log"), nil
}

// LoadConfig loads the configuration from disk, then applies .env and
// environment overrides.
func LoadConfig() (Config, error) {
	cfg, err := loadFile()
	if err != nil {
		return cfg, err
	}

	// A missing .env is the common case.
	_ = godotenv.Load()

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func loadFile() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// applyEnv overrides cfg with any STARTYCHAT_* variables that are set.
func applyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
