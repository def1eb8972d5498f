// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/onkardamal/Aura/internal/model"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Analysis AnalysisConfig `toml:"analysis"`
	Typing   TypingConfig   `toml:"typing"`
	Pad      PadConfig      `toml:"pad"`
}

// AnalysisConfig maps text analysis settings.
type AnalysisConfig struct {
	UseRemote *bool   `toml:"use-remote"`
	Provider  *string `toml:"provider"`
	APIKey    *string `toml:"api-key"`
	Model     *string `toml:"model"`
	BaseURL   *string `toml:"base-url"`
}

// TypingConfig maps typing tracker settings.
type TypingConfig struct {
	Enabled      *bool `toml:"enabled"`
	RetentionSec *int  `toml:"retention-sec"`
}

// PadConfig maps live pad settings.
type PadConfig struct {
	DebounceMs   *int  `toml:"debounce-ms"`
	ReevaluateMs *int  `toml:"reevaluate-ms"`
	History      *bool `toml:"history"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// ParseProvider validates a provider name.
func ParseProvider(name string) (model.ProviderKind, error) {
	switch kind := model.ProviderKind(strings.ToLower(strings.TrimSpace(name))); kind {
	case model.ProviderOpenAI, model.ProviderGemini, model.ProviderGoogle:
		return kind, nil
	case "":
		return model.ProviderOpenAI, nil
	default:
		return "", fmt.Errorf("unknown provider %q (available: openai, gemini, google)", name)
	}
}

// ProviderKeyEnv returns the provider-specific API key variable.
func ProviderKeyEnv(kind model.ProviderKind) string {
	switch kind {
	case model.ProviderGemini:
		return "GEMINI_API_KEY"
	case model.ProviderGoogle:
		return "GOOGLE_API_KEY"
	default:
		return "OPENAI_API_KEY"
	}
}

// ResolveAPIKey returns configured when set, else AURA_API_KEY, else the provider variable.
func ResolveAPIKey(kind model.ProviderKind, configured string) string {
	if v := strings.TrimSpace(configured); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv("AURA_API_KEY")); v != "" {
		return v
	}
	return strings.TrimSpace(os.Getenv(ProviderKeyEnv(kind)))
}
