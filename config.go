package chatbot

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config configures a chatbot instance.
type Config struct {
	// Generator produces assistant responses. Required.
	Generator Generator

	// Store is the conversation log backend.
	// Optional, defaults to the in-memory store.
	Store ConversationStore

	// Logger is the structured logger.
	// Optional, defaults to slog.Default().
	Logger *slog.Logger

	// Keywords are the classifier's lexical sets.
	// Empty sets fall back to the bilingual defaults.
	Keywords KeywordConfig

	// HistoryPageSize is the end-user history page size. Defaults to 10.
	HistoryPageSize int

	// AdminPageSize is the operator view page size. Defaults to 20.
	AdminPageSize int

	// MaxMessageLength bounds the user message. Defaults to 4000.
	MaxMessageLength int

	// MaxRequestBodySize bounds HTTP request bodies. Defaults to 1 MiB.
	MaxRequestBodySize int64

	// RequestTimeout is the maximum time for one HTTP request.
	// Defaults to 60 seconds.
	RequestTimeout time.Duration

	// AllowedOrigins for CORS. Defaults to allowing all origins.
	AllowedOrigins []string

	// AdminEmails is the allowlist for the operator surface.
	AdminEmails []string
}

// withDefaults applies default values to the config.
func (c Config) withDefaults() Config {
	if c.Store == nil {
		c.Store = NewMemoryStore()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	c.Keywords = c.Keywords.withDefaults()
	if c.HistoryPageSize <= 0 {
		c.HistoryPageSize = 10
	}
	if c.AdminPageSize <= 0 {
		c.AdminPageSize = 20
	}
	if c.MaxMessageLength <= 0 {
		c.MaxMessageLength = 4000
	}
	if c.MaxRequestBodySize <= 0 {
		c.MaxRequestBodySize = 1 << 20
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 60 * time.Second
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	return c
}

// validate checks that required config fields are set.
func (c Config) validate() error {
	if c.Generator == nil {
		return NewChatError(ErrCodeValidation, "Generator is required", nil)
	}
	return nil
}

// IsAdmin reports whether an email is on the operator allowlist.
// Matching is case-insensitive, like the allowlist it mirrors.
func (c Config) IsAdmin(email string) bool {
	if email == "" {
		return false
	}
	for _, admin := range c.AdminEmails {
		if strings.EqualFold(admin, email) {
			return true
		}
	}
	return false
}

// FileConfig is the YAML configuration consumed by the chatbot binary.
type FileConfig struct {
	// Listen is the HTTP listen address, e.g. ":8080".
	Listen string `yaml:"listen"`

	// Provider selects the generator backend: "http" (default),
	// "openai" or "anthropic".
	Provider string `yaml:"provider"`

	// InferenceURL is the base URL of the HTTP inference backend.
	InferenceURL string `yaml:"inference_url"`

	// InferenceTimeoutSeconds bounds the inference round trip.
	InferenceTimeoutSeconds int `yaml:"inference_timeout_seconds"`

	// Model names the model for the openai/anthropic providers.
	Model string `yaml:"model"`

	// DatabaseURL is the postgres connection string. Empty selects
	// the in-memory store.
	DatabaseURL string `yaml:"database_url"`

	HistoryPageSize int      `yaml:"history_page_size"`
	AdminPageSize   int      `yaml:"admin_page_size"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
	AdminEmails     []string `yaml:"admin_emails"`

	// Keywords override the built-in classifier vocabulary.
	Keywords KeywordConfig `yaml:"keywords"`
}

// LoadFileConfig reads and parses a YAML config file.
func LoadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if cfg.Listen == "" {
		cfg.Listen = ":8080"
	}
	if cfg.Provider == "" {
		cfg.Provider = "http"
	}
	if cfg.InferenceTimeoutSeconds <= 0 {
		cfg.InferenceTimeoutSeconds = int(DefaultInferenceTimeout / time.Second)
	}

	return &cfg, nil
}
