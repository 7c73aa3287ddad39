package chatbot

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfigDefaults(t *testing.T) {
	cfg := Config{Generator: &stubGenerator{}}.withDefaults()

	if cfg.Store == nil {
		t.Error("expected a default store")
	}
	if cfg.Logger == nil {
		t.Error("expected a default logger")
	}
	if cfg.HistoryPageSize != 10 {
		t.Errorf("history page size = %d, want 10", cfg.HistoryPageSize)
	}
	if cfg.AdminPageSize != 20 {
		t.Errorf("admin page size = %d, want 20", cfg.AdminPageSize)
	}
	if cfg.MaxMessageLength != 4000 {
		t.Errorf("max message length = %d, want 4000", cfg.MaxMessageLength)
	}
	if cfg.RequestTimeout != 60*time.Second {
		t.Errorf("request timeout = %v, want 60s", cfg.RequestTimeout)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Errorf("allowed origins = %v", cfg.AllowedOrigins)
	}
	if len(cfg.Keywords.Visualization) == 0 {
		t.Error("expected default keywords")
	}
}

func TestConfigValidate(t *testing.T) {
	if err := (Config{}).validate(); ErrorCode(err) != ErrCodeValidation {
		t.Errorf("expected validation error, got %v", err)
	}
	if err := (Config{Generator: &stubGenerator{}}).validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestConfigIsAdmin(t *testing.T) {
	cfg := Config{AdminEmails: []string{"Admin@Example.com"}}

	if !cfg.IsAdmin("admin@example.com") {
		t.Error("matching should be case-insensitive")
	}
	if cfg.IsAdmin("other@example.com") {
		t.Error("unlisted email accepted")
	}
	if cfg.IsAdmin("") {
		t.Error("empty email accepted")
	}
}

func TestLoadFileConfig(t *testing.T) {
	t.Run("parses yaml and applies defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `
inference_url: http://localhost:5000
history_page_size: 15
admin_emails:
  - ops@example.com
keywords:
  visualization:
    - zeichne
`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadFileConfig(path)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if cfg.Listen != ":8080" {
			t.Errorf("listen = %q, want default", cfg.Listen)
		}
		if cfg.Provider != "http" {
			t.Errorf("provider = %q, want default", cfg.Provider)
		}
		if cfg.InferenceURL != "http://localhost:5000" {
			t.Errorf("inference url = %q", cfg.InferenceURL)
		}
		if cfg.InferenceTimeoutSeconds != 30 {
			t.Errorf("timeout = %d, want 30", cfg.InferenceTimeoutSeconds)
		}
		if cfg.HistoryPageSize != 15 {
			t.Errorf("history page size = %d", cfg.HistoryPageSize)
		}
		if len(cfg.AdminEmails) != 1 || cfg.AdminEmails[0] != "ops@example.com" {
			t.Errorf("admin emails = %v", cfg.AdminEmails)
		}
		if len(cfg.Keywords.Visualization) != 1 || cfg.Keywords.Visualization[0] != "zeichne" {
			t.Errorf("keywords = %v", cfg.Keywords.Visualization)
		}
	})

	t.Run("missing file errors", func(t *testing.T) {
		if _, err := LoadFileConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("malformed yaml errors", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("listen: [:::"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadFileConfig(path); err == nil {
			t.Error("expected an error")
		}
	})
}
