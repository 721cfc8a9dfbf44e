package config

import (
	"context"
	"errors"
	"testing"
)

func validConfig() *Config {
	return SetDefaultConfig()
}

func TestValidate_Defaults(t *testing.T) {
	if err := NewValidator().Validate(validConfig()); err != nil {
		t.Errorf("Validate() returned unexpected error for default config: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0

	err := NewValidator().Validate(cfg)
	if !errors.Is(err, ErrInvalidPort) {
		t.Errorf("Validate() error = %v, want ErrInvalidPort", err)
	}
}

func TestValidate_BaseURLScheme(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.PublicBaseURL = "ftp://panel.example.com"

	err := NewValidator().Validate(cfg)
	if !errors.Is(err, ErrInvalidBaseURL) {
		t.Errorf("Validate() error = %v, want ErrInvalidBaseURL", err)
	}
}

func TestValidate_EmptyBaseURLAllowed(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.PublicBaseURL = ""

	if err := NewValidator().Validate(cfg); err != nil {
		t.Errorf("Validate() should allow an empty base URL, got %v", err)
	}
}

func TestValidate_LoggerLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logger.Level = "verbose"

	err := NewValidator().Validate(cfg)
	if !errors.Is(err, ErrInvalidLogLevel) {
		t.Errorf("Validate() error = %v, want ErrInvalidLogLevel", err)
	}
}

func TestValidate_FileOutputRequiresPath(t *testing.T) {
	cfg := validConfig()
	cfg.Logger.Output = "file"
	cfg.Logger.FilePath = ""

	err := NewValidator().Validate(cfg)
	if !errors.Is(err, ErrMissingFilePath) {
		t.Errorf("Validate() error = %v, want ErrMissingFilePath", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir(), context.Background())
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Load() Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Logger.Level != "info" {
		t.Errorf("Load() Logger.Level = %s, want info", cfg.Logger.Level)
	}
	if cfg.Telegram.APIEndpoint == "" {
		t.Error("Load() Telegram.APIEndpoint must default to the Bot API template")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BOT_PANEL_SERVER_PORT", "9191")
	t.Setenv("BOT_PANEL_TELEGRAM_PUBLIC_BASE_URL", "https://panel.example.com")
	t.Setenv("BOT_PANEL_TELEGRAM_OWNER_ID", "777")

	cfg, err := Load(t.TempDir(), context.Background())
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.Server.Port != 9191 {
		t.Errorf("Load() Server.Port = %d, want 9191", cfg.Server.Port)
	}
	if cfg.Telegram.PublicBaseURL != "https://panel.example.com" {
		t.Errorf("Load() Telegram.PublicBaseURL = %s, want https://panel.example.com", cfg.Telegram.PublicBaseURL)
	}
	if cfg.Telegram.OwnerID != 777 {
		t.Errorf("Load() Telegram.OwnerID = %d, want 777", cfg.Telegram.OwnerID)
	}
}

func TestLoad_RejectsInvalidEnv(t *testing.T) {
	t.Setenv("BOT_PANEL_SERVER_PORT", "70000")

	if _, err := Load(t.TempDir(), context.Background()); err == nil {
		t.Error("Load() should reject an out-of-range port from the environment")
	}
}
