package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidPort      = errors.New("server port must be between 1 and 65535")
	ErrInvalidBaseURL   = errors.New("public base URL must start with http:// or https://")
	ErrInvalidLogLevel  = errors.New("logger level must be one of debug, info, warn, error, fatal")
	ErrInvalidLogFormat = errors.New("logger format must be json or console")
	ErrInvalidLogOutput = errors.New("logger output must be stdout, stderr or file")
	ErrMissingFilePath  = errors.New("logger file_path is required when output is 'file'")
)

type Validator interface {
	Validate(cfg *Config) error
}

type validator struct{}

func NewValidator() Validator {
	return &validator{}
}

func (validator) Validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("%w: got %d", ErrInvalidPort, cfg.Server.Port)
	}

	// base URL is optional: the start endpoint falls back to the request's
	// Origin header when it is empty
	if u := cfg.Telegram.PublicBaseURL; u != "" {
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			return fmt.Errorf("%w: got %q", ErrInvalidBaseURL, u)
		}
	}

	switch cfg.Logger.Level {
	case "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidLogLevel, cfg.Logger.Level)
	}

	switch cfg.Logger.Format {
	case "json", "console":
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidLogFormat, cfg.Logger.Format)
	}

	switch cfg.Logger.Output {
	case "stdout", "stderr":
	case "file":
		if cfg.Logger.FilePath == "" {
			return ErrMissingFilePath
		}
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidLogOutput, cfg.Logger.Output)
	}

	return nil
}
