package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env      string `yaml:"env"`
	Server   ServerConfig
	Telegram TelegramConfig
	Logger   LoggerConfig
}

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type TelegramConfig struct {
	// APIEndpoint is a fmt template with slots for token and method.
	APIEndpoint string `mapstructure:"api_endpoint"`
	// PublicBaseURL is the externally reachable origin webhook callback URLs
	// are built from when the start request carries no Origin header.
	PublicBaseURL string `mapstructure:"public_base_url"`
	// OwnerID authorizes the /broadcast chat command. Zero means
	// unconfigured, which leaves the command unrestricted.
	OwnerID int64         `mapstructure:"owner_id"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type LoggerConfig struct {
	Level        string `mapstructure:"level"`
	Format       string `mapstructure:"format"`
	Output       string `mapstructure:"output"`
	EnableColors bool   `mapstructure:"enable_colors"`
	FilePath     string `mapstructure:"file_path"`
	MaxSize      int    `mapstructure:"max_size"`
	MaxBackups   int    `mapstructure:"max_backups"`
	MaxAge       int    `mapstructure:"max_age"`
	Compress     bool   `mapstructure:"compress"`
}

type Loader interface {
	Load(ctx context.Context) (*Config, error)
}

type viperLoader struct {
	configPath string
	validator  Validator
}

func NewViperLoader(configPath string, validator Validator) Loader {
	if configPath == "" {
		configPath = "."
	}
	return &viperLoader{
		configPath: configPath,
		validator:  validator,
	}
}

func (l *viperLoader) Load(ctx context.Context) (*Config, error) {
	cfg := SetDefaultConfig()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(l.configPath)
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// env config
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(l.configPath)
	v.AddConfigPath(".")
	if err := v.MergeInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read env: %w", err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("BOT_PANEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	l.BindEnvVariables(v)

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := l.validator.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config failed validation: %w", err)
	}

	return cfg, nil
}

func (l *viperLoader) BindEnvVariables(v *viper.Viper) {
	// Server
	_ = v.BindEnv("server.host")
	_ = v.BindEnv("server.port")
	_ = v.BindEnv("server.read_timeout")
	_ = v.BindEnv("server.write_timeout")
	_ = v.BindEnv("server.idle_timeout")
	// Telegram
	_ = v.BindEnv("telegram.api_endpoint")
	_ = v.BindEnv("telegram.public_base_url")
	_ = v.BindEnv("telegram.owner_id")
	_ = v.BindEnv("telegram.timeout")
	// Logger
	_ = v.BindEnv("logger.level")
	_ = v.BindEnv("logger.format")
	_ = v.BindEnv("logger.output")
	_ = v.BindEnv("logger.enable_colors")
	_ = v.BindEnv("logger.file_path")
	_ = v.BindEnv("logger.max_size")
	_ = v.BindEnv("logger.max_backups")
	_ = v.BindEnv("logger.max_age")
	_ = v.BindEnv("logger.compress")
}

func Load(configPath string, ctx context.Context) (*Config, error) {
	loader := NewViperLoader(configPath, NewValidator())
	return loader.Load(ctx)
}

// Addr is the listen address for the HTTP server.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
