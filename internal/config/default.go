package config

import "time"

func SetDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Telegram: TelegramConfig{
			APIEndpoint:   "https://api.telegram.org/bot%s/%s",
			PublicBaseURL: "",
			OwnerID:       0,
			Timeout:       30 * time.Second,
		},
		Logger: LoggerConfig{
			Level:        "info",
			Format:       "json",
			Output:       "stdout",
			EnableColors: false,
			FilePath:     "",
			MaxSize:      0,
			MaxBackups:   0,
			MaxAge:       0,
			Compress:     false,
		},
	}
}
