package app

import (
	"context"
	"fmt"
	"os"

	"github.com/VladKovDev/bot-panel/internal/config"
	"github.com/VladKovDev/bot-panel/internal/registry"
	"github.com/VladKovDev/bot-panel/internal/server"
	"github.com/VladKovDev/bot-panel/internal/server/ingress"
	"github.com/VladKovDev/bot-panel/internal/server/panel"
	"github.com/VladKovDev/bot-panel/internal/services/bots"
	"github.com/VladKovDev/bot-panel/internal/services/broadcast"
	"github.com/VladKovDev/bot-panel/internal/services/commands"
	"github.com/VladKovDev/bot-panel/internal/telegram"
	"github.com/VladKovDev/bot-panel/pkg/logger"
)

// App holds high-level application dependencies.
type App struct {
	Config   *config.Config
	Logger   logger.Logger
	Registry *registry.Registry
	Server   *server.Server
}

// NewApp wires the registry, Telegram client, services and HTTP server.
func NewApp(cfg *config.Config, log logger.Logger) *App {
	reg := registry.New()
	client := telegram.NewHTTPClient(cfg.Telegram.APIEndpoint, cfg.Telegram.Timeout)

	botsService := bots.NewService(reg, client, cfg.Telegram.PublicBaseURL, log)
	broadcaster := broadcast.NewService(reg, client, log)
	commandsService := commands.NewService(reg, client, broadcaster, cfg.Telegram.OwnerID, log)

	srv := server.New(cfg, log,
		panel.NewControlHandler(botsService, log),
		panel.NewBroadcastHandler(reg, broadcaster, log),
		ingress.NewWebhookHandler(reg, commandsService, log),
	)

	return &App{
		Config:   cfg,
		Logger:   log,
		Registry: reg,
		Server:   srv,
	}
}

func Run(ctx context.Context) error {
	configPath := os.Getenv("BOT_PANEL_CONFIG_PATH")
	cfg, err := config.Load(configPath, ctx)
	if err != nil {
		return fmt.Errorf("failed to init config: %w", err)
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	app := NewApp(cfg, log)

	return gracefulShutdown(ctx, app)
}
