package bots

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/VladKovDev/bot-panel/internal/domain/bot"
	"github.com/VladKovDev/bot-panel/internal/domain/user"
	"github.com/VladKovDev/bot-panel/internal/registry"
	"github.com/VladKovDev/bot-panel/internal/telegram"
	"github.com/VladKovDev/bot-panel/pkg/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

var (
	ErrEmptyToken    = errors.New("token is required")
	ErrNoPublicURL   = errors.New("no public base URL available to build the webhook callback")
	ErrDeleteWebhook = errors.New("failed to delete webhook")
)

// webhookPath is where Telegram posts updates back to this panel.
const webhookPath = "/api/webhook"

// allowedUpdates limits which update kinds Telegram pushes to the webhook.
var allowedUpdates = []string{"message", "callback_query"}

// fixedCommands are the four commands registered with every started bot.
var fixedCommands = []tgbotapi.BotCommand{
	{Command: "start", Description: "Show your account info"},
	{Command: "info", Description: "Look up a user"},
	{Command: "id", Description: "Show chat and user IDs"},
	{Command: "broadcast", Description: "Broadcast a message (owner only)"},
}

// Service drives the bot lifecycle: webhook registration on start, teardown
// and user purge on stop, and the status views the panel polls.
type Service struct {
	registry      *registry.Registry
	client        telegram.Client
	publicBaseURL string
	logger        logger.Logger
}

func NewService(reg *registry.Registry, client telegram.Client, publicBaseURL string, log logger.Logger) *Service {
	return &Service{
		registry:      reg,
		client:        client,
		publicBaseURL: publicBaseURL,
		logger:        log,
	}
}

// StartResult is the success payload of a start operation.
type StartResult struct {
	Info       *telegram.BotInfo
	WebhookURL string
}

// Start registers a webhook for token, fetches the bot identity, registers
// the fixed commands and records the instance as online. origin, when
// non-empty, overrides the configured public base URL (it comes from the
// start request's Origin header). Each step is a single provider call; the
// first failure aborts the whole operation.
func (s *Service) Start(ctx context.Context, token, origin string) (*StartResult, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}

	// re-registration: tear down the previous webhook first
	if s.registry.HasInstance(token) {
		if err := s.client.DeleteWebhook(ctx, token); err != nil {
			return nil, fmt.Errorf("failed to delete previous webhook: %w", err)
		}
	}

	webhookURL, err := s.buildWebhookURL(token, origin)
	if err != nil {
		return nil, err
	}

	if err := s.client.SetWebhook(ctx, token, webhookURL, allowedUpdates, true); err != nil {
		return nil, fmt.Errorf("failed to set webhook: %w", err)
	}

	info, err := s.client.GetMe(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bot identity: %w", err)
	}

	if err := s.client.SetMyCommands(ctx, token, fixedCommands); err != nil {
		return nil, fmt.Errorf("failed to register commands: %w", err)
	}

	s.registry.PutInstance(&bot.Instance{
		Token:      token,
		WebhookURL: webhookURL,
		Info:       info,
		Status:     bot.StatusOnline,
		StartedAt:  time.Now(),
	})

	s.logger.Info("bot started",
		zap.String("bot", info.Username),
		zap.String("webhook_url", webhookURL))

	return &StartResult{Info: info, WebhookURL: webhookURL}, nil
}

// Stop deletes the webhook, then removes the instance and every user record
// it owns. When the delete call itself fails the registry is left untouched
// and the error is returned.
func (s *Service) Stop(ctx context.Context, token string) error {
	if token == "" {
		return ErrEmptyToken
	}

	if err := s.client.DeleteWebhook(ctx, token); err != nil {
		s.logger.Error("failed to delete webhook on stop",
			zap.String("token", bot.MaskToken(token)),
			zap.Error(err))
		return fmt.Errorf("%w: %v", ErrDeleteWebhook, err)
	}

	s.registry.DeleteInstance(token)
	purged := s.registry.PurgeUsersByToken(token)

	s.logger.Info("bot stopped",
		zap.String("token", bot.MaskToken(token)),
		zap.Int("users_purged", purged))

	return nil
}

// TokenStatus is the per-token status view.
type TokenStatus struct {
	Status     string            `json:"status"`
	Info       *telegram.BotInfo `json:"botInfo,omitempty"`
	Users      []user.Record     `json:"users,omitempty"`
	TotalUsers int               `json:"totalUsers,omitempty"`
	StartedAt  *time.Time        `json:"startedAt,omitempty"`
	WebhookURL string            `json:"webhookUrl,omitempty"`
}

// Status reports one token's instance, or offline when none exists.
func (s *Service) Status(token string) *TokenStatus {
	inst := s.registry.Instance(token)
	if inst == nil {
		return &TokenStatus{Status: string(bot.StatusOffline)}
	}

	users := s.registry.UsersByToken(token)
	startedAt := inst.StartedAt
	return &TokenStatus{
		Status:     string(inst.Status),
		Info:       inst.Info,
		Users:      users,
		TotalUsers: len(users),
		StartedAt:  &startedAt,
		WebhookURL: inst.WebhookURL,
	}
}

// InstanceSummary is one row of the aggregate status view. Token is masked.
type InstanceSummary struct {
	Token    string `json:"token"`
	Username string `json:"username,omitempty"`
	Status   string `json:"status"`
	Users    int    `json:"users"`
}

// Summary is the aggregate status view across every tracked instance.
type Summary struct {
	Status    string            `json:"status"`
	Instances []InstanceSummary `json:"instances"`
	TotalBots int               `json:"totalBots"`
}

// StatusAll summarizes every tracked instance with masked tokens.
func (s *Service) StatusAll() *Summary {
	instances := s.registry.Instances()

	summaries := make([]InstanceSummary, 0, len(instances))
	for _, inst := range instances {
		row := InstanceSummary{
			Token:  bot.MaskToken(inst.Token),
			Status: string(inst.Status),
			Users:  s.registry.CountUsersByToken(inst.Token),
		}
		if inst.Info != nil {
			row.Username = inst.Info.Username
		}
		summaries = append(summaries, row)
	}

	status := "idle"
	if len(summaries) > 0 {
		status = "running"
	}

	return &Summary{
		Status:    status,
		Instances: summaries,
		TotalBots: len(summaries),
	}
}

func (s *Service) buildWebhookURL(token, origin string) (string, error) {
	base := origin
	if base == "" {
		base = s.publicBaseURL
	}
	if base == "" {
		return "", ErrNoPublicURL
	}
	return strings.TrimRight(base, "/") + webhookPath + "?token=" + url.QueryEscape(token), nil
}
