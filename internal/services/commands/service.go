package commands

import (
	"context"
	"strings"
	"time"

	"github.com/VladKovDev/bot-panel/internal/domain/user"
	"github.com/VladKovDev/bot-panel/internal/registry"
	"github.com/VladKovDev/bot-panel/internal/services/broadcast"
	"github.com/VladKovDev/bot-panel/internal/telegram"
	"github.com/VladKovDev/bot-panel/pkg/logger"
	"go.uber.org/zap"
)

// Service turns webhook updates into command replies. Dispatch is a literal
// prefix match in a fixed precedence order, so "/starting" still hits /start.
type Service struct {
	registry    *registry.Registry
	client      telegram.Client
	broadcaster *broadcast.Service
	ownerID     int64
	logger      logger.Logger
}

func NewService(reg *registry.Registry, client telegram.Client, broadcaster *broadcast.Service, ownerID int64, log logger.Logger) *Service {
	return &Service{
		registry:    reg,
		client:      client,
		broadcaster: broadcaster,
		ownerID:     ownerID,
		logger:      log,
	}
}

// HandleUpdate records the sender and dispatches the message text. Updates
// without a message are silently ignored.
func (s *Service) HandleUpdate(ctx context.Context, token string, upd *telegram.Update) {
	if upd == nil || upd.Message == nil {
		return
	}
	msg := upd.Message

	if msg.From != nil {
		s.registry.UpsertUser(user.FromTelegram(msg.From, token, time.Now()))
	}

	// one-time identity enrichment for instances registered without it
	if inst := s.registry.Instance(token); inst != nil && inst.Info == nil {
		info, err := s.client.GetMe(ctx, token)
		if err != nil {
			s.logger.Warn("failed to fetch bot identity", zap.Error(err))
		} else {
			s.registry.SetInstanceInfo(token, info)
		}
	}

	if msg.Text == "" || msg.Chat == nil || msg.From == nil {
		return
	}

	switch {
	case strings.HasPrefix(msg.Text, "/start"):
		s.handleStart(ctx, token, msg)
	case strings.HasPrefix(msg.Text, "/info"):
		s.handleInfo(ctx, token, msg)
	case strings.HasPrefix(msg.Text, "/id"):
		s.handleID(ctx, token, msg)
	case strings.HasPrefix(msg.Text, "/broadcast"):
		s.handleBroadcast(ctx, token, msg)
	}
}

func (s *Service) handleStart(ctx context.Context, token string, msg *telegram.Message) {
	s.send(ctx, token, msg.Chat.ID, startMessage(msg.From))
}

func (s *Service) handleInfo(ctx context.Context, token string, msg *telegram.Message) {
	target := s.resolveInfoTarget(token, msg)
	if target == nil {
		s.send(ctx, token, msg.Chat.ID, "User not found")
		return
	}
	s.send(ctx, token, msg.Chat.ID, infoMessage(target))
}

// resolveInfoTarget picks, in order: the sender of a replied-to message, a
// stored user matching a @username argument, or the sender themself.
func (s *Service) resolveInfoTarget(token string, msg *telegram.Message) *user.Record {
	if reply := msg.ReplyToMessage; reply != nil && reply.From != nil {
		return user.FromTelegram(reply.From, token, time.Now())
	}

	parts := strings.Split(msg.Text, " ")
	if len(parts) > 1 && parts[1] != "" {
		username := strings.TrimPrefix(parts[1], "@")
		return s.registry.FirstUserByUsername(username)
	}

	return user.FromTelegram(msg.From, token, time.Now())
}

func (s *Service) handleID(ctx context.Context, token string, msg *telegram.Message) {
	s.send(ctx, token, msg.Chat.ID, idMessage(msg))
}

func (s *Service) handleBroadcast(ctx context.Context, token string, msg *telegram.Message) {
	// zero owner ID leaves the command unrestricted
	if s.ownerID != 0 && msg.From.ID != s.ownerID {
		s.send(ctx, token, msg.Chat.ID, "❌ Only the owner can use this command!")
		return
	}

	reply := msg.ReplyToMessage
	if reply == nil || reply.Text == "" {
		s.send(ctx, token, msg.Chat.ID, "Reply to the message you want to broadcast")
		return
	}

	report := s.broadcaster.Send(ctx, token, reply.Text)
	s.send(ctx, token, msg.Chat.ID, broadcastSummary(report))
}

// send delivers a reply and swallows failures: a chat reply that cannot be
// delivered is logged, never propagated.
func (s *Service) send(ctx context.Context, token string, chatID int64, text string) {
	if err := s.client.SendMessage(ctx, token, chatID, text, telegram.ParseModeMarkdown); err != nil {
		s.logger.Warn("failed to send reply",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
}
