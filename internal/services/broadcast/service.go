package broadcast

import (
	"context"
	"fmt"

	"github.com/VladKovDev/bot-panel/internal/registry"
	"github.com/VladKovDev/bot-panel/internal/telegram"
	"github.com/VladKovDev/bot-panel/pkg/logger"
	"go.uber.org/zap"
)

// frame wraps a broadcast body the way the panel always has.
const frame = "📢 *Broadcast:*\n\n%s\n\n_Sent via Bot Control Panel_"

// Report counts the outcome of one broadcast run.
type Report struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
	Total  int `json:"total"`
}

// Service delivers one message body to every tracked user of a bot,
// strictly one send at a time. A failing recipient is counted and logged
// but never aborts the batch.
type Service struct {
	registry *registry.Registry
	client   telegram.Client
	logger   logger.Logger
}

func NewService(reg *registry.Registry, client telegram.Client, log logger.Logger) *Service {
	return &Service{
		registry: reg,
		client:   client,
		logger:   log,
	}
}

// Send broadcasts text to every user scoped to token, sequentially.
func (s *Service) Send(ctx context.Context, token, text string) Report {
	users := s.registry.UsersByToken(token)
	body := fmt.Sprintf(frame, text)

	report := Report{Total: len(users)}
	for _, u := range users {
		if err := s.client.SendMessage(ctx, token, u.ID, body, telegram.ParseModeMarkdown); err != nil {
			s.logger.Warn("broadcast delivery failed",
				zap.Int64("user_id", u.ID),
				zap.Error(err))
			report.Failed++
			continue
		}
		report.Sent++
	}

	s.logger.Info("broadcast finished",
		zap.Int("sent", report.Sent),
		zap.Int("failed", report.Failed),
		zap.Int("total", report.Total))

	return report
}
