package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/VladKovDev/bot-panel/internal/config"
	"github.com/VladKovDev/bot-panel/internal/server/ingress"
	"github.com/VladKovDev/bot-panel/internal/server/panel"
	"github.com/VladKovDev/bot-panel/internal/server/web"
	"github.com/VladKovDev/bot-panel/pkg/logger"
	"go.uber.org/zap"
)

type Server struct {
	server *http.Server
	logger logger.Logger
}

func New(cfg *config.Config, log logger.Logger, control *panel.ControlHandler, broadcast *panel.BroadcastHandler, webhook *ingress.WebhookHandler) *Server {
	mux := http.NewServeMux()
	mux.Handle("/api/bot", control)
	mux.Handle("/api/broadcast", broadcast)
	mux.Handle("/api/webhook", webhook)
	mux.Handle("/", web.Handler())

	handler := withCORS(withAccessLog(log, mux))

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{server: srv, logger: log}
}

func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	errChan := make(chan error, 1)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("HTTP server shutdown error", zap.Error(err))
		}
		return nil
	case err := <-errChan:
		return fmt.Errorf("HTTP server error: %w", err)
	}
}
