package panel

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/VladKovDev/bot-panel/internal/services/bots"
	"github.com/VladKovDev/bot-panel/internal/telegram"
	"github.com/VladKovDev/bot-panel/pkg/logger"
	"go.uber.org/zap"
)

const (
	actionStart  = "start"
	actionStop   = "stop"
	actionStatus = "status"
)

// ControlHandler is the panel's bot lifecycle endpoint: start and stop over
// POST, status over GET.
type ControlHandler struct {
	bots   *bots.Service
	logger logger.Logger
}

func NewControlHandler(botsService *bots.Service, log logger.Logger) *ControlHandler {
	return &ControlHandler{bots: botsService, logger: log}
}

type controlRequest struct {
	Token  string `json:"token"`
	Action string `json:"action"`
}

type startResponse struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message"`
	BotInfo    *telegram.BotInfo `json:"botInfo"`
	WebhookURL string            `json:"webhookUrl"`
}

type stopResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (h *ControlHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handlePost(w, r)
	case http.MethodGet:
		h.handleGet(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (h *ControlHandler) handlePost(w http.ResponseWriter, r *http.Request) {
	var req controlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	switch req.Action {
	case actionStart:
		h.handleStart(w, r, req.Token)
	case actionStop:
		h.handleStop(w, r, req.Token)
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid action"})
	}
}

func (h *ControlHandler) handleStart(w http.ResponseWriter, r *http.Request, token string) {
	if token == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "token is required"})
		return
	}

	result, err := h.bots.Start(r.Context(), token, r.Header.Get("Origin"))
	if err != nil {
		h.logger.Error("failed to start bot", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: providerMessage(err, "Failed to start bot. Invalid token or bot error."),
		})
		return
	}

	writeJSON(w, http.StatusOK, startResponse{
		Success:    true,
		Message:    "Bot started successfully with webhook",
		BotInfo:    result.Info,
		WebhookURL: result.WebhookURL,
	})
}

func (h *ControlHandler) handleStop(w http.ResponseWriter, r *http.Request, token string) {
	if token == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "token is required"})
		return
	}

	if err := h.bots.Stop(r.Context(), token); err != nil {
		h.logger.Error("failed to stop bot", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to stop bot"})
		return
	}

	writeJSON(w, http.StatusOK, stopResponse{Success: true, Message: "Bot stopped successfully"})
}

func (h *ControlHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("action") != actionStatus {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid action"})
		return
	}

	if token := r.URL.Query().Get("token"); token != "" {
		writeJSON(w, http.StatusOK, h.bots.Status(token))
		return
	}

	writeJSON(w, http.StatusOK, h.bots.StatusAll())
}

// providerMessage surfaces the Telegram error description when the failure
// came from the provider, else the fallback.
func providerMessage(err error, fallback string) string {
	var apiErr *telegram.APIError
	if errors.As(err, &apiErr) && apiErr.Description != "" {
		return apiErr.Description
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
