package ingress

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/VladKovDev/bot-panel/internal/registry"
	"github.com/VladKovDev/bot-panel/internal/services/commands"
	"github.com/VladKovDev/bot-panel/internal/telegram"
	"github.com/VladKovDev/bot-panel/pkg/logger"
	"go.uber.org/zap"
)

// WebhookHandler is the endpoint Telegram posts updates to. The token query
// parameter embedded in the registered webhook URL identifies which bot
// instance owns the update.
type WebhookHandler struct {
	registry *registry.Registry
	commands *commands.Service
	logger   logger.Logger
}

func NewWebhookHandler(reg *registry.Registry, cmds *commands.Service, log logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		registry: reg,
		commands: cmds,
		logger:   log,
	}
}

func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	token := r.URL.Query().Get("token")
	if token == "" || !h.registry.HasInstance(token) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "bot not found"})
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Error("failed to read webhook body", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	var update telegram.Update
	if err := json.Unmarshal(body, &update); err != nil {
		h.logger.Warn("malformed webhook payload", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed update"})
		return
	}

	h.commands.HandleUpdate(r.Context(), token, &update)

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
