package panel

import (
	"encoding/json"
	"net/http"

	"github.com/VladKovDev/bot-panel/internal/registry"
	"github.com/VladKovDev/bot-panel/internal/services/broadcast"
	"github.com/VladKovDev/bot-panel/pkg/logger"
)

// BroadcastHandler lets the panel push one message to every tracked user of
// a bot. When the request names no token it falls back to "the" running bot,
// which only works while exactly one instance is registered.
type BroadcastHandler struct {
	registry    *registry.Registry
	broadcaster *broadcast.Service
	logger      logger.Logger
}

func NewBroadcastHandler(reg *registry.Registry, broadcaster *broadcast.Service, log logger.Logger) *BroadcastHandler {
	return &BroadcastHandler{
		registry:    reg,
		broadcaster: broadcaster,
		logger:      log,
	}
}

type broadcastRequest struct {
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

type broadcastResponse struct {
	Success bool   `json:"success"`
	Sent    int    `json:"sent"`
	Failed  int    `json:"failed"`
	Total   int    `json:"total"`
	Message string `json:"message"`
}

func (h *BroadcastHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req broadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "no message provided"})
		return
	}

	token := req.Token
	if token == "" {
		instances := h.registry.Instances()
		switch len(instances) {
		case 0:
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bot is not running"})
			return
		case 1:
			token = instances[0].Token
		default:
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "multiple bots running, token is required"})
			return
		}
	} else if !h.registry.HasInstance(token) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bot is not running"})
		return
	}

	report := h.broadcaster.Send(r.Context(), token, req.Message)

	writeJSON(w, http.StatusOK, broadcastResponse{
		Success: true,
		Sent:    report.Sent,
		Failed:  report.Failed,
		Total:   report.Total,
		Message: "Broadcast completed",
	})
}
