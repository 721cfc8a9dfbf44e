package panel

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/VladKovDev/bot-panel/internal/domain/bot"
	"github.com/VladKovDev/bot-panel/internal/domain/user"
	"github.com/VladKovDev/bot-panel/internal/registry"
	"github.com/VladKovDev/bot-panel/internal/services/broadcast"
	"github.com/VladKovDev/bot-panel/pkg/logger"
)

func newBroadcastHandler() (*BroadcastHandler, *registry.Registry) {
	reg := registry.New()
	broadcaster := broadcast.NewService(reg, &fakeClient{}, logger.Noop())
	return NewBroadcastHandler(reg, broadcaster, logger.Noop()), reg
}

func TestBroadcast_NoRunningBot(t *testing.T) {
	h, _ := newBroadcastHandler()

	rec := postJSON(t, h, "/api/broadcast", `{"message":"hello"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 with no running bot, got %d", rec.Code)
	}
}

func TestBroadcast_MissingMessage(t *testing.T) {
	h, _ := newBroadcastHandler()

	rec := postJSON(t, h, "/api/broadcast", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing message, got %d", rec.Code)
	}
}

func TestBroadcast_AmbientSingleInstance(t *testing.T) {
	h, reg := newBroadcastHandler()
	reg.PutInstance(&bot.Instance{Token: "tok-a", Status: bot.StatusOnline})
	reg.UpsertUser(&user.Record{ID: 1, BotToken: "tok-a"})
	reg.UpsertUser(&user.Record{ID: 2, BotToken: "tok-a"})

	rec := postJSON(t, h, "/api/broadcast", `{"message":"hello"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp broadcastResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if !resp.Success || resp.Sent != 2 || resp.Failed != 0 || resp.Total != 2 {
		t.Errorf("unexpected report %+v", resp)
	}
}

func TestBroadcast_TokenRequiredWithSeveralInstances(t *testing.T) {
	h, reg := newBroadcastHandler()
	reg.PutInstance(&bot.Instance{Token: "tok-a", Status: bot.StatusOnline})
	reg.PutInstance(&bot.Instance{Token: "tok-b", Status: bot.StatusOnline})
	reg.UpsertUser(&user.Record{ID: 1, BotToken: "tok-b"})

	rec := postJSON(t, h, "/api/broadcast", `{"message":"hello"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("ambient broadcast must refuse with several bots, got %d", rec.Code)
	}

	rec = postJSON(t, h, "/api/broadcast", `{"message":"hello","token":"tok-b"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("explicit token must work, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp broadcastResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Total != 1 || resp.Sent != 1 {
		t.Errorf("broadcast must reach only tok-b users, got %+v", resp)
	}
}

func TestBroadcast_UnknownToken(t *testing.T) {
	h, _ := newBroadcastHandler()

	rec := postJSON(t, h, "/api/broadcast", `{"message":"hello","token":"ghost"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown token, got %d", rec.Code)
	}
}

func TestBroadcast_MethodNotAllowed(t *testing.T) {
	h, _ := newBroadcastHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/broadcast", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
