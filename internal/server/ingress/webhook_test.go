package ingress

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/VladKovDev/bot-panel/internal/domain/bot"
	"github.com/VladKovDev/bot-panel/internal/registry"
	"github.com/VladKovDev/bot-panel/internal/services/broadcast"
	"github.com/VladKovDev/bot-panel/internal/services/commands"
	"github.com/VladKovDev/bot-panel/internal/telegram"
	"github.com/VladKovDev/bot-panel/pkg/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type fakeClient struct {
	sent []string
}

func (f *fakeClient) SetWebhook(context.Context, string, string, []string, bool) error { return nil }
func (f *fakeClient) DeleteWebhook(context.Context, string) error                      { return nil }
func (f *fakeClient) GetMe(context.Context, string) (*telegram.BotInfo, error) {
	return &telegram.BotInfo{ID: 42, Username: "panelbot"}, nil
}
func (f *fakeClient) SetMyCommands(context.Context, string, []tgbotapi.BotCommand) error {
	return nil
}
func (f *fakeClient) SendMessage(_ context.Context, _ string, _ int64, text, _ string) error {
	f.sent = append(f.sent, text)
	return nil
}

func newHandler() (*WebhookHandler, *registry.Registry, *fakeClient) {
	reg := registry.New()
	client := &fakeClient{}
	broadcaster := broadcast.NewService(reg, client, logger.Noop())
	cmds := commands.NewService(reg, client, broadcaster, 0, logger.Noop())
	return NewWebhookHandler(reg, cmds, logger.Noop()), reg, client
}

func post(h http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestWebhook_UnknownTokenIs404(t *testing.T) {
	h, _, _ := newHandler()

	rec := post(h, "/api/webhook?token=ghost", `{"update_id":1}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestWebhook_MissingTokenIs404(t *testing.T) {
	h, _, _ := newHandler()

	rec := post(h, "/api/webhook", `{"update_id":1}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestWebhook_AcksUpdate(t *testing.T) {
	h, reg, client := newHandler()
	reg.PutInstance(&bot.Instance{Token: "tok-a", Info: &telegram.BotInfo{ID: 42}})

	update := `{"update_id":1,"message":{"message_id":5,"from":{"id":7,"username":"alice","first_name":"Alice"},"chat":{"id":7,"type":"private"},"text":"/start"}}`
	rec := post(h, "/api/webhook?token=tok-a", update)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]bool
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if !resp["ok"] {
		t.Errorf("expected {ok:true}, got %s", rec.Body.String())
	}

	if reg.UserByID(7) == nil {
		t.Error("sender must be tracked")
	}
	if len(client.sent) != 1 {
		t.Errorf("expected a /start reply, got %d sends", len(client.sent))
	}
}

func TestWebhook_MalformedPayload(t *testing.T) {
	h, reg, _ := newHandler()
	reg.PutInstance(&bot.Instance{Token: "tok-a", Info: &telegram.BotInfo{ID: 42}})

	rec := post(h, "/api/webhook?token=tok-a", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestWebhook_MethodNotAllowed(t *testing.T) {
	h, _, _ := newHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/webhook?token=tok-a", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
