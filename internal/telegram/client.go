package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	// DefaultEndpoint is the production Bot API endpoint template.
	DefaultEndpoint = "https://api.telegram.org/bot%s/%s"

	ParseModeMarkdown = "Markdown"
)

// Client wraps the outbound Bot API calls the panel needs. Every call is a
// single attempt with no retry; a failed call surfaces as an error to the
// caller.
type Client interface {
	SetWebhook(ctx context.Context, token, url string, allowedUpdates []string, dropPending bool) error
	DeleteWebhook(ctx context.Context, token string) error
	GetMe(ctx context.Context, token string) (*BotInfo, error)
	SetMyCommands(ctx context.Context, token string, commands []tgbotapi.BotCommand) error
	SendMessage(ctx context.Context, token string, chatID int64, text, parseMode string) error
}

// APIError is a non-ok response from the Bot API.
type APIError struct {
	Code        int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram: %s (code %d)", e.Description, e.Code)
}

// HTTPClient talks to the Bot API over plain HTTP, one token per call.
// go-telegram-bot-api's BotAPI binds a token at construction and validates it
// with an eager getMe, which does not fit the panel's start/stop semantics,
// so requests are issued directly and decoded into tgbotapi.APIResponse.
type HTTPClient struct {
	endpoint string
	client   *http.Client
}

func NewHTTPClient(endpoint string, timeout time.Duration) *HTTPClient {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &HTTPClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type setWebhookRequest struct {
	URL                string   `json:"url"`
	AllowedUpdates     []string `json:"allowed_updates,omitempty"`
	DropPendingUpdates bool     `json:"drop_pending_updates,omitempty"`
}

type setMyCommandsRequest struct {
	Commands []tgbotapi.BotCommand `json:"commands"`
}

type sendMessageRequest struct {
	ChatID    int64  `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

func (c *HTTPClient) SetWebhook(ctx context.Context, token, url string, allowedUpdates []string, dropPending bool) error {
	req := setWebhookRequest{
		URL:                url,
		AllowedUpdates:     allowedUpdates,
		DropPendingUpdates: dropPending,
	}
	return c.call(ctx, token, "setWebhook", req, nil)
}

func (c *HTTPClient) DeleteWebhook(ctx context.Context, token string) error {
	return c.call(ctx, token, "deleteWebhook", struct{}{}, nil)
}

func (c *HTTPClient) GetMe(ctx context.Context, token string) (*BotInfo, error) {
	var info BotInfo
	if err := c.call(ctx, token, "getMe", struct{}{}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *HTTPClient) SetMyCommands(ctx context.Context, token string, commands []tgbotapi.BotCommand) error {
	return c.call(ctx, token, "setMyCommands", setMyCommandsRequest{Commands: commands}, nil)
}

func (c *HTTPClient) SendMessage(ctx context.Context, token string, chatID int64, text, parseMode string) error {
	req := sendMessageRequest{
		ChatID:    chatID,
		Text:      text,
		ParseMode: parseMode,
	}
	return c.call(ctx, token, "sendMessage", req, nil)
}

// call posts params to one Bot API method and unmarshals the result payload
// into result when it is non-nil.
func (c *HTTPClient) call(ctx context.Context, token, method string, params, result interface{}) error {
	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to encode %s params: %w", method, err)
	}

	url := fmt.Sprintf(c.endpoint, token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	var apiResp tgbotapi.APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}

	if !apiResp.Ok {
		return &APIError{Code: apiResp.ErrorCode, Description: apiResp.Description}
	}

	if result != nil {
		if err := json.Unmarshal(apiResp.Result, result); err != nil {
			return fmt.Errorf("failed to decode %s result: %w", method, err)
		}
	}

	return nil
}
