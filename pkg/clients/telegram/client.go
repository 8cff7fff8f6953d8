package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/rabbitry/internal/config"
)

// Client exposes the Telegram Bot API operations used by the application.
type Client interface {
	SendMessage(ctx context.Context, req SendMessageRequest) (*Message, error)
	SendDocument(ctx context.Context, req SendDocumentRequest) (*Message, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a Telegram API client using the provided configuration values.
func NewClient(cfg config.TelegramConfig) *APIClient {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	restyClient := resty.New()
	restyClient.
		SetBaseURL(fmt.Sprintf("%s/bot%s", base, cfg.BotToken)).
		SetTimeout(30 * time.Second)

	return &APIClient{httpClient: restyClient}
}

// SendMessageRequest represents a plain text message payload.
type SendMessageRequest struct {
	ChatID int64
	Text   string
}

// SendDocumentRequest uploads a local file to a chat, with an optional caption.
type SendDocumentRequest struct {
	ChatID   int64
	FilePath string
	Caption  string
}

// Message mirrors the relevant part of a successful Bot API response.
type Message struct {
	MessageID int64 `json:"message_id"`
}

// apiResponse is the Bot API envelope around every result.
type apiResponse struct {
	OK          bool     `json:"ok"`
	Description string   `json:"description"`
	ErrorCode   int      `json:"error_code"`
	Result      *Message `json:"result"`
}

// SendMessage delivers a text message to a chat.
func (c *APIClient) SendMessage(ctx context.Context, req SendMessageRequest) (*Message, error) {
	payload := map[string]any{
		"chat_id": req.ChatID,
		"text":    req.Text,
	}

	envelope := new(apiResponse)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		SetResult(envelope).
		SetError(envelope).
		Post("/sendMessage")
	if err != nil {
		return nil, fmt.Errorf("send telegram message: %w", err)
	}

	return unwrap(envelope, resp.StatusCode())
}

// SendDocument uploads a file to a chat as a document attachment.
func (c *APIClient) SendDocument(ctx context.Context, req SendDocumentRequest) (*Message, error) {
	envelope := new(apiResponse)

	r := c.httpClient.R().
		SetContext(ctx).
		SetFile("document", req.FilePath).
		SetFormData(map[string]string{"chat_id": strconv.FormatInt(req.ChatID, 10)}).
		SetResult(envelope).
		SetError(envelope)
	if req.Caption != "" {
		r.SetFormData(map[string]string{"caption": req.Caption})
	}

	resp, err := r.Post("/sendDocument")
	if err != nil {
		return nil, fmt.Errorf("send telegram document: %w", err)
	}

	return unwrap(envelope, resp.StatusCode())
}

func unwrap(envelope *apiResponse, statusCode int) (*Message, error) {
	if !envelope.OK {
		code := envelope.ErrorCode
		if code == 0 {
			code = statusCode
		}
		return nil, fmt.Errorf("telegram api error: code=%d, message=%s", code, envelope.Description)
	}
	return envelope.Result, nil
}
