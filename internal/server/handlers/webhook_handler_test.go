package handlers_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/rabbitry/internal/export"
	"github.com/mamadbah2/rabbitry/internal/repository/sqlite"
	"github.com/mamadbah2/rabbitry/internal/server/handlers"
	"github.com/mamadbah2/rabbitry/internal/server/router"
	"github.com/mamadbah2/rabbitry/internal/service/bot"
	"github.com/mamadbah2/rabbitry/internal/service/commands"
	"github.com/mamadbah2/rabbitry/internal/service/reporting"
	"github.com/mamadbah2/rabbitry/pkg/clients/telegram"
)

const ownerChatID int64 = 42

type recordingClient struct {
	messages []telegram.SendMessageRequest
}

func (r *recordingClient) SendMessage(_ context.Context, req telegram.SendMessageRequest) (*telegram.Message, error) {
	r.messages = append(r.messages, req)
	return &telegram.Message{MessageID: 1}, nil
}

func (r *recordingClient) SendDocument(_ context.Context, _ telegram.SendDocumentRequest) (*telegram.Message, error) {
	return &telegram.Message{MessageID: 1}, nil
}

func newTestServer(t *testing.T, secret string) (http.Handler, *recordingClient) {
	t.Helper()
	repo, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	reports := reporting.NewService(repo, nil)
	exporter := export.NewExporter(repo, t.TempDir(), nil)
	dispatcher := commands.NewDispatcher(repo, reports, exporter, nil, nil)

	client := &recordingClient{}
	botService := bot.NewService(client, dispatcher, ownerChatID, nil)
	return router.Setup(handlers.NewWebhookHandler(botService, secret, nil), nil), client
}

func postJSON(t *testing.T, handler http.Handler, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestWebhookProcessesUpdate(t *testing.T) {
	handler, client := newTestServer(t, "")

	body := `{"update_id":1,"message":{"message_id":1,"chat":{"id":42,"type":"private"},"text":"/addrabbit Daisy F"}}`
	rec := postJSON(t, handler, "/webhook/telegram", body, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, client.messages, 1)
	assert.Contains(t, client.messages[0].Text, "Added doe Daisy")
}

func TestWebhookRejectsBadSecret(t *testing.T) {
	handler, client := newTestServer(t, "s3cret")

	body := `{"update_id":1}`
	rec := postJSON(t, handler, "/webhook/telegram", body, map[string]string{
		"X-Telegram-Bot-Api-Secret-Token": "wrong",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, client.messages)
}

func TestWebhookAcceptsCorrectSecret(t *testing.T) {
	handler, _ := newTestServer(t, "s3cret")

	rec := postJSON(t, handler, "/webhook/telegram", `{"update_id":1}`, map[string]string{
		"X-Telegram-Bot-Api-Secret-Token": "s3cret",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhookRejectsMalformedBody(t *testing.T) {
	handler, _ := newTestServer(t, "")

	rec := postJSON(t, handler, "/webhook/telegram", `{not json`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendMessageEndpoint(t *testing.T) {
	handler, client := newTestServer(t, "")

	rec := postJSON(t, handler, "/send-message", `{"chat_id":7,"message":"hello"}`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, client.messages, 1)
	assert.Equal(t, "hello", client.messages[0].Text)
}

func TestSendMessageValidatesPayload(t *testing.T) {
	handler, _ := newTestServer(t, "")

	rec := postJSON(t, handler, "/send-message", `{"chat_id":7}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	handler, _ := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}
