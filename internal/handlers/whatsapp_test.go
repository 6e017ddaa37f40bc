package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcm-viagens/alinebot-backend/internal/services"
	"github.com/jcm-viagens/alinebot-backend/internal/storage"
)

func newWebhookApp(t *testing.T) *fiber.App {
	t.Helper()

	store := storage.NewMemoryStore()
	sessions := services.NewSessionManager()
	t.Cleanup(sessions.Stop)

	conversation := services.NewConversationService(
		store, sessions, services.NewAdminService(store, sessions), nil, nil,
	)
	handler := NewWhatsAppHandler(conversation)

	app := fiber.New()
	app.Post("/webhook/whatsapp", handler.HandleWebhook)
	app.Post("/test/whatsapp", handler.HandleTestWebhook)
	return app
}

func postForm(t *testing.T, app *fiber.App, form url.Values) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestWebhookRepliesWithTwiML(t *testing.T) {
	app := newWebhookApp(t)

	resp := postForm(t, app, url.Values{
		"From": {"whatsapp:+5511988216292"},
		"Body": {"oi"},
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/xml", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), "<Response><Message>")
	assert.Contains(t, string(body), "</Message></Response>")
	assert.Contains(t, string(body), "Bem-vindo(a)")
}

func TestWebhookAcksStatusCallback(t *testing.T) {
	app := newWebhookApp(t)

	// Delivery callbacks have no Body; they get a bare 200 and no TwiML.
	resp := postForm(t, app, url.Values{
		"From":       {"whatsapp:+5511988216292"},
		"MessageSid": {"SM123"},
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "<Response>")
}

func TestWebhookEscapesReplyText(t *testing.T) {
	app := newWebhookApp(t)

	// Prime the session, then send a message the bot won't understand. The
	// canned replies carry asterisks, not XML, so exercise escaping directly
	// through a body that lands in the unknown-option path.
	postForm(t, app, url.Values{
		"From": {"whatsapp:+5511988216292"},
		"Body": {"oi"},
	}).Body.Close()

	resp := postForm(t, app, url.Values{
		"From": {"whatsapp:+5511988216292"},
		"Body": {"<script>"},
	})
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	// however the bot replies, the TwiML wrapper must stay well-formed
	assert.Contains(t, string(body), "<Response><Message>")
	assert.NotContains(t, string(body), "<script>")
}

func TestTestWebhookReturnsJSON(t *testing.T) {
	app := newWebhookApp(t)

	req := httptest.NewRequest(http.MethodPost, "/test/whatsapp",
		strings.NewReader(`{"from":"5511988216292","message":"oi"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"success":true`)
	assert.Contains(t, string(body), "Bem-vindo(a)")
}
