package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/AsutoshPati/TelegramAttendanceBot/internal/interfaces/http"
	"github.com/AsutoshPati/TelegramAttendanceBot/pkg/logger"
)

const webhookSecret = "super-secreto"

// recordingSender registra los envíos para verificar que el webhook no
// contesta nada cuando no hay mensaje que procesar.
type recordingSender struct {
	messages  int
	documents int
}

func (s *recordingSender) SendMessage(_ context.Context, _ int64, _ string) error {
	s.messages++
	return nil
}

func (s *recordingSender) SendDocument(_ context.Context, _ int64, _ string, _ []byte) error {
	s.documents++
	return nil
}

func buildWebhookApp(sender *recordingSender) *fiber.App {
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	// El dispatcher solo se invoca con un message presente; estos casos no
	// llegan ahí.
	handler := apphttp.NewWebhookHandler(nil, sender, webhookSecret, log)
	app := fiber.New()
	app.Post("/bot/webhook/:secret", handler.Receive)
	return app
}

func postWebhook(t *testing.T, app *fiber.App, secret, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/bot/webhook/"+secret, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// Secreto incorrecto → 404, como si la ruta no existiera.
func TestWebhook_SecretoIncorrecto(t *testing.T) {
	sender := &recordingSender{}
	app := buildWebhookApp(sender)

	resp := postWebhook(t, app, "adivinado", `{"update_id":1}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Zero(t, sender.messages, "sin secreto válido no debe enviarse nada")
}

// Update sin message (ej: edited_message) → 200 sin procesar.
func TestWebhook_UpdateSinMessage(t *testing.T) {
	sender := &recordingSender{}
	app := buildWebhookApp(sender)

	resp := postWebhook(t, app, webhookSecret, `{"update_id":7}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Zero(t, sender.messages)
}

// Cuerpo malformado → 200 igualmente: el gateway reintenta cualquier otro
// status y el update seguiría siendo malformado.
func TestWebhook_CuerpoMalformado(t *testing.T) {
	sender := &recordingSender{}
	app := buildWebhookApp(sender)

	resp := postWebhook(t, app, webhookSecret, `{esto no es json`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Zero(t, sender.messages)
}
