// Package telegram implementa el cliente de salida hacia la Bot API de Telegram.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"
)

const apiBase = "https://api.telegram.org/bot"

// ── Puerto (interfaz) ──────────────────────────────────────────────────────────

// Sender define el puerto de salida para responder mensajes de chat.
// La implementación concreta usa la Bot API de Telegram; para tests se
// puede inyectar un mock.
type Sender interface {
	// SendMessage envía un mensaje de texto al chat indicado.
	SendMessage(ctx context.Context, chatID int64, text string) error
	// SendDocument envía un archivo adjunto (ej: reporte PDF) al chat.
	SendDocument(ctx context.Context, chatID int64, filename string, data []byte) error
}

// ── Implementación Bot API ─────────────────────────────────────────────────────

// Client implementa Sender usando la Bot API de Telegram.
// Usa net/http de la stdlib; no requiere librerías de terceros.
type Client struct {
	token      string
	httpClient *http.Client
}

var _ Sender = (*Client)(nil)

// NewClient construye el cliente con un timeout de red de 30 s: el envío
// de documentos (PDF de varios MB) puede tardar más que un mensaje simple.
func NewClient(token string) *Client {
	return &Client{
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

// SendMessage envía texto plano vía el método sendMessage.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	payload, err := json.Marshal(map[string]interface{}{
		"chat_id": chatID,
		"text":    text,
	})
	if err != nil {
		return fmt.Errorf("telegram: serializar sendMessage: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		apiBase+c.token+"/sendMessage", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("telegram: crear request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

// SendDocument envía un archivo vía el método sendDocument (multipart/form-data).
func (c *Client) SendDocument(ctx context.Context, chatID int64, filename string, data []byte) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("chat_id", strconv.FormatInt(chatID, 10)); err != nil {
		return fmt.Errorf("telegram: escribir chat_id: %w", err)
	}
	part, err := w.CreateFormFile("document", filename)
	if err != nil {
		return fmt.Errorf("telegram: crear parte multipart: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("telegram: escribir documento: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("telegram: cerrar multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		apiBase+c.token+"/sendDocument", &buf)
	if err != nil {
		return fmt.Errorf("telegram: crear request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	return c.do(req)
}

// do ejecuta el request y valida la respuesta de la Bot API.
func (c *Client) do(req *http.Request) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: enviar request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("telegram: leer respuesta: %w", err)
	}

	var api apiResponse
	if err := json.Unmarshal(body, &api); err != nil {
		return fmt.Errorf("telegram: respuesta inesperada (HTTP %d): %s", resp.StatusCode, string(body))
	}
	if !api.OK {
		return fmt.Errorf("telegram: la API rechazó el envío (código %d): %s", api.ErrorCode, api.Description)
	}
	return nil
}
