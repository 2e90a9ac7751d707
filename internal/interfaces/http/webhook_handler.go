package http

import (
	"crypto/subtle"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/AsutoshPati/TelegramAttendanceBot/internal/application/bot"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/application/dto"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/domain/entity"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/infrastructure/telegram"
	"github.com/AsutoshPati/TelegramAttendanceBot/pkg/logger"
)

// ── Payload del webhook ───────────────────────────────────────────────────────

// telegramUpdate es el subconjunto del update de la Bot API que procesamos.
type telegramUpdate struct {
	UpdateID int64            `json:"update_id"`
	Message  *telegramMessage `json:"message"`
}

type telegramMessage struct {
	MessageID int64               `json:"message_id"`
	Date      int64               `json:"date"`
	Chat      telegramChat        `json:"chat"`
	Text      string              `json:"text"`
	Photo     []telegramPhotoSize `json:"photo"`
	Location  *telegramLocation   `json:"location"`
}

type telegramChat struct {
	ID int64 `json:"id"`
}

type telegramPhotoSize struct {
	FileID       string `json:"file_id"`
	FileUniqueID string `json:"file_unique_id"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	FileSize     int    `json:"file_size"`
}

type telegramLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ── Handler ───────────────────────────────────────────────────────────────────

// WebhookHandler recibe los updates de Telegram, los despacha al bot y
// envía las respuestas de vuelta al chat.
type WebhookHandler struct {
	dispatcher *bot.Dispatcher
	sender     telegram.Sender
	secret     string
	log        *logger.Logger
}

// NewWebhookHandler construye el handler del webhook.
func NewWebhookHandler(dispatcher *bot.Dispatcher, sender telegram.Sender, secret string, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{dispatcher: dispatcher, sender: sender, secret: secret, log: log}
}

// Receive godoc
// @Summary      Webhook de Telegram
// @Description  Recibe updates de la Bot API. El path incluye el secreto del webhook.
// @Tags         bot
// @Accept       json
// @Success      200
// @Failure      404
// @Router       /bot/webhook/{secret} [post]
func (h *WebhookHandler) Receive(c *fiber.Ctx) error {
	// Comparación en tiempo constante: el secreto del path es la única
	// autenticación del webhook.
	if subtle.ConstantTimeCompare([]byte(c.Params("secret")), []byte(h.secret)) != 1 {
		return c.SendStatus(fiber.StatusNotFound)
	}

	var in telegramUpdate
	if err := c.BodyParser(&in); err != nil {
		h.log.Warn().Err(err).Msg("webhook: update malformado")
		// 200 siempre: Telegram reintenta cualquier otro status y el
		// update malformado seguiría siéndolo.
		return c.SendStatus(fiber.StatusOK)
	}
	if in.Message == nil {
		return c.SendStatus(fiber.StatusOK)
	}

	up := flattenUpdate(in.Message)
	replies := h.dispatcher.Handle(c.Context(), up)

	for _, r := range replies {
		if err := h.deliver(c, in.Message.Chat.ID, r); err != nil {
			h.log.Error().Err(err).
				Int64("chat_id", in.Message.Chat.ID).
				Msg("webhook: error enviando respuesta")
		}
	}
	return c.SendStatus(fiber.StatusOK)
}

func (h *WebhookHandler) deliver(c *fiber.Ctx, chatID int64, r dto.Reply) error {
	if len(r.Document) > 0 {
		return h.sender.SendDocument(c.Context(), chatID, r.Filename, r.Document)
	}
	return h.sender.SendMessage(c.Context(), chatID, r.Text)
}

// flattenUpdate convierte el update de la Bot API al evento interno del bot.
func flattenUpdate(m *telegramMessage) dto.Update {
	up := dto.Update{
		ChatID: strconv.FormatInt(m.Chat.ID, 10),
		Date:   m.Date,
		Text:   m.Text,
	}
	for _, p := range m.Photo {
		up.Photo = append(up.Photo, entity.SelfieImage{
			FileID:       p.FileID,
			FileUniqueID: p.FileUniqueID,
			Width:        p.Width,
			Height:       p.Height,
			FileSize:     p.FileSize,
		})
	}
	if m.Location != nil {
		up.Location = &entity.GeoPoint{
			Latitude:  decimal.NewFromFloat(m.Location.Latitude),
			Longitude: decimal.NewFromFloat(m.Location.Longitude),
		}
	}
	return up
}
