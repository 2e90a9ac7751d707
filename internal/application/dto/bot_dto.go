package dto

import "github.com/AsutoshPati/TelegramAttendanceBot/internal/domain/entity"

// Update es el evento entrante del gateway de mensajería, ya aplanado:
// un chat, un timestamp UTC en epoch y exactamente uno de Text/Photo/Location.
type Update struct {
	ChatID   string
	Date     int64 // epoch UNIX del gateway
	Text     string
	Photo    []entity.SelfieImage
	Location *entity.GeoPoint
}

// Reply es un mensaje de salida hacia el chat. Document lleva un adjunto
// (reporte PDF de /download); Text va siempre.
type Reply struct {
	Text     string
	Document []byte
	Filename string
}
