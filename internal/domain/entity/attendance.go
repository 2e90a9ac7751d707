package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventKind identifica la mitad del emparejamiento que aporta un evento.
type EventKind string

const (
	KindSelfie   EventKind = "selfie"
	KindLocation EventKind = "location"
)

// Opposite devuelve la mitad contraria del emparejamiento.
func (k EventKind) Opposite() EventKind {
	if k == KindSelfie {
		return KindLocation
	}
	return KindSelfie
}

// SelfieImage es el descriptor de una variante de la foto enviada por el
// gateway (Telegram entrega la misma imagen en varias resoluciones).
type SelfieImage struct {
	FileID       string `json:"file_id"`
	FileUniqueID string `json:"file_unique_id"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	FileSize     int    `json:"file_size"`
}

// GeoPoint coordenadas reportadas por el gateway. Se guardan como NUMERIC
// para persistir exactamente lo recibido.
type GeoPoint struct {
	Latitude  decimal.Decimal `json:"latitude"`
	Longitude decimal.Decimal `json:"longitude"`
}

// PairingState estado derivado de un registro de asistencia respecto al
// emparejamiento selfie/ubicación.
type PairingState string

const (
	StateNoOpen       PairingState = "no_open"
	StateOpenSelfie   PairingState = "open_selfie"
	StateOpenLocation PairingState = "open_location"
	StateComplete     PairingState = "complete"
)

// Attendance es un registro de asistencia. Nunca se crea vacío: siempre nace
// con exactamente una mitad (selfie o ubicación) y, como mucho, se muta una
// vez para llenar la mitad faltante mientras sigue abierto. Un registro
// completo es inmutable; los abiertos abandonados se conservan como historial
// consultable (no hay recolección).
//
// El ID es un BIGSERIAL: el desempate de recencia "registro más reciente del
// día" es siempre el ID más alto.
type Attendance struct {
	ID           int64
	UserID       string
	Selfie       []SelfieImage // presente si y solo si SelfieTime != nil
	SelfieTime   *time.Time    // UTC
	Location     *GeoPoint     // presente si y solo si LocationTime != nil
	LocationTime *time.Time    // UTC
}

// State deriva el estado del emparejamiento. Un receptor nil cuenta como
// StateNoOpen para que el correlador pueda evaluar "sin candidato" sin casos
// especiales.
func (a *Attendance) State() PairingState {
	switch {
	case a == nil:
		return StateNoOpen
	case a.SelfieTime != nil && a.LocationTime != nil:
		return StateComplete
	case a.SelfieTime != nil:
		return StateOpenSelfie
	case a.LocationTime != nil:
		return StateOpenLocation
	default:
		return StateNoOpen
	}
}

// IsComplete indica si ambas mitades están presentes.
func (a *Attendance) IsComplete() bool {
	return a.State() == StateComplete
}

// HasKind indica si la mitad de tipo k ya está registrada.
func (a *Attendance) HasKind(k EventKind) bool {
	if a == nil {
		return false
	}
	if k == KindSelfie {
		return a.SelfieTime != nil
	}
	return a.LocationTime != nil
}

// OpenKind devuelve la mitad presente de un registro abierto.
// Solo tiene sentido cuando State() es open_selfie u open_location.
func (a *Attendance) OpenKind() EventKind {
	if a.SelfieTime != nil {
		return KindSelfie
	}
	return KindLocation
}

// OpenTime devuelve el timestamp de la mitad presente de un registro abierto.
func (a *Attendance) OpenTime() *time.Time {
	if a.SelfieTime != nil {
		return a.SelfieTime
	}
	return a.LocationTime
}
