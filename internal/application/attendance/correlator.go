// Package attendance implementa la correlación de eventos de asistencia:
// decidir, para cada selfie o ubicación entrante, si completa un registro
// abierto de hoy, inicia uno nuevo o llega tarde.
//
// Máquina de estados por usuario y día (derivada del último registro, la
// base de datos es la única fuente de verdad):
//
//	sin registro ──(evento)──────────────────────▶ abierto<mitad>
//	abierto<mitad> ──(mitad contraria, a tiempo)─▶ completo
//	abierto<mitad> ──(mitad contraria, tarde)────▶ nuevo abierto<otra mitad>
//	abierto<mitad> ──(misma mitad)───────────────▶ nuevo abierto<mitad>
//	completo ──(cualquier evento)────────────────▶ nuevo abierto<mitad>
//
// Un registro abierto que queda atrás nunca se completa ni se borra.
package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/AsutoshPati/TelegramAttendanceBot/internal/domain"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/domain/entity"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/domain/repository"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/domain/schedule"
)

// Outcome clasifica el resultado de un evento para que el gateway elija la
// respuesta al usuario.
type Outcome string

const (
	// OutcomeStarted: el evento abrió un nuevo registro (primer evento del
	// día, registro anterior completo, o mitad repetida).
	OutcomeStarted Outcome = "started"
	// OutcomeCompleted: el evento llenó la mitad faltante dentro de la
	// ventana permitida.
	OutcomeCompleted Outcome = "completed"
	// OutcomeStartedAfterTimeout: había un registro abierto con la mitad
	// contraria pero la ventana ya venció; el evento abrió uno nuevo y el
	// viejo queda abandonado.
	OutcomeStartedAfterTimeout Outcome = "started_after_timeout"
)

// EventPayload transporta la carga del evento; el correlador ignora el campo
// que no corresponde al tipo.
type EventPayload struct {
	Selfie   []entity.SelfieImage
	Location *entity.GeoPoint
}

// Result es lo que el gateway necesita para responder.
type Result struct {
	Record  *entity.Attendance
	Outcome Outcome
	// TimedOutKind es la mitad que quedó abandonada; solo está presente con
	// OutcomeStartedAfterTimeout, para que el mensaje diga qué se perdió.
	TimedOutKind entity.EventKind
}

// Correlator aplica la regla de emparejamiento selfie/ubicación.
type Correlator struct {
	tx       TxRunner
	resolver *schedule.Resolver
	delay    time.Duration
}

// NewCorrelator construye el correlador. delaySeconds es la separación máxima
// permitida entre las dos mitades de un emparejamiento.
func NewCorrelator(tx TxRunner, resolver *schedule.Resolver, delaySeconds int) *Correlator {
	return &Correlator{
		tx:       tx,
		resolver: resolver,
		delay:    time.Duration(delaySeconds) * time.Second,
	}
}

// Delay expone la ventana configurada (los mensajes del bot la mencionan).
func (c *Correlator) Delay() time.Duration {
	return c.delay
}

// Correlate procesa un evento de asistencia contra el registro más reciente
// del día del usuario y devuelve el registro resultante más su clasificación.
// No escribe nada cuando el payload es inválido (selfie sin imágenes,
// ubicación sin coordenadas).
func (c *Correlator) Correlate(ctx context.Context, userID string, kind entity.EventKind, payload EventPayload, eventTime time.Time) (*Result, error) {
	if err := validatePayload(kind, payload); err != nil {
		return nil, err
	}
	eventTime = eventTime.UTC()
	dayStart, dayEnd := c.resolver.DayBounds(eventTime)

	var result *Result
	err := c.tx.RunForUser(ctx, userID, func(repo repository.AttendanceRepository) error {
		candidate, err := repo.FindLatestForDay(ctx, userID, dayStart, dayEnd)
		if err != nil {
			return fmt.Errorf("buscar candidato del día: %w", err)
		}

		// Sin candidato, candidato completo o misma mitad repetida: siempre
		// un registro nuevo. Dos selfies seguidos nunca se funden en uno.
		if candidate == nil || candidate.IsComplete() || candidate.HasKind(kind) {
			rec, err := c.startRecord(ctx, repo, userID, kind, payload, eventTime)
			if err != nil {
				return err
			}
			result = &Result{Record: rec, Outcome: OutcomeStarted}
			return nil
		}

		// Candidato abierto con la mitad contraria: decide la ventana.
		gap := eventTime.Sub(candidate.OpenTime().UTC())
		if gap < 0 {
			gap = -gap
		}
		if gap <= c.delay {
			fillMissingHalf(candidate, kind, payload, eventTime)
			if err := repo.Update(ctx, candidate); err != nil {
				return fmt.Errorf("completar registro %d: %w", candidate.ID, err)
			}
			result = &Result{Record: candidate, Outcome: OutcomeCompleted}
			return nil
		}

		// Ventana vencida: el candidato queda abandonado para siempre.
		rec, err := c.startRecord(ctx, repo, userID, kind, payload, eventTime)
		if err != nil {
			return err
		}
		result = &Result{
			Record:       rec,
			Outcome:      OutcomeStartedAfterTimeout,
			TimedOutKind: candidate.OpenKind(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// startRecord crea un registro con solo la mitad de este evento.
func (c *Correlator) startRecord(ctx context.Context, repo repository.AttendanceRepository, userID string, kind entity.EventKind, payload EventPayload, eventTime time.Time) (*entity.Attendance, error) {
	rec := &entity.Attendance{UserID: userID}
	fillMissingHalf(rec, kind, payload, eventTime)
	if err := repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("crear registro de asistencia: %w", err)
	}
	return rec, nil
}

func fillMissingHalf(rec *entity.Attendance, kind entity.EventKind, payload EventPayload, eventTime time.Time) {
	t := eventTime
	if kind == entity.KindSelfie {
		rec.Selfie = payload.Selfie
		rec.SelfieTime = &t
		return
	}
	rec.Location = payload.Location
	rec.LocationTime = &t
}

func validatePayload(kind entity.EventKind, payload EventPayload) error {
	switch kind {
	case entity.KindSelfie:
		if len(payload.Selfie) == 0 {
			return fmt.Errorf("%w: selfie sin imágenes", domain.ErrMalformedPayload)
		}
	case entity.KindLocation:
		if payload.Location == nil {
			return fmt.Errorf("%w: ubicación sin coordenadas", domain.ErrMalformedPayload)
		}
	default:
		return fmt.Errorf("%w: tipo de evento %q", domain.ErrMalformedPayload, kind)
	}
	return nil
}
