package repository

import (
	"context"
	"time"

	"github.com/AsutoshPati/TelegramAttendanceBot/internal/domain/entity"
)

// AttendanceRepository define el puerto de persistencia para Attendance.
//
// FindLatestForDay devuelve el registro más reciente (ID más alto) del
// usuario cuyo selfie_time O location_time cae dentro de [dayStart, dayEnd].
// Buscar solo por selfie_time dejaría un registro abierto solo-ubicación
// invisible para un selfie posterior del mismo día; aquí la búsqueda
// considera ambas mitades y el comportamiento está fijado por test en el
// correlador. La selección es por recencia de creación, no por orden
// temporal de los timestamps: un evento fuera de orden se evalúa igualmente
// contra el último registro creado.
//
// Devuelve (nil, nil) cuando no hay registro del día.
//
// Query devuelve los registros del rango ordenados por (user_id, id), con
// userID vacío para todos los usuarios. Solo entran registros con AMBOS
// timestamps dentro del rango (semántica de reporte del bot: solo
// asistencias completas dentro del período). Un rango sin registros devuelve
// un slice vacío, nunca error.
type AttendanceRepository interface {
	Create(ctx context.Context, att *entity.Attendance) error // asigna att.ID
	Update(ctx context.Context, att *entity.Attendance) error
	FindLatestForDay(ctx context.Context, userID string, dayStart, dayEnd time.Time) (*entity.Attendance, error)
	Query(ctx context.Context, userID string, start, end time.Time) ([]*entity.Attendance, error)
}
