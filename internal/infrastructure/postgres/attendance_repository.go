package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/AsutoshPati/TelegramAttendanceBot/internal/domain/entity"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/domain/repository"
)

var _ repository.AttendanceRepository = (*AttendanceRepo)(nil)

const attendanceColumns = `id, user_id, selfie, selfie_time, location_lat, location_lon, location_time`

// AttendanceRepo implementación del puerto AttendanceRepository sobre
// PostgreSQL. El id es BIGSERIAL, así que "más reciente" es siempre ORDER BY
// id DESC. Las variantes del selfie van como JSONB; las coordenadas como
// NUMERIC (codec shopspring/decimal).
type AttendanceRepo struct {
	q Querier
}

// NewAttendanceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAttendanceRepository(q Querier) *AttendanceRepo {
	return &AttendanceRepo{q: q}
}

// Create persiste un registro nuevo y asigna att.ID.
func (r *AttendanceRepo) Create(ctx context.Context, att *entity.Attendance) error {
	selfie, err := marshalSelfie(att.Selfie)
	if err != nil {
		return err
	}
	lat, lon := locationParts(att.Location)
	query := `
		INSERT INTO attendance (user_id, selfie, selfie_time, location_lat, location_lon, location_time)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err = r.q.QueryRow(ctx, query,
		att.UserID, selfie, att.SelfieTime, lat, lon, att.LocationTime,
	).Scan(&att.ID)
	if err != nil {
		return fmt.Errorf("insert attendance: %w", err)
	}
	return nil
}

// Update sobrescribe las dos mitades del registro (el correlador solo lo
// llama para llenar la mitad faltante de un registro abierto).
func (r *AttendanceRepo) Update(ctx context.Context, att *entity.Attendance) error {
	selfie, err := marshalSelfie(att.Selfie)
	if err != nil {
		return err
	}
	lat, lon := locationParts(att.Location)
	query := `
		UPDATE attendance
		SET selfie = $2, selfie_time = $3, location_lat = $4, location_lon = $5, location_time = $6
		WHERE id = $1`
	_, err = r.q.Exec(ctx, query,
		att.ID, selfie, att.SelfieTime, lat, lon, att.LocationTime,
	)
	if err != nil {
		return fmt.Errorf("update attendance %d: %w", att.ID, err)
	}
	return nil
}

// FindLatestForDay devuelve el registro más reciente del usuario con
// cualquiera de las dos mitades dentro de [dayStart, dayEnd], o (nil, nil).
// Ver la nota de compatibilidad en el puerto: se asume la variante que mira
// ambas mitades, no solo selfie_time.
func (r *AttendanceRepo) FindLatestForDay(ctx context.Context, userID string, dayStart, dayEnd time.Time) (*entity.Attendance, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance
		WHERE user_id = $1
		  AND (selfie_time BETWEEN $2 AND $3 OR location_time BETWEEN $2 AND $3)
		ORDER BY id DESC
		LIMIT 1`
	att, err := r.scanOne(r.q.QueryRow(ctx, query, userID, dayStart, dayEnd))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find latest attendance: %w", err)
	}
	return att, nil
}

// Query devuelve los registros con AMBAS mitades dentro del rango, ordenados
// por (user_id, id). userID vacío = todos los usuarios.
func (r *AttendanceRepo) Query(ctx context.Context, userID string, start, end time.Time) ([]*entity.Attendance, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance
		WHERE selfie_time BETWEEN $1 AND $2
		  AND location_time BETWEEN $1 AND $2`
	args := []any{start, end}
	if userID != "" {
		query += ` AND user_id = $3`
		args = append(args, userID)
	}
	query += ` ORDER BY user_id, id`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attendance: %w", err)
	}
	defer rows.Close()

	list := []*entity.Attendance{}
	for rows.Next() {
		att, err := r.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attendance: %w", err)
		}
		list = append(list, att)
	}
	return list, rows.Err()
}

func (r *AttendanceRepo) scanOne(row pgx.Row) (*entity.Attendance, error) {
	var (
		att        entity.Attendance
		selfieJSON []byte
		lat, lon   *decimal.Decimal
	)
	err := row.Scan(&att.ID, &att.UserID, &selfieJSON, &att.SelfieTime, &lat, &lon, &att.LocationTime)
	if err != nil {
		return nil, err
	}
	if len(selfieJSON) > 0 {
		if err := json.Unmarshal(selfieJSON, &att.Selfie); err != nil {
			return nil, fmt.Errorf("decode selfie: %w", err)
		}
	}
	if lat != nil && lon != nil {
		att.Location = &entity.GeoPoint{Latitude: *lat, Longitude: *lon}
	}
	return &att, nil
}

// marshalSelfie serializa las variantes a JSONB; nil cuando no hay selfie.
func marshalSelfie(selfie []entity.SelfieImage) ([]byte, error) {
	if len(selfie) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(selfie)
	if err != nil {
		return nil, fmt.Errorf("encode selfie: %w", err)
	}
	return data, nil
}

func locationParts(loc *entity.GeoPoint) (lat, lon *decimal.Decimal) {
	if loc == nil {
		return nil, nil
	}
	return &loc.Latitude, &loc.Longitude
}
