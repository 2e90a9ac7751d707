// Package schedule resuelve las fronteras de día calendario del bot.
//
// El bot almacena todo en UTC pero el "día" de una asistencia se define en la
// zona horaria de presentación (fija por configuración, ej. Asia/Kolkata).
// Resolver convierte un instante UTC al intervalo [00:00:00, 23:59:59] del
// día local que lo contiene, expresado de vuelta en UTC, y parsea los rangos
// de fecha de los reportes.
package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/AsutoshPati/TelegramAttendanceBot/internal/domain"
)

// Resolver calcula fronteras de día en la zona horaria de presentación.
type Resolver struct {
	loc *time.Location
}

// NewResolver construye el resolver con el nombre IANA de la zona horaria.
func NewResolver(timezone string) (*Resolver, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("schedule: zona horaria %q: %w", timezone, err)
	}
	return &Resolver{loc: loc}, nil
}

// Location devuelve la zona horaria de presentación.
func (r *Resolver) Location() *time.Location {
	return r.loc
}

// DayBounds devuelve el intervalo [00:00:00, 23:59:59] del día local que
// contiene ref, convertido a UTC. Dos instantes del mismo día local producen
// exactamente el mismo par.
func (r *Resolver) DayBounds(ref time.Time) (start, end time.Time) {
	local := ref.In(r.loc)
	y, m, d := local.Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, r.loc).UTC()
	end = time.Date(y, m, d, 23, 59, 59, 0, r.loc).UTC()
	return start, end
}

// Formatos aceptados por ParseRange, en orden de precedencia.
const (
	layoutDay   = "02-01-2006"
	layoutMonth = "01-2006"
	layoutYear  = "2006"
)

// ParseRange interpreta un token de fecha libre y devuelve el rango UTC que
// cubre. El orden de fallback es una decisión de política, no un accidente:
// primero día-mes-año, luego mes-año (fin = último día del mes) y por último
// solo año (fin = 31 de diciembre); gana el primer formato que parsea.
// Acepta "-" o "/" como separador.
func (r *Resolver) ParseRange(token string) (start, end time.Time, err error) {
	token = strings.ReplaceAll(strings.TrimSpace(token), "/", "-")
	if token == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: fecha vacía", domain.ErrInvalidInput)
	}

	if t, perr := time.ParseInLocation(layoutDay, token, r.loc); perr == nil {
		start, end = r.DayBounds(t)
		return start, end, nil
	}
	if t, perr := time.ParseInLocation(layoutMonth, token, r.loc); perr == nil {
		start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, r.loc)
		// Día 0 del mes siguiente = último día del mes.
		lastDay := time.Date(t.Year(), t.Month()+1, 0, 23, 59, 59, 0, r.loc)
		return start.UTC(), lastDay.UTC(), nil
	}
	if t, perr := time.ParseInLocation(layoutYear, token, r.loc); perr == nil {
		start = time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, r.loc)
		end = time.Date(t.Year(), time.December, 31, 23, 59, 59, 0, r.loc)
		return start.UTC(), end.UTC(), nil
	}

	return time.Time{}, time.Time{}, fmt.Errorf("%w: fecha %q no reconocida (use DD-MM-AAAA, MM-AAAA o AAAA)", domain.ErrInvalidInput, token)
}
