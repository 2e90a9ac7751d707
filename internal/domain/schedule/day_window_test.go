package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AsutoshPati/TelegramAttendanceBot/internal/domain"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/domain/schedule"
)

const testTimezone = "Asia/Kolkata" // UTC+05:30, sin DST

func newResolver(t *testing.T) *schedule.Resolver {
	t.Helper()
	r, err := schedule.NewResolver(testTimezone)
	require.NoError(t, err, "la zona horaria de test debe cargar")
	return r
}

func TestNewResolver_ZonaInvalida(t *testing.T) {
	_, err := schedule.NewResolver("Marte/Olympus")
	assert.Error(t, err, "una zona horaria desconocida debe retornar error")
}

// El día local de Kolkata empieza a las 18:30 UTC del día anterior.
func TestDayBounds_ConversionAUTC(t *testing.T) {
	r := newResolver(t)

	ref := time.Date(2023, 11, 29, 10, 0, 0, 0, time.UTC) // 15:30 local
	start, end := r.DayBounds(ref)

	assert.Equal(t, time.Date(2023, 11, 28, 18, 30, 0, 0, time.UTC), start,
		"el inicio del día local debe ser 18:30 UTC del día anterior")
	assert.Equal(t, time.Date(2023, 11, 29, 18, 29, 59, 0, time.UTC), end,
		"el fin del día local debe ser 18:29:59 UTC")
}

// Un instante UTC tardío puede pertenecer al día local SIGUIENTE.
func TestDayBounds_MedianocheLocal(t *testing.T) {
	r := newResolver(t)

	ref := time.Date(2023, 11, 29, 20, 0, 0, 0, time.UTC) // 01:30 local del día 30
	start, _ := r.DayBounds(ref)

	assert.Equal(t, time.Date(2023, 11, 29, 18, 30, 0, 0, time.UTC), start,
		"20:00 UTC ya pertenece al día local siguiente")
}

// Idempotencia: cualquier instante del mismo día local produce el mismo par.
func TestDayBounds_Idempotente(t *testing.T) {
	r := newResolver(t)

	refs := []time.Time{
		time.Date(2023, 11, 28, 18, 30, 0, 0, time.UTC), // justo al inicio
		time.Date(2023, 11, 29, 3, 15, 42, 0, time.UTC),
		time.Date(2023, 11, 29, 18, 29, 59, 0, time.UTC), // justo al final
	}

	firstStart, firstEnd := r.DayBounds(refs[0])
	for _, ref := range refs[1:] {
		start, end := r.DayBounds(ref)
		assert.Equal(t, firstStart, start, "todos los instantes del día deben dar el mismo inicio")
		assert.Equal(t, firstEnd, end, "todos los instantes del día deben dar el mismo fin")
	}
}

// ── ParseRange ────────────────────────────────────────────────────────────────

func TestParseRange_DiaMesAnio(t *testing.T) {
	r := newResolver(t)

	start, end, err := r.ParseRange("29-11-2023")
	require.NoError(t, err)

	wantStart, wantEnd := r.DayBounds(time.Date(2023, 11, 29, 6, 0, 0, 0, r.Location()))
	assert.Equal(t, wantStart, start, "un token con día debe cubrir exactamente ese día")
	assert.Equal(t, wantEnd, end)
}

func TestParseRange_MesAnio(t *testing.T) {
	r := newResolver(t)

	start, end, err := r.ParseRange("02-2024") // febrero bisiesto
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, r.Location()).UTC(), start)
	assert.Equal(t, time.Date(2024, 2, 29, 23, 59, 59, 0, r.Location()).UTC(), end,
		"el fin de un token mes-año debe ser el último día calendario del mes")
}

func TestParseRange_SoloAnio(t *testing.T) {
	r := newResolver(t)

	start, end, err := r.ParseRange("2023")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, r.Location()).UTC(), start)
	assert.Equal(t, time.Date(2023, 12, 31, 23, 59, 59, 0, r.Location()).UTC(), end,
		"el fin de un token solo-año debe ser el 31 de diciembre")
}

// El primer formato que parsea gana: día-mes-año antes que mes-año.
func TestParseRange_PrecedenciaDeFormatos(t *testing.T) {
	r := newResolver(t)

	dayStart, dayEnd, err := r.ParseRange("01-02-2024")
	require.NoError(t, err)

	wantStart, wantEnd := r.DayBounds(time.Date(2024, 2, 1, 6, 0, 0, 0, r.Location()))
	assert.Equal(t, wantStart, dayStart, "un token con tres campos es un día, nunca un mes")
	assert.Equal(t, wantEnd, dayEnd)
}

func TestParseRange_SeparadorSlash(t *testing.T) {
	r := newResolver(t)

	withSlash, _, err := r.ParseRange("29/11/2023")
	require.NoError(t, err)
	withDash, _, err2 := r.ParseRange("29-11-2023")
	require.NoError(t, err2)

	assert.Equal(t, withDash, withSlash, "ambos separadores deben producir el mismo rango")
}

func TestParseRange_TokenInvalido(t *testing.T) {
	r := newResolver(t)

	for _, token := range []string{"", "  ", "noviembre", "29-11", "2023-11-29"} {
		_, _, err := r.ParseRange(token)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "token %q debe ser rechazado", token)
	}
}
