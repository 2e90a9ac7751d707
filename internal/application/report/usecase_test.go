package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AsutoshPati/TelegramAttendanceBot/internal/application/dto"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/application/report"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/domain"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/domain/entity"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/domain/schedule"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memUserRepo struct {
	users map[string]*entity.User // por ID
}

func newMemUserRepo(users ...*entity.User) *memUserRepo {
	m := &memUserRepo{users: make(map[string]*entity.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *memUserRepo) Create(_ context.Context, u *entity.User) error {
	m.users[u.ID] = u
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string, onlyActive bool) (*entity.User, error) {
	u, ok := m.users[id]
	if !ok || (onlyActive && !u.IsActive) {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) GetByEmployeeID(_ context.Context, employeeID string, onlyActive bool) (*entity.User, error) {
	for _, u := range m.users {
		if u.EmployeeID == employeeID && (!onlyActive || u.IsActive) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) GetByChatID(_ context.Context, chatID string) (*entity.User, error) {
	for _, u := range m.users {
		if u.LastChatID == chatID && u.IsActive {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) Update(_ context.Context, u *entity.User) error {
	m.users[u.ID] = u
	return nil
}

type memAttRepo struct {
	records []*entity.Attendance
}

func (m *memAttRepo) Create(_ context.Context, att *entity.Attendance) error {
	att.ID = int64(len(m.records) + 1)
	m.records = append(m.records, att)
	return nil
}

func (m *memAttRepo) Update(_ context.Context, _ *entity.Attendance) error { return nil }

func (m *memAttRepo) FindLatestForDay(_ context.Context, _ string, _, _ time.Time) (*entity.Attendance, error) {
	return nil, nil
}

func (m *memAttRepo) Query(_ context.Context, userID string, start, end time.Time) ([]*entity.Attendance, error) {
	out := []*entity.Attendance{}
	for _, rec := range m.records {
		if userID != "" && rec.UserID != userID {
			continue
		}
		if !within(rec.SelfieTime, start, end) || !within(rec.LocationTime, start, end) {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}
	return out, nil
}

func within(t *time.Time, start, end time.Time) bool {
	return t != nil && !t.Before(start) && !t.After(end)
}

// fakePDFGenerator registra los argumentos y devuelve bytes fijos.
type fakePDFGenerator struct {
	lastPeriod string
	lastRows   []dto.ReportRow
}

func (f *fakePDFGenerator) GenerateAttendancePDF(_ context.Context, _, period string, rows []dto.ReportRow) ([]byte, error) {
	f.lastPeriod = period
	f.lastRows = rows
	return []byte("%PDF-fake"), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const (
	userAliceID = "11111111-1111-1111-1111-111111111111"
	userBobID   = "22222222-2222-2222-2222-222222222222"
)

func testUsers() []*entity.User {
	return []*entity.User{
		{ID: userAliceID, EmployeeID: "EMP-001", FullName: "Alice Rao", Role: entity.RoleEmployee, IsActive: true},
		{ID: userBobID, EmployeeID: "EMP-002", FullName: "Bob Nair", Role: entity.RoleEmployee, IsActive: true},
	}
}

// completeRecord crea un registro completo con ambas mitades en el mismo instante.
func completeRecord(userID string, at time.Time) *entity.Attendance {
	s, l := at, at
	return &entity.Attendance{
		UserID:       userID,
		Selfie:       []entity.SelfieImage{{FileID: "f", FileUniqueID: "u"}},
		SelfieTime:   &s,
		Location:     &entity.GeoPoint{Latitude: decimal.NewFromFloat(20.2961), Longitude: decimal.NewFromFloat(85.8245)},
		LocationTime: &l,
	}
}

func newUseCase(t *testing.T, attRepo *memAttRepo, userRepo *memUserRepo, gen report.PDFGenerator) *report.ReportUseCase {
	t.Helper()
	resolver, err := schedule.NewResolver("Asia/Kolkata")
	require.NoError(t, err)
	return report.NewReportUseCase(attRepo, userRepo, resolver, gen, "attendance-bot")
}

// kolkata construye un instante local de Kolkata y lo devuelve en UTC.
func kolkata(t *testing.T, year int, month time.Month, day, hour, min int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	return time.Date(year, month, day, hour, min, 0, 0, loc).UTC()
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

// Dos emparejamientos el mismo día local: el primero es la entrada, el último
// la salida y la diferencia las horas trabajadas.
func TestBuild_EntradaYSalidaDelDia(t *testing.T) {
	attRepo := &memAttRepo{}
	userRepo := newMemUserRepo(testUsers()...)
	uc := newUseCase(t, attRepo, userRepo, &fakePDFGenerator{})
	ctx := context.Background()

	require.NoError(t, attRepo.Create(ctx, completeRecord(userAliceID, kolkata(t, 2025, time.August, 11, 9, 0))))
	require.NoError(t, attRepo.Create(ctx, completeRecord(userAliceID, kolkata(t, 2025, time.August, 11, 18, 30))))

	rep, err := uc.Build(ctx, "11-08-2025", "EMP-001")
	require.NoError(t, err)

	require.Len(t, rep.Rows, 1, "dos emparejamientos del mismo día deben colapsar en una fila")
	row := rep.Rows[0]
	assert.Equal(t, "EMP-001", row.EmployeeID)
	assert.Equal(t, "Alice Rao", row.FullName)
	assert.Equal(t, "11/08/2025", row.Date)
	assert.Equal(t, "09:00", row.FirstIn)
	assert.Equal(t, "18:30", row.LastOut)
	assert.Equal(t, "09:30", row.Worked)
}

// Un solo emparejamiento en el día: entrada y salida coinciden, 00:00 trabajado.
func TestBuild_UnSoloEmparejamiento(t *testing.T) {
	attRepo := &memAttRepo{}
	userRepo := newMemUserRepo(testUsers()...)
	uc := newUseCase(t, attRepo, userRepo, &fakePDFGenerator{})
	ctx := context.Background()

	require.NoError(t, attRepo.Create(ctx, completeRecord(userAliceID, kolkata(t, 2025, time.August, 11, 9, 0))))

	rep, err := uc.Build(ctx, "11-08-2025", "EMP-001")
	require.NoError(t, err)

	require.Len(t, rep.Rows, 1)
	assert.Equal(t, rep.Rows[0].FirstIn, rep.Rows[0].LastOut)
	assert.Equal(t, "00:00", rep.Rows[0].Worked)
}

// Los registros abiertos (sin la segunda mitad) no cuentan para el reporte.
func TestBuild_IgnoraRegistrosAbiertos(t *testing.T) {
	attRepo := &memAttRepo{}
	userRepo := newMemUserRepo(testUsers()...)
	uc := newUseCase(t, attRepo, userRepo, &fakePDFGenerator{})
	ctx := context.Background()

	at := kolkata(t, 2025, time.August, 11, 9, 0)
	open := &entity.Attendance{
		UserID:     userAliceID,
		Selfie:     []entity.SelfieImage{{FileID: "f"}},
		SelfieTime: &at,
	}
	require.NoError(t, attRepo.Create(ctx, open))

	rep, err := uc.Build(ctx, "11-08-2025", "EMP-001")
	require.NoError(t, err)
	assert.Empty(t, rep.Rows, "un registro abierto no debe producir filas")
}

// Reporte mensual de todos los usuarios: una fila por usuario y día, ordenadas
// por employee ID y fecha.
func TestBuild_MensualTodosLosUsuarios(t *testing.T) {
	attRepo := &memAttRepo{}
	userRepo := newMemUserRepo(testUsers()...)
	uc := newUseCase(t, attRepo, userRepo, &fakePDFGenerator{})
	ctx := context.Background()

	require.NoError(t, attRepo.Create(ctx, completeRecord(userBobID, kolkata(t, 2025, time.August, 12, 10, 0))))
	require.NoError(t, attRepo.Create(ctx, completeRecord(userAliceID, kolkata(t, 2025, time.August, 11, 9, 0))))
	require.NoError(t, attRepo.Create(ctx, completeRecord(userAliceID, kolkata(t, 2025, time.August, 12, 9, 15))))

	rep, err := uc.Build(ctx, "08-2025", "")
	require.NoError(t, err)

	require.Len(t, rep.Rows, 3)
	assert.Equal(t, "EMP-001", rep.Rows[0].EmployeeID)
	assert.Equal(t, "11/08/2025", rep.Rows[0].Date)
	assert.Equal(t, "EMP-001", rep.Rows[1].EmployeeID)
	assert.Equal(t, "12/08/2025", rep.Rows[1].Date)
	assert.Equal(t, "EMP-002", rep.Rows[2].EmployeeID)
}

// El día local manda: un emparejamiento a las 23:50 de Kolkata cae en esa
// fecha local aunque en UTC sea todavía la tarde.
func TestBuild_DiaLocalNoUTC(t *testing.T) {
	attRepo := &memAttRepo{}
	userRepo := newMemUserRepo(testUsers()...)
	uc := newUseCase(t, attRepo, userRepo, &fakePDFGenerator{})
	ctx := context.Background()

	require.NoError(t, attRepo.Create(ctx, completeRecord(userAliceID, kolkata(t, 2025, time.August, 11, 23, 50))))

	rep, err := uc.Build(ctx, "11-08-2025", "EMP-001")
	require.NoError(t, err)

	require.Len(t, rep.Rows, 1)
	assert.Equal(t, "11/08/2025", rep.Rows[0].Date)
	assert.Equal(t, "23:50", rep.Rows[0].FirstIn)
}

// Un usuario desactivado conserva su historial en los reportes.
func TestBuild_UsuarioDesactivadoConservaHistorial(t *testing.T) {
	users := testUsers()
	users[0].IsActive = false
	attRepo := &memAttRepo{}
	userRepo := newMemUserRepo(users...)
	uc := newUseCase(t, attRepo, userRepo, &fakePDFGenerator{})
	ctx := context.Background()

	require.NoError(t, attRepo.Create(ctx, completeRecord(userAliceID, kolkata(t, 2025, time.August, 11, 9, 0))))

	rep, err := uc.Build(ctx, "11-08-2025", "EMP-001")
	require.NoError(t, err)
	require.Len(t, rep.Rows, 1)
	assert.Equal(t, "Alice Rao", rep.Rows[0].FullName)
}

// Employee ID desconocido → ErrUserNotFound.
func TestBuild_EmpleadoDesconocido(t *testing.T) {
	uc := newUseCase(t, &memAttRepo{}, newMemUserRepo(testUsers()...), &fakePDFGenerator{})

	_, err := uc.Build(context.Background(), "11-08-2025", "EMP-999")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

// Token de fecha inválido → ErrInvalidInput.
func TestBuild_TokenInvalido(t *testing.T) {
	uc := newUseCase(t, &memAttRepo{}, newMemUserRepo(testUsers()...), &fakePDFGenerator{})

	_, err := uc.Build(context.Background(), "fecha-rara", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Rango sin registros → reporte con cero filas, no un error.
func TestBuild_RangoVacio(t *testing.T) {
	uc := newUseCase(t, &memAttRepo{}, newMemUserRepo(testUsers()...), &fakePDFGenerator{})

	rep, err := uc.Build(context.Background(), "2024", "")
	require.NoError(t, err)
	assert.NotNil(t, rep.Rows)
	assert.Empty(t, rep.Rows)
}

// BuildPDF delega en el generador y sugiere un nombre de archivo con el período.
func TestBuildPDF_NombreDeArchivo(t *testing.T) {
	attRepo := &memAttRepo{}
	userRepo := newMemUserRepo(testUsers()...)
	gen := &fakePDFGenerator{}
	uc := newUseCase(t, attRepo, userRepo, gen)
	ctx := context.Background()

	require.NoError(t, attRepo.Create(ctx, completeRecord(userAliceID, kolkata(t, 2025, time.August, 11, 9, 0))))

	data, filename, err := uc.BuildPDF(ctx, "08-2025", "EMP-001")
	require.NoError(t, err)

	assert.Equal(t, []byte("%PDF-fake"), data)
	assert.Equal(t, "attendance_08-2025.pdf", filename)
	assert.Equal(t, "08-2025", gen.lastPeriod)
	require.Len(t, gen.lastRows, 1)
}

// El separador con barras se normaliza también en el nombre del archivo.
func TestBuildPDF_SeparadorConBarras(t *testing.T) {
	gen := &fakePDFGenerator{}
	uc := newUseCase(t, &memAttRepo{}, newMemUserRepo(testUsers()...), gen)

	_, filename, err := uc.BuildPDF(context.Background(), "08/2025", "")
	require.NoError(t, err)
	assert.Equal(t, "attendance_08-2025.pdf", filename)
}
