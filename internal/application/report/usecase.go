// Package report arma los reportes de asistencia a partir de los registros
// completos de un rango de fechas. El formato en texto lo consumen la API y
// el comando /download del bot; el PDF lo produce el generador inyectado.
package report

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/AsutoshPati/TelegramAttendanceBot/internal/application/dto"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/domain"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/domain/entity"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/domain/repository"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/domain/schedule"
)

// PDFGenerator puerto de render; lo implementa infrastructure/pdf con Maroto.
type PDFGenerator interface {
	GenerateAttendancePDF(ctx context.Context, title, period string, rows []dto.ReportRow) ([]byte, error)
}

// ReportUseCase consulta y formatea asistencias.
type ReportUseCase struct {
	attRepo   repository.AttendanceRepository
	userRepo  repository.UserRepository
	resolver  *schedule.Resolver
	generator PDFGenerator
	appName   string
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(attRepo repository.AttendanceRepository, userRepo repository.UserRepository, resolver *schedule.Resolver, generator PDFGenerator, appName string) *ReportUseCase {
	return &ReportUseCase{attRepo: attRepo, userRepo: userRepo, resolver: resolver, generator: generator, appName: appName}
}

// Build arma el reporte del rango indicado por el token de fecha (día, mes o
// año). employeeID vacío = todos los usuarios (solo la API de HR lo usa así).
// Un rango sin registros devuelve un reporte con cero filas, no un error.
func (uc *ReportUseCase) Build(ctx context.Context, dateToken, employeeID string) (*dto.AttendanceReportResponse, error) {
	start, end, err := uc.resolver.ParseRange(dateToken)
	if err != nil {
		return nil, err
	}

	userID := ""
	if employeeID != "" {
		// Los desactivados conservan su historial, así que el lookup va sin filtro.
		user, err := uc.userRepo.GetByEmployeeID(ctx, employeeID, false)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, domain.ErrUserNotFound
		}
		userID = user.ID
	}

	records, err := uc.attRepo.Query(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("consultar asistencias: %w", err)
	}

	rows, err := uc.buildRows(ctx, records)
	if err != nil {
		return nil, err
	}
	return &dto.AttendanceReportResponse{
		Period: strings.TrimSpace(dateToken),
		Rows:   rows,
	}, nil
}

// BuildPDF arma el reporte y lo renderiza. Devuelve los bytes del PDF y un
// nombre de archivo sugerido.
func (uc *ReportUseCase) BuildPDF(ctx context.Context, dateToken, employeeID string) ([]byte, string, error) {
	rep, err := uc.Build(ctx, dateToken, employeeID)
	if err != nil {
		return nil, "", err
	}
	data, err := uc.generator.GenerateAttendancePDF(ctx, uc.appName, rep.Period, rep.Rows)
	if err != nil {
		return nil, "", fmt.Errorf("generar PDF: %w", err)
	}
	token := strings.NewReplacer("/", "-", " ", "_").Replace(rep.Period)
	return data, fmt.Sprintf("attendance_%s.pdf", token), nil
}

// dayKey agrupa registros por usuario y día local.
type dayKey struct {
	userID string
	date   string // DD/MM/AAAA en la zona de presentación
}

// buildRows colapsa los registros completos en una fila por usuario y día:
// el primer emparejamiento del día es la entrada, el último la salida y la
// diferencia son las horas trabajadas (00:00 si solo hubo uno).
func (uc *ReportUseCase) buildRows(ctx context.Context, records []*entity.Attendance) ([]dto.ReportRow, error) {
	type span struct {
		first time.Time
		last  time.Time
	}
	spans := make(map[dayKey]*span)
	loc := uc.resolver.Location()

	for _, rec := range records {
		if !rec.IsComplete() {
			continue
		}
		at := pairInstant(rec).In(loc)
		key := dayKey{userID: rec.UserID, date: at.Format("02/01/2006")}
		s, ok := spans[key]
		if !ok {
			spans[key] = &span{first: at, last: at}
			continue
		}
		if at.Before(s.first) {
			s.first = at
		}
		if at.After(s.last) {
			s.last = at
		}
	}

	// Nombres de usuario: un lookup por usuario distinto, desactivados incluidos.
	names := make(map[string]*entity.User)
	for key := range spans {
		if _, ok := names[key.userID]; ok {
			continue
		}
		user, err := uc.userRepo.GetByID(ctx, key.userID, false)
		if err != nil {
			return nil, err
		}
		names[key.userID] = user
	}

	rows := make([]dto.ReportRow, 0, len(spans))
	for key, s := range spans {
		empID, fullName := key.userID, ""
		if u := names[key.userID]; u != nil {
			empID, fullName = u.EmployeeID, u.FullName
		}
		rows = append(rows, dto.ReportRow{
			EmployeeID: empID,
			FullName:   fullName,
			Date:       key.date,
			FirstIn:    s.first.Format("15:04"),
			LastOut:    s.last.Format("15:04"),
			Worked:     formatHoursMinutes(s.last.Sub(s.first)),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].EmployeeID != rows[j].EmployeeID {
			return rows[i].EmployeeID < rows[j].EmployeeID
		}
		return parseRowDate(rows[i].Date, loc).Before(parseRowDate(rows[j].Date, loc))
	})
	return rows, nil
}

// pairInstant es el instante en que inició el emparejamiento: la más temprana
// de las dos mitades.
func pairInstant(rec *entity.Attendance) time.Time {
	s, l := rec.SelfieTime.UTC(), rec.LocationTime.UTC()
	if s.Before(l) {
		return s
	}
	return l
}

// formatHoursMinutes formatea una duración como HH:MM con cero a la izquierda.
func formatHoursMinutes(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	total := int(d.Minutes())
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func parseRowDate(s string, loc *time.Location) time.Time {
	t, _ := time.ParseInLocation("02/01/2006", s, loc)
	return t
}
