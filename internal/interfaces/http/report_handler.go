package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/AsutoshPati/TelegramAttendanceBot/internal/application/dto"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/application/report"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/domain"
)

// ReportHandler expone el reporte de asistencia por la API administrativa.
type ReportHandler struct {
	uc *report.ReportUseCase
}

// NewReportHandler construye el handler de reportes.
func NewReportHandler(uc *report.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Attendance godoc
// @Summary      Reporte de asistencia
// @Description  date acepta DD-MM-YYYY (día), MM-YYYY (mes) o YYYY (año).
// @Tags         reports
// @Produce      json
// @Param        date         query  string  true   "período del reporte"
// @Param        employee_id  query  string  false  "filtrar por empleado"
// @Param        format       query  string  false  "json (default) o pdf"
// @Success      200  {object}  dto.AttendanceReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/attendance [get]
func (h *ReportHandler) Attendance(c *fiber.Ctx) error {
	dateToken := c.Query("date")
	if dateToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "el parámetro date es requerido"})
	}
	employeeID := c.Query("employee_id")

	if c.Query("format") == "pdf" {
		data, filename, err := h.uc.BuildPDF(c.Context(), dateToken, employeeID)
		if err != nil {
			return h.reportError(c, err)
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
		return c.Send(data)
	}

	out, err := h.uc.Build(c.Context(), dateToken, employeeID)
	if err != nil {
		return h.reportError(c, err)
	}
	return c.JSON(out)
}

func (h *ReportHandler) reportError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "usuario no encontrado"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
