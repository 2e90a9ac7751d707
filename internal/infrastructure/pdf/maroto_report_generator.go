// Package pdf genera el reporte de asistencia en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de la app  │  Período del reporte           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Employee | Name | Date | First in | Last out | Hrs  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: fecha de generación                                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/AsutoshPati/TelegramAttendanceBot/internal/application/dto"
	appreport "github.com/AsutoshPati/TelegramAttendanceBot/internal/application/report"
)

var _ appreport.PDFGenerator = (*MarotoReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa report.PDFGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateAttendancePDF genera el PDF del reporte y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateAttendancePDF(_ context.Context, title, period string, rows []dto.ReportRow) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Attendance report "+period, true).
		WithAuthor(title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(title, period))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, r := range rows {
		m.AddRows(tableDetailRow(r))
	}
	if len(rows) == 0 {
		m.AddRows(row.New(8).Add(
			col.New(12).Add(text.New("No attendance records in this period", props.Text{
				Size: 9, Style: fontstyle.Italic, Color: colorGray, Align: align.Center, Top: 2,
			})),
		))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre de la app (izq) y período (der).
func headerRow(title, period string) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Attendance report", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Period: "+period, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 4,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	header := func(size int, label string) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorWhite, Align: align.Center, Top: 1.5,
		}))
	}
	return row.New(7).Add(
		header(2, "Employee"),
		header(4, "Name"),
		header(2, "Date"),
		header(1, "In"),
		header(1, "Out"),
		header(2, "Worked"),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func tableDetailRow(r dto.ReportRow) core.Row {
	cell := func(size int, value string, al align.Type) core.Col {
		return col.New(size).Add(text.New(value, props.Text{Size: 8, Align: al, Top: 1.5}))
	}
	return row.New(6).Add(
		cell(2, r.EmployeeID, align.Left),
		cell(4, r.FullName, align.Left),
		cell(2, r.Date, align.Center),
		cell(1, r.FirstIn, align.Center),
		cell(1, r.LastOut, align.Center),
		cell(2, r.Worked, align.Center),
	)
}

func footerRow() core.Row {
	generated := time.Now().UTC().Format("02/01/2006 15:04 UTC")
	return row.New(6).Add(
		col.New(12).Add(text.New("Generated at "+generated, props.Text{
			Size: 7, Color: colorGray, Align: align.Right, Top: 1,
		})),
	)
}
