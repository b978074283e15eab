package report

import (
	"attendance/domain"
	"bytes"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Layout in millimetres on an A4 portrait page.
const (
	marginLeft      = 20.0
	marginRight     = 190.0
	firstHeaderY    = 60.0
	continuationY   = 20.0
	lastRowY        = 270.0
	rowHeight       = 10.0
	headerRuleSpace = 5.0
)

type column struct {
	title string
	x     float64
	width float64
}

var columns = []column{
	{"Estudiante", 20, 58},
	{"Grado", 80, 18},
	{"Sección", 100, 28},
	{"Fecha", 130, 28},
	{"Hora", 160, 18},
	{"Estado", 180, 20},
}

// Document is a rendered PDF report.
type Document struct {
	Filename string
	Content  []byte
	Pages    int
}

func (d *Document) Base64() string {
	return base64.StdEncoding.EncodeToString(d.Content)
}

// Filename names a report after its date filter and generation instant so
// that repeated exports do not overwrite each other.
func Filename(filter domain.AttendanceFilter, generatedAt time.Time) string {
	date := filter.Date
	if date == "" {
		date = "completo"
	}
	return fmt.Sprintf("reporte-asistencia-%s-%d.pdf", date, generatedAt.UnixMilli())
}

// BuildDocument lays records out as a table. The column header is repeated
// at the top of every continuation page.
func BuildDocument(records []domain.Attendance, filter domain.AttendanceFilter, generatedAt time.Time) (*Document, error) {
	if len(records) == 0 {
		return nil, domain.ErrNoReportData
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreationDate(generatedAt)
	pdf.SetTitle("Reporte de Asistencia", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Text(marginLeft, 20, tr("Reporte de Asistencia"))

	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(marginLeft, 30, tr("Fecha del Reporte: "+orAll(filter.Date)))
	pdf.Text(marginLeft, 37, tr("Grado: "+orAll(filter.Grade)))
	pdf.Text(marginLeft, 44, tr("Sección: "+orAll(filter.Section)))
	pdf.Text(marginLeft, 51, tr("Generado: "+generatedAt.Format("02/01/2006 15:04")))

	y := drawHeader(pdf, tr, firstHeaderY)
	for _, rec := range records {
		if y > lastRowY {
			pdf.AddPage()
			y = drawHeader(pdf, tr, continuationY)
		}

		row := buildRow(rec)
		values := []string{row.Estudiante, row.Grado, row.Seccion, row.Fecha, row.Hora, row.Estado.Label()}
		for i, col := range columns {
			pdf.Text(col.x, y, fit(pdf, tr, values[i], col.width))
		}
		y += rowHeight
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	return &Document{
		Filename: Filename(filter, generatedAt),
		Content:  buf.Bytes(),
		Pages:    pdf.PageCount(),
	}, nil
}

// drawHeader prints the column titles and a rule at y and returns the y of
// the first data row.
func drawHeader(pdf *gofpdf.Fpdf, tr func(string) string, y float64) float64 {
	pdf.SetFont("Helvetica", "B", 10)
	for _, col := range columns {
		pdf.Text(col.x, y, tr(col.title))
	}
	y += headerRuleSpace
	pdf.Line(marginLeft, y, marginRight, y)
	pdf.SetFont("Helvetica", "", 10)
	return y + headerRuleSpace
}

// fit translates s for the core fonts, trimming it until it fits width.
func fit(pdf *gofpdf.Fpdf, tr func(string) string, s string, width float64) string {
	out := tr(s)
	if pdf.GetStringWidth(out) <= width {
		return out
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		out = tr(string(runes) + "...")
		if pdf.GetStringWidth(out) <= width {
			break
		}
	}
	return out
}

func orAll(v string) string {
	if v == "" {
		return "Todos"
	}
	return v
}
