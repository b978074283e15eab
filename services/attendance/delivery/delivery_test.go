package delivery

import (
	"attendance/config"
	"attendance/domain"
	inmemdb "attendance/services/attendance/repository/inmem"
	"attendance/services/attendance/usecase"
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const basePath = "/.netlify/functions"

var lima = time.FixedZone("PET", -5*60*60)

func newTestApp(t *testing.T, now time.Time) *fiber.App {
	t.Helper()

	db := inmemdb.NewDB()
	db.PutStudents(
		domain.Student{DNI: "12345678", Nombre: "Ana Pérez", Grado: "5", Seccion: "A", Apoderado: "Rosa Pérez", Telefono: "987654321"},
		domain.Student{DNI: "87654321", Nombre: "Luis Rojas", Grado: "5", Seccion: "B"},
	)

	clock := func() time.Time { return now }
	auc := usecase.NewAttendanceUseCase(
		inmemdb.NewAttendanceRepository(db),
		inmemdb.NewStudentRepository(db),
		usecase.DefaultSchedule(),
		lima,
		time.Second,
		usecase.WithClock(clock),
	)
	suc := usecase.NewStudentUseCase(inmemdb.NewStudentRepository(db), time.Second)
	ruc := usecase.NewReportUseCase(auc, lima, clock)

	app := fiber.New(config.GetFiberConfig())
	api := app.Group(basePath)
	NewAttendanceDelivery(api, auc, ruc)
	NewStudentDelivery(api, suc)
	NewReportDelivery(api, ruc)
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, basePath+path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decode(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestRegisterAttendanceFlow(t *testing.T) {
	app := newTestApp(t, time.Date(2024, 3, 1, 8, 10, 0, 0, lima))

	resp, raw := do(t, app, fiber.MethodPost, "/register-attendance", `{"dni":"12345678"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decode(t, raw)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "late", body["status"])
	assert.Equal(t, "2024-03-01", body["date"])
	assert.Equal(t, "08:10", body["time"])
	assert.Equal(t, map[string]any{"nombre": "Ana Pérez", "grado": "5", "seccion": "A"}, body["student"])

	resp, raw = do(t, app, fiber.MethodPost, "/register-attendance", `{"dni":"12345678"}`)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, map[string]any{
		"success": false,
		"error":   "Ya existe un registro de asistencia para este estudiante hoy.",
	}, decode(t, raw))

	resp, raw = do(t, app, fiber.MethodGet, "/get-late-absent?date=2024-03-01", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(raw, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Ana Pérez", rows[0]["estudiante"])
	assert.Equal(t, "late", rows[0]["estado"])
	assert.Equal(t, "Hola Rosa Pérez, le informamos que Ana Pérez de 5-A el día 2024-03-01 registró: tarde.", rows[0]["mensaje"])
}

func TestRegisterAttendanceErrors(t *testing.T) {
	app := newTestApp(t, time.Date(2024, 3, 1, 8, 0, 0, 0, lima))

	tests := []struct {
		name string
		body string
		code int
		msg  string
	}{
		{"missing dni", `{}`, fiber.StatusBadRequest, "El DNI es requerido."},
		{"blank dni", `{"dni":"   "}`, fiber.StatusBadRequest, "El DNI es requerido."},
		{"no body", ``, fiber.StatusBadRequest, "El DNI es requerido."},
		{"unknown student", `{"dni":"00000000"}`, fiber.StatusNotFound, "Estudiante no encontrado con ese DNI."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, raw := do(t, app, fiber.MethodPost, "/register-attendance", tt.body)
			assert.Equal(t, tt.code, resp.StatusCode)
			assert.Equal(t, map[string]any{"success": false, "error": tt.msg}, decode(t, raw))
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	app := newTestApp(t, time.Date(2024, 3, 1, 8, 0, 0, 0, lima))

	tests := []struct {
		method string
		path   string
	}{
		{fiber.MethodGet, "/register-attendance"},
		{fiber.MethodPost, "/get-student"},
		{fiber.MethodPost, "/get-late-absent"},
		{fiber.MethodGet, "/generate-report"},
		{fiber.MethodDelete, "/attendance-summary"},
	}

	for _, tt := range tests {
		t.Run(tt.method+tt.path, func(t *testing.T) {
			resp, raw := do(t, app, tt.method, tt.path, "")
			assert.Equal(t, fiber.StatusMethodNotAllowed, resp.StatusCode)
			assert.Equal(t, map[string]any{"error": "Método no permitido"}, decode(t, raw))
		})
	}
}

func TestGetStudent(t *testing.T) {
	app := newTestApp(t, time.Date(2024, 3, 1, 8, 0, 0, 0, lima))

	resp, raw := do(t, app, fiber.MethodGet, "/get-student?dni=12345678", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]any{"nombre": "Ana Pérez", "grado": "5", "seccion": "A"}, decode(t, raw))

	resp, raw = do(t, app, fiber.MethodGet, "/get-student", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, map[string]any{"error": "El parámetro DNI es requerido"}, decode(t, raw))

	resp, raw = do(t, app, fiber.MethodGet, "/get-student?dni=00000000", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, map[string]any{"error": "Estudiante no encontrado"}, decode(t, raw))
}

func TestGetStudentQR(t *testing.T) {
	app := newTestApp(t, time.Date(2024, 3, 1, 8, 0, 0, 0, lima))

	resp, raw := do(t, app, fiber.MethodGet, "/student-qr?dni=12345678&size=200", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get(fiber.HeaderContentType))
	assert.True(t, bytes.HasPrefix(raw, []byte("\x89PNG")))

	resp, _ = do(t, app, fiber.MethodGet, "/student-qr?dni=12345678&size=big", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, fiber.MethodGet, "/student-qr?dni=12345678&size=10", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, fiber.MethodGet, "/student-qr?dni=00000000", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetLateAbsentRequiresDate(t *testing.T) {
	app := newTestApp(t, time.Date(2024, 3, 1, 8, 0, 0, 0, lima))

	resp, raw := do(t, app, fiber.MethodGet, "/get-late-absent", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, map[string]any{"error": `El parámetro "date" es requerido`}, decode(t, raw))

	resp, raw = do(t, app, fiber.MethodGet, "/get-late-absent?date=2024-03-02", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestGetLateAbsentCSV(t *testing.T) {
	app := newTestApp(t, time.Date(2024, 3, 1, 9, 0, 0, 0, lima))

	resp, _ := do(t, app, fiber.MethodPost, "/register-attendance", `{"dni":"87654321"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, raw := do(t, app, fiber.MethodGet, "/get-late-absent-csv?date=2024-03-01", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/csv")
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "reporte-tardanzas-faltas-2024-03-01.csv")

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "Luis Rojas")
	assert.Contains(t, lines[1], "falta")
}

func TestGetReportAndSummary(t *testing.T) {
	app := newTestApp(t, time.Date(2024, 3, 1, 7, 55, 0, 0, lima))

	for _, dni := range []string{"12345678", "87654321"} {
		resp, _ := do(t, app, fiber.MethodPost, "/register-attendance", `{"dni":"`+dni+`"}`)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, raw := do(t, app, fiber.MethodGet, "/get-report?grade=5&section=B", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(raw, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Luis Rojas", rows[0]["estudiante"])

	resp, raw = do(t, app, fiber.MethodGet, "/attendance-summary?date=2024-03-01", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"fecha":"2024-03-01","a_tiempo":2,"tarde":0,"falta":0,"total":2}`, string(raw))

	resp, _ = do(t, app, fiber.MethodGet, "/attendance-summary?date=01/03/2024", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGenerateReport(t *testing.T) {
	app := newTestApp(t, time.Date(2024, 3, 1, 8, 20, 0, 0, lima))

	resp, raw := do(t, app, fiber.MethodPost, "/generate-report", `{"date":"2024-03-01"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]any{
		"success": false,
		"message": "No hay datos para generar el reporte con los filtros seleccionados.",
		"pdf":     nil,
	}, decode(t, raw))

	resp, _ = do(t, app, fiber.MethodPost, "/register-attendance", `{"dni":"12345678"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, raw = do(t, app, fiber.MethodPost, "/generate-report", `{"grade":"5","section":"A","date":"2024-03-01"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decode(t, raw)
	assert.Equal(t, true, body["success"])
	assert.True(t, strings.HasPrefix(body["filename"].(string), "reporte-asistencia-2024-03-01-"))

	pdf, err := base64.StdEncoding.DecodeString(body["pdf"].(string))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	resp, raw = do(t, app, fiber.MethodPost, "/generate-report", `{"date":"marzo"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, decode(t, raw)["success"])
}

func TestGenerateReportMalformedBody(t *testing.T) {
	app := newTestApp(t, time.Date(2024, 3, 1, 8, 0, 0, 0, lima))

	resp, raw := do(t, app, fiber.MethodPost, "/generate-report", `{"grade":`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, map[string]any{
		"success": false,
		"error":   "Cuerpo de la solicitud inválido",
	}, decode(t, raw))
}

func TestContentDispositionKeepsFilenameIntact(t *testing.T) {
	tests := []struct {
		disposition string
		filename    string
	}{
		{"inline", "qr-12345678.png"},
		{"inline", `qr-12"; evil=1.png`},
		{"attachment", "reporte-tardanzas-faltas-2024-03-01.csv"},
		{"attachment", "reporte ñandú.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			header := contentDisposition(tt.disposition, tt.filename)

			disposition, params, err := mime.ParseMediaType(header)
			require.NoError(t, err)
			assert.Equal(t, tt.disposition, disposition)
			assert.Equal(t, map[string]string{"filename": tt.filename}, params)
		})
	}
}

func TestGetStudentQRContentDisposition(t *testing.T) {
	app := newTestApp(t, time.Date(2024, 3, 1, 8, 0, 0, 0, lima))

	resp, _ := do(t, app, fiber.MethodGet, "/student-qr?dni=12345678", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	disposition, params, err := mime.ParseMediaType(resp.Header.Get(fiber.HeaderContentDisposition))
	require.NoError(t, err)
	assert.Equal(t, "inline", disposition)
	assert.Equal(t, "qr-12345678.png", params["filename"])
}
