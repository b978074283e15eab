package delivery

import (
	"attendance/config"
	"attendance/domain"
	"attendance/services/attendance/report"
	"attendance/services/attendance/usecase"
	"bytes"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/gofiber/fiber/v2"
)

type attendanceHandler struct {
	auc domain.AttendanceUseCase
	ruc usecase.ReportUseCase
}

type registerAttendanceRequest struct {
	DNI string `json:"dni" valid:"required~El DNI es requerido."`
}

func NewAttendanceDelivery(router fiber.Router, auc domain.AttendanceUseCase, ruc usecase.ReportUseCase) {
	handler := &attendanceHandler{
		auc: auc,
		ruc: ruc,
	}

	handle(router, fiber.MethodPost, "/register-attendance", handler.RegisterAttendance)
	handle(router, fiber.MethodGet, "/get-late-absent", handler.GetLateAbsent)
	handle(router, fiber.MethodGet, "/get-late-absent-csv", handler.GetLateAbsentCSV)
	handle(router, fiber.MethodGet, "/get-report", handler.GetReport)
	handle(router, fiber.MethodGet, "/attendance-summary", handler.GetSummary)
}

func (ah *attendanceHandler) RegisterAttendance(c *fiber.Ctx) error {
	var req registerAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		config.PrintLogInfo(c.IP(), fiber.StatusBadRequest, "RegisterAttendance")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "El DNI es requerido.",
		})
	}

	req.DNI = strings.TrimSpace(req.DNI)
	if _, err := govalidator.ValidateStruct(&req); err != nil {
		config.PrintLogInfo(c.IP(), fiber.StatusBadRequest, "RegisterAttendance")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   validationMessage(err),
		})
	}

	reg, err := ah.auc.RegisterAttendance(c.UserContext(), req.DNI)
	if err != nil {
		code := statusFor(err)
		var msg string
		switch code {
		case fiber.StatusBadRequest:
			msg = validationMessage(err)
		case fiber.StatusNotFound:
			msg = "Estudiante no encontrado con ese DNI."
		case fiber.StatusConflict:
			msg = "Ya existe un registro de asistencia para este estudiante hoy."
		default:
			logFailure(c, "RegisterAttendance", err)
			msg = "Error al registrar asistencia: " + err.Error()
		}

		config.PrintLogInfo(c.IP(), code, "RegisterAttendance")
		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"error":   msg,
		})
	}

	config.PrintLogInfo(c.IP(), fiber.StatusOK, "RegisterAttendance")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"student": reg.Student.Identity(),
		"status":  reg.Attendance.Estado,
		"date":    reg.Attendance.Fecha,
		"time":    reg.Attendance.Hora,
	})
}

func (ah *attendanceHandler) GetLateAbsent(c *fiber.Ctx) error {
	rows, err := ah.ruc.LateAbsentRows(c.UserContext(), strings.TrimSpace(c.Query("date")))
	if err != nil {
		return ah.listError(c, "GetLateAbsent", "Error al obtener la lista de tardanzas y faltas: ", err)
	}

	config.PrintLogInfo(c.IP(), fiber.StatusOK, "GetLateAbsent")
	return c.Status(fiber.StatusOK).JSON(rows)
}

func (ah *attendanceHandler) GetLateAbsentCSV(c *fiber.Ctx) error {
	fecha := strings.TrimSpace(c.Query("date"))
	rows, err := ah.ruc.LateAbsentRows(c.UserContext(), fecha)
	if err != nil {
		return ah.listError(c, "GetLateAbsentCSV", "Error al obtener la lista de tardanzas y faltas: ", err)
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, rows); err != nil {
		return ah.listError(c, "GetLateAbsentCSV", "Error al exportar la lista de tardanzas y faltas: ", err)
	}

	c.Set(fiber.HeaderContentDisposition, contentDisposition("attachment", report.CSVFilename(fecha)))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")

	config.PrintLogInfo(c.IP(), fiber.StatusOK, "GetLateAbsentCSV")
	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}

func (ah *attendanceHandler) GetReport(c *fiber.Ctx) error {
	filter := domain.AttendanceFilter{
		Grade:   c.Query("grade"),
		Section: c.Query("section"),
		Date:    c.Query("date"),
	}

	rows, err := ah.ruc.FilteredRows(c.UserContext(), filter)
	if err != nil {
		return ah.listError(c, "GetReport", "Error al obtener el reporte: ", err)
	}

	config.PrintLogInfo(c.IP(), fiber.StatusOK, "GetReport")
	return c.Status(fiber.StatusOK).JSON(rows)
}

func (ah *attendanceHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := ah.auc.GetSummary(c.UserContext(), strings.TrimSpace(c.Query("date")))
	if err != nil {
		return ah.listError(c, "GetSummary", "Error al obtener el resumen de asistencia: ", err)
	}

	config.PrintLogInfo(c.IP(), fiber.StatusOK, "GetSummary")
	return c.Status(fiber.StatusOK).JSON(summary)
}

// listError renders the plain {error} envelope of the read endpoints.
func (ah *attendanceHandler) listError(c *fiber.Ctx, functionName, prefix string, err error) error {
	code := statusFor(err)
	msg := validationMessage(err)
	if code == fiber.StatusInternalServerError {
		logFailure(c, functionName, err)
		msg = prefix + err.Error()
	}

	config.PrintLogInfo(c.IP(), code, functionName)
	return c.Status(code).JSON(fiber.Map{
		"error": msg,
	})
}
