package delivery

import (
	"attendance/config"
	"attendance/domain"
	"attendance/services/attendance/usecase"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type reportHandler struct {
	ruc usecase.ReportUseCase
}

type generateReportRequest struct {
	Grade   string `json:"grade"`
	Section string `json:"section"`
	Date    string `json:"date"`
}

func NewReportDelivery(router fiber.Router, ruc usecase.ReportUseCase) {
	handler := &reportHandler{
		ruc: ruc,
	}

	handle(router, fiber.MethodPost, "/generate-report", handler.GenerateReport)
}

func (rh *reportHandler) GenerateReport(c *fiber.Ctx) error {
	var req generateReportRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			config.PrintLogInfo(c.IP(), fiber.StatusBadRequest, "GenerateReport")
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "Cuerpo de la solicitud inválido",
			})
		}
	}

	filter := domain.AttendanceFilter{
		Grade:   strings.TrimSpace(req.Grade),
		Section: strings.TrimSpace(req.Section),
		Date:    strings.TrimSpace(req.Date),
	}

	doc, err := rh.ruc.GenerateReport(c.UserContext(), filter)
	if err != nil {
		if errors.Is(err, domain.ErrNoReportData) {
			config.PrintLogInfo(c.IP(), fiber.StatusOK, "GenerateReport")
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"success": false,
				"message": "No hay datos para generar el reporte con los filtros seleccionados.",
				"pdf":     nil,
			})
		}

		code := statusFor(err)
		msg := validationMessage(err)
		if code != fiber.StatusBadRequest {
			code = fiber.StatusInternalServerError
			logFailure(c, "GenerateReport", err)
			msg = "Error al generar el reporte: " + err.Error()
		}

		config.PrintLogInfo(c.IP(), code, "GenerateReport")
		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"error":   msg,
		})
	}

	config.PrintLogInfo(c.IP(), fiber.StatusOK, "GenerateReport")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":  true,
		"pdf":      doc.Base64(),
		"filename": doc.Filename,
	})
}
