package delivery

import (
	"attendance/config"
	"attendance/domain"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type studentHandler struct {
	suc domain.StudentUseCase
}

func NewStudentDelivery(router fiber.Router, uc domain.StudentUseCase) {
	handler := &studentHandler{
		suc: uc,
	}

	handle(router, fiber.MethodGet, "/get-student", handler.GetStudent)
	handle(router, fiber.MethodGet, "/student-qr", handler.GetStudentQR)
}

func (sh *studentHandler) GetStudent(c *fiber.Ctx) error {
	dni := strings.TrimSpace(c.Query("dni"))
	if dni == "" {
		config.PrintLogInfo(c.IP(), fiber.StatusBadRequest, "GetStudent")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "El parámetro DNI es requerido",
		})
	}

	student, err := sh.suc.GetStudent(c.UserContext(), dni)
	if err != nil {
		return sh.studentError(c, "GetStudent", "Error al obtener datos del estudiante: ", err)
	}

	config.PrintLogInfo(c.IP(), fiber.StatusOK, "GetStudent")
	return c.Status(fiber.StatusOK).JSON(student.Identity())
}

func (sh *studentHandler) GetStudentQR(c *fiber.Ctx) error {
	size := 0
	if raw := c.Query("size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			config.PrintLogInfo(c.IP(), fiber.StatusBadRequest, "GetStudentQR")
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "El parámetro size debe ser numérico",
			})
		}
		size = v
	}

	dni := strings.TrimSpace(c.Query("dni"))
	png, err := sh.suc.GetStudentQR(c.UserContext(), dni, size)
	if err != nil {
		return sh.studentError(c, "GetStudentQR", "Error al generar el código QR: ", err)
	}

	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderContentDisposition, contentDisposition("inline", fmt.Sprintf("qr-%s.png", dni)))

	config.PrintLogInfo(c.IP(), fiber.StatusOK, "GetStudentQR")
	return c.Status(fiber.StatusOK).Send(png)
}

func (sh *studentHandler) studentError(c *fiber.Ctx, functionName, prefix string, err error) error {
	code := statusFor(err)
	var msg string
	switch code {
	case fiber.StatusBadRequest:
		msg = validationMessage(err)
	case fiber.StatusNotFound:
		msg = "Estudiante no encontrado"
	default:
		code = fiber.StatusInternalServerError
		logFailure(c, functionName, err)
		msg = prefix + err.Error()
	}

	config.PrintLogInfo(c.IP(), code, functionName)
	return c.Status(code).JSON(fiber.Map{
		"error": msg,
	})
}
