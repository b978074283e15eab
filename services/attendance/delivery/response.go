package delivery

import (
	"attendance/config"
	"attendance/domain"
	"errors"
	"mime"

	"github.com/asaskevich/govalidator"
	"github.com/gofiber/fiber/v2"
)

const msgMethodNotAllowed = "Método no permitido"

// handle registers h for method on path and answers every other method
// with 405.
func handle(router fiber.Router, method, path string, h fiber.Handler) {
	router.Add(method, path, h)
	router.All(path, methodNotAllowed)
}

func methodNotAllowed(c *fiber.Ctx) error {
	config.PrintLogInfo(c.IP(), fiber.StatusMethodNotAllowed, c.Path())
	return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{
		"error": msgMethodNotAllowed,
	})
}

// contentDisposition quotes filename so header metacharacters stay inside it.
func contentDisposition(disposition, filename string) string {
	v := mime.FormatMediaType(disposition, map[string]string{"filename": filename})
	if v == "" {
		return disposition
	}
	return v
}

func statusFor(err error) int {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrStudentNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateRegistration):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// validationMessage returns the first custom govalidator message.
func validationMessage(err error) string {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	for _, msg := range govalidator.ErrorsByField(err) {
		return msg
	}
	return err.Error()
}

func logFailure(c *fiber.Ctx, functionName string, err error) {
	config.GetLogrusInstance().
		WithError(err).
		WithField("function", functionName).
		WithField("path", c.Path()).
		Error("request failed")
}
