package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
)

func GetFiberListenAddress() string {
	return fmt.Sprintf("%s:%s", GetFiberHttpHost(), GetFiberHttpPort())
}

func GetFiberConfig() fiber.Config {
	return fiber.Config{
		DisableStartupMessage: false,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		Prefork:               false,
		ServerHeader:          GetAppName(),
		AppName:               GetAppName(),
		ReadTimeout:           time.Second * 60,
		CaseSensitive:         true,
		ErrorHandler:          jsonErrorHandler,
	}
}

// jsonErrorHandler keeps errors escaping a handler in the {error} envelope
// the front end reads.
func jsonErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	if code >= fiber.StatusInternalServerError {
		GetLogrusInstance().WithError(err).Errorf("%s %s", c.Method(), c.Path())
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func GetAppName() string {
	v := os.Getenv("APP_NAME")
	if v == "" {
		return "ASISTENCIA"
	}

	return v
}

func GetFiberHttpHost() string {
	env := os.Getenv("HTTP_HOST")
	if env != "" {
		return env
	}
	return "0.0.0.0"
}

func GetFiberHttpPort() string {
	env := os.Getenv("HTTP_PORT")
	if env != "" {
		return env
	}
	return "8000"
}

func GetCORSAllowOrigins() string {
	env := os.Getenv("CORS_ALLOW_ORIGINS")
	if env != "" {
		return env
	}
	return "*"
}
