package config

import (
	"net/http"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

var logrusInstance *logrus.Logger

func GetLogrusInstance() *logrus.Logger {
	if logrusInstance == nil {
		logrusInstance = logrus.New()
		logrusInstance.SetFormatter(&logrus.JSONFormatter{})
		logrusInstance.SetLevel(GetLogLevel())
	}
	return logrusInstance
}

func GetLogLevel() logrus.Level {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// PrintLogInfo records the outcome of a handler call.
func PrintLogInfo(client string, statusCode int, functionName string) {
	if client == "" {
		client = "Unknown"
	}

	entry := GetLogrusInstance().WithFields(logrus.Fields{
		"client":   client,
		"function": functionName,
		"status":   statusCode,
	})

	msg := http.StatusText(statusCode)
	switch {
	case statusCode >= fiber.StatusInternalServerError:
		entry.Error(msg)
	case statusCode >= fiber.StatusBadRequest:
		entry.Warn(msg)
	default:
		entry.Info(msg)
	}
}
