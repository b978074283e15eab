package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	// zoneinfo for images that ship without it
	_ "time/tzdata"
)

const (
	defaultStartTime      = "08:00"
	defaultToleranceTime  = "08:15"
	defaultSchoolTimezone = "America/Lima"
	defaultAPIBasePath    = "/.netlify/functions"
	defaultUseCaseTimeout = 10 * time.Second
)

// GetStartTime is the class start; check-ins at or before it are on time.
func GetStartTime() string {
	return getEnv("ATTENDANCE_START_TIME", defaultStartTime)
}

// GetToleranceTime is the last minute still counted as late.
func GetToleranceTime() string {
	return getEnv("ATTENDANCE_TOLERANCE_TIME", defaultToleranceTime)
}

func GetSchoolLocation() (*time.Location, error) {
	name := getEnv("SCHOOL_TIMEZONE", defaultSchoolTimezone)
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid SCHOOL_TIMEZONE %q: %w", name, err)
	}
	return loc, nil
}

func GetAPIBasePath() string {
	p := getEnv("API_BASE_PATH", defaultAPIBasePath)
	return "/" + strings.Trim(p, "/")
}

func GetUseCaseTimeout() time.Duration {
	v := os.Getenv("USECASE_TIMEOUT")
	if v == "" {
		return defaultUseCaseTimeout
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return defaultUseCaseTimeout
	}
	return d
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
