package usecase

import (
	"attendance/domain"
	"fmt"
	"strconv"
	"strings"

	"github.com/asaskevich/govalidator"
)

// Schedule holds the two cutoffs of the school day as HH:mm.
type Schedule struct {
	Start     string
	Tolerance string
}

func DefaultSchedule() Schedule {
	return Schedule{Start: "08:00", Tolerance: "08:15"}
}

// Validate checks both cutoffs parse and that Start comes before Tolerance.
func (s Schedule) Validate() error {
	start, err := MinuteOfDay(s.Start)
	if err != nil {
		return fmt.Errorf("start time: %w", err)
	}
	tolerance, err := MinuteOfDay(s.Tolerance)
	if err != nil {
		return fmt.Errorf("tolerance time: %w", err)
	}
	if start >= tolerance {
		return fmt.Errorf("start time %s must be before tolerance time %s", s.Start, s.Tolerance)
	}
	return nil
}

func (s Schedule) Classify(checkIn string) (domain.Status, error) {
	return Classify(checkIn, s.Start, s.Tolerance)
}

// Classify maps a check-in time to a status:
// up to start is on time, up to tolerance is late, anything after is absent.
func Classify(checkIn, start, tolerance string) (domain.Status, error) {
	current, err := MinuteOfDay(checkIn)
	if err != nil {
		return "", err
	}
	startMin, err := MinuteOfDay(start)
	if err != nil {
		return "", err
	}
	toleranceMin, err := MinuteOfDay(tolerance)
	if err != nil {
		return "", err
	}

	switch {
	case current <= startMin:
		return domain.StatusOnTime, nil
	case current <= toleranceMin:
		return domain.StatusLate, nil
	default:
		return domain.StatusAbsent, nil
	}
}

// MinuteOfDay converts HH:mm into hour*60+minute.
func MinuteOfDay(hhmm string) (int, error) {
	parts := strings.Split(hhmm, ":")
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[0]) > 2 || len(parts[1]) != 2 ||
		!govalidator.IsNumeric(parts[0]) || !govalidator.IsNumeric(parts[1]) {
		return 0, fmt.Errorf("invalid time %q, expected HH:mm", hhmm)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", hhmm)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", hhmm)
	}

	return hour*60 + minute, nil
}
