package usecase

import (
	"attendance/domain"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type attendanceUseCase struct {
	attendanceRepo domain.AttendanceRepo
	studentRepo    domain.StudentRepo
	schedule       Schedule
	location       *time.Location
	now            func() time.Time
	TimeOut        time.Duration
}

type Option func(*attendanceUseCase)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(u *attendanceUseCase) {
		u.now = now
	}
}

func NewAttendanceUseCase(attendanceRepo domain.AttendanceRepo, studentRepo domain.StudentRepo, schedule Schedule, loc *time.Location, to time.Duration, opts ...Option) domain.AttendanceUseCase {
	if loc == nil {
		loc = time.UTC
	}
	u := &attendanceUseCase{
		attendanceRepo: attendanceRepo,
		studentRepo:    studentRepo,
		schedule:       schedule,
		location:       loc,
		now:            time.Now,
		TimeOut:        to,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (au *attendanceUseCase) RegisterAttendance(ctx context.Context, dni string) (*domain.Registration, error) {
	dni = strings.TrimSpace(dni)
	if dni == "" {
		return nil, domain.NewValidationError("dni", "El DNI es requerido.")
	}

	ctx, cancel := context.WithTimeout(ctx, au.TimeOut)
	defer cancel()

	// Date and time come from the same instant in the school's zone.
	now := au.now().In(au.location)
	fecha := now.Format(DateLayout)
	hora := now.Format(TimeLayout)

	exists, err := au.attendanceRepo.ExistsForDate(ctx, dni, fecha)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateRegistration
	}

	student, err := au.studentRepo.FindByDNI(ctx, dni)
	if err != nil {
		return nil, err
	}

	status, err := au.schedule.Classify(hora)
	if err != nil {
		return nil, fmt.Errorf("classify check-in %s: %w", hora, err)
	}

	rec := domain.Attendance{
		DNI:           dni,
		Fecha:         fecha,
		Hora:          hora,
		Estado:        status,
		Observaciones: "",
	}
	if err := au.attendanceRepo.InsertIfAbsent(ctx, &rec); err != nil {
		return nil, err
	}
	rec.Student = student

	return &domain.Registration{
		Attendance: rec,
		Student:    *student,
	}, nil
}

func (au *attendanceUseCase) GetLateAbsent(ctx context.Context, fecha string) ([]domain.Attendance, error) {
	if err := validateDate("date", fecha, true); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, au.TimeOut)
	defer cancel()

	return au.attendanceRepo.FindByDateAndStatuses(ctx, fecha, []domain.Status{domain.StatusLate, domain.StatusAbsent})
}

func (au *attendanceUseCase) GetByFilters(ctx context.Context, filter domain.AttendanceFilter) ([]domain.Attendance, error) {
	filter.Grade = strings.TrimSpace(filter.Grade)
	filter.Section = strings.TrimSpace(filter.Section)
	filter.Date = strings.TrimSpace(filter.Date)
	if err := validateDate("date", filter.Date, false); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, au.TimeOut)
	defer cancel()

	return au.attendanceRepo.FindByFilters(ctx, filter)
}

func (au *attendanceUseCase) GetSummary(ctx context.Context, fecha string) (*domain.AttendanceSummary, error) {
	if err := validateDate("date", fecha, true); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, au.TimeOut)
	defer cancel()

	counts, err := au.attendanceRepo.CountByStatus(ctx, fecha)
	if err != nil {
		return nil, err
	}

	summary := &domain.AttendanceSummary{
		Fecha:  fecha,
		OnTime: counts[domain.StatusOnTime],
		Late:   counts[domain.StatusLate],
		Absent: counts[domain.StatusAbsent],
	}
	summary.Total = summary.OnTime + summary.Late + summary.Absent
	return summary, nil
}

func validateDate(field, value string, required bool) error {
	if value == "" {
		if required {
			return domain.NewValidationError(field, fmt.Sprintf("El parámetro \"%s\" es requerido", field))
		}
		return nil
	}
	if !govalidator.IsTime(value, DateLayout) {
		return domain.NewValidationError(field, fmt.Sprintf("El parámetro \"%s\" debe tener el formato YYYY-MM-DD", field))
	}
	return nil
}
