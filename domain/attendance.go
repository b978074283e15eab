package domain

import (
	"context"
	"time"
)

type Status string

const (
	StatusOnTime Status = "on_time"
	StatusLate   Status = "late"
	StatusAbsent Status = "absent"
)

// Label is the Spanish wording used in guardian messages and reports.
func (s Status) Label() string {
	switch s {
	case StatusOnTime:
		return "a tiempo"
	case StatusLate:
		return "tarde"
	case StatusAbsent:
		return "falta"
	default:
		return string(s)
	}
}

func (s Status) Valid() bool {
	switch s {
	case StatusOnTime, StatusLate, StatusAbsent:
		return true
	}
	return false
}

// Attendance is one check-in. The (dni, fecha) pair is unique.
type Attendance struct {
	ID            int       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	DNI           string    `gorm:"column:dni;type:varchar(15);not null;uniqueIndex:idx_asistencias_dni_fecha,priority:1" json:"dni"`
	Student       *Student  `gorm:"foreignKey:DNI;references:DNI;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Fecha         string    `gorm:"column:fecha;type:varchar(10);not null;uniqueIndex:idx_asistencias_dni_fecha,priority:2;index" json:"fecha"`
	Hora          string    `gorm:"column:hora;type:varchar(5);not null" json:"hora"`
	Estado        Status    `gorm:"column:estado;type:varchar(10);not null;index" json:"estado"`
	Observaciones string    `gorm:"column:observaciones;type:text;not null;default:''" json:"observaciones"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
}

func (Attendance) TableName() string {
	return "Asistencias"
}

// AttendanceFilter narrows a report. Empty fields match everything.
type AttendanceFilter struct {
	Grade   string `json:"grade"`
	Section string `json:"section"`
	Date    string `json:"date"`
}

func (f AttendanceFilter) JoinsStudent() bool {
	return f.Grade != "" || f.Section != ""
}

// Registration is the outcome of a successful check-in.
type Registration struct {
	Attendance Attendance
	Student    Student
}

type AttendanceSummary struct {
	Fecha  string `json:"fecha"`
	OnTime int    `json:"a_tiempo"`
	Late   int    `json:"tarde"`
	Absent int    `json:"falta"`
	Total  int    `json:"total"`
}

type AttendanceRepo interface {
	ExistsForDate(ctx context.Context, dni, fecha string) (bool, error)
	// InsertIfAbsent stores rec unless (dni, fecha) already exists, in which
	// case it returns ErrDuplicateRegistration.
	InsertIfAbsent(ctx context.Context, rec *Attendance) error
	FindByDateAndStatuses(ctx context.Context, fecha string, statuses []Status) ([]Attendance, error)
	FindByFilters(ctx context.Context, filter AttendanceFilter) ([]Attendance, error)
	CountByStatus(ctx context.Context, fecha string) (map[Status]int, error)
}

type AttendanceUseCase interface {
	RegisterAttendance(ctx context.Context, dni string) (*Registration, error)
	GetLateAbsent(ctx context.Context, fecha string) ([]Attendance, error)
	GetByFilters(ctx context.Context, filter AttendanceFilter) ([]Attendance, error)
	GetSummary(ctx context.Context, fecha string) (*AttendanceSummary, error)
}
