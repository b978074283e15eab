package usecase

import (
	"attendance/domain"
	"attendance/services/attendance/report"
	"context"
	"time"
)

// ReportUseCase shapes ledger reads into report rows and documents.
type ReportUseCase interface {
	LateAbsentRows(ctx context.Context, fecha string) ([]report.Row, error)
	FilteredRows(ctx context.Context, filter domain.AttendanceFilter) ([]report.Row, error)
	GenerateReport(ctx context.Context, filter domain.AttendanceFilter) (*report.Document, error)
}

type reportUseCase struct {
	attendance domain.AttendanceUseCase
	location   *time.Location
	now        func() time.Time
}

func NewReportUseCase(auc domain.AttendanceUseCase, loc *time.Location, now func() time.Time) ReportUseCase {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &reportUseCase{
		attendance: auc,
		location:   loc,
		now:        now,
	}
}

func (ru *reportUseCase) LateAbsentRows(ctx context.Context, fecha string) ([]report.Row, error) {
	records, err := ru.attendance.GetLateAbsent(ctx, fecha)
	if err != nil {
		return nil, err
	}
	return report.BuildList(records), nil
}

func (ru *reportUseCase) FilteredRows(ctx context.Context, filter domain.AttendanceFilter) ([]report.Row, error) {
	records, err := ru.attendance.GetByFilters(ctx, filter)
	if err != nil {
		return nil, err
	}
	return report.BuildList(records), nil
}

// GenerateReport returns domain.ErrNoReportData when nothing matches.
func (ru *reportUseCase) GenerateReport(ctx context.Context, filter domain.AttendanceFilter) (*report.Document, error) {
	records, err := ru.attendance.GetByFilters(ctx, filter)
	if err != nil {
		return nil, err
	}
	return report.BuildDocument(records, filter, ru.now().In(ru.location))
}
