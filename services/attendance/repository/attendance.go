package repository

import (
	"attendance/domain"
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQLSTATE unique_violation
const uniqueViolationCode = "23505"

type attendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(database *gorm.DB) domain.AttendanceRepo {
	return &attendanceRepository{
		db: database,
	}
}

func (ar *attendanceRepository) ExistsForDate(ctx context.Context, dni, fecha string) (bool, error) {
	var count int64
	err := ar.db.WithContext(ctx).
		Model(&domain.Attendance{}).
		Where("dni = ? AND fecha = ?", dni, fecha).
		Count(&count).Error
	if err != nil {
		return false, domain.NewStorageError("check existing attendance", err)
	}
	return count > 0, nil
}

// InsertIfAbsent relies on the (dni, fecha) unique index, so two concurrent
// check-ins for the same student and day cannot both be stored.
func (ar *attendanceRepository) InsertIfAbsent(ctx context.Context, rec *domain.Attendance) error {
	res := ar.db.WithContext(ctx).
		Omit("Student").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dni"}, {Name: "fecha"}},
			DoNothing: true,
		}).
		Create(rec)

	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return domain.ErrDuplicateRegistration
		}
		return domain.NewStorageError("insert attendance", res.Error)
	}

	if res.RowsAffected == 0 {
		return domain.ErrDuplicateRegistration
	}

	return nil
}

func (ar *attendanceRepository) FindByDateAndStatuses(ctx context.Context, fecha string, statuses []domain.Status) ([]domain.Attendance, error) {
	records := []domain.Attendance{}
	if len(statuses) == 0 {
		return records, nil
	}

	err := ar.db.WithContext(ctx).
		Preload("Student").
		Where("fecha = ? AND estado IN ?", fecha, statuses).
		Order("id").
		Find(&records).Error
	if err != nil {
		return nil, domain.NewStorageError("fetch attendance by status", err)
	}

	return records, nil
}

func (ar *attendanceRepository) FindByFilters(ctx context.Context, filter domain.AttendanceFilter) ([]domain.Attendance, error) {
	records := []domain.Attendance{}

	query := ar.db.WithContext(ctx).Model(&domain.Attendance{})

	// Grade and section live on the student, so filtering on them drops
	// records whose student is missing.
	if filter.JoinsStudent() {
		query = query.InnerJoins("Student")
		if filter.Grade != "" {
			query = query.Where(`"Student"."grado" = ?`, filter.Grade)
		}
		if filter.Section != "" {
			query = query.Where(`"Student"."seccion" = ?`, filter.Section)
		}
	} else {
		query = query.Preload("Student")
	}

	if filter.Date != "" {
		query = query.Where(`"Asistencias"."fecha" = ?`, filter.Date)
	}

	if err := query.Order(`"Asistencias"."id"`).Find(&records).Error; err != nil {
		return nil, domain.NewStorageError("fetch attendance by filters", err)
	}

	return records, nil
}

func (ar *attendanceRepository) CountByStatus(ctx context.Context, fecha string) (map[domain.Status]int, error) {
	var rows []struct {
		Estado domain.Status
		Total  int
	}

	err := ar.db.WithContext(ctx).
		Model(&domain.Attendance{}).
		Select("estado, count(*) AS total").
		Where("fecha = ?", fecha).
		Group("estado").
		Find(&rows).Error
	if err != nil {
		return nil, domain.NewStorageError("count attendance", err)
	}

	counts := make(map[domain.Status]int, len(rows))
	for _, row := range rows {
		counts[row.Estado] = row.Total
	}
	return counts, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
