package inmemdb

import (
	"attendance/domain"
	"context"
	"time"
)

type attendanceRepository struct {
	db *DB
}

func NewAttendanceRepository(db *DB) domain.AttendanceRepo {
	return &attendanceRepository{db: db}
}

func (repo *attendanceRepository) ExistsForDate(_ context.Context, dni, fecha string) (bool, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	return repo.exists(dni, fecha), nil
}

func (repo *attendanceRepository) exists(dni, fecha string) bool {
	for _, rec := range repo.db.attendance {
		if rec.DNI == dni && rec.Fecha == fecha {
			return true
		}
	}
	return false
}

// InsertIfAbsent checks and inserts under the write lock, standing in for
// the unique index of the SQL store.
func (repo *attendanceRepository) InsertIfAbsent(ctx context.Context, rec *domain.Attendance) error {
	if err := ctx.Err(); err != nil {
		return domain.NewStorageError("insert attendance", err)
	}

	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if repo.exists(rec.DNI, rec.Fecha) {
		return domain.ErrDuplicateRegistration
	}

	repo.db.pk++
	rec.ID = repo.db.pk
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	stored := *rec
	stored.Student = nil
	repo.db.attendance = append(repo.db.attendance, stored)
	return nil
}

func (repo *attendanceRepository) FindByDateAndStatuses(_ context.Context, fecha string, statuses []domain.Status) ([]domain.Attendance, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	wanted := make(map[domain.Status]bool, len(statuses))
	for _, s := range statuses {
		wanted[s] = true
	}

	records := []domain.Attendance{}
	for _, rec := range repo.db.attendance {
		if rec.Fecha == fecha && wanted[rec.Estado] {
			records = append(records, repo.db.withStudent(rec))
		}
	}
	return records, nil
}

func (repo *attendanceRepository) FindByFilters(_ context.Context, filter domain.AttendanceFilter) ([]domain.Attendance, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	records := []domain.Attendance{}
	for _, rec := range repo.db.attendance {
		if filter.Date != "" && rec.Fecha != filter.Date {
			continue
		}

		joined := repo.db.withStudent(rec)
		if filter.JoinsStudent() {
			if joined.Student == nil {
				continue
			}
			if filter.Grade != "" && joined.Student.Grado != filter.Grade {
				continue
			}
			if filter.Section != "" && joined.Student.Seccion != filter.Section {
				continue
			}
		}

		records = append(records, joined)
	}
	return records, nil
}

func (repo *attendanceRepository) CountByStatus(_ context.Context, fecha string) (map[domain.Status]int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	counts := make(map[domain.Status]int)
	for _, rec := range repo.db.attendance {
		if rec.Fecha == fecha {
			counts[rec.Estado]++
		}
	}
	return counts, nil
}
