package inmemdb

import (
	"attendance/domain"
	"context"
)

type studentRepository struct {
	db *DB
}

func NewStudentRepository(db *DB) domain.StudentRepo {
	return &studentRepository{db: db}
}

func (repo *studentRepository) FindByDNI(_ context.Context, dni string) (*domain.Student, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if s, ok := repo.db.students[dni]; ok {
		return &s, nil
	}
	return nil, domain.ErrStudentNotFound
}
