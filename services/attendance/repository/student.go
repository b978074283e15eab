package repository

import (
	"attendance/domain"
	"context"
	"errors"

	"gorm.io/gorm"
)

type studentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(database *gorm.DB) domain.StudentRepo {
	return &studentRepository{
		db: database,
	}
}

func (sr *studentRepository) FindByDNI(ctx context.Context, dni string) (*domain.Student, error) {
	var student domain.Student
	err := sr.db.WithContext(ctx).
		Where("dni = ?", dni).
		First(&student).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrStudentNotFound
		}
		return nil, domain.NewStorageError("fetch student", err)
	}

	return &student, nil
}
