package domain

import (
	"context"
)

// Student is maintained by the school's administrative process; this service only reads it.
type Student struct {
	DNI       string `gorm:"column:dni;primaryKey;type:varchar(15);not null" json:"dni" valid:"required~DNI is required"`
	Nombre    string `gorm:"column:nombre;type:varchar(150);not null" json:"nombre" valid:"required~Name is required"`
	Grado     string `gorm:"column:grado;type:varchar(10);index" json:"grado"`
	Seccion   string `gorm:"column:seccion;type:varchar(5);index" json:"seccion"`
	Apoderado string `gorm:"column:apoderado;type:varchar(150)" json:"apoderado"`
	Telefono  string `gorm:"column:telefono;type:varchar(20)" json:"telefono"`
}

func (Student) TableName() string {
	return "Estudiantes"
}

// StudentIdentity is the subset of a student the scanner screens render.
type StudentIdentity struct {
	Nombre  string `json:"nombre"`
	Grado   string `json:"grado"`
	Seccion string `json:"seccion"`
}

func (s Student) Identity() StudentIdentity {
	return StudentIdentity{
		Nombre:  s.Nombre,
		Grado:   s.Grado,
		Seccion: s.Seccion,
	}
}

type StudentRepo interface {
	FindByDNI(ctx context.Context, dni string) (*Student, error)
}

type StudentUseCase interface {
	GetStudent(ctx context.Context, dni string) (*Student, error)
	GetStudentQR(ctx context.Context, dni string, size int) ([]byte, error)
}
