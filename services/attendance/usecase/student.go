package usecase

import (
	"attendance/domain"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/skip2/go-qrcode"
)

const (
	DefaultQRSize = 256
	minQRSize     = 128
	maxQRSize     = 1024
)

type studentUseCase struct {
	repo    domain.StudentRepo
	TimeOut time.Duration
}

func NewStudentUseCase(repo domain.StudentRepo, to time.Duration) domain.StudentUseCase {
	return &studentUseCase{
		repo:    repo,
		TimeOut: to,
	}
}

func (su *studentUseCase) GetStudent(ctx context.Context, dni string) (*domain.Student, error) {
	dni = strings.TrimSpace(dni)
	if dni == "" {
		return nil, domain.NewValidationError("dni", "El parámetro DNI es requerido")
	}

	ctx, cancel := context.WithTimeout(ctx, su.TimeOut)
	defer cancel()

	return su.repo.FindByDNI(ctx, dni)
}

// GetStudentQR renders the badge the scanner reads: a PNG QR code whose
// payload is the student's DNI.
func (su *studentUseCase) GetStudentQR(ctx context.Context, dni string, size int) ([]byte, error) {
	if size == 0 {
		size = DefaultQRSize
	}
	if size < minQRSize || size > maxQRSize {
		return nil, domain.NewValidationError("size", fmt.Sprintf("El tamaño debe estar entre %d y %d", minQRSize, maxQRSize))
	}

	student, err := su.GetStudent(ctx, dni)
	if err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(student.DNI, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}
