// Package inmemdb keeps students and attendance in process memory. It backs
// local runs without Postgres and the use case and handler tests.
package inmemdb

import (
	"attendance/domain"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/asaskevich/govalidator"
)

// seed CSV columns: dni,nombre,grado,seccion,apoderado,telefono
const studentColumns = 6

type DB struct {
	mu         sync.RWMutex
	students   map[string]domain.Student
	attendance []domain.Attendance
	pk         int
}

func NewDB() *DB {
	return &DB{
		students: make(map[string]domain.Student),
	}
}

func (db *DB) PutStudents(students ...domain.Student) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, s := range students {
		db.students[s.DNI] = s
	}
}

// LoadStudentsCSV reads a header row followed by one student per row. Rows
// that fail validation are reported together and nothing is stored.
func (db *DB) LoadStudentsCSV(r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("failed to read CSV file: %w", err)
	}
	if len(records) == 0 {
		return 0, nil
	}

	var errList []string
	var students []domain.Student
	seen := make(map[string]int)

	// Skip the header row
	for i, row := range records[1:] {
		line := i + 2
		if len(row) < studentColumns {
			errList = append(errList, fmt.Sprintf("row %d: insufficient columns, expected %d columns", line, studentColumns))
			continue
		}

		student := domain.Student{
			DNI:       strings.TrimSpace(row[0]),
			Nombre:    strings.TrimSpace(row[1]),
			Grado:     strings.TrimSpace(row[2]),
			Seccion:   strings.ToUpper(strings.TrimSpace(row[3])),
			Apoderado: strings.TrimSpace(row[4]),
			Telefono:  strings.TrimSpace(row[5]),
		}

		if _, err := govalidator.ValidateStruct(student); err != nil {
			for field, msg := range govalidator.ErrorsByField(err) {
				errList = append(errList, fmt.Sprintf("row %d: %s: %s", line, field, msg))
			}
			continue
		}

		if prev, ok := seen[student.DNI]; ok {
			errList = append(errList, fmt.Sprintf("row %d: duplicate DNI %s (first seen on row %d)", line, student.DNI, prev))
			continue
		}
		seen[student.DNI] = line

		students = append(students, student)
	}

	if len(errList) > 0 {
		return 0, fmt.Errorf("invalid student rows: %s", strings.Join(errList, "; "))
	}

	db.PutStudents(students...)
	return len(students), nil
}

// withStudent returns a copy of rec joined with its student, if known.
// Callers hold db.mu.
func (db *DB) withStudent(rec domain.Attendance) domain.Attendance {
	rec.Student = nil
	if s, ok := db.students[rec.DNI]; ok {
		student := s
		rec.Student = &student
	}
	return rec
}
