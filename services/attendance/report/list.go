// Package report turns attendance records into the shapes staff read: the
// late/absent list with guardian messages, the PDF report and the CSV export.
package report

import (
	"attendance/domain"
	"fmt"
)

// Row is an attendance record flattened with its student's fields.
type Row struct {
	ID         int           `json:"id"`
	DNI        string        `json:"dni"`
	Fecha      string        `json:"fecha"`
	Hora       string        `json:"hora"`
	Estado     domain.Status `json:"estado"`
	Estudiante string        `json:"estudiante"`
	Grado      string        `json:"grado"`
	Seccion    string        `json:"seccion"`
	Apoderado  string        `json:"apoderado"`
	Telefono   string        `json:"telefono"`
	Mensaje    string        `json:"mensaje"`
}

func BuildList(records []domain.Attendance) []Row {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, buildRow(rec))
	}
	return rows
}

func buildRow(rec domain.Attendance) Row {
	var student domain.Student
	if rec.Student != nil {
		student = *rec.Student
	}

	return Row{
		ID:         rec.ID,
		DNI:        rec.DNI,
		Fecha:      rec.Fecha,
		Hora:       rec.Hora,
		Estado:     rec.Estado,
		Estudiante: student.Nombre,
		Grado:      student.Grado,
		Seccion:    student.Seccion,
		Apoderado:  student.Apoderado,
		Telefono:   student.Telefono,
		Mensaje:    GuardianMessage(student, rec),
	}
}

// GuardianMessage is the text staff send to the guardian. Missing fields
// leave their segment empty.
func GuardianMessage(student domain.Student, rec domain.Attendance) string {
	return fmt.Sprintf("Hola %s, le informamos que %s de %s-%s el día %s registró: %s.",
		student.Apoderado, student.Nombre, student.Grado, student.Seccion, rec.Fecha, rec.Estado.Label())
}
