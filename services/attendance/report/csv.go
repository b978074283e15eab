package report

import (
	"encoding/csv"
	"fmt"
	"io"
)

var csvHeader = []string{"Estudiante", "DNI", "Grado", "Sección", "Fecha", "Hora", "Estado", "Apoderado", "Teléfono"}

func CSVFilename(fecha string) string {
	return fmt.Sprintf("reporte-tardanzas-faltas-%s.csv", fecha)
}

func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.Estudiante, r.DNI, r.Grado, r.Seccion, r.Fecha, r.Hora, r.Estado.Label(), r.Apoderado, r.Telefono}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
