package export

import (
	"bytes"
	"encoding/csv"
)

// CSV serializa las filas exportadas como CSV con encabezado, igual que la
// descarga del cliente original.
func CSV(data []map[string]any) ([]byte, error) {
	cols := Columnas(data)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(cols); err != nil {
		return nil, err
	}
	for _, fila := range data {
		registro := make([]string, len(cols))
		for i, c := range cols {
			registro[i] = celda(fila[c])
		}
		if err := w.Write(registro); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
