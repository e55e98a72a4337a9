package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSX serializa las filas exportadas como libro de Excel con una hoja
// "Inventario" y encabezado en negrita.
func XLSX(data []map[string]any) ([]byte, error) {
	cols := Columnas(data)

	f := excelize.NewFile()
	defer f.Close()

	const hoja = "Inventario"
	f.SetSheetName("Sheet1", hoja)

	for i, c := range cols {
		ref, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(hoja, ref, c); err != nil {
			return nil, err
		}
	}

	estilo, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil && len(cols) > 0 {
		fin, _ := excelize.CoordinatesToCellName(len(cols), 1)
		_ = f.SetCellStyle(hoja, "A1", fin, estilo)
	}

	for r, fila := range data {
		for i, c := range cols {
			ref, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(hoja, ref, celda(fila[c])); err != nil {
				return nil, fmt.Errorf("export: fila %d columna %s: %w", r+1, c, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
