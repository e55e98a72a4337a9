// Package export convierte el payload de /api/inventory/export en archivos
// descargables (CSV como el cliente original; XLSX como formato adicional).
package export

import (
	"fmt"
	"sort"
	"time"
)

// Columnas conocidas del inventario, en el orden del listado. Las claves que
// el backend agregue y no estén aquí se anexan al final en orden alfabético.
var columnasPreferidas = []string{
	"id", "persona", "dni", "dispositivo", "control_patrimonial", "modelo",
	"numero_serie", "imei", "funda_tablet", "plan_datos", "power_tech",
	"telefono", "correo_personal", "fecha_entrega", "estado",
}

// Columnas devuelve el orden de columnas para un conjunto de filas.
func Columnas(data []map[string]any) []string {
	presentes := map[string]bool{}
	for _, fila := range data {
		for k := range fila {
			presentes[k] = true
		}
	}

	var cols []string
	conocida := map[string]bool{}
	for _, c := range columnasPreferidas {
		if presentes[c] {
			cols = append(cols, c)
			conocida[c] = true
		}
	}
	var extras []string
	for k := range presentes {
		if !conocida[k] {
			extras = append(extras, k)
		}
	}
	sort.Strings(extras)
	return append(cols, extras...)
}

// NombreArchivo genera el nombre de descarga con la fecha del día, como el
// cliente original: inventario_<yyyy-mm-dd>.<ext>
func NombreArchivo(ext string) string {
	return fmt.Sprintf("inventario_%s.%s", time.Now().Format("2006-01-02"), ext)
}

func celda(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case bool:
		if x {
			return "Sí"
		}
		return "No"
	case string:
		return x
	case float64:
		// json.Unmarshal entrega números como float64; los enteros se
		// imprimen sin decimales.
		if x == float64(int64(x)) {
			return fmt.Sprintf("%d", int64(x))
		}
		return fmt.Sprintf("%g", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
