package export_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tu-usuario/inventario-inei/internal/export"
)

func filasDePrueba() []map[string]any {
	return []map[string]any{
		{
			"persona": "Ana Quispe", "dni": "12345678", "dispositivo": "Tablet",
			"funda_tablet": true, "plan_datos": false, "valor_estimado": float64(1200),
		},
		{
			"persona": "Luis Mamani", "dni": "87654321", "dispositivo": "Celular",
			"funda_tablet": false, "plan_datos": true, "valor_estimado": 950.5,
		},
	}
}

func TestColumnas_OrdenDelListadoYExtrasAlFinal(t *testing.T) {
	cols := export.Columnas(filasDePrueba())
	assert.Equal(t, []string{"persona", "dni", "dispositivo", "funda_tablet", "plan_datos", "valor_estimado"}, cols)
}

func TestCSV_EncabezadoYValores(t *testing.T) {
	data, err := export.CSV(filasDePrueba())
	require.NoError(t, err)

	registros, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, registros, 3, "encabezado + 2 filas")

	assert.Equal(t, []string{"persona", "dni", "dispositivo", "funda_tablet", "plan_datos", "valor_estimado"}, registros[0])
	assert.Equal(t, []string{"Ana Quispe", "12345678", "Tablet", "Sí", "No", "1200"}, registros[1])
	assert.Equal(t, []string{"Luis Mamani", "87654321", "Celular", "No", "Sí", "950.5"}, registros[2])
}

func TestCSV_SinFilas_SoloEncabezadoVacio(t *testing.T) {
	data, err := export.CSV(nil)
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(string(data)))
}

func TestXLSX_MismoContenidoQueElCSV(t *testing.T) {
	data, err := export.XLSX(filasDePrueba())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	filas, err := f.GetRows("Inventario")
	require.NoError(t, err)
	require.Len(t, filas, 3)
	assert.Equal(t, "persona", filas[0][0])
	assert.Equal(t, "Ana Quispe", filas[1][0])
	assert.Equal(t, "Sí", filas[1][3])
}

func TestNombreArchivo_IncluyeFecha(t *testing.T) {
	nombre := export.NombreArchivo("csv")
	assert.Regexp(t, `^inventario_\d{4}-\d{2}-\d{2}\.csv$`, nombre)
}
