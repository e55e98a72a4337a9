package console

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/tu-usuario/inventario-inei/internal/domain"
	"github.com/tu-usuario/inventario-inei/internal/export"
	"github.com/tu-usuario/inventario-inei/internal/gateway"
)

// registrar pide los datos del responsable y su equipo y los envía al
// backend. La validación local corta antes de tocar la red.
func (a *App) registrar(ctx context.Context) {
	if !a.puedeEscribir() {
		return
	}

	rec := domain.InventoryRecord{}
	campos := []struct {
		etiqueta string
		destino  *string
	}{
		{"Persona", &rec.Persona},
		{"DNI", &rec.DNI},
		{"Dispositivo", &rec.Dispositivo},
		{"Control patrimonial", &rec.ControlPatrimonial},
		{"Modelo", &rec.Modelo},
		{"Número de serie", &rec.NumeroSerie},
		{"IMEI", &rec.IMEI},
		{"Teléfono", &rec.Telefono},
		{"Correo personal", &rec.CorreoPersonal},
	}
	for _, campo := range campos {
		valor, ok := a.leer(campo.etiqueta + ": ")
		if !ok {
			return
		}
		*campo.destino = strings.TrimSpace(valor)
	}
	rec.FundaTablet = a.confirmar("¿Funda de tablet?")
	rec.PlanDatos = a.confirmar("¿Plan de datos?")
	rec.PowerTech = a.confirmar("¿Power Tech?")

	estado, ok := a.leer(fmt.Sprintf("Estado [%s/%s/%s/%s]: ",
		domain.EstadoBien, domain.EstadoMalEstado, domain.EstadoReparacion, domain.EstadoRobado))
	if !ok {
		return
	}
	rec.Estado = strings.TrimSpace(estado)
	if rec.Estado == "" {
		rec.Estado = domain.EstadoBien
	}

	if err := domain.ValidarRegistro(rec); err != nil {
		fmt.Fprintln(a.out, err)
		return
	}

	err := a.api.CreateItem(ctx, rec)
	switch {
	case errors.Is(err, domain.ErrPersonaRegistrada):
		fmt.Fprintln(a.out, "Persona ya registrada")
	case gateway.EsSesionExpirada(err):
		// El hook global ya limpió la sesión; el bucle principal vuelve al login.
	case err != nil:
		a.log.Error().Err(err).Str("dni", rec.DNI).Msg("registro fallido")
		fmt.Fprintln(a.out, "No se pudo registrar el responsable")
	default:
		fmt.Fprintln(a.out, "Responsable registrado exitosamente")
	}
}

// buscar pide criterios y muestra las coincidencias.
func (a *App) buscar(ctx context.Context) {
	filtro := domain.SearchFilter{}
	campos := []struct {
		etiqueta string
		destino  *string
	}{
		{"Persona", &filtro.Persona},
		{"DNI", &filtro.DNI},
		{"Dispositivo", &filtro.Dispositivo},
		{"Número de serie", &filtro.NumeroSerie},
		{"IMEI", &filtro.IMEI},
	}
	fmt.Fprintln(a.out, "Criterios de búsqueda (vacío para omitir):")
	for _, campo := range campos {
		valor, ok := a.leer(campo.etiqueta + ": ")
		if !ok {
			return
		}
		*campo.destino = strings.TrimSpace(valor)
	}
	if filtro.Vacio() {
		fmt.Fprintln(a.out, "Sin criterios; use la vista de inventario para el listado completo")
		return
	}

	registros, err := a.api.Search(ctx, filtro)
	if err != nil {
		if !gateway.EsSesionExpirada(err) {
			fmt.Fprintln(a.out, "No se pudo ejecutar la búsqueda")
		}
		return
	}
	a.imprimirRegistros(registros)
}

// inventario muestra el listado completo y ofrece eliminar o exportar.
func (a *App) inventario(ctx context.Context) {
	registros, err := a.api.List(ctx)
	if err != nil {
		if !gateway.EsSesionExpirada(err) {
			fmt.Fprintln(a.out, "No se pudo cargar el inventario")
		}
		return
	}
	a.imprimirRegistros(registros)

	comando, ok := a.leer("(eliminar <dni> | exportar csv | exportar xlsx | Enter para volver) > ")
	if !ok {
		return
	}
	partes := strings.Fields(strings.ToLower(comando))
	switch {
	case len(partes) == 0:
	case partes[0] == "eliminar" && len(partes) == 2:
		a.eliminar(ctx, partes[1])
	case partes[0] == "exportar" && len(partes) == 2:
		a.exportar(ctx, partes[1])
	default:
		fmt.Fprintln(a.out, "Opción no reconocida")
	}
}

func (a *App) eliminar(ctx context.Context, dni string) {
	if !a.puedeEscribir() {
		return
	}
	if !a.confirmar(fmt.Sprintf("¿Eliminar los registros del DNI %s?", dni)) {
		return
	}
	err := a.api.DeleteByDNI(ctx, dni)
	switch {
	case errors.Is(err, domain.ErrValidacion):
		fmt.Fprintln(a.out, err)
	case errors.Is(err, domain.ErrNotFound):
		fmt.Fprintf(a.out, "No se encontraron registros para el DNI %s\n", dni)
	case gateway.EsSesionExpirada(err):
	case err != nil:
		fmt.Fprintln(a.out, "No se pudo eliminar el registro")
	default:
		fmt.Fprintf(a.out, "Registros del DNI %s eliminados\n", dni)
	}
}

// exportar descarga los datos planos y los escribe como archivo fechado en
// el directorio actual.
func (a *App) exportar(ctx context.Context, formato string) {
	data, err := a.api.Export(ctx)
	if err != nil {
		if !gateway.EsSesionExpirada(err) {
			fmt.Fprintln(a.out, "No se pudo exportar el inventario")
		}
		return
	}

	var contenido []byte
	switch formato {
	case "csv":
		contenido, err = export.CSV(data)
	case "xlsx":
		contenido, err = export.XLSX(data)
	default:
		fmt.Fprintf(a.out, "Formato '%s' no soportado (csv, xlsx)\n", formato)
		return
	}
	if err != nil {
		a.log.Error().Err(err).Str("formato", formato).Msg("exportación fallida")
		fmt.Fprintln(a.out, "No se pudo generar el archivo")
		return
	}

	nombre := export.NombreArchivo(formato)
	if err := os.WriteFile(nombre, contenido, 0o644); err != nil {
		fmt.Fprintf(a.out, "No se pudo escribir %s: %v\n", nombre, err)
		return
	}
	fmt.Fprintf(a.out, "Exportado a %s (%d registros)\n", nombre, len(data))
}

func (a *App) imprimirRegistros(registros []domain.InventoryRecord) {
	if len(registros) == 0 {
		fmt.Fprintln(a.out, "Sin registros")
		return
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PERSONA\tDNI\tDISPOSITIVO\tMODELO\tSERIE\tESTADO")
	for _, r := range registros {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Persona, r.DNI, r.Dispositivo, r.Modelo, r.NumeroSerie, r.Estado)
	}
	w.Flush()
	fmt.Fprintf(a.out, "%d registro(s)\n", len(registros))
}

func (a *App) confirmar(pregunta string) bool {
	valor, ok := a.leer(pregunta + " [s/N]: ")
	if !ok {
		return false
	}
	valor = strings.ToLower(strings.TrimSpace(valor))
	return valor == "s" || valor == "si" || valor == "sí"
}
