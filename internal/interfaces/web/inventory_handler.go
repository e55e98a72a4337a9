package web

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/inventario-inei/internal/domain"
	"github.com/tu-usuario/inventario-inei/internal/export"
)

// Inventory renderiza el listado completo o, si hay criterios en la query,
// el resultado de la búsqueda.
func (h *Handlers) Inventory(c *fiber.Ctx) error {
	st := h.store(c)
	api, err := h.api(c, st)
	if err != nil {
		return err
	}

	filtro := domain.SearchFilter{
		Persona:            c.Query("persona"),
		DNI:                c.Query("dni"),
		Dispositivo:        c.Query("dispositivo"),
		ControlPatrimonial: c.Query("control_patrimonial"),
		Modelo:             c.Query("modelo"),
		NumeroSerie:        c.Query("numero_serie"),
		IMEI:               c.Query("imei"),
		Telefono:           c.Query("telefono"),
		CorreoPersonal:     c.Query("correo_personal"),
	}

	var (
		registros []domain.InventoryRecord
		busqueda  bool
	)
	if filtro.Vacio() {
		registros, err = api.List(c.Context())
	} else {
		busqueda = true
		registros, err = api.Search(c.Context(), filtro)
	}
	if resp, expirada := redirigirSiExpirada(c, err); expirada {
		return resp
	}
	if err != nil {
		h.log.Error().Err(err).Msg("no se pudo cargar el inventario")
		PonerFlash(c, "error", "No se pudo cargar el inventario")
	}

	return h.render(c, "inventory", fiber.Map{
		"Registros": registros,
		"Filtro":    filtro,
		"Busqueda":  busqueda,
		"Estados": []string{
			domain.EstadoBien, domain.EstadoMalEstado,
			domain.EstadoReparacion, domain.EstadoRobado,
		},
	})
}

// Registrar procesa el alta de un responsable con su equipo. La validación
// local corre antes de tocar la red; un DNI duplicado en el backend se
// traduce al aviso específico.
func (h *Handlers) Registrar(c *fiber.Ctx) error {
	rec := domain.InventoryRecord{
		Persona:            c.FormValue("persona"),
		DNI:                c.FormValue("dni"),
		Dispositivo:        c.FormValue("dispositivo"),
		ControlPatrimonial: c.FormValue("control_patrimonial"),
		Modelo:             c.FormValue("modelo"),
		NumeroSerie:        c.FormValue("numero_serie"),
		IMEI:               c.FormValue("imei"),
		FundaTablet:        c.FormValue("funda_tablet") != "",
		PlanDatos:          c.FormValue("plan_datos") != "",
		PowerTech:          c.FormValue("power_tech") != "",
		Telefono:           c.FormValue("telefono"),
		CorreoPersonal:     c.FormValue("correo_personal"),
		Estado:             c.FormValue("estado"),
	}
	if fecha := c.FormValue("fecha_entrega"); fecha != "" {
		if t, err := time.Parse("2006-01-02", fecha); err == nil {
			rec.FechaEntrega = t
		}
	}

	if err := domain.ValidarRegistro(rec); err != nil {
		PonerFlash(c, "error", err.Error())
		return c.Redirect("/inventory", fiber.StatusSeeOther)
	}

	st := h.store(c)
	api, err := h.api(c, st)
	if err != nil {
		return err
	}

	err = api.CreateItem(c.Context(), rec)
	if resp, expirada := redirigirSiExpirada(c, err); expirada {
		return resp
	}
	switch {
	case errors.Is(err, domain.ErrPersonaRegistrada):
		PonerFlash(c, "error", "Persona ya registrada")
	case err != nil:
		h.log.Error().Err(err).Str("dni", rec.DNI).Msg("registro fallido")
		PonerFlash(c, "error", "No se pudo registrar el responsable")
	default:
		h.log.Info().Str("dni", rec.DNI).Str("persona", rec.Persona).Msg("responsable registrado")
		PonerFlash(c, "success", "Responsable registrado exitosamente")
	}
	return c.Redirect("/inventory", fiber.StatusSeeOther)
}

// Eliminar borra todos los registros de un DNI.
func (h *Handlers) Eliminar(c *fiber.Ctx) error {
	dni := c.Params("dni")

	st := h.store(c)
	api, err := h.api(c, st)
	if err != nil {
		return err
	}

	err = api.DeleteByDNI(c.Context(), dni)
	if resp, expirada := redirigirSiExpirada(c, err); expirada {
		return resp
	}
	switch {
	case errors.Is(err, domain.ErrValidacion):
		PonerFlash(c, "error", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		PonerFlash(c, "error", "No se encontraron registros para el DNI "+dni)
	case err != nil:
		h.log.Error().Err(err).Str("dni", dni).Msg("eliminación fallida")
		PonerFlash(c, "error", "No se pudo eliminar el registro")
	default:
		PonerFlash(c, "success", "Registros del DNI "+dni+" eliminados")
	}
	return c.Redirect("/inventory", fiber.StatusSeeOther)
}

// EliminarTodo vacía el inventario completo. Solo admin llega hasta aquí.
func (h *Handlers) EliminarTodo(c *fiber.Ctx) error {
	st := h.store(c)
	api, err := h.api(c, st)
	if err != nil {
		return err
	}

	err = api.DeleteAll(c.Context())
	if resp, expirada := redirigirSiExpirada(c, err); expirada {
		return resp
	}
	if err != nil {
		h.log.Error().Err(err).Msg("vaciado del inventario fallido")
		PonerFlash(c, "error", "No se pudo vaciar el inventario")
	} else {
		h.log.Warn().Msg("inventario vaciado por completo")
		PonerFlash(c, "success", "Inventario vaciado por completo")
	}
	return c.Redirect("/inventory", fiber.StatusSeeOther)
}

// ExportCSV descarga el inventario como CSV.
func (h *Handlers) ExportCSV(c *fiber.Ctx) error {
	return h.exportar(c, "csv", "text/csv; charset=utf-8", export.CSV)
}

// ExportXLSX descarga el inventario como libro de Excel.
func (h *Handlers) ExportXLSX(c *fiber.Ctx) error {
	const mime = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	return h.exportar(c, "xlsx", mime, export.XLSX)
}

func (h *Handlers) exportar(c *fiber.Ctx, ext, mime string, render func([]map[string]any) ([]byte, error)) error {
	st := h.store(c)
	api, err := h.api(c, st)
	if err != nil {
		return err
	}

	data, err := api.Export(c.Context())
	if resp, expirada := redirigirSiExpirada(c, err); expirada {
		return resp
	}
	if err != nil {
		h.log.Error().Err(err).Str("formato", ext).Msg("exportación fallida")
		PonerFlash(c, "error", "No se pudo exportar el inventario")
		return c.Redirect("/inventory", fiber.StatusSeeOther)
	}

	archivo, err := render(data)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, mime)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+export.NombreArchivo(ext)+`"`)
	return c.Send(archivo)
}
