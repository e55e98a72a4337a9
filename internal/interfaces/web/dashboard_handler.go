package web

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/inventario-inei/internal/export"
)

// Dashboard renderiza los agregados del sistema. Las alertas son
// complementarias: si fallan se renderiza igual, solo sin ellas.
func (h *Handlers) Dashboard(c *fiber.Ctx) error {
	st := h.store(c)
	api, err := h.api(c, st)
	if err != nil {
		return err
	}

	stats, err := api.Stats(c.Context())
	if resp, expirada := redirigirSiExpirada(c, err); expirada {
		return resp
	}
	if err != nil {
		h.log.Error().Err(err).Msg("no se pudieron cargar las estadísticas")
		PonerFlash(c, "error", "No se pudieron cargar las estadísticas")
		return h.render(c, "dashboard", fiber.Map{"Refresco": h.cfg.API.RefreshSeconds})
	}

	alerts, err := api.Alerts(c.Context())
	if resp, expirada := redirigirSiExpirada(c, err); expirada {
		return resp
	}
	if err != nil {
		h.log.Warn().Err(err).Msg("alertas no disponibles")
	}

	return h.render(c, "dashboard", fiber.Map{
		"Stats":    stats,
		"Alertas":  alerts,
		"Refresco": h.cfg.API.RefreshSeconds,
	})
}

// ReportePDF descarga el reporte de inventario generado por el backend.
func (h *Handlers) ReportePDF(c *fiber.Ctx) error {
	st := h.store(c)
	api, err := h.api(c, st)
	if err != nil {
		return err
	}

	data, err := api.InventoryPDF(c.Context())
	if resp, expirada := redirigirSiExpirada(c, err); expirada {
		return resp
	}
	if err != nil {
		PonerFlash(c, "error", "No se pudo generar el reporte")
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+export.NombreArchivo("pdf")+`"`)
	return c.Send(data)
}
