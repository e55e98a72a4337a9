package web

import (
	"github.com/gofiber/fiber/v2"
)

// Audit renderiza una página del log de auditoría (solo admin).
func (h *Handlers) Audit(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 50)

	st := h.store(c)
	api, err := h.api(c, st)
	if err != nil {
		return err
	}

	pagina, err := api.AuditLogs(c.Context(), page, limit)
	if resp, expirada := redirigirSiExpirada(c, err); expirada {
		return resp
	}
	if err != nil {
		h.log.Error().Err(err).Msg("no se pudo cargar la auditoría")
		PonerFlash(c, "error", "No se pudo cargar el log de auditoría")
		return h.render(c, "audit", nil)
	}

	return h.render(c, "audit", fiber.Map{
		"Logs":       pagina.Logs,
		"Paginacion": pagina.Pagination,
	})
}
