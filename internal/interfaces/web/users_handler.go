package web

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/inventario-inei/internal/domain"
)

// Users lista los usuarios del sistema. La guarda de rol garantiza que solo
// un admin llega hasta aquí; el backend lo vuelve a verificar por su cuenta.
func (h *Handlers) Users(c *fiber.Ctx) error {
	st := h.store(c)
	api, err := h.api(c, st)
	if err != nil {
		return err
	}

	usuarios, err := api.Users(c.Context())
	if resp, expirada := redirigirSiExpirada(c, err); expirada {
		return resp
	}
	if err != nil {
		h.log.Error().Err(err).Msg("no se pudieron cargar los usuarios")
		PonerFlash(c, "error", "No se pudieron cargar los usuarios")
	}

	return h.render(c, "users", fiber.Map{
		"Usuarios": usuarios,
		"Roles":    []string{domain.RoleAdmin, domain.RoleOperator, domain.RoleReadonly},
	})
}

// UpdateUser actualiza rol, sede o estado activo de un usuario.
func (h *Handlers) UpdateUser(c *fiber.Ctx) error {
	userID := c.Params("id")

	campos := map[string]any{}
	if rol := c.FormValue("role"); rol != "" {
		campos["role"] = rol
	}
	if sede := c.FormValue("sede"); sede != "" {
		campos["sede"] = sede
	}
	if activo := c.FormValue("is_active"); activo != "" {
		b, err := strconv.ParseBool(activo)
		if err == nil {
			campos["is_active"] = b
		}
	}
	if len(campos) == 0 {
		PonerFlash(c, "error", "Nada que actualizar")
		return c.Redirect("/users", fiber.StatusSeeOther)
	}

	st := h.store(c)
	api, err := h.api(c, st)
	if err != nil {
		return err
	}

	err = api.UpdateUser(c.Context(), userID, campos)
	if resp, expirada := redirigirSiExpirada(c, err); expirada {
		return resp
	}
	if err != nil {
		h.log.Error().Err(err).Str("usuario_id", userID).Msg("actualización de usuario fallida")
		PonerFlash(c, "error", "No se pudo actualizar el usuario")
	} else {
		PonerFlash(c, "success", "Usuario actualizado")
	}
	return c.Redirect("/users", fiber.StatusSeeOther)
}
