package web

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/inventario-inei/internal/gateway"
	"github.com/tu-usuario/inventario-inei/internal/session"
)

// LoginPage muestra el formulario de acceso. Un usuario ya autenticado no
// vuelve a ver el login: se le lleva directo al dashboard.
func (h *Handlers) LoginPage(c *fiber.Ctx) error {
	if _, ok := h.store(c).Get(); ok {
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	}
	return c.Render("login", fiber.Map{
		"Sede":  h.cfg.App.Sede,
		"Flash": LeerFlash(c),
	}, "layouts/main")
}

// Login procesa el formulario de acceso. En éxito guarda token y perfil en
// la cookie de forma atómica y redirige al dashboard; en fallo la sesión
// previa (si existía) queda intacta y se muestra el detalle del servidor.
func (h *Handlers) Login(c *fiber.Ctx) error {
	creds := gateway.Credenciales{
		Username: c.FormValue("username"),
		Password: c.FormValue("password"),
	}

	st := h.store(c)
	api, err := h.api(c, st)
	if err != nil {
		return err
	}

	out, err := api.Login(c.Context(), creds)
	if err != nil {
		mensaje := "Error al iniciar sesión"
		var apiErr *gateway.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			mensaje = apiErr.Message
		}
		h.log.Warn().Str("usuario", creds.Username).Err(err).Msg("login fallido")
		PonerFlash(c, "error", mensaje)
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	if err := st.Set(session.Session{Token: out.AccessToken, User: out.User}); err != nil {
		return err
	}
	h.log.Info().Str("usuario", out.User.Username).Str("rol", out.User.Role).Msg("login exitoso")
	PonerFlash(c, "success", fmt.Sprintf("¡Bienvenido, %s!", out.User.FullName))
	return c.Redirect("/dashboard", fiber.StatusSeeOther)
}

// Logout cierra la sesión: avisa al backend (mejor esfuerzo) y borra la
// cookie incondicionalmente.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	st := h.store(c)
	if api, err := h.api(c, st); err == nil {
		if err := api.Logout(c.Context()); err != nil && !gateway.EsSesionExpirada(err) {
			h.log.Warn().Err(err).Msg("logout en el backend falló; se limpia la cookie igualmente")
		}
	}
	st.Clear()
	PonerFlash(c, "info", "Sesión cerrada exitosamente")
	return c.Redirect("/login", fiber.StatusSeeOther)
}

// Root decide la vista inicial según el estado de autenticación.
func (h *Handlers) Root(c *fiber.Ctx) error {
	if _, ok := h.store(c).Get(); ok {
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	}
	return c.Redirect("/login", fiber.StatusSeeOther)
}
