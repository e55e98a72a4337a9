// Package web implementa la variante servidor-web del cliente de inventario:
// vistas renderizadas en el servidor, sesión en cookie firmada y guardas de
// ruta por rol delante de cada vista protegida.
package web

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/inventario-inei/internal/domain"
	"github.com/tu-usuario/inventario-inei/internal/gateway"
	"github.com/tu-usuario/inventario-inei/internal/session"
	"github.com/tu-usuario/inventario-inei/pkg/config"
	"github.com/tu-usuario/inventario-inei/pkg/logger"
)

const localSession = "sesion"

// Handlers agrupa las dependencias de las vistas web. El cliente del backend
// se construye por petición, atado a la cookie de esa petición; el
// *http.Client subyacente sí se comparte.
type Handlers struct {
	cfg   *config.Config
	codec *session.CookieCodec
	http  *http.Client
	log   *logger.Logger
}

// NewHandlers construye los handlers de la variante web. Falla si el secreto
// de sesión no está configurado.
func NewHandlers(cfg *config.Config, log *logger.Logger) (*Handlers, error) {
	if log == nil {
		log = logger.Nop()
	}
	codec, err := session.NewCookieCodec(cfg.Session.Secret, cfg.Session.TTL())
	if err != nil {
		return nil, err
	}
	return &Handlers{
		cfg:   cfg,
		codec: codec,
		http:  &http.Client{Timeout: cfg.API.Timeout},
		log:   log,
	}, nil
}

// store devuelve el adaptador de sesión de la petición actual.
func (h *Handlers) store(c *fiber.Ctx) *CookieStore {
	return NewCookieStore(c, h.codec, h.cfg.Session.CookieName, h.cfg.Session.TTL())
}

// api construye el cliente del backend atado a la sesión de la petición. El
// hook global de 401 limpia la cookie y deja el aviso de expiración para la
// próxima vista.
func (h *Handlers) api(c *fiber.Ctx, st *CookieStore) (*gateway.Client, error) {
	return gateway.New(h.cfg.API.BaseURL, st, h.cfg.API.Timeout, h.log,
		func(mensaje string) { PonerFlash(c, "error", mensaje) },
		gateway.WithHTTPClient(h.http),
	)
}

// RequireAuth guarda de ruta: sin sesión completa no se renderiza ninguna
// vista protegida, solo se redirige al login.
func (h *Handlers) RequireAuth(c *fiber.Ctx) error {
	sess, ok := h.store(c).Get()
	if !ok {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}
	c.Locals(localSession, sess)
	return c.Next()
}

// RequireRole guarda adicional por rol. Un usuario autenticado sin el rol
// requerido vuelve al dashboard con el aviso de permisos, nunca ve la vista.
func (h *Handlers) RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := c.Locals(localSession).(session.Session)
		if !ok {
			return c.Redirect("/login", fiber.StatusSeeOther)
		}
		if !sess.User.TieneRol(roles...) {
			PonerFlash(c, "error", "No tienes permisos para acceder a esta sección")
			return c.Redirect("/dashboard", fiber.StatusSeeOther)
		}
		return c.Next()
	}
}

// sesion devuelve la sesión que dejó RequireAuth en la petición.
func sesion(c *fiber.Ctx) session.Session {
	sess, _ := c.Locals(localSession).(session.Session)
	return sess
}

// render envuelve c.Render con los datos comunes de toda vista: usuario,
// sede y el aviso pendiente.
func (h *Handlers) render(c *fiber.Ctx, vista string, datos fiber.Map) error {
	if datos == nil {
		datos = fiber.Map{}
	}
	sess := sesion(c)
	datos["Usuario"] = sess.User
	datos["EsAdmin"] = sess.User.TieneRol(domain.RoleAdmin)
	datos["Sede"] = h.cfg.App.Sede
	datos["Flash"] = LeerFlash(c)
	datos["Vista"] = vista
	return c.Render(vista, datos, "layouts/main")
}

// redirigirSiExpirada corta el flujo ante un 401 ya manejado por el hook
// global: el aviso quedó puesto, solo falta llevar al usuario al login.
func redirigirSiExpirada(c *fiber.Ctx, err error) (error, bool) {
	if gateway.EsSesionExpirada(err) {
		return c.Redirect("/login", fiber.StatusSeeOther), true
	}
	return nil, false
}
