package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tu-usuario/inventario-inei/internal/domain"
)

//go:embed templates
var templatesFS embed.FS

// Engine construye el motor de plantillas con las vistas embebidas en el
// binario.
func Engine() *html.Engine {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("add", func(a, b int) int { return a + b })
	engine.AddFunc("sub", func(a, b int) int { return a - b })
	return engine
}

// Router registra las rutas de la aplicación web. Toda vista protegida pasa
// por RequireAuth; las de administración además por RequireRole. Las
// escrituras del inventario quedan vedadas al rol de solo lectura.
func Router(app *fiber.App, h *Handlers) {
	app.Get("/", h.Root)
	app.Get("/login", h.LoginPage)
	app.Post("/login", h.Login)
	app.Post("/logout", h.Logout)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": h.cfg.App.Name})
	})

	protegido := app.Group("/", h.RequireAuth)

	protegido.Get("/dashboard", h.Dashboard)
	protegido.Get("/reports/inventory.pdf", h.ReportePDF)

	escritura := h.RequireRole(domain.RoleAdmin, domain.RoleOperator)
	inv := protegido.Group("/inventory")
	inv.Get("/", h.Inventory)
	inv.Post("/registrar", escritura, h.Registrar)
	inv.Post("/eliminar/:dni", escritura, h.Eliminar)
	inv.Post("/eliminar-todo", h.RequireRole(domain.RoleAdmin), h.EliminarTodo)
	inv.Get("/export/csv", h.ExportCSV)
	inv.Get("/export/xlsx", h.ExportXLSX)

	admin := protegido.Group("/", h.RequireRole(domain.RoleAdmin))
	admin.Get("/users", h.Users)
	admin.Post("/users/:id", h.UpdateUser)
	admin.Get("/audit", h.Audit)
}
