package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/tu-usuario/inventario-inei/internal/auth"
	"github.com/tu-usuario/inventario-inei/internal/dashboard"
	"github.com/tu-usuario/inventario-inei/internal/domain"
	"github.com/tu-usuario/inventario-inei/internal/gateway"
	"github.com/tu-usuario/inventario-inei/pkg/config"
	"github.com/tu-usuario/inventario-inei/pkg/logger"
)

// App aplicación de terminal. La sesión vive en un FileStore para sobrevivir
// reinicios del proceso; la vista montada es un token en memoria.
type App struct {
	cfg       *config.Config
	ctrl      *auth.Controller
	api       *gateway.Client
	refresher *dashboard.Refresher
	log       *logger.Logger

	in    *bufio.Scanner
	out   io.Writer
	vista Vista
}

// Notifier imprime los avisos en la salida de la app (el análogo de los
// toasts de la variante web).
type Notifier struct {
	out io.Writer
}

// NewNotifier crea el notificador de consola.
func NewNotifier(out io.Writer) *Notifier { return &Notifier{out: out} }

func (n *Notifier) Success(msg string) { fmt.Fprintf(n.out, "✔ %s\n", msg) }
func (n *Notifier) Error(msg string)   { fmt.Fprintf(n.out, "✖ %s\n", msg) }
func (n *Notifier) Info(msg string)    { fmt.Fprintf(n.out, "ℹ %s\n", msg) }

// NewApp construye la app de consola sobre el controlador y gateway ya
// cableados.
func NewApp(cfg *config.Config, ctrl *auth.Controller, api *gateway.Client, log *logger.Logger, in io.Reader, out io.Writer) *App {
	if log == nil {
		log = logger.Nop()
	}
	a := &App{
		cfg:   cfg,
		ctrl:  ctrl,
		api:   api,
		log:   log,
		in:    bufio.NewScanner(in),
		out:   out,
		vista: VistaHome,
	}
	a.refresher = dashboard.NewRefresher(cfg.API.RefreshInterval(), api, a.imprimirPanel, log)
	return a
}

// Run ejecuta el ciclo principal: restaurar sesión, compuerta de login y
// después el bucle de vistas hasta que el usuario salga o el contexto se
// cancele.
func (a *App) Run(ctx context.Context) error {
	a.ctrl.Restore(ctx)

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if !a.ctrl.IsAuthenticated() {
			// Si el panel quedó montado cuando la sesión expiró, se desmonta.
			a.desmontar()
			if salir := a.login(ctx); salir {
				return nil
			}
			continue
		}

		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, Menu(a.vista))
		comando, ok := a.leer("> ")
		if !ok {
			a.desmontar()
			return nil
		}
		if strings.EqualFold(strings.TrimSpace(comando), "salir") {
			a.desmontar()
			a.ctrl.Logout(ctx)
			return nil
		}

		destino, cambio := Transicion(a.vista, comando)
		if !cambio {
			fmt.Fprintln(a.out, "Opción no reconocida")
			continue
		}
		a.cambiarVista(ctx, destino)
		a.ejecutarVista(ctx)
	}
}

// cambiarVista desmonta la vista actual y monta la nueva. El panel es la
// única vista con recursos vivos que desmontar.
func (a *App) cambiarVista(ctx context.Context, destino Vista) {
	if a.vista == destino {
		return
	}
	a.desmontar()
	a.vista = destino
	if destino == VistaPanel {
		a.refresher.Start(ctx)
	}
}

func (a *App) desmontar() {
	if a.vista == VistaPanel {
		a.refresher.Stop()
	}
	a.vista = VistaHome
}

// ejecutarVista corre la acción de la vista recién montada.
func (a *App) ejecutarVista(ctx context.Context) {
	switch a.vista {
	case VistaRegistrar:
		a.registrar(ctx)
		a.vista = VistaHome
	case VistaBuscar:
		a.buscar(ctx)
		a.vista = VistaHome
	case VistaInventario:
		a.inventario(ctx)
		a.vista = VistaHome
	case VistaPanel:
		// El refresco ya imprime; se espera el comando de volver.
		comando, ok := a.leer("(0 para volver) > ")
		if !ok || strings.TrimSpace(comando) != "" {
			a.desmontar()
		}
	}
}

// login pide credenciales hasta autenticar. Devuelve true si el usuario
// decidió salir.
func (a *App) login(ctx context.Context) bool {
	fmt.Fprintln(a.out, "Iniciar sesión (escriba 'salir' para terminar)")
	usuario, ok := a.leer("Usuario: ")
	if !ok || strings.EqualFold(strings.TrimSpace(usuario), "salir") {
		return true
	}
	clave, ok := a.leer("Contraseña: ")
	if !ok {
		return true
	}

	err := a.ctrl.Login(ctx, gateway.Credenciales{
		Username: strings.TrimSpace(usuario),
		Password: clave,
	})
	if err != nil {
		a.log.Debug().Err(err).Msg("intento de login fallido")
	}
	return false
}

// imprimirPanel es el onUpdate del refresco: vuelca el snapshot en pantalla
// mientras el panel siga montado.
func (a *App) imprimirPanel(s dashboard.Snapshot) {
	if s.Err != nil {
		fmt.Fprintf(a.out, "No se pudo actualizar el panel: %v\n", s.Err)
		return
	}
	st := s.Stats
	fmt.Fprintf(a.out, "\n── Panel (%s) ──\n", a.cfg.App.Sede)
	fmt.Fprintf(a.out, "Equipos: %d  bien: %d  mal estado: %d  en reparación: %d  robados: %d\n",
		st.TotalItems, st.ItemsBien, st.ItemsMalEstado, st.ItemsEnReparacion, st.ItemsRobados)
	fmt.Fprintf(a.out, "Usuarios: %d (%d activos)\n", st.TotalUsers, st.ActiveUsers)
	for tipo, n := range st.DevicesByType {
		fmt.Fprintf(a.out, "  %s: %d\n", tipo, n)
	}
	for _, al := range s.Alerts {
		fmt.Fprintf(a.out, "[%s] %s\n", al.Type, al.Message)
	}
}

// leer pide una línea al usuario. ok es false en EOF.
func (a *App) leer(prompt string) (string, bool) {
	fmt.Fprint(a.out, prompt)
	if !a.in.Scan() {
		return "", false
	}
	return a.in.Text(), true
}

// puedeEscribir verifica el rol antes de una operación de escritura.
func (a *App) puedeEscribir() bool {
	user, ok := a.ctrl.User()
	if !ok || !user.TieneRol(domain.RoleAdmin, domain.RoleOperator) {
		fmt.Fprintln(a.out, "No tienes permisos para acceder a esta sección")
		return false
	}
	return true
}
