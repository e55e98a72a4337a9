package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tu-usuario/inventario-inei/internal/domain"
	"github.com/tu-usuario/inventario-inei/internal/gateway"
	"github.com/tu-usuario/inventario-inei/internal/session"
	"github.com/tu-usuario/inventario-inei/pkg/logger"
)

// State estado de autenticación del proceso.
type State int

const (
	// Cargando: Restore aún no resolvió; la UI no debe renderizar vistas.
	Cargando State = iota
	NoAutenticado
	Autenticado
)

func (s State) String() string {
	switch s {
	case Cargando:
		return "cargando"
	case NoAutenticado:
		return "no_autenticado"
	case Autenticado:
		return "autenticado"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Notifier avisos visibles para el usuario (el análogo de los toasts).
type Notifier interface {
	Success(msg string)
	Error(msg string)
	Info(msg string)
}

// Controller controla el ciclo de vida de la sesión. Único escritor del
// Store junto con el hook global de 401 del gateway.
//
// Transiciones válidas:
//
//	Cargando      -> NoAutenticado | Autenticado   (al resolver Restore)
//	NoAutenticado -> Autenticado                   (login exitoso)
//	Autenticado   -> NoAutenticado                 (logout o 401 global)
type Controller struct {
	mu       sync.Mutex
	state    State
	api      *gateway.Client
	store    session.Store
	notifier Notifier
	log      *logger.Logger
}

// New construye el controlador en estado Cargando.
func New(api *gateway.Client, store session.Store, notifier Notifier, log *logger.Logger) *Controller {
	if log == nil {
		log = logger.Nop()
	}
	return &Controller{state: Cargando, api: api, store: store, notifier: notifier, log: log}
}

// State devuelve el estado actual.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsAuthenticated deriva el booleano de la UI.
func (c *Controller) IsAuthenticated() bool { return c.State() == Autenticado }

// User devuelve el perfil de la sesión activa, si la hay.
func (c *Controller) User() (domain.UserProfile, bool) {
	s, ok := c.store.Get()
	return s.User, ok
}

// MarkExpired lo invoca el hook global de 401: el store ya fue limpiado por
// el gateway; aquí solo cae el estado a NoAutenticado.
func (c *Controller) MarkExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = NoAutenticado
}

// Restore se invoca una vez al arranque: si hay sesión persistida, la valida
// contra /api/auth/me y la promueve; ante cualquier fallo descarta lo
// persistido y queda NoAutenticado. Resuelve el estado Cargando.
func (c *Controller) Restore(ctx context.Context) {
	defer func() {
		c.log.Info().Str("estado", c.State().String()).Msg("sesión restaurada")
	}()

	persistida, ok := c.store.Get()
	if !ok {
		c.setState(NoAutenticado)
		return
	}

	perfil, err := c.api.Me(ctx)
	if err != nil {
		// El hook de 401 ya limpió el store si aplicaba; cualquier otro
		// fallo también descarta la sesión persistida.
		c.store.Clear()
		c.setState(NoAutenticado)
		c.log.Warn().Err(err).Msg("sesión persistida inválida, descartada")
		return
	}

	// Se promueve el perfil persistido; el backend confirmó la credencial.
	// Si el servidor conoce un perfil más fresco, se prefiere el suyo.
	s := session.Session{Token: persistida.Token, User: *perfil}
	if !s.Completa() {
		s = persistida
	}
	if err := c.store.Set(s); err != nil {
		c.store.Clear()
		c.setState(NoAutenticado)
		return
	}
	c.setState(Autenticado)
}

// Login autentica y, en éxito, guarda token y perfil de forma atómica y
// emite la bienvenida. En fallo deja intacto cualquier estado previo y
// muestra el detail del servidor (o un mensaje genérico).
func (c *Controller) Login(ctx context.Context, creds gateway.Credenciales) error {
	out, err := c.api.Login(ctx, creds)
	if err != nil {
		mensaje := "Error al iniciar sesión"
		var apiErr *gateway.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			mensaje = apiErr.Message
		}
		if c.notifier != nil {
			c.notifier.Error(mensaje)
		}
		return err
	}

	if err := c.store.Set(session.Session{Token: out.AccessToken, User: out.User}); err != nil {
		return err
	}
	c.setState(Autenticado)
	if c.notifier != nil {
		c.notifier.Success(fmt.Sprintf("¡Bienvenido, %s!", out.User.FullName))
	}
	c.log.Info().Str("usuario", out.User.Username).Str("rol", out.User.Role).Msg("login exitoso")
	return nil
}

// Logout limpia el estado local incondicionalmente; la llamada al backend es
// mejor esfuerzo y un fallo solo se registra.
func (c *Controller) Logout(ctx context.Context) {
	if err := c.api.Logout(ctx); err != nil && !gateway.EsSesionExpirada(err) {
		c.log.Warn().Err(err).Msg("logout en el backend falló; se limpia el estado local igualmente")
	}
	c.store.Clear()
	c.setState(NoAutenticado)
	if c.notifier != nil {
		c.notifier.Info("Sesión cerrada exitosamente")
	}
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}
