package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/inventario-inei/internal/domain"
	"github.com/tu-usuario/inventario-inei/internal/session"
	"github.com/tu-usuario/inventario-inei/pkg/logger"
)

// RequestHook se ejecuta antes de enviar cada petición.
type RequestHook func(*http.Request)

// ResponseHook se ejecuta sobre cada respuesta recibida, antes de que el
// caller la vea. No debe consumir el body.
type ResponseHook func(*http.Response)

// Client cliente fino hacia el backend de inventario. Todas las vistas pasan
// por aquí. Los interceptores son listas de hooks registradas en la
// construcción, visibles y testeables, no globales implícitos:
//   - hook de petición: Authorization Bearer desde el Store + X-Request-ID.
//   - hook de respuesta: ante cualquier 401 limpia el Store, avisa y marca
//     la navegación forzada al login, sin importar qué vista disparó la llamada.
//
// Cualquier otro estado de error se pasa al caller sin tocar.
type Client struct {
	base      *url.URL
	http      *http.Client
	store     session.Store
	reqHooks  []RequestHook
	respHooks []ResponseHook
	log       *logger.Logger
}

// Option configura el Client.
type Option func(*Client)

// WithHTTPClient reemplaza el *http.Client interno (tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRequestHook agrega un hook de petición adicional.
func WithRequestHook(h RequestHook) Option {
	return func(c *Client) { c.reqHooks = append(c.reqHooks, h) }
}

// WithResponseHook agrega un hook de respuesta adicional.
func WithResponseHook(h ResponseHook) Option {
	return func(c *Client) { c.respHooks = append(c.respHooks, h) }
}

// OnAuthExpired callback del hook global de 401. Recibe el aviso ya
// formateado para el usuario.
type OnAuthExpired func(mensaje string)

// New construye el Client. onExpired puede ser nil si el proceso no tiene
// noción de navegación (por ejemplo tests de endpoints sueltos).
func New(baseURL string, store session.Store, timeout time.Duration, log *logger.Logger, onExpired OnAuthExpired, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("gateway: API_BASE_URL inválida: %w", err)
	}
	if log == nil {
		log = logger.Nop()
	}
	c := &Client{
		base:  base,
		http:  &http.Client{Timeout: timeout},
		store: store,
		log:   log,
	}

	// Hooks de petición: token + correlación.
	c.reqHooks = append(c.reqHooks,
		func(r *http.Request) {
			if s, ok := store.Get(); ok {
				r.Header.Set("Authorization", "Bearer "+s.Token)
			}
		},
		func(r *http.Request) {
			r.Header.Set("X-Request-ID", uuid.NewString())
		},
	)

	// Hook global de 401: limpieza de sesión + aviso + navegación forzada.
	// Corre para todos los endpoints; las vistas nunca manejan el 401.
	// Excepción: el 401 del propio login significa credenciales incorrectas
	// y no debe tocar una sesión previa válida.
	c.respHooks = append(c.respHooks, func(r *http.Response) {
		if r.StatusCode != http.StatusUnauthorized {
			return
		}
		if r.Request != nil && r.Request.URL.Path == "/api/auth/login" {
			return
		}
		store.Clear()
		c.log.Warn().Str("path", r.Request.URL.Path).Msg("401 del backend: sesión expirada, limpiando estado local")
		if onExpired != nil {
			onExpired("Sesión expirada. Por favor, inicie sesión nuevamente.")
		}
	})

	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// send ejecuta una petición JSON. out puede ser nil si no interesa el body.
// Devuelve domain.ErrSesionExpirada en 401 (ya manejado por el hook global)
// y *APIError para el resto de estados de error.
func (c *Client) send(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for _, h := range c.reqHooks {
		h(req)
	}

	inicio := time.Now()
	resp, err := c.http.Do(req)
	observar(path, method, resp, err, time.Since(inicio))
	if err != nil {
		return fmt.Errorf("gateway: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	for _, h := range c.respHooks {
		h(resp)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized && req.URL.Path != "/api/auth/login":
		return domain.ErrSesionExpirada
	case resp.StatusCode >= 400:
		return &APIError{Status: resp.StatusCode, Message: leerDetail(resp.Body)}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// download ejecuta un GET binario (reporte PDF) y devuelve los bytes crudos.
func (c *Client) download(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base.String()+path, nil)
	if err != nil {
		return nil, err
	}
	for _, h := range c.reqHooks {
		h(req)
	}

	inicio := time.Now()
	resp, err := c.http.Do(req)
	observar(path, http.MethodGet, resp, err, time.Since(inicio))
	if err != nil {
		return nil, fmt.Errorf("gateway: GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	for _, h := range c.respHooks {
		h(resp)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, domain.ErrSesionExpirada
	case resp.StatusCode >= 400:
		return nil, &APIError{Status: resp.StatusCode, Message: leerDetail(resp.Body)}
	}
	return io.ReadAll(resp.Body)
}

func leerDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil {
		return ""
	}
	var d detailBody
	if err := json.Unmarshal(data, &d); err == nil && d.Detail != "" {
		return d.Detail
	}
	return strings.TrimSpace(string(data))
}
