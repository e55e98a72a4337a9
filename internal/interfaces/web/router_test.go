package web_test

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/inventario-inei/internal/domain"
	"github.com/tu-usuario/inventario-inei/internal/interfaces/web"
	"github.com/tu-usuario/inventario-inei/internal/session"
	"github.com/tu-usuario/inventario-inei/pkg/config"
	"github.com/tu-usuario/inventario-inei/pkg/logger"
)

const testSecret = "secreto-de-prueba-para-cookies"

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// backendStub simula el backend de inventario con respuestas canónicas.
type backendStub struct {
	srv        *httptest.Server
	peticiones atomic.Int64 // llamadas que llegaron al backend
	status401  atomic.Bool  // fuerza 401 en rutas protegidas
}

func nuevoBackend(t *testing.T) *backendStub {
	t.Helper()
	b := &backendStub{}
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		b.peticiones.Add(1)
		var creds struct{ Username, Password string }
		json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != "correcta" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Credenciales incorrectas"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "token-de-prueba",
			"token_type":   "bearer",
			"expires_in":   1800,
			"user":         perfil(creds.Username, domain.RoleAdmin),
		})
	})

	protegida := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			b.peticiones.Add(1)
			if b.status401.Load() || r.Header.Get("Authorization") == "" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"detail": "Token inválido"})
				return
			}
			h(w, r)
		}
	}

	mux.HandleFunc("GET /api/stats", protegida(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(domain.Stats{TotalItems: 7, ItemsBien: 5})
	}))
	mux.HandleFunc("GET /api/notifications/alerts", protegida(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"alerts": []domain.Alert{}})
	}))
	mux.HandleFunc("GET /api/inventory", protegida(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]domain.InventoryRecord{{Persona: "Ana Quispe", DNI: "12345678", Dispositivo: "Tablet", Estado: domain.EstadoBien}})
	}))
	mux.HandleFunc("POST /api/inventory", protegida(func(w http.ResponseWriter, r *http.Request) {
		var rec domain.InventoryRecord
		json.NewDecoder(r.Body).Decode(&rec)
		if rec.DNI == "12345678" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"detail": "DNI ya existe en el inventario"})
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(rec)
	}))
	mux.HandleFunc("GET /api/users", protegida(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]domain.UserProfile{perfil("admin", domain.RoleAdmin)})
	}))
	mux.HandleFunc("GET /api/inventory/export", protegida(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{
			{"persona": "Ana Quispe", "dni": "12345678"},
		}})
	}))

	b.srv = httptest.NewServer(mux)
	t.Cleanup(b.srv.Close)
	return b
}

func perfil(username, rol string) domain.UserProfile {
	return domain.UserProfile{
		ID: "u-1", Username: username, Email: username + "@inei.gob.pe",
		FullName: "Usuario " + username, Role: rol, Sede: "Arequipa 06 - Socabaya", IsActive: true,
	}
}

// armarApp monta la aplicación web completa contra el backend simulado.
func armarApp(t *testing.T, backendURL string) *fiber.App {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Name = "inventario-inei-test"
	cfg.App.Sede = "Arequipa 06 - Socabaya"
	cfg.API.BaseURL = backendURL
	cfg.API.Timeout = 5 * time.Second
	cfg.API.RefreshSeconds = 30
	cfg.Session.Secret = testSecret
	cfg.Session.TTLMinutes = 60
	cfg.Session.CookieName = "inei_session"

	h, err := web.NewHandlers(cfg, logger.Nop())
	require.NoError(t, err)

	app := fiber.New(fiber.Config{Views: web.Engine()})
	web.Router(app, h)
	return app
}

// cookieDeSesion fabrica una cookie de sesión firmada para el rol dado.
func cookieDeSesion(t *testing.T, rol string) *http.Cookie {
	t.Helper()
	codec, err := session.NewCookieCodec(testSecret, time.Hour)
	require.NoError(t, err)
	value, err := codec.Encode(session.Session{Token: "token-de-prueba", User: perfil("maria", rol)})
	require.NoError(t, err)
	return &http.Cookie{Name: "inei_session", Value: value}
}

// flashDeRespuesta decodifica el aviso pendiente dejado en la respuesta.
func flashDeRespuesta(t *testing.T, resp *http.Response) *web.Flash {
	t.Helper()
	for _, ck := range resp.Cookies() {
		if ck.Name != "inei_flash" || ck.Value == "" {
			continue
		}
		raw, err := base64.RawURLEncoding.DecodeString(ck.Value)
		require.NoError(t, err)
		var f web.Flash
		require.NoError(t, json.Unmarshal(raw, &f))
		return &f
	}
	return nil
}

func cookieRespuesta(resp *http.Response, nombre string) *http.Cookie {
	for _, ck := range resp.Cookies() {
		if ck.Name == nombre {
			return ck
		}
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Guardas de ruta
// ──────────────────────────────────────────────────────────────────────────────

func TestGuarda_SinSesionRedirigeALogin(t *testing.T) {
	app := armarApp(t, nuevoBackend(t).srv.URL)

	for _, ruta := range []string{"/dashboard", "/inventory", "/users", "/audit"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, ruta, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode, ruta)
		assert.Equal(t, "/login", resp.Header.Get("Location"), ruta)
	}
}

func TestGuarda_OperadorNoVeUsuariosNiAuditoria(t *testing.T) {
	app := armarApp(t, nuevoBackend(t).srv.URL)

	for _, ruta := range []string{"/users", "/audit"} {
		req := httptest.NewRequest(http.MethodGet, ruta, nil)
		req.AddCookie(cookieDeSesion(t, domain.RoleOperator))
		resp, err := app.Test(req, -1)
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode, ruta)
		assert.Equal(t, "/dashboard", resp.Header.Get("Location"), ruta)
		flash := flashDeRespuesta(t, resp)
		require.NotNil(t, flash, ruta)
		assert.Equal(t, "No tienes permisos para acceder a esta sección", flash.Mensaje)
	}
}

func TestGuarda_AdminVeUsuarios(t *testing.T) {
	app := armarApp(t, nuevoBackend(t).srv.URL)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.AddCookie(cookieDeSesion(t, domain.RoleAdmin))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGuarda_SoloLecturaNoPuedeRegistrar(t *testing.T) {
	backend := nuevoBackend(t)
	app := armarApp(t, backend.srv.URL)
	antes := backend.peticiones.Load()

	form := url.Values{"persona": {"Ana"}, "dni": {"11112222"}, "dispositivo": {"Tablet"}}
	req := httptest.NewRequest(http.MethodPost, "/inventory/registrar", strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	req.AddCookie(cookieDeSesion(t, domain.RoleReadonly))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
	assert.Equal(t, antes, backend.peticiones.Load(), "la guarda corta antes de tocar el backend")
}

// ──────────────────────────────────────────────────────────────────────────────
// Login / logout
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_ExitosoGuardaCookieYRedirige(t *testing.T) {
	app := armarApp(t, nuevoBackend(t).srv.URL)

	form := url.Values{"username": {"maria"}, "password": {"correcta"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))

	ck := cookieRespuesta(resp, "inei_session")
	require.NotNil(t, ck, "debe dejarse la cookie de sesión")
	codec, err := session.NewCookieCodec(testSecret, time.Hour)
	require.NoError(t, err)
	sess, ok := codec.Decode(ck.Value)
	require.True(t, ok)
	assert.Equal(t, "token-de-prueba", sess.Token)
	assert.Equal(t, "maria", sess.User.Username)

	flash := flashDeRespuesta(t, resp)
	require.NotNil(t, flash)
	assert.Equal(t, "success", flash.Tipo)
	assert.Contains(t, flash.Mensaje, "¡Bienvenido, Usuario maria!")
}

func TestLogin_FallidoNoTocaSesionPrevia(t *testing.T) {
	app := armarApp(t, nuevoBackend(t).srv.URL)

	form := url.Values{"username": {"maria"}, "password": {"incorrecta"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	req.AddCookie(cookieDeSesion(t, domain.RoleOperator))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	// La cookie previa no debe haber sido borrada ni reescrita.
	assert.Nil(t, cookieRespuesta(resp, "inei_session"))

	flash := flashDeRespuesta(t, resp)
	require.NotNil(t, flash)
	assert.Equal(t, "error", flash.Tipo)
	assert.Equal(t, "Credenciales incorrectas", flash.Mensaje)
}

func TestLogin_AutenticadoNoVuelveAVerElFormulario(t *testing.T) {
	app := armarApp(t, nuevoBackend(t).srv.URL)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(cookieDeSesion(t, domain.RoleOperator))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
}

func TestLogout_BorraCookieYAvisa(t *testing.T) {
	app := armarApp(t, nuevoBackend(t).srv.URL)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(cookieDeSesion(t, domain.RoleAdmin))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	ck := cookieRespuesta(resp, "inei_session")
	require.NotNil(t, ck)
	assert.Empty(t, ck.Value, "la cookie de sesión debe quedar vacía")
	assert.True(t, ck.Expires.Before(time.Now()), "la cookie debe quedar vencida")

	flash := flashDeRespuesta(t, resp)
	require.NotNil(t, flash)
	assert.Equal(t, "Sesión cerrada exitosamente", flash.Mensaje)
}

// ──────────────────────────────────────────────────────────────────────────────
// Expiración global de sesión
// ──────────────────────────────────────────────────────────────────────────────

func TestSesionExpirada_CookieValidaPeroBackend401(t *testing.T) {
	backend := nuevoBackend(t)
	backend.status401.Store(true)
	app := armarApp(t, backend.srv.URL)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookieDeSesion(t, domain.RoleAdmin))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	ck := cookieRespuesta(resp, "inei_session")
	require.NotNil(t, ck, "la cookie debe haberse borrado")
	assert.Empty(t, ck.Value)

	flash := flashDeRespuesta(t, resp)
	require.NotNil(t, flash)
	assert.Equal(t, "Sesión expirada. Por favor, inicie sesión nuevamente.", flash.Mensaje)
}

// ──────────────────────────────────────────────────────────────────────────────
// Inventario
// ──────────────────────────────────────────────────────────────────────────────

func TestInventario_ListadoRenderiza(t *testing.T) {
	app := armarApp(t, nuevoBackend(t).srv.URL)

	req := httptest.NewRequest(http.MethodGet, "/inventory", nil)
	req.AddCookie(cookieDeSesion(t, domain.RoleOperator))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRegistrar_DNIDuplicadoMuestraAvisoEspecifico(t *testing.T) {
	app := armarApp(t, nuevoBackend(t).srv.URL)

	form := url.Values{
		"persona": {"Ana Quispe"}, "dni": {"12345678"}, "dispositivo": {"Tablet"},
		"control_patrimonial": {"CP-001"}, "modelo": {"SM-T500"}, "numero_serie": {"SN-01"},
		"telefono": {"987654321"}, "estado": {domain.EstadoBien},
	}
	req := httptest.NewRequest(http.MethodPost, "/inventory/registrar", strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	req.AddCookie(cookieDeSesion(t, domain.RoleOperator))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	flash := flashDeRespuesta(t, resp)
	require.NotNil(t, flash)
	assert.Equal(t, "Persona ya registrada", flash.Mensaje)
}

func TestRegistrar_DNIInvalidoNoTocaLaRed(t *testing.T) {
	backend := nuevoBackend(t)
	app := armarApp(t, backend.srv.URL)
	antes := backend.peticiones.Load()

	form := url.Values{
		"persona": {"Ana"}, "dni": {"123"}, "dispositivo": {"Tablet"},
		"control_patrimonial": {"CP-002"}, "modelo": {"SM-T500"}, "numero_serie": {"SN-02"},
		"telefono": {"987654321"}, "estado": {domain.EstadoBien},
	}
	req := httptest.NewRequest(http.MethodPost, "/inventory/registrar", strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	req.AddCookie(cookieDeSesion(t, domain.RoleOperator))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, antes, backend.peticiones.Load(), "la validación local corta antes de llamar al backend")

	flash := flashDeRespuesta(t, resp)
	require.NotNil(t, flash)
	assert.Contains(t, flash.Mensaje, "el DNI debe tener exactamente 8 dígitos numéricos")
}

func TestExportCSV_DescargaConNombreFechado(t *testing.T) {
	app := armarApp(t, nuevoBackend(t).srv.URL)

	req := httptest.NewRequest(http.MethodGet, "/inventory/export/csv", nil)
	req.AddCookie(cookieDeSesion(t, domain.RoleReadonly))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/csv")
	assert.Regexp(t, `inventario_\d{4}-\d{2}-\d{2}\.csv`, resp.Header.Get(fiber.HeaderContentDisposition))
}

// ──────────────────────────────────────────────────────────────────────────────
// Raíz
// ──────────────────────────────────────────────────────────────────────────────

func TestRaiz_RedirigeSegunAutenticacion(t *testing.T) {
	app := armarApp(t, nuevoBackend(t).srv.URL)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookieDeSesion(t, domain.RoleReadonly))
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
}
