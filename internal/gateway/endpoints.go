package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tu-usuario/inventario-inei/internal/domain"
)

// Credenciales cuerpo de /api/auth/login.
type Credenciales struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse respuesta de /api/auth/login.
type LoginResponse struct {
	AccessToken string             `json:"access_token"`
	TokenType   string             `json:"token_type"`
	ExpiresIn   int                `json:"expires_in"`
	User        domain.UserProfile `json:"user"`
}

// Login autentica contra el backend. El 401 de credenciales incorrectas
// llega como *APIError con el detail del servidor, no como sesión expirada:
// en el login todavía no hay sesión que expirar.
func (c *Client) Login(ctx context.Context, creds Credenciales) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.send(ctx, http.MethodPost, "/api/auth/login", creds, &out); err != nil {
		return nil, err
	}
	if out.AccessToken == "" || out.User.Username == "" {
		return nil, fmt.Errorf("gateway: respuesta de login incompleta")
	}
	return &out, nil
}

// Me valida la credencial almacenada y devuelve el perfil según el servidor.
func (c *Client) Me(ctx context.Context) (*domain.UserProfile, error) {
	var out domain.UserProfile
	if err := c.send(ctx, http.MethodGet, "/api/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout avisa al backend del cierre de sesión. Mejor esfuerzo: el caller
// limpia el estado local aunque esto falle.
func (c *Client) Logout(ctx context.Context) error {
	return c.send(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// Stats agregados del dashboard.
func (c *Client) Stats(ctx context.Context) (*domain.Stats, error) {
	var out domain.Stats
	if err := c.send(ctx, http.MethodGet, "/api/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Alerts alertas activas del sistema.
func (c *Client) Alerts(ctx context.Context) ([]domain.Alert, error) {
	var out struct {
		Alerts []domain.Alert `json:"alerts"`
	}
	if err := c.send(ctx, http.MethodGet, "/api/notifications/alerts", nil, &out); err != nil {
		return nil, err
	}
	return out.Alerts, nil
}

// InventoryPDF descarga el reporte PDF generado por el backend.
func (c *Client) InventoryPDF(ctx context.Context) ([]byte, error) {
	return c.download(ctx, "/api/reports/inventory/pdf")
}

// CreateItem registra un responsable con su equipo. Un HTTP 400 significa
// DNI ya registrado y se traduce a domain.ErrPersonaRegistrada para que la
// vista muestre el mensaje específico.
func (c *Client) CreateItem(ctx context.Context, rec domain.InventoryRecord) error {
	err := c.send(ctx, http.MethodPost, "/api/inventory", rec, nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest {
		return domain.ErrPersonaRegistrada
	}
	return err
}

// Search busca registros por filtro parcial de campos.
func (c *Client) Search(ctx context.Context, filter domain.SearchFilter) ([]domain.InventoryRecord, error) {
	var out []domain.InventoryRecord
	if err := c.send(ctx, http.MethodPost, "/api/inventory/search", filter, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// List devuelve el inventario completo.
func (c *Client) List(ctx context.Context) ([]domain.InventoryRecord, error) {
	var out []domain.InventoryRecord
	if err := c.send(ctx, http.MethodGet, "/api/inventory", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteByDNI elimina todos los registros de un responsable. Un 404 se
// traduce a domain.ErrNotFound: el DNI no tenía registros.
func (c *Client) DeleteByDNI(ctx context.Context, dni string) error {
	if err := domain.ValidarDNI(dni); err != nil {
		return err
	}
	err := c.send(ctx, http.MethodDelete, "/api/inventory/"+url.PathEscape(dni), nil, nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return fmt.Errorf("%w: dni %s", domain.ErrNotFound, dni)
	}
	return err
}

// DeleteAll elimina todos los registros del inventario.
func (c *Client) DeleteAll(ctx context.Context) error {
	return c.send(ctx, http.MethodDelete, "/api/inventory", nil, nil)
}

// Export devuelve los datos planos para exportación; el cliente los
// convierte en CSV o XLSX descargable.
func (c *Client) Export(ctx context.Context) ([]map[string]any, error) {
	var out struct {
		Data []map[string]any `json:"data"`
	}
	if err := c.send(ctx, http.MethodGet, "/api/inventory/export", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Users lista los usuarios del sistema (solo admin en el backend).
func (c *Client) Users(ctx context.Context) ([]domain.UserProfile, error) {
	var out []domain.UserProfile
	if err := c.send(ctx, http.MethodGet, "/api/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateUser actualiza campos permitidos de un usuario (rol, activo, sede...).
func (c *Client) UpdateUser(ctx context.Context, userID string, fields map[string]any) error {
	return c.send(ctx, http.MethodPut, "/api/users/"+url.PathEscape(userID), fields, nil)
}

// AuditLogs devuelve una página del log de auditoría.
func (c *Client) AuditLogs(ctx context.Context, page, limit int) (*domain.AuditPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	var out domain.AuditPage
	path := fmt.Sprintf("/api/audit-logs?page=%d&limit=%d", page, limit)
	if err := c.send(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
