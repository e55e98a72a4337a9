package domain

import "time"

// Estados posibles de un equipo.
const (
	EstadoBien       = "bien"
	EstadoMalEstado  = "mal estado"
	EstadoReparacion = "en reparacion"
	EstadoRobado     = "robado"
)

// InventoryRecord registro de un responsable y su equipo asignado.
// Los nombres JSON deben coincidir exactamente con el contrato del backend.
type InventoryRecord struct {
	ID                 string    `json:"id,omitempty"`
	Persona            string    `json:"persona"`
	DNI                string    `json:"dni"`
	Dispositivo        string    `json:"dispositivo"`
	ControlPatrimonial string    `json:"control_patrimonial"`
	Modelo             string    `json:"modelo"`
	NumeroSerie        string    `json:"numero_serie"`
	IMEI               string    `json:"imei"`
	FundaTablet        bool      `json:"funda_tablet"`
	PlanDatos          bool      `json:"plan_datos"`
	PowerTech          bool      `json:"power_tech"`
	Telefono           string    `json:"telefono"`
	CorreoPersonal     string    `json:"correo_personal"`
	Estado             string    `json:"estado"`
	FechaEntrega       time.Time `json:"fecha_entrega,omitempty"`
}

// SearchFilter filtro parcial por campo para /api/inventory/search.
// Los campos vacíos no restringen la búsqueda.
type SearchFilter struct {
	Persona            string `json:"persona,omitempty"`
	DNI                string `json:"dni,omitempty"`
	Dispositivo        string `json:"dispositivo,omitempty"`
	ControlPatrimonial string `json:"control_patrimonial,omitempty"`
	Modelo             string `json:"modelo,omitempty"`
	NumeroSerie        string `json:"numero_serie,omitempty"`
	IMEI               string `json:"imei,omitempty"`
	Telefono           string `json:"telefono,omitempty"`
	CorreoPersonal     string `json:"correo_personal,omitempty"`
}

// Vacio indica si el filtro no tiene ningún criterio.
func (f SearchFilter) Vacio() bool {
	return f == SearchFilter{}
}

// Stats agregados del dashboard (/api/stats).
type Stats struct {
	TotalUsers        int            `json:"total_users"`
	ActiveUsers       int            `json:"active_users"`
	TotalItems        int            `json:"total_items"`
	ItemsBien         int            `json:"items_bien"`
	ItemsMalEstado    int            `json:"items_mal_estado"`
	ItemsEnReparacion int            `json:"items_en_reparacion"`
	ItemsRobados      int            `json:"items_robados"`
	TotalRepairs      int            `json:"total_repairs"`
	DevicesByType     map[string]int `json:"devices_by_type"`
	RecentActivities  []Activity     `json:"recent_activities"`
	SystemHealth      SystemHealth   `json:"system_health"`
}

// Activity entrada de actividad reciente en el dashboard.
type Activity struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Action       string `json:"action"`
	ResourceType string `json:"resource_type"`
	Timestamp    string `json:"timestamp"`
}

// SystemHealth bloque de salud del sistema dentro de /api/stats.
type SystemHealth struct {
	DatabaseConnected bool   `json:"database_connected"`
	LastBackup        string `json:"last_backup"`
	DiskUsage         string `json:"disk_usage"`
	MemoryUsage       string `json:"memory_usage"`
	Uptime            string `json:"uptime"`
}

// Alert alerta del sistema (/api/notifications/alerts).
type Alert struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
}

// AuditLog entrada del log de auditoría (/api/audit-logs, solo admin).
type AuditLog struct {
	ID           string         `json:"id"`
	Username     string         `json:"username"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
	Timestamp    string         `json:"timestamp"`
	Sede         string         `json:"sede,omitempty"`
}

// AuditPage página de logs de auditoría con metadatos de paginación.
type AuditPage struct {
	Logs       []AuditLog `json:"logs"`
	Pagination struct {
		CurrentPage int `json:"current_page"`
		TotalPages  int `json:"total_pages"`
		TotalLogs   int `json:"total_logs"`
		PerPage     int `json:"per_page"`
	} `json:"pagination"`
}
