package domain

import "time"

// Roles de usuario del sistema. El backend valida; aquí solo se usan para
// decidir qué vistas puede abrir cada sesión.
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
	RoleReadonly = "readonly"
)

// UserProfile perfil del usuario autenticado tal como lo devuelve el backend
// en /api/auth/login y /api/auth/me. Inmutable durante la sesión; se
// reemplaza completo en el siguiente login.
type UserProfile struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name"`
	Role      string     `json:"role"`
	Sede      string     `json:"sede"`
	IsActive  bool       `json:"is_active"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// TieneRol indica si el perfil tiene alguno de los roles dados.
// Lista vacía significa "cualquier usuario autenticado".
func (u UserProfile) TieneRol(roles ...string) bool {
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
