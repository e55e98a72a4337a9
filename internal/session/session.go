package session

import (
	"fmt"

	"github.com/tu-usuario/inventario-inei/internal/domain"
)

// Session credencial y perfil del usuario autenticado. Invariante: Token y
// User están ambos presentes o ambos ausentes; nunca se guarda una sesión
// parcial.
type Session struct {
	Token string             `json:"token"`
	User  domain.UserProfile `json:"user"`
}

// Completa indica si la sesión tiene credencial y perfil.
func (s Session) Completa() bool {
	return s.Token != "" && s.User.Username != ""
}

// Store almacenamiento de la sesión activa. Un solo escritor lógico (el
// controlador de auth o el hook global de 401); las lecturas son snapshots.
type Store interface {
	// Get devuelve la sesión activa. ok es false si no hay sesión.
	Get() (s Session, ok bool)
	// Set guarda token y perfil de forma atómica. Rechaza sesiones parciales.
	Set(s Session) error
	// Clear elimina la sesión. Idempotente.
	Clear()
}

// ErrSesionParcial se devuelve al intentar guardar una sesión sin token o sin perfil.
var ErrSesionParcial = fmt.Errorf("session: token y perfil deben guardarse juntos")

// MemStore almacenamiento en memoria, sin persistencia. Para tests y como
// caché viva de la variante de consola.
type MemStore struct {
	s  Session
	ok bool
}

// NewMemStore crea un MemStore vacío.
func NewMemStore() *MemStore { return &MemStore{} }

func (m *MemStore) Get() (Session, bool) { return m.s, m.ok }

func (m *MemStore) Set(s Session) error {
	if !s.Completa() {
		return ErrSesionParcial
	}
	m.s, m.ok = s, true
	return nil
}

func (m *MemStore) Clear() {
	m.s, m.ok = Session{}, false
}
