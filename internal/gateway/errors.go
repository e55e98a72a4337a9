package gateway

import (
	"errors"
	"fmt"

	"github.com/tu-usuario/inventario-inei/internal/domain"
)

// APIError error HTTP del backend que no tiene tratamiento especial: se
// entrega al caller tal cual, sin retry ni backoff.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: estado %d", e.Status)
}

// EsSesionExpirada indica si el error proviene de un 401 ya manejado por el
// hook global (la limpieza de sesión y el aviso ya ocurrieron; a la vista
// solo le queda redirigir al login).
func EsSesionExpirada(err error) bool {
	return errors.Is(err, domain.ErrSesionExpirada)
}

// detailBody cuerpo de error estilo FastAPI: {"detail": "..."}.
type detailBody struct {
	Detail string `json:"detail"`
}
