package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrSesionExpirada    = errors.New("sesión expirada")
	ErrPersonaRegistrada = errors.New("persona ya registrada")
	ErrValidacion        = errors.New("entrada inválida")
	ErrNotFound          = errors.New("recurso no encontrado")
)
