// Package console implementa la variante de terminal del cliente de
// inventario: una máquina de vistas por token donde solo una vista está
// montada a la vez y el panel refresca sus datos mientras permanece activo.
package console

import "strings"

// Vista token de la vista montada.
type Vista string

const (
	VistaHome       Vista = "home"
	VistaRegistrar  Vista = "registrar"
	VistaBuscar     Vista = "buscar"
	VistaInventario Vista = "inventario"
	VistaPanel      Vista = "panel"
)

// Transicion resuelve un comando del menú a la vista destino. Un comando no
// reconocido deja la vista donde estaba y devuelve false.
func Transicion(actual Vista, comando string) (Vista, bool) {
	switch strings.ToLower(strings.TrimSpace(comando)) {
	case "1", "registrar":
		return VistaRegistrar, true
	case "2", "buscar":
		return VistaBuscar, true
	case "3", "inventario":
		return VistaInventario, true
	case "4", "panel":
		return VistaPanel, true
	case "0", "volver", "home":
		return VistaHome, true
	default:
		return actual, false
	}
}

// Menu devuelve las opciones visibles desde la vista actual.
func Menu(actual Vista) string {
	if actual == VistaHome {
		return strings.Join([]string{
			"1) Registrar responsable",
			"2) Buscar",
			"3) Inventario",
			"4) Panel",
			"salir) Cerrar sesión y salir",
		}, "\n")
	}
	return "0) Volver al inicio   salir) Cerrar sesión y salir"
}
