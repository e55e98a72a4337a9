package domain

import "fmt"

// ValidarDNI verifica que el DNI tenga exactamente 8 dígitos numéricos.
// Se valida en el cliente antes de tocar la red; el backend vuelve a validar.
func ValidarDNI(dni string) error {
	if len(dni) != 8 || !soloDigitos(dni) {
		return fmt.Errorf("%w: el DNI debe tener exactamente 8 dígitos numéricos", ErrValidacion)
	}
	return nil
}

// ValidarTelefono verifica que el teléfono tenga al menos 9 dígitos numéricos.
func ValidarTelefono(tel string) error {
	if len(tel) < 9 || !soloDigitos(tel) {
		return fmt.Errorf("%w: el teléfono debe tener al menos 9 dígitos", ErrValidacion)
	}
	return nil
}

// ValidarRegistro valida los campos obligatorios de un registro antes de enviarlo.
func ValidarRegistro(r InventoryRecord) error {
	if r.Persona == "" || r.Dispositivo == "" || r.ControlPatrimonial == "" ||
		r.Modelo == "" || r.NumeroSerie == "" {
		return fmt.Errorf("%w: persona, dispositivo, control patrimonial, modelo y número de serie son requeridos", ErrValidacion)
	}
	if err := ValidarDNI(r.DNI); err != nil {
		return err
	}
	if err := ValidarTelefono(r.Telefono); err != nil {
		return err
	}
	switch r.Estado {
	case EstadoBien, EstadoMalEstado, EstadoReparacion, EstadoRobado:
	default:
		return fmt.Errorf("%w: estado '%s' no reconocido", ErrValidacion, r.Estado)
	}
	return nil
}

func soloDigitos(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
