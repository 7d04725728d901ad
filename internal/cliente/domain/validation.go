package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// DniMinLength es la longitud mínima de un DNI, en caracteres.
const DniMinLength = 8

const (
	ApellidoPaterno = "paterno"
	ApellidoMaterno = "materno"
)

// ValidateDni devuelve nil si el DNI es válido.
func ValidateDni(dni string) *Condition {
	if dni == "" || utf8.RuneCountInString(dni) < DniMinLength {
		return ErrClienteInvalidDni
	}
	return nil
}

func ValidateNombre(nombre string) *Condition {
	if strings.TrimSpace(nombre) == "" {
		return ErrClienteInvalidNombre
	}
	return nil
}

// ValidateApellido usa tipo (ApellidoPaterno o ApellidoMaterno) para elegir el mensaje.
func ValidateApellido(apellido, tipo string) *Condition {
	if strings.TrimSpace(apellido) != "" {
		return nil
	}
	switch tipo {
	case ApellidoPaterno:
		return ErrClienteInvalidApellidoPaterno
	case ApellidoMaterno:
		return ErrClienteInvalidApellidoMaterno
	default:
		return ErrClienteInvalidApellido
	}
}

// ValidateFechaNacimiento compara el instante completo contra now. Una fecha sin hora
// vale medianoche UTC: hoy es válido, mañana no.
func ValidateFechaNacimiento(fecha string, now time.Time) *Condition {
	parsed, err := ParseInstante(fecha)
	if err != nil {
		return ErrClienteInvalidFecha
	}
	if parsed.After(now) {
		return ErrClienteFechaFutura
	}
	return nil
}

// ValidateCliente ejecuta todas las reglas y devuelve las violaciones en orden fijo
// (dni, nombre, apellido paterno, apellido materno, fecha), o nil si no hay ninguna.
func ValidateCliente(in ClienteInput) Violations {
	return ValidateClienteAt(in, time.Now())
}

func ValidateClienteAt(in ClienteInput, now time.Time) Violations {
	checks := []*Condition{
		ValidateDni(in.Dni),
		ValidateNombre(in.Nombre),
		ValidateApellido(in.ApellidoPaterno, ApellidoPaterno),
		ValidateApellido(in.ApellidoMaterno, ApellidoMaterno),
		ValidateFechaNacimiento(in.FechaNacimiento, now),
	}

	var violations Violations
	for _, c := range checks {
		if c != nil {
			violations = append(violations, c)
		}
	}
	if len(violations) == 0 {
		return nil
	}
	return violations
}
