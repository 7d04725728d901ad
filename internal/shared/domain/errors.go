package domain

import (
	"fmt"
	"strings"
)

// Condition es un error con nombre: código estable y mensaje fijo para el cliente HTTP.
// El status lo decide quien responde, no el error.
type Condition struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewCondition(code, message string) *Condition {
	return &Condition{Code: code, Message: message}
}

func (c *Condition) Error() string {
	return c.Message
}

// With envuelve la causa real detrás de la condición.
// errors.As sobre el resultado encuentra primero la condición.
func (c *Condition) With(cause error) error {
	if cause == nil {
		return c
	}
	return fmt.Errorf("%w: %w", c, cause)
}

// Violations agrupa todas las condiciones de validación en el orden en que se detectaron.
type Violations []*Condition

func (v Violations) Error() string {
	return strings.Join(v.Messages(), "; ")
}

func (v Violations) Messages() []string {
	msgs := make([]string, 0, len(v))
	for _, c := range v {
		msgs = append(msgs, c.Message)
	}
	return msgs
}

// ---------- Errores de infraestructura compartidos ----------
var (
	ErrDBConnection = NewCondition("DB_CONNECTION_ERROR", "Error de conexión a la base de datos")
	ErrDBQuery      = NewCondition("DB_QUERY_ERROR", "Error al ejecutar la consulta en la base de datos")
)
