package domain

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"

	sharedBus "github.com/davicafu/clientelab/internal/shared/infra/platform/bus"
)

// FechaLayout es el formato de fecha de nacimiento en JSON y en base de datos.
const FechaLayout = "2006-01-02"

// Cliente es una persona identificada por su DNI.
// ID lo asigna el almacenamiento y no cambia nunca.
type Cliente struct {
	ID              int64  `json:"id"`
	Dni             string `json:"dni"`
	Nombre          string `json:"nombre"`
	ApellidoPaterno string `json:"apellido_paterno"`
	ApellidoMaterno string `json:"apellido_materno"`
	FechaNacimiento Fecha  `json:"fecha_nacimiento"`
}

func (c *Cliente) PartitionKey() string {
	return strconv.FormatInt(c.ID, 10)
}

var _ sharedBus.Keyer = (*Cliente)(nil)

// ClienteInput son los cinco campos de negocio tal como llegan en el body.
// Se validan con ValidateCliente antes de tocar el repositorio.
type ClienteInput struct {
	Dni             string `json:"dni"`
	Nombre          string `json:"nombre"`
	ApellidoPaterno string `json:"apellido_paterno"`
	ApellidoMaterno string `json:"apellido_materno"`
	FechaNacimiento string `json:"fecha_nacimiento"`
}

// ToCliente convierte un input ya validado en entidad (sin ID).
func (in ClienteInput) ToCliente() (*Cliente, error) {
	fecha, err := ParseFecha(in.FechaNacimiento)
	if err != nil {
		return nil, err
	}
	return &Cliente{
		Dni:             in.Dni,
		Nombre:          strings.TrimSpace(in.Nombre),
		ApellidoPaterno: strings.TrimSpace(in.ApellidoPaterno),
		ApellidoMaterno: strings.TrimSpace(in.ApellidoMaterno),
		FechaNacimiento: fecha,
	}, nil
}

// ---------- Fecha ----------

// Fecha es una fecha de calendario sin hora, en UTC.
type Fecha struct {
	time.Time
}

func NewFecha(year int, month time.Month, day int) Fecha {
	return Fecha{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// fechaLayouts son los formatos aceptados en la entrada, del más habitual al menos.
var fechaLayouts = []string{
	FechaLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseInstante acepta una fecha ISO con o sin hora y conserva la hora si la trae.
// Sin hora ni zona el resultado es medianoche UTC.
func ParseInstante(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range fechaLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// ParseFecha es ParseInstante truncado al día.
func ParseFecha(s string) (Fecha, error) {
	t, err := ParseInstante(s)
	if err != nil {
		return Fecha{}, err
	}
	y, m, d := t.Date()
	return NewFecha(y, m, d), nil
}

func (f Fecha) String() string {
	return f.Time.Format(FechaLayout)
}

func (f Fecha) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(f.String())), nil
}

func (f *Fecha) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("fecha must be a string: %w", err)
	}
	parsed, err := ParseFecha(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Scan acepta lo que devuelven pgx (time.Time) y SQLite (texto).
func (f *Fecha) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		y, m, d := v.Date()
		*f = NewFecha(y, m, d)
		return nil
	case string:
		parsed, err := ParseFecha(v)
		if err != nil {
			return err
		}
		*f = parsed
		return nil
	case []byte:
		return f.Scan(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Fecha", src)
	}
}

func (f Fecha) Value() (driver.Value, error) {
	return f.String(), nil
}
