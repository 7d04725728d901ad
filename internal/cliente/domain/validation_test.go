package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func validInput() ClienteInput {
	return ClienteInput{
		Dni:             "12345678",
		Nombre:          "Ana",
		ApellidoPaterno: "García",
		ApellidoMaterno: "López",
		FechaNacimiento: "1990-05-10",
	}
}

func TestValidateDni(t *testing.T) {
	tests := []struct {
		name string
		dni  string
		want *Condition
	}{
		{"vacío", "", ErrClienteInvalidDni},
		{"siete caracteres", "1234567", ErrClienteInvalidDni},
		{"ocho caracteres", "12345678", nil},
		{"largo", "123456789012", nil},
		{"ocho runas multibyte", "ñññññññ1", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateDni(tt.dni))
		})
	}
}

func TestValidateNombreYApellidos(t *testing.T) {
	assert.Nil(t, ValidateNombre("Ana"))
	assert.Equal(t, ErrClienteInvalidNombre, ValidateNombre("   "))

	assert.Nil(t, ValidateApellido("López", ApellidoMaterno))
	assert.Equal(t, ErrClienteInvalidApellidoPaterno, ValidateApellido("", ApellidoPaterno))
	assert.Equal(t, ErrClienteInvalidApellidoMaterno, ValidateApellido("\t", ApellidoMaterno))
	assert.Equal(t, ErrClienteInvalidApellido, ValidateApellido("", "otro"))

	assert.Equal(t, "El apellido paterno proporcionado no es válido", ErrClienteInvalidApellidoPaterno.Message)
	assert.Equal(t, "El apellido materno proporcionado no es válido", ErrClienteInvalidApellidoMaterno.Message)
}

func TestValidateFechaNacimiento(t *testing.T) {
	assert.Nil(t, ValidateFechaNacimiento("1990-05-10", fixedNow))
	assert.Nil(t, ValidateFechaNacimiento("2025-06-15", fixedNow), "hoy no es futuro")
	assert.Nil(t, ValidateFechaNacimiento("1990-05-10T00:00:00Z", fixedNow))
	assert.Equal(t, ErrClienteFechaFutura, ValidateFechaNacimiento("2025-06-16", fixedNow))
	assert.Nil(t, ValidateFechaNacimiento("2025-06-15T11:59:59Z", fixedNow), "antes de now, mismo día")
	assert.Equal(t, ErrClienteFechaFutura, ValidateFechaNacimiento("2025-06-15T23:00:00Z", fixedNow), "más tarde hoy")
	assert.Equal(t, ErrClienteFechaFutura, ValidateFechaNacimiento("2025-06-15 12:00:01", fixedNow))
	assert.Equal(t, ErrClienteFechaFutura, ValidateFechaNacimiento("2025-06-15T10:00:00-05:00", fixedNow), "15:00Z")
	assert.Equal(t, ErrClienteInvalidFecha, ValidateFechaNacimiento("", fixedNow))
	assert.Equal(t, ErrClienteInvalidFecha, ValidateFechaNacimiento("no-es-fecha", fixedNow))
	assert.Equal(t, ErrClienteInvalidFecha, ValidateFechaNacimiento("1990-13-40", fixedNow))
}

func TestValidateCliente_Valid(t *testing.T) {
	assert.Nil(t, ValidateClienteAt(validInput(), fixedNow))
}

func TestValidateCliente_CollectsAllInOrder(t *testing.T) {
	v := ValidateClienteAt(ClienteInput{}, fixedNow)

	assert.Equal(t, []string{
		"El DNI proporcionado no es válido",
		"El nombre proporcionado no es válido",
		"El apellido paterno proporcionado no es válido",
		"El apellido materno proporcionado no es válido",
		"La fecha de nacimiento proporcionada no es válida",
	}, v.Messages())
}

func TestValidateCliente_OnlyFailingFields(t *testing.T) {
	in := validInput()
	in.Dni = "123"
	in.FechaNacimiento = "2999-01-01"

	v := ValidateClienteAt(in, fixedNow)
	assert.Equal(t, Violations{ErrClienteInvalidDni, ErrClienteFechaFutura}, v)
	assert.EqualError(t, v, "El DNI proporcionado no es válido; La fecha de nacimiento no puede ser futura")
}

func TestTaxonomyMessages(t *testing.T) {
	assert.Equal(t, "Error de conexión a la base de datos", ErrDBConnection.Message)
	assert.Equal(t, "Error al ejecutar la consulta en la base de datos", ErrDBQuery.Message)
	assert.Equal(t, "Cliente no encontrado", ErrClienteNotFound.Message)
	assert.Equal(t, "Ya existe un cliente con ese DNI", ErrClienteAlreadyExists.Message)
	assert.Equal(t, "Datos de cliente inválidos", ErrClienteInvalidData.Message)
	assert.Equal(t, "Error al crear el cliente", ErrClienteCreate.Message)
	assert.Equal(t, "Error al actualizar el cliente", ErrClienteUpdate.Message)
	assert.Equal(t, "Error al eliminar el cliente", ErrClienteDelete.Message)
	assert.Equal(t, "Error al obtener los datos del cliente", ErrClienteFetch.Message)
	assert.Equal(t, "Error al obtener la lista de clientes", ErrClientesFetch.Message)
}

func TestValidateClienteAt_DatetimeLaterToday(t *testing.T) {
	in := validInput()
	in.FechaNacimiento = "2025-06-15T23:00:00Z"

	assert.Equal(t, Violations{ErrClienteFechaFutura}, ValidateClienteAt(in, fixedNow))
}
