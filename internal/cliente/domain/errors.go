package domain

import (
	sharedDomain "github.com/davicafu/clientelab/internal/shared/domain"
)

// Condition y Violations se comparten con el resto de contextos.
type (
	Condition  = sharedDomain.Condition
	Violations = sharedDomain.Violations
)

// ---------- Errores de dominio ----------
// Conjunto cerrado: los mensajes son contrato con el cliente HTTP.
var (
	ErrDBConnection = sharedDomain.ErrDBConnection
	ErrDBQuery      = sharedDomain.ErrDBQuery

	ErrClienteNotFound      = sharedDomain.NewCondition("CLIENTE_NOT_FOUND", "Cliente no encontrado")
	ErrClienteAlreadyExists = sharedDomain.NewCondition("CLIENTE_ALREADY_EXISTS", "Ya existe un cliente con ese DNI")
	ErrClienteInvalidData   = sharedDomain.NewCondition("CLIENTE_INVALID_DATA", "Datos de cliente inválidos")

	// Validación por campo; los dos apellidos comparten código.
	ErrClienteInvalidDni             = sharedDomain.NewCondition("CLIENTE_INVALID_DNI", "El DNI proporcionado no es válido")
	ErrClienteInvalidNombre          = sharedDomain.NewCondition("CLIENTE_INVALID_NOMBRE", "El nombre proporcionado no es válido")
	ErrClienteInvalidApellido        = sharedDomain.NewCondition("CLIENTE_INVALID_APELLIDO", "El apellido proporcionado no es válido")
	ErrClienteInvalidApellidoPaterno = sharedDomain.NewCondition("CLIENTE_INVALID_APELLIDO", "El apellido paterno proporcionado no es válido")
	ErrClienteInvalidApellidoMaterno = sharedDomain.NewCondition("CLIENTE_INVALID_APELLIDO", "El apellido materno proporcionado no es válido")
	ErrClienteInvalidFecha           = sharedDomain.NewCondition("CLIENTE_INVALID_FECHA", "La fecha de nacimiento proporcionada no es válida")
	ErrClienteFechaFutura            = sharedDomain.NewCondition("CLIENTE_INVALID_FECHA", "La fecha de nacimiento no puede ser futura")

	// Fallos opacos por operación: la causa se registra, no se expone.
	ErrClienteCreate = sharedDomain.NewCondition("CLIENTE_CREATE_ERROR", "Error al crear el cliente")
	ErrClienteUpdate = sharedDomain.NewCondition("CLIENTE_UPDATE_ERROR", "Error al actualizar el cliente")
	ErrClienteDelete = sharedDomain.NewCondition("CLIENTE_DELETE_ERROR", "Error al eliminar el cliente")
	ErrClienteFetch  = sharedDomain.NewCondition("CLIENTE_FETCH_ERROR", "Error al obtener los datos del cliente")
	ErrClientesFetch = sharedDomain.NewCondition("CLIENTES_FETCH_ERROR", "Error al obtener la lista de clientes")
)

// MsgClienteEliminado es el cuerpo de éxito de un borrado.
const MsgClienteEliminado = "Cliente eliminado correctamente"
