package domain

import (
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/davicafu/clientelab/internal/shared/domain"
	sharedEvents "github.com/davicafu/clientelab/internal/shared/domain/events"
)

const (
	ClienteCreated = "cliente.created"
	ClienteUpdated = "cliente.updated"
	ClienteDeleted = "cliente.deleted"
)

const (
	ClienteTopic         = "cliente"
	ClienteAggregateType = "cliente"
)

func NewEventRegistry() map[string]sharedEvents.EventMetadata {
	return map[string]sharedEvents.EventMetadata{
		ClienteCreated: {
			Type:  reflect.TypeOf(Cliente{}),
			Topic: ClienteTopic,
		},
		ClienteUpdated: {
			Type:  reflect.TypeOf(Cliente{}),
			Topic: ClienteTopic,
		},
		ClienteDeleted: {
			Type:  reflect.TypeOf(Cliente{}),
			Topic: ClienteTopic,
		},
	}
}

// NewOutboxEvent construye el evento de outbox para un cliente ya persistido.
// Para borrados, c es el último estado conocido del cliente.
func NewOutboxEvent(eventType string, c *Cliente) sharedDomain.OutboxEvent {
	return sharedDomain.OutboxEvent{
		ID:            uuid.New(),
		AggregateType: ClienteAggregateType,
		AggregateID:   strconv.FormatInt(c.ID, 10),
		EventType:     eventType,
		Payload:       c,
		CreatedAt:     time.Now().UTC(),
	}
}

// AuditEntry es una fila del historial de eventos de cliente.
type AuditEntry struct {
	EventType string
	Cliente   Cliente
	EventTime time.Time
}
