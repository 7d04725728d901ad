package bus

import "context"

// Keyer lo implementan los eventos que necesitan orden por clave (partición en Kafka).
type Keyer interface {
	PartitionKey() string
}

// Router lo implementan los eventos que saben a qué topic van.
type Router interface {
	Route() string
}

// EventBus publica un evento ya tipado. La serialización la decide cada adapter.
type EventBus interface {
	Publish(ctx context.Context, event interface{}) error
}
