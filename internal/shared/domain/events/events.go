package events

import (
	"encoding/json"
	"reflect"
	"time"
)

// IntegrationEvent es el sobre que viaja por el bus, sea Kafka o memoria.
type IntegrationEvent struct {
	Type        string          `json:"type"`
	Topic       string          `json:"topic"`
	AggregateID string          `json:"aggregate_id"`
	Timestamp   time.Time       `json:"timestamp"`
	Data        json.RawMessage `json:"data"` // contenido específico del evento
}

// PartitionKey mantiene los eventos de un mismo agregado en la misma partición.
func (e IntegrationEvent) PartitionKey() string {
	return e.AggregateID
}

// Route devuelve el topic destino del evento.
func (e IntegrationEvent) Route() string {
	return e.Topic
}

// EventMetadata dice cómo decodificar el payload de un tipo de evento y a dónde enviarlo.
type EventMetadata struct {
	Type  reflect.Type
	Topic string
}
