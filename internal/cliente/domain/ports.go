package domain

import (
	"context"
	"fmt"
)

// ---------- Interfaces (Ports) ----------

// ClienteRepository define las operaciones persistentes para Cliente.
// Las escrituras dejan su evento en la outbox dentro de la misma transacción.
type ClienteRepository interface {
	// List devuelve todos los clientes ordenados por id; nunca nil.
	List(ctx context.Context) ([]*Cliente, error)

	// Debe devolver ErrClienteNotFound si no existe.
	GetByID(ctx context.Context, id int64) (*Cliente, error)

	// Debe devolver ErrClienteNotFound si no existe.
	GetByDni(ctx context.Context, dni string) (*Cliente, error)

	// Debe devolver ErrClienteAlreadyExists si el DNI ya está en uso.
	Create(ctx context.Context, c *Cliente) (*Cliente, error)

	// Reemplaza los cinco campos de negocio.
	// Debe devolver ErrClienteNotFound o ErrClienteAlreadyExists según el caso.
	Update(ctx context.Context, id int64, c *Cliente) (*Cliente, error)

	// Debe devolver ErrClienteNotFound si no existe.
	Delete(ctx context.Context, id int64) error
}

// ClienteMetrics cuenta las operaciones de escritura por resultado.
type ClienteMetrics interface {
	IncOperation(operation, outcome string)
}

// ClienteAuditRepository guarda el historial de eventos de cliente para analítica.
type ClienteAuditRepository interface {
	LogEvent(ctx context.Context, entry AuditEntry) error
}

// ---------- Helpers comunes (cache keys, etc.) ----------

// CacheKeyByID forma una key consistente para cache usando ID.
func CacheKeyByID(id int64) string {
	return fmt.Sprintf("cliente:id:%d", id)
}
