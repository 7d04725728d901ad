package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/davicafu/clientelab/internal/cliente/domain"
	sharedDomain "github.com/davicafu/clientelab/internal/shared/domain"
)

// ClienteRepoMemory guarda clientes en un mapa. Sirve para DB_DRIVER=memory y para tests.
// Los eventos quedan en Outbox igual que en la tabla de las implementaciones SQL.
type ClienteRepoMemory struct {
	mu     sync.RWMutex
	items  map[int64]domain.Cliente
	nextID int64
	Outbox []sharedDomain.OutboxEvent
}

func NewClienteRepoMemory() *ClienteRepoMemory {
	return &ClienteRepoMemory{items: make(map[int64]domain.Cliente)}
}

func (r *ClienteRepoMemory) List(ctx context.Context) ([]*domain.Cliente, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clientes := make([]*domain.Cliente, 0, len(r.items))
	for _, c := range r.items {
		c := c
		clientes = append(clientes, &c)
	}
	sort.Slice(clientes, func(i, j int) bool { return clientes[i].ID < clientes[j].ID })
	return clientes, nil
}

func (r *ClienteRepoMemory) GetByID(ctx context.Context, id int64) (*domain.Cliente, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[id]
	if !ok {
		return nil, domain.ErrClienteNotFound
	}
	return &c, nil
}

func (r *ClienteRepoMemory) GetByDni(ctx context.Context, dni string) (*domain.Cliente, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, ok := r.findByDni(dni); ok {
		return &c, nil
	}
	return nil, domain.ErrClienteNotFound
}

func (r *ClienteRepoMemory) Create(ctx context.Context, c *domain.Cliente) (*domain.Cliente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.findByDni(c.Dni); taken {
		return nil, domain.ErrClienteAlreadyExists
	}

	r.nextID++
	stored := *c
	stored.ID = r.nextID
	r.items[stored.ID] = stored
	r.Outbox = append(r.Outbox, domain.NewOutboxEvent(domain.ClienteCreated, &stored))

	return &stored, nil
}

func (r *ClienteRepoMemory) Update(ctx context.Context, id int64, c *domain.Cliente) (*domain.Cliente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return nil, domain.ErrClienteNotFound
	}
	if other, taken := r.findByDni(c.Dni); taken && other.ID != id {
		return nil, domain.ErrClienteAlreadyExists
	}

	stored := *c
	stored.ID = id
	r.items[id] = stored
	r.Outbox = append(r.Outbox, domain.NewOutboxEvent(domain.ClienteUpdated, &stored))

	return &stored, nil
}

func (r *ClienteRepoMemory) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[id]
	if !ok {
		return domain.ErrClienteNotFound
	}
	delete(r.items, id)
	r.Outbox = append(r.Outbox, domain.NewOutboxEvent(domain.ClienteDeleted, &c))

	return nil
}

// findByDni exige que el llamador tenga el lock.
func (r *ClienteRepoMemory) findByDni(dni string) (domain.Cliente, bool) {
	for _, c := range r.items {
		if c.Dni == dni {
			return c, true
		}
	}
	return domain.Cliente{}, false
}

// ---------------- Outbox en memoria -----------------

func (r *ClienteRepoMemory) FetchPendingOutbox(ctx context.Context, limit int) ([]sharedDomain.OutboxEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var pending []sharedDomain.OutboxEvent
	for _, evt := range r.Outbox {
		if len(pending) >= limit {
			break
		}
		if !evt.Processed {
			pending = append(pending, evt)
		}
	}
	return pending, nil
}

func (r *ClienteRepoMemory) MarkOutboxProcessed(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.Outbox {
		if r.Outbox[i].ID == id {
			r.Outbox[i].Processed = true
			return nil
		}
	}
	return fmt.Errorf("outbox event not found: %s", id)
}

var (
	_ domain.ClienteRepository      = (*ClienteRepoMemory)(nil)
	_ sharedDomain.OutboxRepository = (*ClienteRepoMemory)(nil)
)
