package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/davicafu/clientelab/internal/cliente/domain"
	"github.com/davicafu/clientelab/internal/cliente/infra/outbound/db/memory"
	sharedCache "github.com/davicafu/clientelab/internal/shared/infra/platform/cache"
)

type recordingMetrics struct {
	mu    sync.Mutex
	calls []string
}

func (m *recordingMetrics) IncOperation(operation, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, operation+":"+outcome)
}

func newCliente(dni string) *domain.Cliente {
	return &domain.Cliente{
		Dni:             dni,
		Nombre:          "Ana",
		ApellidoPaterno: "García",
		ApellidoMaterno: "López",
		FechaNacimiento: domain.NewFecha(1990, time.May, 10),
	}
}

func TestCreateCliente_Success(t *testing.T) {
	repo := memory.NewClienteRepoMemory()
	metrics := &recordingMetrics{}
	service := NewClienteService(repo, nil, time.Minute, metrics, zap.NewNop())

	c, err := service.CreateCliente(context.Background(), newCliente("12345678"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.ID)

	assert.Len(t, repo.Outbox, 1)
	assert.Equal(t, domain.ClienteCreated, repo.Outbox[0].EventType)
	assert.Equal(t, "1", repo.Outbox[0].AggregateID)
	assert.Equal(t, []string{"create:ok"}, metrics.calls)
}

func TestCreateCliente_AlreadyExists(t *testing.T) {
	repo := memory.NewClienteRepoMemory()
	metrics := &recordingMetrics{}
	service := NewClienteService(repo, nil, time.Minute, metrics, zap.NewNop())

	_, err := service.CreateCliente(context.Background(), newCliente("12345678"))
	require.NoError(t, err)

	_, err = service.CreateCliente(context.Background(), newCliente("12345678"))
	assert.ErrorIs(t, err, domain.ErrClienteAlreadyExists)
	assert.Equal(t, []string{"create:ok", "create:conflict"}, metrics.calls)
}

func TestGetClienteByID_NotFound(t *testing.T) {
	service := NewClienteService(memory.NewClienteRepoMemory(), nil, time.Minute, nil, zap.NewNop())

	_, err := service.GetClienteByID(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrClienteNotFound)
}

func TestGetClienteByID_CacheHit(t *testing.T) {
	cache := sharedCache.NewInMemoryCache(time.Minute, time.Minute)
	defer cache.Stop()

	cached := newCliente("12345678")
	cached.ID = 5
	cached.Nombre = "Desde caché"
	require.NoError(t, cache.Set(context.Background(), domain.CacheKeyByID(5), cached, 60))

	service := NewClienteService(memory.NewClienteRepoMemory(), cache, time.Minute, nil, zap.NewNop())

	c, err := service.GetClienteByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Desde caché", c.Nombre)
}

func TestGetClienteByID_CacheMissFillsCache(t *testing.T) {
	cache := sharedCache.NewInMemoryCache(time.Minute, time.Minute)
	defer cache.Stop()
	repo := memory.NewClienteRepoMemory()
	service := NewClienteService(repo, cache, time.Minute, nil, zap.NewNop())

	created, err := repo.Create(context.Background(), newCliente("12345678"))
	require.NoError(t, err)

	c, err := service.GetClienteByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, c.ID)

	assert.Eventually(t, func() bool {
		var hit domain.Cliente
		ok, _ := cache.Get(context.Background(), domain.CacheKeyByID(created.ID), &hit)
		return ok && hit.Dni == "12345678"
	}, time.Second, 5*time.Millisecond)
}

func TestUpdateAndDelete_InvalidateCache(t *testing.T) {
	cache := sharedCache.NewInMemoryCache(time.Minute, time.Minute)
	defer cache.Stop()
	repo := memory.NewClienteRepoMemory()
	service := NewClienteService(repo, cache, time.Minute, nil, zap.NewNop())
	ctx := context.Background()

	created, err := service.CreateCliente(ctx, newCliente("12345678"))
	require.NoError(t, err)
	key := domain.CacheKeyByID(created.ID)

	require.NoError(t, cache.Set(ctx, key, created, 60))
	_, err = service.UpdateCliente(ctx, created.ID, newCliente("87654321"))
	require.NoError(t, err)

	var c domain.Cliente
	ok, _ := cache.Get(ctx, key, &c)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, key, created, 60))
	require.NoError(t, service.DeleteCliente(ctx, created.ID))
	ok, _ = cache.Get(ctx, key, &c)
	assert.False(t, ok)

	assert.Len(t, repo.Outbox, 3)
	assert.Equal(t, domain.ClienteDeleted, repo.Outbox[2].EventType)
}

func TestGetClienteForWrite_DoesNotFillCache(t *testing.T) {
	cache := sharedCache.NewInMemoryCache(time.Minute, time.Minute)
	defer cache.Stop()
	repo := memory.NewClienteRepoMemory()
	service := NewClienteService(repo, cache, time.Minute, nil, zap.NewNop())
	ctx := context.Background()

	created, err := repo.Create(ctx, newCliente("12345678"))
	require.NoError(t, err)

	c, err := service.GetClienteForWrite(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, c.ID)

	require.NoError(t, service.DeleteCliente(ctx, created.ID))

	assert.Never(t, func() bool {
		var hit domain.Cliente
		ok, _ := cache.Get(ctx, domain.CacheKeyByID(created.ID), &hit)
		return ok
	}, 100*time.Millisecond, 5*time.Millisecond)

	_, err = service.GetClienteByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrClienteNotFound)
}

type recordingCache struct {
	mu   sync.Mutex
	ttls []int
}

func (c *recordingCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	return false, nil
}

func (c *recordingCache) Set(ctx context.Context, key string, val interface{}, ttlSecs int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ttls = append(c.ttls, ttlSecs)
	return nil
}

func (c *recordingCache) Delete(ctx context.Context, key string) error { return nil }

func (c *recordingCache) recorded() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.ttls...)
}

func TestGetClienteByID_UsesConfiguredTTL(t *testing.T) {
	cache := &recordingCache{}
	repo := memory.NewClienteRepoMemory()
	service := NewClienteService(repo, cache, 5*time.Minute, nil, zap.NewNop())

	created, err := repo.Create(context.Background(), newCliente("12345678"))
	require.NoError(t, err)
	_, err = service.GetClienteByID(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		ttls := cache.recorded()
		return len(ttls) == 1 && ttls[0] == 300
	}, time.Second, 5*time.Millisecond)
}

type failingRepo struct {
	memory.ClienteRepoMemory
}

func (f *failingRepo) Delete(ctx context.Context, id int64) error {
	return errors.New("disk full")
}

func TestDeleteCliente_RecordsError(t *testing.T) {
	metrics := &recordingMetrics{}
	service := NewClienteService(&failingRepo{}, nil, time.Minute, metrics, zap.NewNop())

	err := service.DeleteCliente(context.Background(), 1)
	assert.EqualError(t, err, "disk full")
	assert.Equal(t, []string{"delete:error"}, metrics.calls)
}
