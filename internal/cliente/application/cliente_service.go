package application

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/davicafu/clientelab/internal/cliente/domain"
	sharedCache "github.com/davicafu/clientelab/internal/shared/infra/platform/cache"
)

// ClienteService expone los casos de uso de Cliente.
// Reenvía al repositorio; la caché solo acelera GetClienteByID.
type ClienteService struct {
	repo     domain.ClienteRepository
	cache    sharedCache.Cache
	cacheTTL int // segundos; 0 usa el TTL por defecto de la caché
	metrics  domain.ClienteMetrics
	log      *zap.Logger
}

// NewClienteService acepta cache y metrics nil.
func NewClienteService(repo domain.ClienteRepository, cache sharedCache.Cache, cacheTTL time.Duration, metrics domain.ClienteMetrics, log *zap.Logger) *ClienteService {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &ClienteService{
		repo:     repo,
		cache:    cache,
		cacheTTL: int(cacheTTL / time.Second),
		metrics:  metrics,
		log:      log,
	}
}

func (s *ClienteService) GetAllClientes(ctx context.Context) ([]*domain.Cliente, error) {
	return s.repo.List(ctx)
}

// GetClienteByID obtiene un cliente (primero intenta desde cache).
func (s *ClienteService) GetClienteByID(ctx context.Context, id int64) (*domain.Cliente, error) {
	key := domain.CacheKeyByID(id)
	if s.cache != nil {
		var c domain.Cliente
		ok, err := s.cache.Get(ctx, key, &c)
		if err != nil {
			s.log.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		}
		if ok {
			return &c, nil
		}
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sharedCache.AsyncCacheSet(s.cache, key, c, s.cacheTTL, s.log)
	return c, nil
}

// GetClienteForWrite lee del repositorio sin tocar la caché. Es la lectura previa a
// UpdateCliente/DeleteCliente: rellenar la caché aquí podría volver a guardar el valor
// viejo después de la invalidación.
func (s *ClienteService) GetClienteForWrite(ctx context.Context, id int64) (*domain.Cliente, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ClienteService) GetClienteByDni(ctx context.Context, dni string) (*domain.Cliente, error) {
	return s.repo.GetByDni(ctx, dni)
}

func (s *ClienteService) CreateCliente(ctx context.Context, c *domain.Cliente) (*domain.Cliente, error) {
	created, err := s.repo.Create(ctx, c)
	s.record("create", err)
	if err != nil {
		return nil, err
	}

	s.log.Info("Cliente creado", zap.Int64("id", created.ID))
	return created, nil
}

func (s *ClienteService) UpdateCliente(ctx context.Context, id int64, c *domain.Cliente) (*domain.Cliente, error) {
	updated, err := s.repo.Update(ctx, id, c)
	s.record("update", err)
	if err != nil {
		return nil, err
	}

	sharedCache.Invalidate(ctx, s.cache, domain.CacheKeyByID(id), s.log)
	s.log.Info("Cliente actualizado", zap.Int64("id", id))
	return updated, nil
}

func (s *ClienteService) DeleteCliente(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	s.record("delete", err)
	if err != nil {
		return err
	}

	sharedCache.Invalidate(ctx, s.cache, domain.CacheKeyByID(id), s.log)
	s.log.Info("Cliente eliminado", zap.Int64("id", id))
	return nil
}

func (s *ClienteService) record(operation string, err error) {
	switch {
	case err == nil:
		s.metrics.IncOperation(operation, "ok")
	case errors.Is(err, domain.ErrClienteNotFound):
		s.metrics.IncOperation(operation, "not_found")
	case errors.Is(err, domain.ErrClienteAlreadyExists):
		s.metrics.IncOperation(operation, "conflict")
	default:
		s.metrics.IncOperation(operation, "error")
	}
}

type nopMetrics struct{}

func (nopMetrics) IncOperation(string, string) {}
