package events

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/davicafu/clientelab/internal/cliente/domain"
	sharedEvents "github.com/davicafu/clientelab/internal/shared/domain/events"
	sharedUtils "github.com/davicafu/clientelab/internal/shared/infra/utils"
)

const auditTimeout = 2 * time.Second

// ClienteAuditConsumer registra los eventos de cliente publicados por el outbox.
// Sin repositorio de auditoría solo los escribe en el log.
type ClienteAuditConsumer struct {
	audit domain.ClienteAuditRepository
	log   *zap.Logger
}

func NewClienteAuditConsumer(audit domain.ClienteAuditRepository, log *zap.Logger) *ClienteAuditConsumer {
	return &ClienteAuditConsumer{audit: audit, log: log}
}

func (c *ClienteAuditConsumer) HandleMessage(ctx context.Context, key string, payload []byte) {
	var base sharedEvents.IntegrationEvent
	if err := json.Unmarshal(payload, &base); err != nil {
		c.log.Warn("Failed to unmarshal integration event", zap.String("key", key), zap.Error(err))
		return
	}

	switch base.Type {
	case domain.ClienteCreated, domain.ClienteUpdated, domain.ClienteDeleted:
		sharedUtils.UnmarshalAndHandle[domain.Cliente](c.log, base.Data, func(cliente domain.Cliente) {
			c.record(ctx, base, cliente)
		})
	default:
		c.log.Warn("Unknown event type", zap.String("type", base.Type))
	}
}

func (c *ClienteAuditConsumer) record(ctx context.Context, base sharedEvents.IntegrationEvent, cliente domain.Cliente) {
	c.log.Info("Cliente event received",
		zap.String("type", base.Type),
		zap.Int64("cliente_id", cliente.ID),
		zap.String("dni", cliente.Dni),
	)
	if c.audit == nil {
		return
	}

	eventTime := base.Timestamp
	if eventTime.IsZero() {
		eventTime = time.Now().UTC()
	}

	ctxAudit, cancel := context.WithTimeout(ctx, auditTimeout)
	defer cancel()

	entry := domain.AuditEntry{EventType: base.Type, Cliente: cliente, EventTime: eventTime}
	if err := c.audit.LogEvent(ctxAudit, entry); err != nil {
		c.log.Warn("Failed to store cliente event",
			zap.String("type", base.Type),
			zap.Int64("cliente_id", cliente.ID),
			zap.Error(err),
		)
	}
}
