package clickhouse

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"

	"github.com/davicafu/clientelab/internal/cliente/domain"
)

// ClienteAuditRepo implementa ClienteAuditRepository sobre ClickHouse.
type ClienteAuditRepo struct {
	db *sql.DB
}

// Open conecta con ClickHouse y comprueba la conexión.
func Open(ctx context.Context, addr, dbName string) (*sql.DB, error) {
	conn := clickhouse.OpenDB(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: dbName,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
	})

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("could not ping clickhouse: %w", err)
	}
	return conn, nil
}

func NewClienteAuditRepo(db *sql.DB) *ClienteAuditRepo {
	return &ClienteAuditRepo{db: db}
}

// InitSchema crea clientes_log si no existe. Particionada por mes, ordenada por dni.
func (r *ClienteAuditRepo) InitSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS clientes_log (
			event_type       LowCardinality(String),
			id               Int64,
			dni              String,
			nombre           String,
			apellido_paterno String,
			apellido_materno String,
			fecha_nacimiento Date,
			event_time       DateTime64(3)
		) ENGINE = MergeTree()
		PARTITION BY toYYYYMM(event_time)
		ORDER BY (dni, event_time)
	`
	_, err := r.db.ExecContext(ctx, query)
	return err
}

// LogEvent añade una fila al historial. clickhouse-go solo inserta dentro de un batch (tx + prepare).
func (r *ClienteAuditRepo) LogEvent(ctx context.Context, entry domain.AuditEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO clientes_log (event_type, id, dni, nombre, apellido_paterno, apellido_materno, fecha_nacimiento, event_time)")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	c := entry.Cliente
	if _, err := stmt.ExecContext(
		ctx,
		entry.EventType,
		c.ID,
		c.Dni,
		c.Nombre,
		c.ApellidoPaterno,
		c.ApellidoMaterno,
		c.FechaNacimiento.Time,
		entry.EventTime,
	); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to log cliente event %s for %d: %w", entry.EventType, c.ID, err)
	}

	return tx.Commit()
}

var _ domain.ClienteAuditRepository = (*ClienteAuditRepo)(nil)
