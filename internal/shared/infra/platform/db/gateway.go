package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib" // registra el driver "pgx"
	_ "modernc.org/sqlite"             // registra el driver "sqlite"

	sharedDomain "github.com/davicafu/clientelab/internal/shared/domain"
	"github.com/davicafu/clientelab/internal/shared/infra/utils"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// PoolConfig dimensiona el pool de conexiones de database/sql.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultPoolConfig devuelve los valores de pool habituales del servicio.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
	}
}

// Open abre el pool para el driver indicado y espera a que la base responda.
// Un fallo al conectar se devuelve envuelto en ErrDBConnection.
func Open(ctx context.Context, driver, dsn string, pool PoolConfig, log *zap.Logger) (*sql.DB, error) {
	var driverName string
	switch driver {
	case DriverPostgres:
		driverName = "pgx"
	case DriverSQLite:
		driverName = "sqlite"
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, sharedDomain.ErrDBConnection.With(err)
	}

	if driver == DriverSQLite {
		// SQLite serializa escrituras; con :memory: cada conexión sería otra base.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(pool.MaxOpenConns)
		db.SetMaxIdleConns(pool.MaxIdleConns)
		db.SetConnMaxLifetime(pool.ConnMaxLifetime)
		db.SetConnMaxIdleTime(pool.ConnMaxIdleTime)
	}

	err = utils.Retry(ctx, 5, 500*time.Millisecond, func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			log.Warn("Database not ready, retrying", zap.String("driver", driver), zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, sharedDomain.ErrDBConnection.With(err)
	}

	log.Info("✅ Database connected", zap.String("driver", driver))
	return db, nil
}

// QueryError marca un fallo de sentencia como ErrDBQuery sin perder la causa.
func QueryError(err error) error {
	if err == nil {
		return nil
	}
	return sharedDomain.ErrDBQuery.With(err)
}

// Check comprueba conexión y ejecución de consultas, en ese orden.
func Check(ctx context.Context, db *sql.DB) error {
	if err := db.PingContext(ctx); err != nil {
		return sharedDomain.ErrDBConnection.With(err)
	}
	var one int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return QueryError(err)
	}
	return nil
}
