package postgre

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/davicafu/clientelab/internal/cliente/domain"
	sharedDB "github.com/davicafu/clientelab/internal/shared/infra/platform/db"
	sharedOutbox "github.com/davicafu/clientelab/internal/shared/infra/platform/db/postgres"
)

const (
	clienteColumns = `id, dni, nombre, apellido_paterno, apellido_materno, fecha_nacimiento`

	// uniqueViolation es el SQLSTATE de Postgres para una clave única duplicada.
	uniqueViolation = "23505"
)

type ClienteRepoPostgres struct {
	db *sql.DB
}

func NewClienteRepoPostgres(db *sql.DB) *ClienteRepoPostgres {
	return &ClienteRepoPostgres{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCliente(row rowScanner) (*domain.Cliente, error) {
	var c domain.Cliente
	if err := row.Scan(&c.ID, &c.Dni, &c.Nombre, &c.ApellidoPaterno, &c.ApellidoMaterno, &c.FechaNacimiento); err != nil {
		return nil, err
	}
	return &c, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// ------------------ Lectura ------------------

func (r *ClienteRepoPostgres) List(ctx context.Context) ([]*domain.Cliente, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+clienteColumns+` FROM clientes ORDER BY id`)
	if err != nil {
		return nil, sharedDB.QueryError(err)
	}
	defer rows.Close()

	clientes := make([]*domain.Cliente, 0)
	for rows.Next() {
		c, err := scanCliente(rows)
		if err != nil {
			return nil, sharedDB.QueryError(err)
		}
		clientes = append(clientes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, sharedDB.QueryError(err)
	}
	return clientes, nil
}

func (r *ClienteRepoPostgres) GetByID(ctx context.Context, id int64) (*domain.Cliente, error) {
	return r.getOne(ctx, `SELECT `+clienteColumns+` FROM clientes WHERE id = $1`, id)
}

func (r *ClienteRepoPostgres) GetByDni(ctx context.Context, dni string) (*domain.Cliente, error) {
	return r.getOne(ctx, `SELECT `+clienteColumns+` FROM clientes WHERE dni = $1`, dni)
}

func (r *ClienteRepoPostgres) getOne(ctx context.Context, query string, arg interface{}) (*domain.Cliente, error) {
	c, err := scanCliente(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrClienteNotFound
		}
		return nil, sharedDB.QueryError(err)
	}
	return c, nil
}

// ------------------ CRUD + Outbox ------------------

func (r *ClienteRepoPostgres) Create(ctx context.Context, c *domain.Cliente) (out *domain.Cliente, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, sharedDB.QueryError(err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	out, err = scanCliente(tx.QueryRowContext(ctx,
		`INSERT INTO clientes (dni, nombre, apellido_paterno, apellido_materno, fecha_nacimiento)
		 VALUES ($1, $2, $3, $4, $5) RETURNING `+clienteColumns,
		c.Dni, c.Nombre, c.ApellidoPaterno, c.ApellidoMaterno, c.FechaNacimiento,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrClienteAlreadyExists
		}
		return nil, sharedDB.QueryError(err)
	}

	if err = sharedOutbox.InsertOutboxTx(ctx, tx, domain.NewOutboxEvent(domain.ClienteCreated, out)); err != nil {
		return nil, sharedDB.QueryError(err)
	}

	if err = tx.Commit(); err != nil {
		return nil, sharedDB.QueryError(err)
	}
	return out, nil
}

func (r *ClienteRepoPostgres) Update(ctx context.Context, id int64, c *domain.Cliente) (out *domain.Cliente, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, sharedDB.QueryError(err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	out, err = scanCliente(tx.QueryRowContext(ctx,
		`UPDATE clientes
		 SET dni = $1, nombre = $2, apellido_paterno = $3, apellido_materno = $4, fecha_nacimiento = $5
		 WHERE id = $6 RETURNING `+clienteColumns,
		c.Dni, c.Nombre, c.ApellidoPaterno, c.ApellidoMaterno, c.FechaNacimiento, id,
	))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, domain.ErrClienteNotFound
		case isUniqueViolation(err):
			return nil, domain.ErrClienteAlreadyExists
		}
		return nil, sharedDB.QueryError(err)
	}

	if err = sharedOutbox.InsertOutboxTx(ctx, tx, domain.NewOutboxEvent(domain.ClienteUpdated, out)); err != nil {
		return nil, sharedDB.QueryError(err)
	}

	if err = tx.Commit(); err != nil {
		return nil, sharedDB.QueryError(err)
	}
	return out, nil
}

func (r *ClienteRepoPostgres) Delete(ctx context.Context, id int64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return sharedDB.QueryError(err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	deleted, err := scanCliente(tx.QueryRowContext(ctx,
		`DELETE FROM clientes WHERE id = $1 RETURNING `+clienteColumns, id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrClienteNotFound
		}
		return sharedDB.QueryError(err)
	}

	if err = sharedOutbox.InsertOutboxTx(ctx, tx, domain.NewOutboxEvent(domain.ClienteDeleted, deleted)); err != nil {
		return sharedDB.QueryError(err)
	}

	if err = tx.Commit(); err != nil {
		return sharedDB.QueryError(err)
	}
	return nil
}

// ------------------ Inicialización ------------------

func InitPostgres(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS clientes (
		id SERIAL PRIMARY KEY,
		dni VARCHAR(20) NOT NULL UNIQUE,
		nombre VARCHAR(100) NOT NULL,
		apellido_paterno VARCHAR(100) NOT NULL,
		apellido_materno VARCHAR(100) NOT NULL,
		fecha_nacimiento DATE NOT NULL
	)`)
	if err != nil {
		return err
	}

	return sharedOutbox.InitOutbox(ctx, db)
}

var _ domain.ClienteRepository = (*ClienteRepoPostgres)(nil)
