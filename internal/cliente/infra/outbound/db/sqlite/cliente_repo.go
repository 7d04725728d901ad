package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/davicafu/clientelab/internal/cliente/domain"
	sharedDB "github.com/davicafu/clientelab/internal/shared/infra/platform/db"
	sharedOutbox "github.com/davicafu/clientelab/internal/shared/infra/platform/db/sqlite"
)

const clienteColumns = `id, dni, nombre, apellido_paterno, apellido_materno, fecha_nacimiento`

type ClienteRepoSQLite struct {
	db *sql.DB
}

func NewClienteRepoSQLite(db *sql.DB) *ClienteRepoSQLite {
	return &ClienteRepoSQLite{db: db}
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

// isUniqueViolation detecta el choque con UNIQUE(dni).
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
		(code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(sqliteErr.Error(), "UNIQUE"))
}

// ------------------ Lectura ------------------

func (r *ClienteRepoSQLite) List(ctx context.Context) ([]*domain.Cliente, error) {
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

func (r *ClienteRepoSQLite) GetByID(ctx context.Context, id int64) (*domain.Cliente, error) {
	return r.getOne(ctx, `SELECT `+clienteColumns+` FROM clientes WHERE id = ?`, id)
}

func (r *ClienteRepoSQLite) GetByDni(ctx context.Context, dni string) (*domain.Cliente, error) {
	return r.getOne(ctx, `SELECT `+clienteColumns+` FROM clientes WHERE dni = ?`, dni)
}

func (r *ClienteRepoSQLite) getOne(ctx context.Context, query string, arg interface{}) (*domain.Cliente, error) {
	c, err := scanCliente(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrClienteNotFound
		}
		return nil, sharedDB.QueryError(err)
	}
	return c, nil
}

// ------------------ Escritura + Outbox ------------------

// Create inserta el cliente y su evento en la misma transacción
func (r *ClienteRepoSQLite) Create(ctx context.Context, c *domain.Cliente) (out *domain.Cliente, err error) {
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
		 VALUES (?, ?, ?, ?, ?) RETURNING `+clienteColumns,
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

// Update reemplaza los campos de negocio y deja el evento en outbox
func (r *ClienteRepoSQLite) Update(ctx context.Context, id int64, c *domain.Cliente) (out *domain.Cliente, err error) {
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
		 SET dni = ?, nombre = ?, apellido_paterno = ?, apellido_materno = ?, fecha_nacimiento = ?
		 WHERE id = ? RETURNING `+clienteColumns,
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

// Delete borra el cliente; el evento lleva su último estado
func (r *ClienteRepoSQLite) Delete(ctx context.Context, id int64) (err error) {
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
		`DELETE FROM clientes WHERE id = ? RETURNING `+clienteColumns, id,
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

// ------------------ Inicialización de DB ------------------

// InitSQLite crea las tablas clientes y outbox si no existen
func InitSQLite(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS clientes (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            dni TEXT NOT NULL UNIQUE,
            nombre TEXT NOT NULL,
            apellido_paterno TEXT NOT NULL,
            apellido_materno TEXT NOT NULL,
            fecha_nacimiento TEXT NOT NULL
        )
    `)
	if err != nil {
		return err
	}

	return sharedOutbox.InitOutbox(ctx, db)
}

var _ domain.ClienteRepository = (*ClienteRepoSQLite)(nil)
