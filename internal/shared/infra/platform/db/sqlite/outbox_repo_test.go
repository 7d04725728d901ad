package sqlite

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	sharedDomain "github.com/davicafu/clientelab/internal/shared/domain"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, InitOutbox(context.Background(), db))
	t.Cleanup(func() { db.Close() })
	return db
}

func insertEvent(t *testing.T, db *sql.DB, evt sharedDomain.OutboxEvent) {
	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, InsertOutboxTx(context.Background(), tx, evt))
	require.NoError(t, tx.Commit())
}

func TestOutboxRepoSQLite_FetchAndMark(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOutboxRepoSQLite(db)
	ctx := context.Background()

	first := sharedDomain.OutboxEvent{
		ID:            uuid.New(),
		AggregateType: "cliente",
		AggregateID:   "1",
		EventType:     "cliente.created",
		Payload:       map[string]interface{}{"id": 1, "dni": "12345678"},
		CreatedAt:     time.Now().Add(-time.Second),
	}
	second := first
	second.ID = uuid.New()
	second.EventType = "cliente.deleted"
	second.CreatedAt = time.Now()

	insertEvent(t, db, second)
	insertEvent(t, db, first)

	events, err := repo.FetchPendingOutbox(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, first.ID, events[0].ID)
	assert.Equal(t, "cliente.created", events[0].EventType)
	assert.Equal(t, "12345678", events[0].Payload.(map[string]interface{})["dni"])

	require.NoError(t, repo.MarkOutboxProcessed(ctx, first.ID))

	events, err = repo.FetchPendingOutbox(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, second.ID, events[0].ID)
}

func TestOutboxRepoSQLite_MarkUnknown(t *testing.T) {
	repo := NewOutboxRepoSQLite(setupTestDB(t))

	err := repo.MarkOutboxProcessed(context.Background(), uuid.New())
	assert.Error(t, err)
}
