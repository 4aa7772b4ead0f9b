package postgres

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Panaderia-api/internal/domain"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
)

func TestMovementTokens(t *testing.T) {
	cases := map[entity.MovementType]string{
		entity.MovementInflow:     "entrada",
		entity.MovementOutflow:    "salida",
		entity.MovementAdjustment: "ajuste",
		entity.MovementReturn:     "devolución",
	}
	for typ, token := range cases {
		got, err := movementToken(typ)
		require.NoError(t, err)
		assert.Equal(t, token, got)

		back, err := movementFromToken(token)
		require.NoError(t, err)
		assert.Equal(t, typ, back)
	}

	_, err := movementToken("merma")
	assert.Error(t, err)
	_, err = movementFromToken("devolucion")
	assert.Error(t, err, "el token almacenado lleva tilde")
}

func TestTablesFor(t *testing.T) {
	p, err := tablesFor(entity.ItemKindProduct)
	require.NoError(t, err)
	assert.Equal(t, "inventory_movements", p.ledger)
	assert.Equal(t, "product_id", p.itemFK)

	s, err := tablesFor(entity.ItemKindSupply)
	require.NoError(t, err)
	assert.Equal(t, "supplies_inventory", s.stock)
	assert.Equal(t, "supply_id", s.itemFK)

	_, err = tablesFor("otro")
	assert.Error(t, err)
}

func TestLedgerError(t *testing.T) {
	missing := &pgconn.PgError{Code: "42P01", Message: `relation "inventory_movements" does not exist`}
	err := ledgerError("create movement", missing)
	assert.ErrorIs(t, err, domain.ErrLedgerUnavailable)
	assert.Contains(t, err.Error(), "inventory_movements")

	other := ledgerError("create movement", errors.New("conn reset"))
	assert.NotErrorIs(t, other, domain.ErrLedgerUnavailable)

	dup := ledgerError("create movement", &pgconn.PgError{Code: "23505"})
	assert.ErrorIs(t, dup, domain.ErrConflict)
}

func TestWriteError(t *testing.T) {
	err := writeError("create stock record", fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23505", ConstraintName: "inventory_pkey"}))
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, err.Error(), "create stock record")

	plain := writeError("update stock", errors.New("conn reset"))
	assert.NotErrorIs(t, plain, domain.ErrConflict)
	assert.EqualError(t, plain, "update stock: conn reset")
}

func TestPgErrorHelpers(t *testing.T) {
	wrapped := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	assert.True(t, isUniqueViolation(wrapped))
	assert.False(t, isUndefinedTable(wrapped))
	assert.True(t, isInvalidText(&pgconn.PgError{Code: "22P02"}))
	assert.False(t, isInvalidText(errors.New("22P02")))
}

func TestMigrationsEmbebidas(t *testing.T) {
	list, err := Migrations()
	require.NoError(t, err)
	require.NotEmpty(t, list)
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].Version, list[i].Version)
	}

	var all strings.Builder
	for _, m := range list {
		all.WriteString(m.SQL)
	}
	for _, table := range requiredTables {
		assert.Contains(t, all.String(), "CREATE TABLE IF NOT EXISTS "+table+" ", table)
	}
	assert.Contains(t, all.String(), "'entrada', 'salida', 'ajuste', 'devolución'")
	assert.Contains(t, all.String(), "sku             VARCHAR(64) NOT NULL UNIQUE")
}

func TestMigrations_MarcaDeDespachoEnTablasExistentes(t *testing.T) {
	list, err := Migrations()
	require.NoError(t, err)
	last := list[len(list)-1]
	assert.Equal(t, "0004_fulfilled_marker", last.Version)
	for _, table := range []string{"sales_orders", "production_orders"} {
		assert.Contains(t, last.SQL, "ALTER TABLE "+table+" ADD COLUMN IF NOT EXISTS fulfilled_at TIMESTAMPTZ", table)
	}
	assert.Contains(t, last.SQL, "WHERE status IN ('delivered', 'completed') AND fulfilled_at IS NULL")
	assert.Contains(t, last.SQL, "WHERE status = 'completed' AND fulfilled_at IS NULL")
}

func TestPreferIPv4(t *testing.T) {
	assert.Equal(t, "postgres://u:p@127.0.0.1:5432/db", preferIPv4("postgres://u:p@127.0.0.1:5432/db"))
	assert.Equal(t, "postgres://u:p@[::1]:5432/db", preferIPv4("postgres://u:p@[::1]:5432/db"), "IPv6 literal se deja igual")
	assert.Equal(t, "host=db user=x", preferIPv4("host=db user=x"), "DSN clave=valor se deja igual")
}
