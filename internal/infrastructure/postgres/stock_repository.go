package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el registro de stock del ítem; nil si nunca se creó.
func (r *StockRepo) Get(ctx context.Context, kind entity.ItemKind, itemID string) (*entity.StockRecord, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT id, %[1]s, warehouse_location, quantity, last_updated
		FROM %[2]s WHERE %[1]s = $1`, t.itemFK, t.stock)
	rec, err := scanStock(r.q.QueryRow(ctx, query, itemID), kind)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return rec, nil
}

// GetForUpdate bloquea la fila del ítem (SELECT FOR UPDATE). Si no existe la crea con cantidad 0:
// el INSERT ... ON CONFLICT DO NOTHING resuelve la carrera entre dos creadores y la lectura bloqueante
// deja a ambos sobre la misma fila.
func (r *StockRepo) GetForUpdate(ctx context.Context, kind entity.ItemKind, itemID, location string) (*entity.StockRecord, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	insert := fmt.Sprintf(`
		INSERT INTO %[2]s (%[1]s, warehouse_location, quantity, last_updated)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (%[1]s) DO NOTHING`, t.itemFK, t.stock)
	if _, err := r.q.Exec(ctx, insert, itemID, location); err != nil {
		return nil, writeError("create stock record", err)
	}
	query := fmt.Sprintf(`
		SELECT id, %[1]s, warehouse_location, quantity, last_updated
		FROM %[2]s WHERE %[1]s = $1
		FOR UPDATE`, t.itemFK, t.stock)
	rec, err := scanStock(r.q.QueryRow(ctx, query, itemID), kind)
	if err != nil {
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return rec, nil
}

// Update escribe cantidad y fecha del registro ya bloqueado.
func (r *StockRepo) Update(ctx context.Context, rec *entity.StockRecord) error {
	t, err := tablesFor(rec.Kind)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE %s SET quantity = $2, last_updated = $3 WHERE %s = $1`, t.stock, t.itemFK)
	if _, err := r.q.Exec(ctx, query, rec.ItemID, rec.Quantity, rec.LastUpdated); err != nil {
		return writeError("update stock", err)
	}
	return nil
}

func scanStock(row pgx.Row, kind entity.ItemKind) (*entity.StockRecord, error) {
	rec := entity.StockRecord{Kind: kind}
	if err := row.Scan(&rec.ID, &rec.ItemID, &rec.WarehouseLocation, &rec.Quantity, &rec.LastUpdated); err != nil {
		return nil, err
	}
	return &rec, nil
}
