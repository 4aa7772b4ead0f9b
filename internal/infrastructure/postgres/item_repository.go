package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Panaderia-api/internal/domain"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo catálogo de productos e insumos (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// GetByID obtiene un ítem del catálogo; nil si no existe.
func (r *ItemRepo) GetByID(ctx context.Context, kind entity.ItemKind, id string) (*entity.Item, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT id, name, COALESCE(sku, ''), COALESCE(category, ''), %s, stock_quantity,
		       min_stock_level, max_stock_level, is_active, created_at, updated_at
		FROM %s WHERE id = $1`, t.price, t.items)
	it := entity.Item{Kind: kind}
	err = r.q.QueryRow(ctx, query, id).Scan(
		&it.ID, &it.Name, &it.SKU, &it.Category, &it.Price, &it.StockQuantity,
		&it.MinStockLevel, &it.MaxStockLevel, &it.IsActive, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		// Un id que no es UUID tampoco existe.
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", t.items, err)
	}
	return &it, nil
}

// UpdateStockQuantity escribe el espejo stock_quantity del catálogo.
func (r *ItemRepo) UpdateStockQuantity(ctx context.Context, kind entity.ItemKind, id string, quantity int) error {
	t, err := tablesFor(kind)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE %s SET stock_quantity = $2, updated_at = now() WHERE id = $1`, t.items)
	tag, err := r.q.Exec(ctx, query, id, quantity)
	if err != nil {
		return fmt.Errorf("update %s.stock_quantity: %w", t.items, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
