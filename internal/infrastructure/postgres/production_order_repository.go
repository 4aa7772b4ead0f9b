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

var _ repository.ProductionOrderRepository = (*ProductionOrderRepo)(nil)

// ProductionOrderRepo órdenes de producción (usable con pool o tx).
type ProductionOrderRepo struct {
	q Querier
}

// NewProductionOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductionOrderRepository(q Querier) *ProductionOrderRepo {
	return &ProductionOrderRepo{q: q}
}

const productionOrderColumns = `id, product_id, quantity, status, COALESCE(notes, ''), fulfilled_at, created_at, updated_at`

// GetByID obtiene una orden; nil si no existe.
func (r *ProductionOrderRepo) GetByID(ctx context.Context, id string) (*entity.ProductionOrder, error) {
	return r.get(ctx, `SELECT `+productionOrderColumns+` FROM production_orders WHERE id = $1`, id)
}

// GetForUpdate obtiene la orden bloqueando la fila.
func (r *ProductionOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.ProductionOrder, error) {
	return r.get(ctx, `SELECT `+productionOrderColumns+` FROM production_orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *ProductionOrderRepo) get(ctx context.Context, query, id string) (*entity.ProductionOrder, error) {
	var o entity.ProductionOrder
	var status string
	err := r.q.QueryRow(ctx, query, id).Scan(&o.ID, &o.ProductID, &o.Quantity, &status, &o.Notes, &o.FulfilledAt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get production order: %w", err)
	}
	o.Status = entity.ProductionOrderStatus(status)
	return &o, nil
}

// ListInsumos devuelve los insumos planificados de la orden.
func (r *ProductionOrderRepo) ListInsumos(ctx context.Context, orderID string) ([]*entity.ProductionOrderInsumo, error) {
	query := `
		SELECT id, production_order_id, supply_id, quantity
		FROM production_order_insumos WHERE production_order_id = $1
		ORDER BY supply_id`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list production order insumos: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductionOrderInsumo
	for rows.Next() {
		var in entity.ProductionOrderInsumo
		if err := rows.Scan(&in.ID, &in.OrderID, &in.SupplyID, &in.Quantity); err != nil {
			return nil, fmt.Errorf("scan production order insumo: %w", err)
		}
		list = append(list, &in)
	}
	return list, rows.Err()
}

// UpdateStatus persiste estado, marca de ingreso y fecha de actualización.
func (r *ProductionOrderRepo) UpdateStatus(ctx context.Context, o *entity.ProductionOrder) error {
	query := `UPDATE production_orders SET status = $2, fulfilled_at = $3, updated_at = $4 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, o.ID, string(o.Status), o.FulfilledAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update production order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
