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

var _ repository.SalesOrderRepository = (*SalesOrderRepo)(nil)

// SalesOrderRepo pedidos de venta (usable con pool o tx).
type SalesOrderRepo struct {
	q Querier
}

// NewSalesOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSalesOrderRepository(q Querier) *SalesOrderRepo {
	return &SalesOrderRepo{q: q}
}

const salesOrderColumns = `id, COALESCE(customer_id::text, ''), status, total, fulfilled_at, created_at, updated_at`

// GetByID obtiene un pedido; nil si no existe.
func (r *SalesOrderRepo) GetByID(ctx context.Context, id string) (*entity.SalesOrder, error) {
	return r.get(ctx, `SELECT `+salesOrderColumns+` FROM sales_orders WHERE id = $1`, id)
}

// GetForUpdate obtiene el pedido bloqueando la fila (SELECT FOR UPDATE).
func (r *SalesOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.SalesOrder, error) {
	return r.get(ctx, `SELECT `+salesOrderColumns+` FROM sales_orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *SalesOrderRepo) get(ctx context.Context, query, id string) (*entity.SalesOrder, error) {
	var o entity.SalesOrder
	var status string
	err := r.q.QueryRow(ctx, query, id).Scan(&o.ID, &o.CustomerID, &status, &o.Total, &o.FulfilledAt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sales order: %w", err)
	}
	o.Status = entity.SalesOrderStatus(status)
	return &o, nil
}

// ListLineItems devuelve las líneas del pedido en orden de inserción.
func (r *SalesOrderRepo) ListLineItems(ctx context.Context, orderID string) ([]*entity.SalesOrderLineItem, error) {
	query := `
		SELECT id, order_id, product_id, quantity, unit_price, total
		FROM sales_order_items WHERE order_id = $1
		ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list sales order items: %w", err)
	}
	defer rows.Close()
	var list []*entity.SalesOrderLineItem
	for rows.Next() {
		var li entity.SalesOrderLineItem
		if err := rows.Scan(&li.ID, &li.OrderID, &li.ProductID, &li.Quantity, &li.UnitPrice, &li.Total); err != nil {
			return nil, fmt.Errorf("scan sales order item: %w", err)
		}
		list = append(list, &li)
	}
	return list, rows.Err()
}

// UpdateStatus persiste estado, marca de despacho y fecha de actualización.
func (r *SalesOrderRepo) UpdateStatus(ctx context.Context, o *entity.SalesOrder) error {
	query := `UPDATE sales_orders SET status = $2, fulfilled_at = $3, updated_at = $4 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, o.ID, string(o.Status), o.FulfilledAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update sales order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
