package repository

import (
	"context"

	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
)

// SalesOrderRepository lecturas y cambio de estado de pedidos de venta.
type SalesOrderRepository interface {
	GetByID(ctx context.Context, id string) (*entity.SalesOrder, error)
	GetForUpdate(ctx context.Context, id string) (*entity.SalesOrder, error)
	ListLineItems(ctx context.Context, orderID string) ([]*entity.SalesOrderLineItem, error)
	UpdateStatus(ctx context.Context, order *entity.SalesOrder) error
}

// ProductionOrderRepository lecturas y cambio de estado de órdenes de producción.
type ProductionOrderRepository interface {
	GetByID(ctx context.Context, id string) (*entity.ProductionOrder, error)
	GetForUpdate(ctx context.Context, id string) (*entity.ProductionOrder, error)
	ListInsumos(ctx context.Context, orderID string) ([]*entity.ProductionOrderInsumo, error)
	UpdateStatus(ctx context.Context, order *entity.ProductionOrder) error
}
