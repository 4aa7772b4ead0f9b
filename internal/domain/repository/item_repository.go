package repository

import (
	"context"

	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
)

// ItemRepository puerto del catálogo (productos e insumos) que necesita el motor de inventario.
type ItemRepository interface {
	// GetByID devuelve nil, nil si el ítem no existe.
	GetByID(ctx context.Context, kind entity.ItemKind, id string) (*entity.Item, error)
	// UpdateStockQuantity escribe el espejo stock_quantity; solo lo usa el motor de inventario.
	UpdateStockQuantity(ctx context.Context, kind entity.ItemKind, id string, quantity int) error
}
