package repository

import (
	"context"

	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar el registro de stock de un ítem.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	// Get devuelve nil, nil si el ítem aún no tiene registro.
	Get(ctx context.Context, kind entity.ItemKind, itemID string) (*entity.StockRecord, error)
	// GetForUpdate crea el registro con cantidad 0 si no existe y bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, kind entity.ItemKind, itemID, location string) (*entity.StockRecord, error)
	Update(ctx context.Context, record *entity.StockRecord) error
}
