package repository

import (
	"context"

	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
)

// MovementRepository puerto del libro de movimientos (solo inserción; la purga es masiva y administrativa).
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.MovementRecord) error
	// ListByItem devuelve los movimientos del más reciente al más antiguo.
	ListByItem(ctx context.Context, kind entity.ItemKind, itemID string, limit int) ([]*entity.MovementRecord, error)
	DeleteAll(ctx context.Context, kind entity.ItemKind) (int64, error)
}
