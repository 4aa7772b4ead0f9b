package inventory

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Panaderia-api/internal/domain"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
)

// Límites del historial de movimientos.
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

// StockQueryUseCase lecturas de existencia e historial, y purga administrativa del libro.
type StockQueryUseCase struct {
	itemRepo     repository.ItemRepository
	stockRepo    repository.StockRepository
	movementRepo repository.MovementRepository
	location     string
	log          zerolog.Logger
}

// NewStockQueryUseCase construye el caso de uso.
func NewStockQueryUseCase(
	itemRepo repository.ItemRepository,
	stockRepo repository.StockRepository,
	movementRepo repository.MovementRepository,
	defaultLocation string,
	log zerolog.Logger,
) *StockQueryUseCase {
	if defaultLocation == "" {
		defaultLocation = entity.DefaultWarehouseLocation
	}
	return &StockQueryUseCase{
		itemRepo:     itemRepo,
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		location:     defaultLocation,
		log:          log,
	}
}

// Current devuelve el registro de stock; si el ítem nunca se movió, cantidad 0 en la bodega por defecto.
func (uc *StockQueryUseCase) Current(ctx context.Context, kind entity.ItemKind, itemID string) (*entity.Item, *entity.StockRecord, error) {
	item, err := uc.requireItem(ctx, kind, itemID)
	if err != nil {
		return nil, nil, err
	}
	rec, err := uc.stockRepo.Get(ctx, kind, itemID)
	if err != nil {
		return nil, nil, err
	}
	if rec == nil {
		rec = &entity.StockRecord{Kind: kind, ItemID: itemID, WarehouseLocation: uc.location}
	}
	return item, rec, nil
}

// History lista los movimientos del ítem, del más reciente al más antiguo.
func (uc *StockQueryUseCase) History(ctx context.Context, kind entity.ItemKind, itemID string, limit int) ([]*entity.MovementRecord, error) {
	if _, err := uc.requireItem(ctx, kind, itemID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	return uc.movementRepo.ListByItem(ctx, kind, itemID, limit)
}

// ClearHistory borra todo el libro de un tipo de ítem. No toca StockRecord ni el catálogo.
func (uc *StockQueryUseCase) ClearHistory(ctx context.Context, kind entity.ItemKind, userID string) (int64, error) {
	if !kind.Valid() {
		return 0, domain.ErrInvalidInput
	}
	n, err := uc.movementRepo.DeleteAll(ctx, kind)
	if err != nil {
		return 0, err
	}
	uc.log.Warn().Str("kind", string(kind)).Str("user_id", userID).Int64("deleted", n).Msg("historial de movimientos purgado")
	return n, nil
}

func (uc *StockQueryUseCase) requireItem(ctx context.Context, kind entity.ItemKind, itemID string) (*entity.Item, error) {
	if !kind.Valid() || itemID == "" {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.itemRepo.GetByID(ctx, kind, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}
