package inventory

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Panaderia-api/internal/domain"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	invdomain "github.com/jhoicas/Panaderia-api/internal/domain/inventory"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
)

// AdjustStockUseCase ajusta la existencia de un producto o insumo a una cantidad absoluta,
// de forma transaccional (SELECT FOR UPDATE, Commit/Rollback).
type AdjustStockUseCase struct {
	txRunner TxRunner
	itemRepo repository.ItemRepository
	engine   *StockEngine
	log      zerolog.Logger
}

// NewAdjustStockUseCase construye el caso de uso.
func NewAdjustStockUseCase(txRunner TxRunner, itemRepo repository.ItemRepository, engine *StockEngine, log zerolog.Logger) *AdjustStockUseCase {
	return &AdjustStockUseCase{txRunner: txRunner, itemRepo: itemRepo, engine: engine, log: log}
}

// AdjustInput entrada del ajuste. Quantity llega tal cual desde JSON (número o cadena).
type AdjustInput struct {
	Kind         entity.ItemKind
	ItemID       string
	Quantity     any
	MovementType string
	Reason       string
	Notes        string
	UserID       *string
}

// Adjust valida la entrada fuera de la transacción y luego aplica el cambio:
// StockRecord, espejo del catálogo y movimiento se escriben juntos o no se escribe nada.
func (uc *AdjustStockUseCase) Adjust(ctx context.Context, in AdjustInput) (*StockChange, error) {
	if !in.Kind.Valid() || in.ItemID == "" {
		return nil, domain.ErrInvalidInput
	}
	target, err := invdomain.ParseQuantity(in.Quantity)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	movType, err := entity.ParseMovementType(in.MovementType)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	item, err := uc.itemRepo.GetByID(ctx, in.Kind, in.ItemID)
	if err != nil {
		return nil, WrapTxError(err)
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	reason := in.Reason
	if reason == "" {
		reason = "Ajuste manual de inventario"
	}

	var change *StockChange
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		c, err := uc.engine.SetQuantity(ctx, tx, in.Kind, in.ItemID, target, MovementMeta{
			Type:   movType,
			Reason: reason,
			Notes:  in.Notes,
			UserID: in.UserID,
		})
		if err != nil {
			return err
		}
		change = c
		return nil
	})
	if err != nil {
		uc.log.Error().Err(err).
			Str("kind", string(in.Kind)).
			Str("item_id", in.ItemID).
			Int("target", target).
			Msg("ajuste de inventario revertido")
		return nil, WrapTxError(err)
	}

	uc.log.Info().
		Str("kind", string(in.Kind)).
		Str("item_id", in.ItemID).
		Int("previous", change.PreviousQuantity).
		Int("new", change.NewQuantity).
		Str("type", string(change.MovementType)).
		Msg("inventario ajustado")
	return change, nil
}
