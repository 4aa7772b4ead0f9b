package orders

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Panaderia-api/internal/application/inventory"
	"github.com/jhoicas/Panaderia-api/internal/domain"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
)

// ProductionStatusUseCase cambia el estado de una orden de producción. Al completarse por primera vez
// ingresa la cantidad producida al inventario del producto; estado y stock se confirman juntos.
type ProductionStatusUseCase struct {
	txRunner  inventory.TxRunner
	orderRepo repository.ProductionOrderRepository
	engine    *inventory.StockEngine
	log       zerolog.Logger
	now       func() time.Time
}

// NewProductionStatusUseCase construye el caso de uso.
func NewProductionStatusUseCase(
	txRunner inventory.TxRunner,
	orderRepo repository.ProductionOrderRepository,
	engine *inventory.StockEngine,
	log zerolog.Logger,
) *ProductionStatusUseCase {
	return &ProductionStatusUseCase{txRunner: txRunner, orderRepo: orderRepo, engine: engine, log: log, now: time.Now}
}

// ProductionOrderDetail orden con sus insumos planificados.
type ProductionOrderDetail struct {
	Order   *entity.ProductionOrder
	Insumos []*entity.ProductionOrderInsumo
}

// Get devuelve la orden y sus insumos.
func (uc *ProductionStatusUseCase) Get(ctx context.Context, orderID string) (*ProductionOrderDetail, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	insumos, err := uc.orderRepo.ListInsumos(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &ProductionOrderDetail{Order: order, Insumos: insumos}, nil
}

// UpdateStatus aplica la transición. Reenviar "completed" sobre una orden ya completada
// no genera movimientos y devuelve InventoryUpdated=false.
func (uc *ProductionStatusUseCase) UpdateStatus(ctx context.Context, orderID, status string, userID *string) (*StatusResult, error) {
	to, err := entity.ParseProductionOrderStatus(status)
	if err != nil || orderID == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, inventory.WrapTxError(err)
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}

	res := &StatusResult{ID: orderID, Status: string(to)}
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		order, err := tx.ProductionOrders().GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Transition(to, uc.now()) {
			if _, err := uc.engine.AddQuantity(ctx, tx, entity.ItemKindProduct, order.ProductID, order.Quantity, inventory.MovementMeta{
				Type:   entity.MovementInflow,
				Reason: "Orden de producción " + orderID + " completada",
				UserID: userID,
			}); err != nil {
				return err
			}
			res.InventoryUpdated = true
		}
		return tx.ProductionOrders().UpdateStatus(ctx, order)
	})
	if err != nil {
		uc.log.Error().Err(err).Str("order_id", orderID).Str("status", string(to)).Msg("cambio de estado de producción revertido")
		return nil, inventory.WrapTxError(err)
	}
	uc.log.Info().Str("order_id", orderID).Str("status", string(to)).Bool("inventory_updated", res.InventoryUpdated).Msg("estado de orden de producción actualizado")
	return res, nil
}
