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

// StatusResult resultado de un cambio de estado de pedido u orden.
type StatusResult struct {
	ID               string
	Status           string
	InventoryUpdated bool
}

// SalesStatusUseCase cambia el estado de un pedido de venta y, la primera vez que entra a
// delivered/completed, descuenta las líneas del inventario en la misma transacción.
type SalesStatusUseCase struct {
	txRunner  inventory.TxRunner
	orderRepo repository.SalesOrderRepository
	sale      *inventory.SaleUseCase
	log       zerolog.Logger
	now       func() time.Time
}

// NewSalesStatusUseCase construye el caso de uso.
func NewSalesStatusUseCase(
	txRunner inventory.TxRunner,
	orderRepo repository.SalesOrderRepository,
	sale *inventory.SaleUseCase,
	log zerolog.Logger,
) *SalesStatusUseCase {
	return &SalesStatusUseCase{txRunner: txRunner, orderRepo: orderRepo, sale: sale, log: log, now: time.Now}
}

// UpdateStatus valida el estado, verifica que el pedido exista y aplica la transición.
// La comparación con el estado previo se hace sobre la fila bloqueada dentro de la transacción.
func (uc *SalesStatusUseCase) UpdateStatus(ctx context.Context, orderID, status string, userID *string) (*StatusResult, error) {
	to, err := entity.ParseSalesOrderStatus(status)
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
		order, err := tx.SalesOrders().GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Transition(to, uc.now()) {
			items, err := tx.SalesOrders().ListLineItems(ctx, orderID)
			if err != nil {
				return err
			}
			lines := make([]inventory.SaleLine, 0, len(items))
			for _, it := range items {
				lines = append(lines, inventory.SaleLine{ItemID: it.ProductID, Quantity: it.Quantity})
			}
			sold, err := uc.sale.FulfillLinesInTx(ctx, tx, lines, "Pedido de venta "+orderID, "", userID)
			if err != nil {
				return err
			}
			res.InventoryUpdated = len(sold) > 0
		}
		return tx.SalesOrders().UpdateStatus(ctx, order)
	})
	if err != nil {
		uc.log.Error().Err(err).Str("order_id", orderID).Str("status", string(to)).Msg("cambio de estado de pedido revertido")
		return nil, inventory.WrapTxError(err)
	}
	uc.log.Info().Str("order_id", orderID).Str("status", string(to)).Bool("inventory_updated", res.InventoryUpdated).Msg("estado de pedido actualizado")
	return res, nil
}
