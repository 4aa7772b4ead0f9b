package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Panaderia-api/internal/domain"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	invdomain "github.com/jhoicas/Panaderia-api/internal/domain/inventory"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
)

// SaleUseCase descuenta inventario de productos por venta: carrito del punto de venta
// o líneas de un pedido de venta. Una transacción por venta, todo o nada.
type SaleUseCase struct {
	txRunner TxRunner
	itemRepo repository.ItemRepository
	engine   *StockEngine
	log      zerolog.Logger
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(txRunner TxRunner, itemRepo repository.ItemRepository, engine *StockEngine, log zerolog.Logger) *SaleUseCase {
	return &SaleUseCase{txRunner: txRunner, itemRepo: itemRepo, engine: engine, log: log}
}

// CartItem línea del carrito tal como llega del punto de venta.
type CartItem struct {
	ID       string
	Name     string
	Quantity any
}

// ProcessSaleInput entrada del checkout.
type ProcessSaleInput struct {
	Cart          []CartItem
	InvoiceNumber string
	InvoiceDate   string
	UserID        *string
}

// SaleLine línea ya validada a descontar.
type SaleLine struct {
	ItemID   string
	Name     string
	Quantity int
}

// SoldItem resultado por línea.
type SoldItem struct {
	ItemID           string
	Name             string
	PreviousQuantity int
	SoldQuantity     int
	NewQuantity      int
	QuantityChange   int
}

// ProcessSale valida el carrito (no vacío, cantidades positivas, productos existentes)
// y descuenta todas las líneas en una sola transacción.
func (uc *SaleUseCase) ProcessSale(ctx context.Context, in ProcessSaleInput) ([]SoldItem, error) {
	if len(in.Cart) == 0 {
		return nil, domain.ErrInvalidInput
	}
	lines := make([]SaleLine, 0, len(in.Cart))
	for _, ci := range in.Cart {
		if ci.ID == "" {
			return nil, domain.ErrInvalidInput
		}
		qty, err := invdomain.ParseQuantity(ci.Quantity)
		if err != nil || qty == 0 {
			return nil, domain.ErrInvalidInput
		}
		item, err := uc.itemRepo.GetByID(ctx, entity.ItemKindProduct, ci.ID)
		if err != nil {
			return nil, WrapTxError(err)
		}
		if item == nil {
			return nil, domain.ErrNotFound
		}
		name := ci.Name
		if name == "" {
			name = item.Name
		}
		lines = append(lines, SaleLine{ItemID: ci.ID, Name: name, Quantity: qty})
	}

	reason := "Venta punto de venta"
	if in.InvoiceNumber != "" {
		reason = "Venta factura " + in.InvoiceNumber
	}
	var notes string
	if in.InvoiceDate != "" {
		notes = "Fecha factura: " + in.InvoiceDate
	}

	var sold []SoldItem
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		out, err := uc.FulfillLinesInTx(ctx, tx, lines, reason, notes, in.UserID)
		if err != nil {
			return err
		}
		sold = out
		return nil
	})
	if err != nil {
		uc.log.Error().Err(err).Str("invoice", in.InvoiceNumber).Int("lines", len(lines)).Msg("venta revertida")
		return nil, WrapTxError(err)
	}
	uc.log.Info().Str("invoice", in.InvoiceNumber).Int("lines", len(sold)).Msg("venta procesada")
	return sold, nil
}

// FulfillLinesInTx descuenta cada línea como salida usando la transacción del caller.
// Primero bloquea las filas en orden de ID (evita interbloqueos entre ventas concurrentes),
// luego aplica las líneas en el orden recibido. Si una línea falla, el caller debe hacer rollback.
func (uc *SaleUseCase) FulfillLinesInTx(ctx context.Context, tx repository.Tx, lines []SaleLine, reason, notes string, userID *string) ([]SoldItem, error) {
	ids := make([]string, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	for _, l := range lines {
		if !seen[l.ItemID] {
			seen[l.ItemID] = true
			ids = append(ids, l.ItemID)
		}
	}
	sort.Strings(ids)
	for _, id := range ids {
		if _, err := uc.engine.Lock(ctx, tx, entity.ItemKindProduct, id); err != nil {
			return nil, err
		}
	}

	sold := make([]SoldItem, 0, len(lines))
	for _, l := range lines {
		if l.Quantity < 0 {
			return nil, fmt.Errorf("línea %s con cantidad %d: %w", l.ItemID, l.Quantity, domain.ErrInvalidInput)
		}
		if l.Quantity == 0 {
			continue
		}
		change, err := uc.engine.RemoveQuantity(ctx, tx, entity.ItemKindProduct, l.ItemID, l.Quantity, MovementMeta{
			Type:   entity.MovementOutflow,
			Reason: strings.TrimSpace(reason),
			Notes:  notes,
			UserID: userID,
		})
		if err != nil {
			return nil, err
		}
		sold = append(sold, SoldItem{
			ItemID:           l.ItemID,
			Name:             l.Name,
			PreviousQuantity: change.PreviousQuantity,
			SoldQuantity:     l.Quantity,
			NewQuantity:      change.NewQuantity,
			QuantityChange:   change.QuantityChange,
		})
	}
	return sold, nil
}
