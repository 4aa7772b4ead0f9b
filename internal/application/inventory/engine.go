package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/Panaderia-api/internal/domain"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	invdomain "github.com/jhoicas/Panaderia-api/internal/domain/inventory"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
)

// OversellPolicy define qué hacer cuando una salida supera la existencia.
type OversellPolicy string

const (
	OversellReject OversellPolicy = "reject" // falla con ErrInsufficientStock (por defecto)
	OversellClamp  OversellPolicy = "clamp"  // deja la existencia en 0
)

// ParseOversellPolicy interpreta el valor de configuración; vacío equivale a reject.
func ParseOversellPolicy(s string) (OversellPolicy, error) {
	switch OversellPolicy(s) {
	case "", OversellReject:
		return OversellReject, nil
	case OversellClamp:
		return OversellClamp, nil
	}
	return "", fmt.Errorf("política de sobreventa inválida: %q", s)
}

// EngineConfig opciones del motor de inventario.
type EngineConfig struct {
	DefaultLocation string
	Oversell        OversellPolicy
}

// StockChange resultado de aplicar un cambio de existencia a un ítem.
type StockChange struct {
	Kind              entity.ItemKind
	ItemID            string
	WarehouseLocation string
	PreviousQuantity  int
	NewQuantity       int
	QuantityChange    int
	MovementType      entity.MovementType
	MovementID        string
}

// MovementMeta datos descriptivos que acompañan al movimiento en el libro.
type MovementMeta struct {
	Type   entity.MovementType
	Reason string
	Notes  string
	UserID *string
}

// StockEngine aplica cambios de existencia dentro de una transacción ya abierta.
// Cada cambio bloquea (o crea) el StockRecord, escribe la cantidad, el espejo del catálogo y el movimiento.
type StockEngine struct {
	location string
	oversell OversellPolicy
	now      func() time.Time
}

// NewStockEngine construye el motor.
func NewStockEngine(cfg EngineConfig) *StockEngine {
	loc := cfg.DefaultLocation
	if loc == "" {
		loc = entity.DefaultWarehouseLocation
	}
	policy := cfg.Oversell
	if policy == "" {
		policy = OversellReject
	}
	return &StockEngine{location: loc, oversell: policy, now: time.Now}
}

// Lock bloquea (creándolo si falta) el registro de stock del ítem.
func (e *StockEngine) Lock(ctx context.Context, tx repository.Tx, kind entity.ItemKind, itemID string) (*entity.StockRecord, error) {
	return tx.Stock().GetForUpdate(ctx, kind, itemID, e.location)
}

// SetQuantity fija la existencia a target (ajuste absoluto).
func (e *StockEngine) SetQuantity(ctx context.Context, tx repository.Tx, kind entity.ItemKind, itemID string, target int, meta MovementMeta) (*StockChange, error) {
	if target < 0 {
		return nil, domain.ErrInvalidInput
	}
	rec, err := e.Lock(ctx, tx, kind, itemID)
	if err != nil {
		return nil, err
	}
	if !meta.Type.AllowsChange(target - rec.Quantity) {
		return nil, fmt.Errorf("%s de %d a %d: %w", meta.Type, rec.Quantity, target, domain.ErrInvalidInput)
	}
	return e.write(ctx, tx, rec, target, meta)
}

// AddQuantity suma qty a la existencia (entrada sin tope).
func (e *StockEngine) AddQuantity(ctx context.Context, tx repository.Tx, kind entity.ItemKind, itemID string, qty int, meta MovementMeta) (*StockChange, error) {
	if qty < 0 {
		return nil, domain.ErrInvalidInput
	}
	rec, err := e.Lock(ctx, tx, kind, itemID)
	if err != nil {
		return nil, err
	}
	if rec.Quantity > invdomain.MaxQuantity-qty {
		return nil, domain.ErrInvalidInput
	}
	return e.write(ctx, tx, rec, rec.Quantity+qty, meta)
}

// RemoveQuantity descuenta qty según la política de sobreventa.
func (e *StockEngine) RemoveQuantity(ctx context.Context, tx repository.Tx, kind entity.ItemKind, itemID string, qty int, meta MovementMeta) (*StockChange, error) {
	if qty < 0 {
		return nil, domain.ErrInvalidInput
	}
	rec, err := e.Lock(ctx, tx, kind, itemID)
	if err != nil {
		return nil, err
	}
	next, _, ok := invdomain.Outflow(rec.Quantity, qty, e.oversell == OversellClamp)
	if !ok {
		return nil, fmt.Errorf("ítem %s: existencia %d, solicitado %d: %w", itemID, rec.Quantity, qty, domain.ErrInsufficientStock)
	}
	return e.write(ctx, tx, rec, next, meta)
}

func (e *StockEngine) write(ctx context.Context, tx repository.Tx, rec *entity.StockRecord, next int, meta MovementMeta) (*StockChange, error) {
	now := e.now()
	prev := rec.Quantity
	rec.Quantity = next
	rec.LastUpdated = now
	if err := tx.Stock().Update(ctx, rec); err != nil {
		return nil, err
	}
	// El espejo del catálogo va dentro de la misma transacción: si falla, se revierte todo.
	if err := tx.Items().UpdateStockQuantity(ctx, rec.Kind, rec.ItemID, next); err != nil {
		return nil, fmt.Errorf("actualizar espejo stock_quantity: %w", err)
	}
	mov := &entity.MovementRecord{
		Kind:             rec.Kind,
		ItemID:           rec.ItemID,
		Type:             meta.Type,
		QuantityChange:   next - prev,
		PreviousQuantity: prev,
		NewQuantity:      next,
		Reason:           meta.Reason,
		Notes:            meta.Notes,
		UserID:           meta.UserID,
		CreatedAt:        now,
	}
	if err := tx.Movements().Create(ctx, mov); err != nil {
		return nil, fmt.Errorf("registrar movimiento: %w", err)
	}
	return &StockChange{
		Kind:              rec.Kind,
		ItemID:            rec.ItemID,
		WarehouseLocation: rec.WarehouseLocation,
		PreviousQuantity:  prev,
		NewQuantity:       next,
		QuantityChange:    next - prev,
		MovementType:      meta.Type,
		MovementID:        mov.ID,
	}, nil
}

// WrapTxError deja pasar los errores de negocio y envuelve el resto con ErrTransactionFailed,
// conservando el mensaje original para diagnóstico.
func WrapTxError(err error) error {
	if err == nil {
		return nil
	}
	for _, business := range []error{domain.ErrNotFound, domain.ErrInvalidInput, domain.ErrInsufficientStock, domain.ErrConflict} {
		if errors.Is(err, business) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", domain.ErrTransactionFailed, err)
}
