package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ProductionOrderStatus estado de una orden de producción.
type ProductionOrderStatus string

const (
	ProductionPending    ProductionOrderStatus = "pending"
	ProductionInProgress ProductionOrderStatus = "in_progress"
	ProductionCompleted  ProductionOrderStatus = "completed"
	ProductionCancelled  ProductionOrderStatus = "cancelled"
)

// ParseProductionOrderStatus valida un estado recibido por la API.
func ParseProductionOrderStatus(s string) (ProductionOrderStatus, error) {
	switch st := ProductionOrderStatus(s); st {
	case ProductionPending, ProductionInProgress, ProductionCompleted, ProductionCancelled:
		return st, nil
	}
	return "", fmt.Errorf("estado de orden de producción inválido: %q", s)
}

// Terminal indica si el estado cierra la orden.
func (s ProductionOrderStatus) Terminal() bool {
	return s == ProductionCompleted || s == ProductionCancelled
}

// ProductionOrder orden de producción de un producto terminado.
type ProductionOrder struct {
	ID          string
	ProductID   string
	Quantity    int
	Status      ProductionOrderStatus
	Notes       string
	FulfilledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Fulfilled indica si la producción ya ingresó al inventario.
func (o *ProductionOrder) Fulfilled() bool {
	return o.FulfilledAt != nil
}

// Transition asigna el nuevo estado y devuelve true solo la primera vez que la orden entra a completed.
// Una orden que ya estaba completed sin marca (filas previas a fulfilled_at) recibe la marca sin mover stock.
func (o *ProductionOrder) Transition(to ProductionOrderStatus, now time.Time) bool {
	if !o.Fulfilled() && o.Status == ProductionCompleted {
		t := now
		o.FulfilledAt = &t
	}
	fulfill := to == ProductionCompleted && !o.Fulfilled()
	if fulfill {
		t := now
		o.FulfilledAt = &t
	}
	o.Status = to
	o.UpdatedAt = now
	return fulfill
}

// ProductionOrderInsumo insumo planificado para una orden de producción (p. ej. 12.5 kg de harina).
// Solo lectura: completar la orden no descuenta insumos.
type ProductionOrderInsumo struct {
	ID       string
	OrderID  string
	SupplyID string
	Quantity decimal.Decimal
}
