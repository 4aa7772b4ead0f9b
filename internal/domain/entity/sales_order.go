package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SalesOrderStatus estado visible de un pedido de venta.
type SalesOrderStatus string

const (
	SalesOrderPending   SalesOrderStatus = "pending"
	SalesOrderConfirmed SalesOrderStatus = "confirmed"
	SalesOrderPreparing SalesOrderStatus = "preparing"
	SalesOrderReady     SalesOrderStatus = "ready"
	SalesOrderDelivered SalesOrderStatus = "delivered"
	SalesOrderCancelled SalesOrderStatus = "cancelled"
	SalesOrderCompleted SalesOrderStatus = "completed"
)

// ParseSalesOrderStatus valida un estado recibido por la API.
func ParseSalesOrderStatus(s string) (SalesOrderStatus, error) {
	switch st := SalesOrderStatus(s); st {
	case SalesOrderPending, SalesOrderConfirmed, SalesOrderPreparing, SalesOrderReady,
		SalesOrderDelivered, SalesOrderCancelled, SalesOrderCompleted:
		return st, nil
	}
	return "", fmt.Errorf("estado de pedido inválido: %q", s)
}

// Fulfills indica si entrar a este estado descuenta inventario.
func (s SalesOrderStatus) Fulfills() bool {
	return s == SalesOrderDelivered || s == SalesOrderCompleted
}

// Terminal indica si el estado cierra el ciclo del pedido.
func (s SalesOrderStatus) Terminal() bool {
	return s.Fulfills() || s == SalesOrderCancelled
}

// SalesOrder cabecera de pedido de venta.
// FulfilledAt es la marca de despacho de inventario: se fija una sola vez y no depende de Status.
type SalesOrder struct {
	ID          string
	CustomerID  string
	Status      SalesOrderStatus
	Total       decimal.Decimal
	FulfilledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Fulfilled indica si el inventario del pedido ya fue descontado.
func (o *SalesOrder) Fulfilled() bool {
	return o.FulfilledAt != nil
}

// Transition asigna el nuevo estado (cualquier transición es válida) y devuelve true
// cuando corresponde descontar inventario: destino en {delivered, completed} y pedido aún sin despachar.
// Un pedido que ya estaba en delivered/completed sin marca se considera despachado.
func (o *SalesOrder) Transition(to SalesOrderStatus, now time.Time) bool {
	if !o.Fulfilled() && o.Status.Fulfills() {
		t := now
		o.FulfilledAt = &t
	}
	fulfill := to.Fulfills() && !o.Fulfilled()
	if fulfill {
		t := now
		o.FulfilledAt = &t
	}
	o.Status = to
	o.UpdatedAt = now
	return fulfill
}

// SalesOrderLineItem línea de un pedido de venta.
type SalesOrderLineItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
}
