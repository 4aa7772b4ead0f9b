package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// UpdateStatusRequest body para PATCH de estado de pedidos y órdenes.
type UpdateStatusRequest struct {
	Status string  `json:"status"`
	UserID *string `json:"userId,omitempty"`
}

// StatusResponse respuesta del cambio de estado.
type StatusResponse struct {
	Message          string `json:"message"`
	ID               string `json:"id"`
	Status           string `json:"status"`
	InventoryUpdated bool   `json:"inventoryUpdated"`
}

// ProductionInsumoDTO insumo planificado.
type ProductionInsumoDTO struct {
	ID       string          `json:"id"`
	SupplyID string          `json:"supply_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// ProductionOrderResponse orden de producción con sus insumos.
type ProductionOrderResponse struct {
	ID          string                `json:"id"`
	ProductID   string                `json:"product_id"`
	Quantity    int                   `json:"quantity"`
	Status      string                `json:"status"`
	Notes       string                `json:"notes,omitempty"`
	FulfilledAt *time.Time            `json:"fulfilled_at,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
	Insumos     []ProductionInsumoDTO `json:"insumos"`
}
