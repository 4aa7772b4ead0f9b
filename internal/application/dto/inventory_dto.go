package dto

import "time"

// AdjustStockRequest body para PUT /api/inventory/:productId.
// Quantity acepta número o cadena numérica; la validación ocurre en el caso de uso.
type AdjustStockRequest struct {
	Quantity     any     `json:"quantity"`
	MovementType string  `json:"movementType,omitempty"`
	Reason       string  `json:"reason,omitempty"`
	Notes        string  `json:"notes,omitempty"`
	UserID       *string `json:"userId,omitempty"`
}

// AdjustSupplyStockRequest body para PATCH /api/supplies/:id/stock.
type AdjustSupplyStockRequest struct {
	StockQuantity any     `json:"stock_quantity"`
	MovementType  string  `json:"movementType,omitempty"`
	Reason        string  `json:"reason,omitempty"`
	Notes         string  `json:"notes,omitempty"`
	UserID        *string `json:"userId,omitempty"`
}

// StockChangeDTO resultado de un ajuste.
type StockChangeDTO struct {
	ItemID            string `json:"item_id"`
	WarehouseLocation string `json:"warehouse_location"`
	PreviousQuantity  int    `json:"previous_quantity"`
	NewQuantity       int    `json:"new_quantity"`
	QuantityChange    int    `json:"quantity_change"`
	MovementType      string `json:"movement_type"`
	MovementID        string `json:"movement_id"`
}

// AdjustStockResponse respuesta del ajuste.
type AdjustStockResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    StockChangeDTO `json:"data"`
}

// StockRecordDTO existencia actual de un ítem.
type StockRecordDTO struct {
	ItemID            string     `json:"item_id"`
	Name              string     `json:"name"`
	SKU               string     `json:"sku,omitempty"`
	WarehouseLocation string     `json:"warehouse_location"`
	Quantity          int        `json:"quantity"`
	MinStockLevel     int        `json:"min_stock_level"`
	MaxStockLevel     *int       `json:"max_stock_level,omitempty"`
	LowStock          bool       `json:"low_stock"`
	LastUpdated       *time.Time `json:"last_updated,omitempty"`
}

// StockRecordResponse respuesta de GET de existencia.
type StockRecordResponse struct {
	Success bool           `json:"success"`
	Data    StockRecordDTO `json:"data"`
}

// CartItemRequest línea del carrito del punto de venta.
type CartItemRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Quantity any    `json:"quantity"`
}

// ProcessSaleRequest body para POST /api/inventory/process-sale.
type ProcessSaleRequest struct {
	Cart          []CartItemRequest `json:"cart"`
	InvoiceNumber string            `json:"invoiceNumber,omitempty"`
	InvoiceDate   string            `json:"invoiceDate,omitempty"`
	UserID        *string           `json:"userId,omitempty"`
}

// SoldItemDTO resultado por producto vendido.
type SoldItemDTO struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	PreviousQuantity int    `json:"previous_quantity"`
	SoldQuantity     int    `json:"sold_quantity"`
	NewQuantity      int    `json:"new_quantity"`
}

// ProcessSaleResponse respuesta del checkout.
type ProcessSaleResponse struct {
	Success         bool          `json:"success"`
	Message         string        `json:"message"`
	UpdatedProducts []SoldItemDTO `json:"updatedProducts"`
}

// MovementDTO entrada del libro de movimientos.
type MovementDTO struct {
	ID               string    `json:"id"`
	ItemID           string    `json:"item_id"`
	MovementType     string    `json:"movement_type"`
	QuantityChange   int       `json:"quantity_change"`
	PreviousQuantity int       `json:"previous_quantity"`
	NewQuantity      int       `json:"new_quantity"`
	Reason           string    `json:"reason,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	UserID           *string   `json:"user_id"`
	CreatedAt        time.Time `json:"created_at"`
}

// HistoryResponse respuesta del historial.
type HistoryResponse struct {
	Success bool          `json:"success"`
	Data    []MovementDTO `json:"data"`
	Count   int           `json:"count"`
}

// ClearHistoryResponse respuesta de la purga del libro.
type ClearHistoryResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	DeletedCount int64  `json:"deletedCount"`
}
