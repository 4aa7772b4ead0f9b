package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemKind distingue los dos catálogos con inventario: productos terminados e insumos.
type ItemKind string

const (
	ItemKindProduct ItemKind = "product"
	ItemKindSupply  ItemKind = "supply"
)

// Valid indica si el tipo de ítem es conocido.
func (k ItemKind) Valid() bool {
	return k == ItemKindProduct || k == ItemKindSupply
}

// Item representa un producto o un insumo del catálogo.
// StockQuantity es el espejo desnormalizado de StockRecord.Quantity; solo lo escribe el motor de inventario.
type Item struct {
	ID            string
	Kind          ItemKind
	Name          string
	SKU           string
	Category      string
	Price         decimal.Decimal
	StockQuantity int
	MinStockLevel int
	MaxStockLevel *int // solo informativo para la UI
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
