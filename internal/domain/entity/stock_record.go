package entity

import "time"

// DefaultWarehouseLocation bodega usada cuando la configuración no indica otra.
const DefaultWarehouseLocation = "Almacén principal"

// StockRecord representa la cantidad actual de un ítem (una fila por ítem, creada de forma perezosa).
type StockRecord struct {
	ID                string
	Kind              ItemKind
	ItemID            string
	WarehouseLocation string
	Quantity          int
	LastUpdated       time.Time
}
