package postgres

import (
	"fmt"

	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
)

// kindTables nombres de tablas y columnas por tipo de ítem. Productos e insumos comparten forma.
type kindTables struct {
	items  string // catálogo con el espejo stock_quantity
	price  string // columna de precio del catálogo
	stock  string // un registro por ítem
	ledger string // libro de movimientos
	itemFK string // columna FK hacia el catálogo en stock y libro
}

var tablesByKind = map[entity.ItemKind]kindTables{
	entity.ItemKindProduct: {
		items:  "products",
		price:  "price",
		stock:  "inventory",
		ledger: "inventory_movements",
		itemFK: "product_id",
	},
	entity.ItemKindSupply: {
		items:  "supplies",
		price:  "unit_cost",
		stock:  "supplies_inventory",
		ledger: "supplies_movements",
		itemFK: "supply_id",
	},
}

func tablesFor(kind entity.ItemKind) (kindTables, error) {
	t, ok := tablesByKind[kind]
	if !ok {
		return kindTables{}, fmt.Errorf("tipo de ítem desconocido: %q", kind)
	}
	return t, nil
}
