package repository

// Tx agrupa los repositorios atados a una misma transacción (unidad de trabajo).
type Tx interface {
	Items() ItemRepository
	Stock() StockRepository
	Movements() MovementRepository
	SalesOrders() SalesOrderRepository
	ProductionOrders() ProductionOrderRepository
}
