package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	// ErrConflict escritura rechazada por una restricción de unicidad (23505).
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	// ErrTransactionFailed envuelve cualquier fallo dentro de la transacción de inventario.
	ErrTransactionFailed = errors.New("ajuste de inventario fallido")
	// ErrLedgerUnavailable indica que la tabla de movimientos no existe (migraciones sin aplicar).
	ErrLedgerUnavailable = errors.New("historial de movimientos no disponible")
)
