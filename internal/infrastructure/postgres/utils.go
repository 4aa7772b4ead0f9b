package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Panaderia-api/internal/domain"
)

// Códigos SQLSTATE usados por los adaptadores.
const (
	codeUniqueViolation = "23505"
	codeUndefinedTable  = "42P01"
	codeInvalidTextRepr = "22P02"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// isUndefinedTable detecta una tabla inexistente (42P01), p. ej. el libro de movimientos sin migrar.
func isUndefinedTable(err error) bool {
	return pgCode(err) == codeUndefinedTable
}

// isInvalidText detecta un valor que no se puede convertir (22P02), p. ej. un UUID mal formado
// o un token fuera del enum movement_type.
func isInvalidText(err error) bool {
	return pgCode(err) == codeInvalidTextRepr
}

// writeError envuelve errores de escritura; una violación de unicidad es ErrConflict.
func writeError(op string, err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrConflict, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// ledgerError envuelve errores del libro de movimientos; la ausencia de la tabla es ErrLedgerUnavailable.
func ledgerError(op string, err error) error {
	if isUndefinedTable(err) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrLedgerUnavailable, err)
	}
	return writeError(op, err)
}
