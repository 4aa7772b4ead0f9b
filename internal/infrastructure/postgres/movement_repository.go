package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// Tokens del enum movement_type en la base de datos.
const (
	tokenEntrada    = "entrada"
	tokenSalida     = "salida"
	tokenAjuste     = "ajuste"
	tokenDevolucion = "devolución"
)

// movementToken traduce el tipo de dominio al token almacenado.
func movementToken(t entity.MovementType) (string, error) {
	switch t {
	case entity.MovementInflow:
		return tokenEntrada, nil
	case entity.MovementOutflow:
		return tokenSalida, nil
	case entity.MovementAdjustment:
		return tokenAjuste, nil
	case entity.MovementReturn:
		return tokenDevolucion, nil
	}
	return "", fmt.Errorf("tipo de movimiento sin token de almacenamiento: %q", t)
}

// movementFromToken traduce el token almacenado al tipo de dominio.
func movementFromToken(s string) (entity.MovementType, error) {
	switch s {
	case tokenEntrada:
		return entity.MovementInflow, nil
	case tokenSalida:
		return entity.MovementOutflow, nil
	case tokenAjuste:
		return entity.MovementAdjustment, nil
	case tokenDevolucion:
		return entity.MovementReturn, nil
	}
	return "", fmt.Errorf("token de movimiento desconocido: %q", s)
}

// MovementRepo libro de movimientos, de solo inserción (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create agrega un movimiento al libro.
func (r *MovementRepo) Create(ctx context.Context, m *entity.MovementRecord) error {
	t, err := tablesFor(m.Kind)
	if err != nil {
		return err
	}
	token, err := movementToken(m.Type)
	if err != nil {
		return err
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (id, %s, movement_type, quantity_change, previous_quantity, new_quantity, reason, notes, user_id, created_at)
		VALUES ($1, $2, $3::movement_type, $4, $5, $6, $7, NULLIF($8, ''), $9, $10)`, t.ledger, t.itemFK)
	_, err = r.q.Exec(ctx, query,
		m.ID, m.ItemID, token, m.QuantityChange, m.PreviousQuantity, m.NewQuantity,
		m.Reason, m.Notes, m.UserID, m.CreatedAt,
	)
	if err != nil {
		return ledgerError("create movement", err)
	}
	return nil
}

// ListByItem devuelve los movimientos del ítem, del más reciente al más antiguo.
func (r *MovementRepo) ListByItem(ctx context.Context, kind entity.ItemKind, itemID string, limit int) ([]*entity.MovementRecord, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT id, %s, movement_type::text, quantity_change, previous_quantity, new_quantity,
		       COALESCE(reason, ''), COALESCE(notes, ''), user_id, created_at
		FROM %s WHERE %s = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`, t.itemFK, t.ledger, t.itemFK)
	rows, err := r.q.Query(ctx, query, itemID, limit)
	if err != nil {
		return nil, ledgerError("list movements", err)
	}
	defer rows.Close()

	var list []*entity.MovementRecord
	for rows.Next() {
		m := entity.MovementRecord{Kind: kind}
		var token string
		if err := rows.Scan(&m.ID, &m.ItemID, &token, &m.QuantityChange, &m.PreviousQuantity, &m.NewQuantity,
			&m.Reason, &m.Notes, &m.UserID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if m.Type, err = movementFromToken(token); err != nil {
			return nil, err
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// DeleteAll purga el libro completo de un tipo de ítem y devuelve cuántas filas borró.
func (r *MovementRepo) DeleteAll(ctx context.Context, kind entity.ItemKind) (int64, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return 0, err
	}
	tag, err := r.q.Exec(ctx, fmt.Sprintf(`DELETE FROM %s`, t.ledger))
	if err != nil {
		return 0, ledgerError("delete movements", err)
	}
	return tag.RowsAffected(), nil
}
