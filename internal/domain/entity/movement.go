package entity

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MovementType tipo de movimiento del libro de inventario.
// Los tokens de almacenamiento (entrada, salida, ajuste, devolución) los traduce el adaptador de persistencia.
type MovementType string

const (
	MovementInflow     MovementType = "inflow"     // entrada
	MovementOutflow    MovementType = "outflow"    // salida
	MovementAdjustment MovementType = "adjustment" // ajuste
	MovementReturn     MovementType = "return"     // devolución
)

var movementAliases = map[string]MovementType{
	"inflow":     MovementInflow,
	"in":         MovementInflow,
	"entrada":    MovementInflow,
	"outflow":    MovementOutflow,
	"out":        MovementOutflow,
	"salida":     MovementOutflow,
	"adjustment": MovementAdjustment,
	"adjust":     MovementAdjustment,
	"ajuste":     MovementAdjustment,
	"return":     MovementReturn,
	"devolucion": MovementReturn,
}

// ParseMovementType acepta el nombre en inglés o el token en español, sin distinguir mayúsculas ni tildes.
// Cadena vacía equivale a ajuste.
func ParseMovementType(s string) (MovementType, error) {
	key := foldToken(s)
	if key == "" {
		return MovementAdjustment, nil
	}
	if t, ok := movementAliases[key]; ok {
		return t, nil
	}
	return "", fmt.Errorf("tipo de movimiento desconocido: %q", s)
}

// Valid indica si el tipo pertenece al conjunto fijo.
func (t MovementType) Valid() bool {
	switch t {
	case MovementInflow, MovementOutflow, MovementAdjustment, MovementReturn:
		return true
	}
	return false
}

// AllowsChange indica si el signo del cambio es coherente con el tipo:
// entradas y devoluciones no restan, salidas no suman, el ajuste admite ambos.
func (t MovementType) AllowsChange(delta int) bool {
	switch t {
	case MovementInflow, MovementReturn:
		return delta >= 0
	case MovementOutflow:
		return delta <= 0
	}
	return t == MovementAdjustment
}

func foldToken(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		out = strings.TrimSpace(s)
	}
	return strings.ToLower(out)
}

// MovementRecord entrada inmutable del libro de movimientos.
// Invariante: NewQuantity = PreviousQuantity + QuantityChange.
type MovementRecord struct {
	ID               string
	Kind             ItemKind
	ItemID           string
	Type             MovementType
	QuantityChange   int // positivo entrada, negativo salida
	PreviousQuantity int
	NewQuantity      int
	Reason           string
	Notes            string
	UserID           *string
	CreatedAt        time.Time
}
