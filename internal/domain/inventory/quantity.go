package inventory

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// MaxQuantity límite superior aceptado para una cantidad (columna INTEGER).
const MaxQuantity = math.MaxInt32

var (
	errMissingQuantity  = errors.New("cantidad requerida")
	errInvalidQuantity  = errors.New("la cantidad debe ser un entero")
	errNegativeQuantity = errors.New("la cantidad no puede ser negativa")
)

// ParseQuantity interpreta una cantidad llegada por JSON (número o cadena numérica)
// como entero no negativo. 10, 10.0 y "10" son válidos; 10.5, "abc" y -1 no.
func ParseQuantity(v any) (int, error) {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0, errMissingQuantity
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case float64:
		f = x
	case json.Number:
		return ParseQuantity(x.String())
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, errMissingQuantity
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, errInvalidQuantity
		}
		f = n
	default:
		return 0, errInvalidQuantity
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, errInvalidQuantity
	}
	if f < 0 {
		return 0, errNegativeQuantity
	}
	if f > MaxQuantity {
		return 0, errInvalidQuantity
	}
	return int(f), nil
}

// Outflow calcula la existencia resultante de una salida.
// Con clamp la existencia no baja de cero y applied refleja lo realmente descontado;
// sin clamp ok es false cuando la existencia no alcanza.
func Outflow(current, requested int, clamp bool) (next, applied int, ok bool) {
	if current >= requested {
		return current - requested, requested, true
	}
	if !clamp {
		return current, 0, false
	}
	if current < 0 {
		return current, 0, true
	}
	return 0, current, true
}
