package textparse

import (
	"math"
	"strconv"
	"strings"
)

// ParseAmount quita separadores de miles (","), recorta espacios y parsea un número real.
// Devuelve ok=false si el texto no es un número finito.
func ParseAmount(raw string) (float64, bool) {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	// NaN/Inf no se pueden serializar a JSON.
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParseAmountPtr es ParseAmount con resultado opcional (nil = ausente).
func ParseAmountPtr(raw string) *float64 {
	v, ok := ParseAmount(raw)
	if !ok {
		return nil
	}
	return &v
}
