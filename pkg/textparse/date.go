package textparse

import (
	"strings"
	"time"
)

// DateLayouts formatos de fecha aceptados, en orden de prioridad:
// ISO, día/mes/año con '/', '-' y '.', y día + nombre de mes (abreviado o completo) + año.
// Día y mes admiten uno o dos dígitos.
var DateLayouts = []string{
	"2006-1-2",
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"2 Jan 2006",
	"2 January 2006",
}

// ParseDate intenta cada layout de DateLayouts en orden; gana el primero que parsea.
// El resultado es una fecha de calendario en UTC.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
