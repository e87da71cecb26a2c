// Package textparse reúne utilidades de texto compartidas por la extracción de facturas:
// normalización de espacios, parseo de montos y parseo de fechas.
package textparse

import (
	"regexp"
	"strings"
)

var reWhitespace = regexp.MustCompile(`\s+`)

// Normalize colapsa los espacios internos de cada línea a uno solo, recorta cada línea
// y elimina las líneas vacías. El orden de las líneas se conserva.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	lines := SplitLines(raw)
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(reWhitespace.ReplaceAllString(line, " "))
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// SplitLines divide en líneas aceptando \n, \r\n y \r.
func SplitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}
