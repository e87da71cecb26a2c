package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout formato ISO 8601 de fecha de calendario usado en JSON.
const DateLayout = "2006-01-02"

// Date fecha de calendario (sin hora). El valor cero significa "ausente".
type Date struct {
	time.Time
}

// NewDate construye una fecha de calendario en UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf trunca un instante a su fecha de calendario.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// String devuelve la fecha en formato YYYY-MM-DD (vacío si es cero).
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalJSON serializa como "YYYY-MM-DD"; la fecha cero se serializa como null.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateLayout))
}

// UnmarshalJSON acepta "YYYY-MM-DD" o null.
func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("fecha: %w", err)
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return fmt.Errorf("fecha %q: se espera YYYY-MM-DD", s)
	}
	*d = Date{Time: t}
	return nil
}
