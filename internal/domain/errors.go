package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound       = errors.New("recurso no encontrado")
	ErrInvalidInput   = errors.New("entrada inválida")
	ErrMalformedInput = errors.New("JSON de facturas mal formado")
	ErrUnauthorized   = errors.New("no autorizado")
)
