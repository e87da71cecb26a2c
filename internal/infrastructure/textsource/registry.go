package textsource

import (
	"context"
	"fmt"
	"strings"
)

// Extractor extractor para un tipo de documento.
type Extractor interface {
	Supports(path string) bool
	Extract(ctx context.Context, path string) (string, error)
}

// Registry despacha por extensión al primer extractor que admite la ruta.
// Solo se aceptan las extensiones habilitadas.
type Registry struct {
	extractors []Extractor
	enabled    map[string]struct{}
}

// NewRegistry crea un registro con las extensiones habilitadas (".pdf", ".txt"...).
// Sin extensiones, se acepta todo lo que algún extractor soporte.
func NewRegistry(extensions []string, extractors ...Extractor) *Registry {
	r := &Registry{extractors: extractors}
	if len(extensions) > 0 {
		r.enabled = make(map[string]struct{}, len(extensions))
		for _, e := range extensions {
			r.enabled[strings.ToLower(e)] = struct{}{}
		}
	}
	return r
}

// Default registro con los extractores de PDF y texto plano.
func Default(extensions []string) *Registry {
	return NewRegistry(extensions, NewPDFExtractor(), NewTextFileExtractor())
}

// Supports indica si hay extractor habilitado para la ruta.
func (r *Registry) Supports(path string) bool {
	return r.find(path) != nil
}

// Extract delega en el extractor correspondiente.
func (r *Registry) Extract(ctx context.Context, path string) (string, error) {
	e := r.find(path)
	if e == nil {
		return "", fmt.Errorf("textsource: tipo de documento no soportado: %s", path)
	}
	return e.Extract(ctx, path)
}

func (r *Registry) find(path string) Extractor {
	if r.enabled != nil {
		if _, ok := r.enabled[strings.ToLower(extOf(path))]; !ok {
			return nil
		}
	}
	for _, e := range r.extractors {
		if e.Supports(path) {
			return e
		}
	}
	return nil
}
