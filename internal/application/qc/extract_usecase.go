// Package qc orquesta la extracción de documentos y la validación de facturas.
package qc

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/invoice-qc/internal/domain"
	"github.com/jhoicas/invoice-qc/internal/domain/entity"
	"github.com/jhoicas/invoice-qc/internal/domain/extraction"
	"github.com/jhoicas/invoice-qc/pkg/logger"
)

// ExtractUseCase convierte un directorio de documentos en registros de factura.
// Cada documento es independiente; se procesan en paralelo con un máximo de workers.
type ExtractUseCase struct {
	extractor TextExtractor
	workers   int
	now       func() time.Time
	log       *logger.Logger
}

// NewExtractUseCase construye el caso de uso. workers < 1 se trata como 1.
func NewExtractUseCase(extractor TextExtractor, workers int, log *logger.Logger) *ExtractUseCase {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ExtractUseCase{
		extractor: extractor,
		workers:   workers,
		now:       time.Now,
		log:       log.Component("extract"),
	}
}

// ListSources devuelve los nombres de los documentos admitidos del directorio, ordenados.
// Retorna domain.ErrNotFound si el directorio no existe.
func (uc *ExtractUseCase) ListSources(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: directorio %s", domain.ErrNotFound, dir)
		}
		return nil, fmt.Errorf("extract: leer directorio: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !uc.extractor.Supports(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// ExtractDir extrae una factura por documento. El resultado sigue el orden de ListSources
// y el nombre del archivo sirve de identificador cuando no se encuentra número de factura.
// Un documento ilegible se registra en el log y se procesa como texto vacío.
func (uc *ExtractUseCase) ExtractDir(ctx context.Context, dir string) ([]entity.Invoice, error) {
	names, err := uc.ListSources(dir)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	out := make([]entity.Invoice, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.workers)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			text, err := uc.extractor.Extract(gctx, filepath.Join(dir, name))
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				uc.log.Warn().Err(err).Str("file", name).Msg("documento ilegible, se procesa como texto vacío")
				text = ""
			}
			out[i] = extraction.ExtractInvoice(text, name, now)
			uc.log.Debug().Str("file", name).Str("invoice_number", out[i].InvoiceNumber).Msg("documento extraído")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	uc.log.Info().Int("documents", len(out)).Str("dir", dir).Msg("extracción completada")
	return out, nil
}
