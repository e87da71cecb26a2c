package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	appqc "github.com/jhoicas/invoice-qc/internal/application/qc"
	"github.com/jhoicas/invoice-qc/internal/domain/repository"
	infrapdf "github.com/jhoicas/invoice-qc/internal/infrastructure/pdf"
	"github.com/jhoicas/invoice-qc/internal/infrastructure/postgres"
	"github.com/jhoicas/invoice-qc/internal/infrastructure/schema"
	"github.com/jhoicas/invoice-qc/internal/infrastructure/textsource"
	infraxlsx "github.com/jhoicas/invoice-qc/internal/infrastructure/xlsx"
	"github.com/jhoicas/invoice-qc/pkg/config"
	"github.com/jhoicas/invoice-qc/pkg/logger"
)

// errInvalidRecords --fail-on-invalid con al menos un registro inválido; sale con 1 sin mensaje.
var errInvalidRecords = errors.New("hay facturas inválidas")

// userMessage error que se muestra tal cual, sin el prefijo "Error:".
type userMessage string

func (m userMessage) Error() string { return string(m) }

// cli estado compartido por los subcomandos, inicializado en PersistentPreRunE.
type cli struct {
	out    io.Writer
	errOut io.Writer

	cfg     *config.Config
	log     *logger.Logger
	cleanup []func()
}

// run ejecuta la CLI y devuelve el código de salida.
func run(args []string, out, errOut io.Writer) int {
	c := &cli{out: out, errOut: errOut}
	defer c.close()

	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		var msg userMessage
		switch {
		case errors.Is(err, errInvalidRecords):
		case errors.As(err, &msg):
			fmt.Fprintln(errOut, msg)
		default:
			fmt.Fprintln(errOut, "Error:", err)
		}
		return 1
	}
	return 0
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "invoice-qc",
		Short:         "Invoice QC: extracción y validación de facturas",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init()
		},
	}
	root.AddCommand(c.extractCmd(), c.validateCmd(), c.fullRunCmd(), c.tokenCmd())
	return root
}

func (c *cli) init() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	c.cfg = cfg
	// Los logs van a stderr; stdout queda para el resumen.
	c.log = logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Out: c.errOut})
	return nil
}

func (c *cli) close() {
	for i := len(c.cleanup) - 1; i >= 0; i-- {
		c.cleanup[i]()
	}
}

func (c *cli) extractUseCase() *appqc.ExtractUseCase {
	return appqc.NewExtractUseCase(textsource.Default(c.cfg.Extract.Extensions), c.cfg.Extract.Workers, c.log)
}

// validateUseCase con persistencia solo si store y hay base de datos configurada.
func (c *cli) validateUseCase(ctx context.Context, store bool) (*appqc.ValidateUseCase, error) {
	invoiceSchema, err := schema.NewInvoiceSchema()
	if err != nil {
		return nil, err
	}
	var repo repository.ReportRepository
	if store {
		if !c.cfg.DB.Enabled() {
			return nil, fmt.Errorf("--store requiere DATABASE_URL o DB_HOST")
		}
		pool, err := postgres.NewPool(ctx, c.cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		c.cleanup = append(c.cleanup, pool.Close)
		if err := postgres.Migrate(ctx, pool); err != nil {
			return nil, err
		}
		repo = postgres.NewReportRepository(pool)
	}
	return appqc.NewValidateUseCase(invoiceSchema, repo, c.log), nil
}

func (c *cli) exportUseCase() *appqc.ExportUseCase {
	return appqc.NewExportUseCase(infrapdf.NewMarotoReportGenerator(c.cfg.App.Name), infraxlsx.NewReportExporter())
}
