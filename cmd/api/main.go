// @title        Invoice QC API
// @version      1.0
// @description  Extracción y validación de facturas a partir de texto.
// @BasePath     /
// @securityDefinitions.apikey Bearer
// @in           header
// @name         Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/swaggo/swag"

	appqc "github.com/jhoicas/invoice-qc/internal/application/qc"
	"github.com/jhoicas/invoice-qc/internal/domain/repository"
	infrapdf "github.com/jhoicas/invoice-qc/internal/infrastructure/pdf"
	"github.com/jhoicas/invoice-qc/internal/infrastructure/postgres"
	"github.com/jhoicas/invoice-qc/internal/infrastructure/schema"
	infraxlsx "github.com/jhoicas/invoice-qc/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/invoice-qc/internal/interfaces/http"
	"github.com/jhoicas/invoice-qc/pkg/config"
	"github.com/jhoicas/invoice-qc/pkg/logger"

	_ "github.com/jhoicas/invoice-qc/docs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()

	invoiceSchema, err := schema.NewInvoiceSchema()
	if err != nil {
		log.Fatal().Err(err).Msg("esquema de facturas")
	}

	// Persistencia opcional de corridas: solo con DATABASE_URL o DB_HOST.
	var reportRepo repository.ReportRepository
	if cfg.DB.Enabled() {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		reportRepo = postgres.NewReportRepository(pool)
		log.Info().Msg("corridas de validación persistidas en PostgreSQL")
	}

	validateUC := appqc.NewValidateUseCase(invoiceSchema, reportRepo, log)
	exportUC := appqc.NewExportUseCase(
		infrapdf.NewMarotoReportGenerator(cfg.App.Name),
		infraxlsx.NewReportExporter(),
	)

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: /validate-json y /runs sin autenticación")
	}

	app := httpRouter.NewApp(cfg.App.Name, httpRouter.RouterDeps{
		ValidateUC: validateUC,
		ExportUC:   exportUC,
		JWTSecret:  cfg.JWT.Secret,
		JWTIssuer:  cfg.JWT.Issuer,
	})
	mountDocs(app, cfg.HTTP.SwaggerFile, log)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// mountDocs sirve el documento OpenAPI registrado en /docs/doc.json y, si el archivo
// swagger existe, la UI en /docs.
func mountDocs(app *fiber.App, swaggerFile string, log *logger.Logger) {
	app.Get("/docs/doc.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString(err.Error())
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		return c.SendString(doc)
	})

	if _, err := os.Stat(swaggerFile); err != nil {
		log.Warn().Str("file", swaggerFile).Msg("swagger UI deshabilitada: archivo no encontrado")
		return
	}
	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: swaggerFile,
		Path:     "docs",
		Title:    "Invoice QC API",
	}))
}
