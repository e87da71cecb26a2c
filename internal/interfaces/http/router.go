package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appqc "github.com/jhoicas/invoice-qc/internal/application/qc"
	"github.com/jhoicas/invoice-qc/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ValidateUC *appqc.ValidateUseCase
	ExportUC   *appqc.ExportUseCase
	JWTSecret  string // vacío = rutas sin autenticación
	JWTIssuer  string
}

// NewApp crea la aplicación Fiber con recover, CORS abierto y las rutas registradas.
func NewApp(appName string, deps RouterDeps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      appName,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    16 * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	Router(app, deps)
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	h := NewQCHandler(deps.ValidateUC, deps.ExportUC)

	// Liveness (público)
	app.Get("/health", h.Health)

	// Con JWT_SECRET configurado las rutas de validación requieren Bearer Token
	guard := func(c *fiber.Ctx) error { return c.Next() }
	if deps.JWTSecret != "" {
		guard = AuthMiddleware(deps.JWTSecret, deps.JWTIssuer, jwt.ScopeValidate)
	}

	app.Post("/validate-json", guard, h.ValidateJSON)

	runs := app.Group("/runs", guard)
	runs.Get("/:id", h.GetRun)
	runs.Get("/:id/pdf", h.GetRunPDF)
	runs.Get("/:id/xlsx", h.GetRunXLSX)
}
