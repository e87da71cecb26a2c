package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoice-qc/internal/application/dto"
	appqc "github.com/jhoicas/invoice-qc/internal/application/qc"
	"github.com/jhoicas/invoice-qc/internal/domain"
	"github.com/jhoicas/invoice-qc/internal/domain/entity"
)

// HeaderRunID cabecera con el id de la corrida cuando el informe se persiste.
const HeaderRunID = "X-Run-ID"

// QCHandler maneja la validación de facturas y la consulta de corridas.
type QCHandler struct {
	validate *appqc.ValidateUseCase
	export   *appqc.ExportUseCase
}

// NewQCHandler construye el handler.
func NewQCHandler(validate *appqc.ValidateUseCase, export *appqc.ExportUseCase) *QCHandler {
	return &QCHandler{validate: validate, export: export}
}

// Health godoc
// @Summary      Liveness
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Router       /health [get]
func (h *QCHandler) Health(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{Status: "ok"})
}

// ValidateJSON godoc
// @Summary      Validar un arreglo JSON de facturas
// @Tags         validation
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      []entity.Invoice  true  "facturas en el orden en que deben validarse"
// @Success      200   {object}  entity.Report
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /validate-json [post]
func (h *QCHandler) ValidateJSON(c *fiber.Ctx) error {
	invoices, err := h.validate.DecodeInvoices(c.Body())
	if err != nil {
		return writeError(c, err)
	}
	source := "api"
	if sub := GetSubject(c); sub != "" {
		source += ":" + sub
	}
	run, err := h.validate.Validate(c.UserContext(), source, invoices)
	if err != nil {
		return writeError(c, err)
	}
	if h.validate.Persistent() {
		c.Set(HeaderRunID, run.ID)
	}
	return c.JSON(run.Report)
}

// GetRun godoc
// @Summary      Obtener una corrida de validación persistida
// @Tags         validation
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "id de la corrida (UUID)"
// @Success      200  {object}  entity.ValidationRun
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /runs/{id} [get]
func (h *QCHandler) GetRun(c *fiber.Ctx) error {
	run, err := h.validate.GetRun(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(run)
}

// GetRunPDF godoc
// @Summary      Informe de una corrida en PDF
// @Tags         validation
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "id de la corrida (UUID)"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /runs/{id}/pdf [get]
func (h *QCHandler) GetRunPDF(c *fiber.Ctx) error {
	return h.download(c, "application/pdf", h.export.RenderPDF)
}

// GetRunXLSX godoc
// @Summary      Informe de una corrida en XLSX
// @Tags         validation
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id   path  string  true  "id de la corrida (UUID)"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /runs/{id}/xlsx [get]
func (h *QCHandler) GetRunXLSX(c *fiber.Ctx) error {
	return h.download(c, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", h.export.RenderXLSX)
}

type renderFunc func(ctx context.Context, run *entity.ValidationRun) ([]byte, string, error)

func (h *QCHandler) download(c *fiber.Ctx, contentType string, render renderFunc) error {
	run, err := h.validate.GetRun(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	b, filename, err := render(c.UserContext(), run)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(b)
}

// writeError traduce errores de dominio a respuestas HTTP.
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrMalformedInput):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "MALFORMED_INPUT", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
