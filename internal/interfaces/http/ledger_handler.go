package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

// ledgerService contrato que el handler necesita del pipeline.
// Lo implementa *ledger.PipelineUseCase.
type ledgerService interface {
	Run(ctx context.Context, userID string, in dto.RunLedgerRequest) (*dto.LedgerRunResponse, error)
	RunFromStore(ctx context.Context, userID string, in dto.RunFromStoreRequest) (*dto.LedgerRunResponse, error)
	ImportRecords(ctx context.Context, in dto.ImportRecordsRequest) (*dto.ImportRecordsResponse, error)
	GetRun(ctx context.Context, id string) (*dto.LedgerRunResponse, error)
	ListRuns(ctx context.Context, limit, offset int) (*dto.LedgerRunListResponse, error)
	ListEntries(ctx context.Context, runID, location string) (*dto.LedgerEntryListResponse, error)
}

// LedgerHandler expone el pipeline de conciliación y el ledger diario (protegido).
type LedgerHandler struct {
	uc ledgerService
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(uc ledgerService) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

// Run godoc
// @Summary      Ejecutar conciliación y ledger
// @Description  Deduplica, sintetiza contrapartes de transferencias, valida y construye el ledger diario
//
//	por ubicación a partir de los registros del cuerpo.
//
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RunLedgerRequest  true  "records, build_on_fatal"
// @Success      201   {object}  dto.LedgerRunResponse
// @Success      200   {object}  dto.LedgerRunResponse  "resultado en caché"
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/ledger/runs [post]
func (h *LedgerHandler) Run(c *fiber.Ctx) error {
	var in dto.RunLedgerRequest
	if ok, err := parseAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.Run(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.Status(runStatus(out)).JSON(out)
}

// RunFromStore godoc
// @Summary      Ejecutar sobre registros guardados
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RunFromStoreRequest  true  "from, to (YYYY-MM-DD, opcionales)"
// @Success      201   {object}  dto.LedgerRunResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/ledger/runs/from-store [post]
func (h *LedgerHandler) RunFromStore(c *fiber.Ctx) error {
	var in dto.RunFromStoreRequest
	if ok, err := parseAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.RunFromStore(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.Status(runStatus(out)).JSON(out)
}

// ImportRecords godoc
// @Summary      Importar registros de movimiento
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ImportRecordsRequest  true  "records"
// @Success      201   {object}  dto.ImportRecordsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/ledger/records [post]
func (h *LedgerHandler) ImportRecords(c *fiber.Ctx) error {
	var in dto.ImportRecordsRequest
	if ok, err := parseAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.ImportRecords(c.UserContext(), in)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListRuns godoc
// @Summary      Listar ejecuciones
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo 100"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  dto.LedgerRunListResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/ledger/runs [get]
func (h *LedgerHandler) ListRuns(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de consulta inválidos"})
	}
	page.DefaultPage()
	if err := validate.Struct(page); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: describeValidation(err)})
	}
	out, err := h.uc.ListRuns(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(out)
}

// GetRun godoc
// @Summary      Obtener ejecución
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la ejecución"
// @Success      200  {object}  dto.LedgerRunResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ledger/runs/{id} [get]
func (h *LedgerHandler) GetRun(c *fiber.Ctx) error {
	id, ok := runID(c)
	if !ok {
		return runNotFound(c)
	}
	out, err := h.uc.GetRun(c.UserContext(), id)
	if err != nil {
		return ledgerError(c, err)
	}
	if out == nil {
		return runNotFound(c)
	}
	return c.JSON(out)
}

// ListEntries godoc
// @Summary      Filas del ledger de una ejecución
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        id        path   string  true   "ID de la ejecución"
// @Param        location  query  string  false  "filtrar por ubicación canónica"
// @Success      200  {object}  dto.LedgerEntryListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ledger/runs/{id}/entries [get]
func (h *LedgerHandler) ListEntries(c *fiber.Ctx) error {
	id, ok := runID(c)
	if !ok {
		return runNotFound(c)
	}
	out, err := h.uc.ListEntries(c.UserContext(), id, c.Query("location"))
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(out)
}

// runID lee :id. Un valor que no es UUID no puede existir en ledger_runs.
func runID(c *fiber.Ctx) (string, bool) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return "", false
	}
	return id.String(), true
}

func runNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ejecución no encontrada"})
}

// runStatus 200 si vino de caché, 201 si se creó una ejecución nueva.
func runStatus(out *dto.LedgerRunResponse) int {
	if out.Cached {
		return fiber.StatusOK
	}
	return fiber.StatusCreated
}

func ledgerError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidKind):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return runNotFound(c)
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "CANCELED", Message: "la ejecución fue cancelada"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
