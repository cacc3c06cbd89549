package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/pdv-sync/internal/application/dto"
	"github.com/tu-usuario/pdv-sync/internal/application/history"
	"github.com/tu-usuario/pdv-sync/internal/application/ingest"
	"github.com/tu-usuario/pdv-sync/internal/domain"
)

// RestockHandler maneja la ingesta bulk de abastecimientos y su histórico.
type RestockHandler struct {
	ingestUC  *ingest.BulkIngestUseCase
	historyUC *history.UseCase
}

// NewRestockHandler construye el handler.
func NewRestockHandler(ingestUC *ingest.BulkIngestUseCase, historyUC *history.UseCase) *RestockHandler {
	return &RestockHandler{ingestUC: ingestUC, historyUC: historyUC}
}

// BulkCreate godoc
// @Summary      Ingesta bulk de abastecimientos desde terminales PDV
// @Description  Aplica cada registro exactamente una vez por evento lógico. Los reenvíos
//
//	se detectan por clave compuesta y se reportan como aceptados sin reinsertar.
//	La respuesta es siempre completa: los registros fallidos van en conflicts.
//
// @Tags         restocks
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkRestockRequest  true  "items: lote ordenado de registros del PDV"
// @Success      200   {object}  dto.BulkRestockResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/restocks/bulk [post]
func (h *RestockHandler) BulkCreate(c *fiber.Ctx) error {
	var req dto.BulkRestockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	res, err := h.ingestUC.Ingest(c.Context(), req)
	if err != nil {
		// Solo llega aquí una falla de la transacción completa (begin/commit/rollback).
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(res)
}

// GetHistory godoc
// @Summary      Histórico de abastecimientos
// @Description  Filtros de igualdad por producto y operador, rango inclusivo de fechas,
//
//	orden asc/desc por created_at y paginación por offset (limit máx. 200).
//
// @Tags         restocks
// @Produce      json
// @Param        date_from   query  string  false  "YYYY-MM-DD o RFC3339 (inclusivo)"
// @Param        date_to     query  string  false  "YYYY-MM-DD o RFC3339 (inclusivo)"
// @Param        product_id  query  string  false  "UUID del producto"
// @Param        user_id     query  string  false  "UUID del operador"
// @Param        page        query  int     false  "Página 1-based (default 1)"
// @Param        limit       query  int     false  "Tamaño de página (default 50, máx. 200)"
// @Param        order       query  string  false  "created_at_desc (default) o created_at_asc"
// @Success      200  {object}  dto.RestockHistoryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/restocks/history [get]
func (h *RestockHandler) GetHistory(c *fiber.Ctx) error {
	q := history.Query{
		DateFrom:  c.Query("date_from"),
		DateTo:    c.Query("date_to"),
		ProductID: c.Query("product_id"),
		UserID:    c.Query("user_id"),
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", 0),
		Order:     c.Query("order"),
	}

	res, err := h.historyUC.GetHistory(c.Context(), q)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(res)
}
