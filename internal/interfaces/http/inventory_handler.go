package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hospitalia/farmacia-api/internal/application/dto"
	"github.com/hospitalia/farmacia-api/internal/application/inventory"
	"github.com/hospitalia/farmacia-api/internal/domain/repository"
)

// InventoryHandler maneja las peticiones HTTP del motor de inventario por lotes.
type InventoryHandler struct {
	openingStock *inventory.OpeningStockUseCase
	adjust       *inventory.AdjustStockUseCase
	alerts       *inventory.AlertUseCase
	ledger       *inventory.LedgerQueryUseCase
	batches      *inventory.BatchQueryUseCase
	expirySweep  *inventory.ExpirySweepUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	openingStock *inventory.OpeningStockUseCase,
	adjust *inventory.AdjustStockUseCase,
	alerts *inventory.AlertUseCase,
	ledger *inventory.LedgerQueryUseCase,
	batches *inventory.BatchQueryUseCase,
	expirySweep *inventory.ExpirySweepUseCase,
) *InventoryHandler {
	return &InventoryHandler{
		openingStock: openingStock,
		adjust:       adjust,
		alerts:       alerts,
		ledger:       ledger,
		batches:      batches,
		expirySweep:  expirySweep,
	}
}

// AddOpeningStock godoc
// @Summary      Registrar lote nuevo con stock inicial
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpeningStockRequest  true  "medicine_id, batch_number, quantity, expiry_date, precios"
// @Success      201   {object}  dto.OpeningStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/opening-stock [post]
func (h *InventoryHandler) AddOpeningStock(c *fiber.Ctx) error {
	var in dto.OpeningStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.openingStock.AddOpeningStock(c.Context(), in)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// AdjustStock godoc
// @Summary      Ajuste manual de stock de un lote
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "batch_id, adjustment_type, quantity, reason, performed_by"
// @Success      200   {object}  dto.AdjustStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.adjust.AdjustStock(c.Context(), in)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(resp)
}

// ListAlerts godoc
// @Summary      Alertas de stock bajo/agotado y lotes por vencer/vencidos
// @Tags         inventory
// @Produce      json
// @Success      200  {array}  dto.BatchAlertDTO
// @Router       /api/inventory/alerts [get]
func (h *InventoryHandler) ListAlerts(c *fiber.Ctx) error {
	alerts, err := h.alerts.ListAlerts(c.Context())
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"total": len(alerts), "alerts": alerts})
}

// ListMovements godoc
// @Summary      Consultar el ledger de movimientos
// @Tags         inventory
// @Produce      json
// @Param        batch_id        query  string  false  "Filtrar por lote"
// @Param        reference_type  query  string  false  "SALE, ADJUSTMENT, OPENING_STOCK"
// @Param        from            query  string  false  "Fecha inicial (RFC3339)"
// @Param        to              query  string  false  "Fecha final (RFC3339)"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	filter := repository.MovementFilter{
		BatchID:       c.Query("batch_id"),
		ReferenceType: c.Query("reference_type"),
		Limit:         page.Limit,
		Offset:        page.Offset,
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido"})
		}
		filter.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido"})
		}
		filter.To = &t
	}

	movements, err := h.ledger.ListMovements(c.Context(), filter)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"total": len(movements), "movements": movements})
}

// ListBatches godoc
// @Summary      Lotes de un medicamento
// @Tags         inventory
// @Produce      json
// @Param        medicine_id  query  string  true  "Medicamento"
// @Success      200  {array}  dto.BatchResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/batches [get]
func (h *InventoryHandler) ListBatches(c *fiber.Ctx) error {
	batches, err := h.batches.ListByMedicine(c.Context(), c.Query("medicine_id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"total": len(batches), "batches": batches})
}

// RunExpirySweep godoc
// @Summary      Marcar lotes vencidos a la fecha
// @Tags         inventory
// @Produce      json
// @Success      200  {object}  map[string]int64
// @Router       /api/inventory/expiry-sweep [post]
func (h *InventoryHandler) RunExpirySweep(c *fiber.Ctx) error {
	marked, err := h.expirySweep.MarkExpiredBatches(c.Context())
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"marked": marked})
}
