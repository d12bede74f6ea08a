package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hospitalia/farmacia-api/internal/application/billing"
	"github.com/hospitalia/farmacia-api/internal/application/dto"
)

// BillingHandler maneja la liquidación de ventas.
type BillingHandler struct {
	settle *billing.SettleSaleUseCase
}

// NewBillingHandler construye el handler.
func NewBillingHandler(settle *billing.SettleSaleUseCase) *BillingHandler {
	return &BillingHandler{settle: settle}
}

// SettleSale godoc
// @Summary      Liquidar una venta (asignación FEFO + deducción + factura)
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SettleSaleRequest  true  "líneas de venta y metadatos de pago"
// @Success      201   {object}  dto.BillResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *BillingHandler) SettleSale(c *fiber.Ctx) error {
	var in dto.SettleSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.settle.SettleSale(c.Context(), in)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetBill godoc
// @Summary      Consultar una factura liquidada por número
// @Tags         sales
// @Produce      json
// @Param        number  path  string  true  "Número de factura"
// @Success      200  {object}  dto.BillResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{number} [get]
func (h *BillingHandler) GetBill(c *fiber.Ctx) error {
	resp, err := h.settle.GetBill(c.Context(), c.Params("number"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(resp)
}
