package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/hospitalia/farmacia-api/internal/application/dto"
	"github.com/hospitalia/farmacia-api/internal/domain"
	dominv "github.com/hospitalia/farmacia-api/internal/domain/inventory"
)

// statusForError traduce errores de dominio a código HTTP y código de error de la API.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrNoStockAvailable):
		return fiber.StatusConflict, "NO_STOCK_AVAILABLE"
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrNegativeStock):
		return fiber.StatusConflict, "NEGATIVE_STOCK"
	case errors.Is(err, domain.ErrExceedsReceived):
		return fiber.StatusConflict, "EXCEEDS_RECEIVED"
	case errors.Is(err, domain.ErrDuplicateBillNumber):
		return fiber.StatusConflict, "DUPLICATE_BILL_NUMBER"
	case errors.Is(err, domain.ErrBatchInactive):
		return fiber.StatusUnprocessableEntity, "BATCH_INACTIVE"
	case errors.Is(err, domain.ErrBatchExpired):
		return fiber.StatusUnprocessableEntity, "BATCH_EXPIRED"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}

// errorJSON responde el error con el detalle útil para la UI (ej. faltante de stock).
func errorJSON(c *fiber.Ctx, err error) error {
	status, code := statusForError(err)
	resp := dto.ErrorResponse{Code: code, Message: err.Error()}

	var insufficient *dominv.InsufficientStockError
	if errors.As(err, &insufficient) {
		return c.Status(status).JSON(fiber.Map{
			"code":        resp.Code,
			"message":     resp.Message,
			"medicine_id": insufficient.MedicineID,
			"requested":   insufficient.Requested,
			"available":   insufficient.Available,
			"shortfall":   insufficient.Shortfall(),
		})
	}
	return c.Status(status).JSON(resp)
}
