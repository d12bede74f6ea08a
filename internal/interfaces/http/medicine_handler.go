package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hospitalia/farmacia-api/internal/application/dto"
	"github.com/hospitalia/farmacia-api/internal/application/inventory"
)

// MedicineHandler lookup del catálogo de medicamentos (colaborador de referencia).
type MedicineHandler struct {
	medicines *inventory.MedicineQueryUseCase
}

// NewMedicineHandler construye el handler.
func NewMedicineHandler(medicines *inventory.MedicineQueryUseCase) *MedicineHandler {
	return &MedicineHandler{medicines: medicines}
}

// Search godoc
// @Summary      Buscar medicamentos por nombre o genérico
// @Tags         medicines
// @Produce      json
// @Param        search  query  string  false  "Término (insensible a tildes y mayúsculas)"
// @Success      200  {array}  entity.Medicine
// @Router       /api/medicines [get]
func (h *MedicineHandler) Search(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	list, err := h.medicines.Search(c.Context(), c.Query("search"), page)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "medicines": list})
}

// GetByID godoc
// @Summary      Obtener un medicamento por ID
// @Tags         medicines
// @Produce      json
// @Param        id  path  string  true  "Medicamento"
// @Success      200  {object}  entity.Medicine
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/medicines/{id} [get]
func (h *MedicineHandler) GetByID(c *fiber.Ctx) error {
	m, err := h.medicines.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(m)
}
