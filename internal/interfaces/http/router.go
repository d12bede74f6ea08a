package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hospitalia/farmacia-api/internal/application/billing"
	"github.com/hospitalia/farmacia-api/internal/application/inventory"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	OpeningStock *inventory.OpeningStockUseCase
	AdjustStock  *inventory.AdjustStockUseCase
	Alerts       *inventory.AlertUseCase
	Ledger       *inventory.LedgerQueryUseCase
	Batches      *inventory.BatchQueryUseCase
	ExpirySweep  *inventory.ExpirySweepUseCase
	Medicines    *inventory.MedicineQueryUseCase
	SettleSale   *billing.SettleSaleUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Medicines (catálogo, solo lectura)
	medicines := api.Group("/medicines")
	medicineHandler := NewMedicineHandler(deps.Medicines)
	medicines.Get("/", medicineHandler.Search)
	medicines.Get("/:id", medicineHandler.GetByID)

	// Inventory (lotes, movimientos, alertas)
	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(
		deps.OpeningStock, deps.AdjustStock, deps.Alerts,
		deps.Ledger, deps.Batches, deps.ExpirySweep,
	)
	inv.Post("/opening-stock", inventoryHandler.AddOpeningStock)
	inv.Post("/adjustments", inventoryHandler.AdjustStock)
	inv.Get("/alerts", inventoryHandler.ListAlerts)
	inv.Get("/movements", inventoryHandler.ListMovements)
	inv.Get("/batches", inventoryHandler.ListBatches)
	inv.Post("/expiry-sweep", inventoryHandler.RunExpirySweep)

	// Sales (liquidación)
	sales := api.Group("/sales")
	billingHandler := NewBillingHandler(deps.SettleSale)
	sales.Post("/", billingHandler.SettleSale)
	sales.Get("/:number", billingHandler.GetBill)
}
