package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hospitalia/farmacia-api/internal/application/billing"
	"github.com/hospitalia/farmacia-api/internal/application/inventory"
	dominv "github.com/hospitalia/farmacia-api/internal/domain/inventory"
	"github.com/hospitalia/farmacia-api/internal/infrastructure/postgres"
	httpRouter "github.com/hospitalia/farmacia-api/internal/interfaces/http"
	"github.com/hospitalia/farmacia-api/pkg/config"
	"github.com/hospitalia/farmacia-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	medicineRepo := postgres.NewMedicineRepository(pool)
	batchRepo := postgres.NewBatchRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	mutationUC := inventory.NewStockMutationUseCase(txRunner, log)
	openingStockUC := inventory.NewOpeningStockUseCase(txRunner, medicineRepo, mutationUC, log)
	adjustUC := inventory.NewAdjustStockUseCase(batchRepo, mutationUC, log)
	alertsUC := inventory.NewAlertUseCase(batchRepo, dominv.Thresholds{
		NearExpiryDays: cfg.Inventory.NearExpiryDays,
		ReorderLevel:   cfg.Inventory.GlobalReorderLevel,
	})
	expirySweepUC := inventory.NewExpirySweepUseCase(batchRepo, log)
	ledgerUC := inventory.NewLedgerQueryUseCase(movementRepo)
	batchQueryUC := inventory.NewBatchQueryUseCase(batchRepo)
	medicineQueryUC := inventory.NewMedicineQueryUseCase(medicineRepo)

	settleSaleUC := billing.NewSettleSaleUseCase(txRunner, medicineRepo, mutationUC, billing.Config{
		BillPrefix:    cfg.Billing.Prefix,
		NumberRetries: cfg.Billing.NumberRetries,
	}, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Farmacia API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		OpeningStock: openingStockUC,
		AdjustStock:  adjustUC,
		Alerts:       alertsUC,
		Ledger:       ledgerUC,
		Batches:      batchQueryUC,
		ExpirySweep:  expirySweepUC,
		Medicines:    medicineQueryUC,
		SettleSale:   settleSaleUC,
	})

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
