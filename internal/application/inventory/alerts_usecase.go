package inventory

import (
	"context"
	"time"

	"github.com/hospitalia/farmacia-api/internal/application/dto"
	dominv "github.com/hospitalia/farmacia-api/internal/domain/inventory"
	"github.com/hospitalia/farmacia-api/internal/domain/repository"
)

// AlertUseCase deriva alertas de stock bajo, agotado, por vencer y vencido
// desde el estado actual de los lotes. Solo lectura: no muta nada y no afecta
// la elegibilidad de asignación.
type AlertUseCase struct {
	batchRepo  repository.BatchRepository
	thresholds dominv.Thresholds
}

// NewAlertUseCase construye la vista de alertas con sus umbrales.
func NewAlertUseCase(batchRepo repository.BatchRepository, thresholds dominv.Thresholds) *AlertUseCase {
	if thresholds.NearExpiryDays <= 0 {
		thresholds.NearExpiryDays = dominv.DefaultThresholds().NearExpiryDays
	}
	if thresholds.ReorderLevel <= 0 {
		thresholds.ReorderLevel = dominv.DefaultThresholds().ReorderLevel
	}
	return &AlertUseCase{batchRepo: batchRepo, thresholds: thresholds}
}

// ListAlerts clasifica cada lote activo y devuelve solo los que ameritan alerta
// (cualquier clasificación distinta de OK/OK).
func (uc *AlertUseCase) ListAlerts(ctx context.Context) ([]dto.BatchAlertDTO, error) {
	rows, err := uc.batchRepo.ListActiveWithMedicine()
	if err != nil {
		return nil, err
	}
	today := time.Now()

	alerts := make([]dto.BatchAlertDTO, 0, len(rows))
	for _, row := range rows {
		b := &row.Batch
		expiryStatus := dominv.ClassifyExpiry(b, today, uc.thresholds)
		stockStatus := dominv.ClassifyStock(b.CurrentStock, row.ReorderLevel, uc.thresholds)
		if expiryStatus == dominv.ExpiryStatusOK && stockStatus == dominv.StockStatusOK {
			continue
		}
		alerts = append(alerts, dto.BatchAlertDTO{
			BatchID:      b.ID,
			BatchNumber:  b.BatchNumber,
			MedicineID:   b.MedicineID,
			MedicineName: row.MedicineName,
			CurrentStock: b.CurrentStock,
			DaysToExpiry: b.DaysToExpiry(today),
			ExpiryStatus: expiryStatus,
			StockStatus:  stockStatus,
			Severity:     dominv.Severity(expiryStatus, stockStatus),
		})
	}
	return alerts, nil
}
