package billing

import (
	"context"
	"time"

	"github.com/hospitalia/farmacia-api/internal/domain/entity"
	"github.com/hospitalia/farmacia-api/internal/domain/repository"
)

// SettlementTxRunner ejecuta una función dentro de una transacción que incluye
// repos de inventario y facturación: todas las deducciones de lotes y la
// escritura de la factura confirman juntas o ninguna.
type SettlementTxRunner interface {
	RunSettlement(ctx context.Context, fn func(
		batchRepo repository.BatchRepository,
		movRepo repository.MovementRepository,
		billRepo repository.BillRepository,
	) error) error
}

// StockMutator integra la liquidación de ventas con el motor de inventario.
// DeductForSaleInTx descuenta un lote con los repositorios del caller (misma
// transacción); si retorna error (ej. ErrNegativeStock) el caller hace rollback.
type StockMutator interface {
	DeductForSaleInTx(
		batchRepo repository.BatchRepository,
		movRepo repository.MovementRepository,
		batchID string,
		quantity int64,
		performedBy, billNumber string,
		now time.Time,
	) (*entity.Movement, error)
}
