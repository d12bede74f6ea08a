package inventory

import (
	"context"
	"time"

	"github.com/hospitalia/farmacia-api/internal/domain/repository"
	"github.com/hospitalia/farmacia-api/pkg/logger"
)

// ExpirySweepUseCase marca is_expired en lotes cuyo vencimiento ya pasó.
// Solo marca la bandera: la baja del stock vencido es un ajuste EXPIRY
// explícito, para que el ledger siga siendo la fuente de verdad.
type ExpirySweepUseCase struct {
	batchRepo repository.BatchRepository
	log       *logger.Logger
}

// NewExpirySweepUseCase construye el caso de uso.
func NewExpirySweepUseCase(batchRepo repository.BatchRepository, log *logger.Logger) *ExpirySweepUseCase {
	return &ExpirySweepUseCase{batchRepo: batchRepo, log: log}
}

// MarkExpiredBatches marca los lotes vencidos a la fecha y retorna cuántos.
func (uc *ExpirySweepUseCase) MarkExpiredBatches(ctx context.Context) (int64, error) {
	marked, err := uc.batchRepo.MarkExpired(time.Now())
	if err != nil {
		return 0, err
	}
	if marked > 0 {
		uc.log.Info().Int64("batches", marked).Msg("lotes marcados como vencidos")
	}
	return marked, nil
}
