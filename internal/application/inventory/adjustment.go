package inventory

import (
	"context"

	"github.com/hospitalia/farmacia-api/internal/application/dto"
	"github.com/hospitalia/farmacia-api/internal/domain"
	"github.com/hospitalia/farmacia-api/internal/domain/entity"
	dominv "github.com/hospitalia/farmacia-api/internal/domain/inventory"
	"github.com/hospitalia/farmacia-api/internal/domain/repository"
	"github.com/hospitalia/farmacia-api/pkg/logger"
)

// AdjustStockUseCase orquestador delgado sobre el servicio de mutación para
// ajustes manuales (IN, OUT, ADJUSTMENT, DAMAGE, EXPIRY). Revertir una
// deducción confirmada es un ajuste IN nuevo, nunca se reescribe el ledger.
type AdjustStockUseCase struct {
	batchRepo repository.BatchRepository
	mutation  *StockMutationUseCase
	log       *logger.Logger
}

// NewAdjustStockUseCase construye el caso de uso.
func NewAdjustStockUseCase(batchRepo repository.BatchRepository, mutation *StockMutationUseCase, log *logger.Logger) *AdjustStockUseCase {
	return &AdjustStockUseCase{batchRepo: batchRepo, mutation: mutation, log: log}
}

// AdjustStock valida el ajuste y delega en el servicio de mutación.
// Para tipos decrecientes rechaza de entrada cantidades mayores al stock actual;
// la verificación definitiva vuelve a correr con la fila bloqueada.
func (uc *AdjustStockUseCase) AdjustStock(ctx context.Context, in dto.AdjustStockRequest) (*dto.AdjustStockResponse, error) {
	if in.BatchID == "" || in.Quantity <= 0 || in.Reason == "" {
		return nil, domain.ErrInvalidInput
	}
	switch in.AdjustmentType {
	case entity.MovementTypeIN, entity.MovementTypeOUT, entity.MovementTypeADJUSTMENT,
		entity.MovementTypeDAMAGE, entity.MovementTypeEXPIRY:
	default:
		return nil, domain.ErrInvalidInput
	}
	direction, err := dominv.ResolveDirection(in.AdjustmentType, in.Direction)
	if err != nil {
		return nil, err
	}

	batch, err := uc.batchRepo.GetByID(in.BatchID)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, domain.ErrNotFound
	}
	if direction == entity.DirectionOut && in.Quantity > batch.CurrentStock {
		return nil, &dominv.NegativeStockError{BatchID: batch.ID, Requested: in.Quantity, Available: batch.CurrentStock}
	}

	result, err := uc.mutation.ApplyMovement(ctx, MovementInput{
		BatchID:       in.BatchID,
		MovementType:  in.AdjustmentType,
		Direction:     in.Direction,
		Quantity:      in.Quantity,
		Reason:        in.Reason,
		PerformedBy:   in.PerformedBy,
		ReferenceType: entity.ReferenceAdjustment,
	})
	if err != nil {
		return nil, err
	}
	return &dto.AdjustStockResponse{
		BatchID:      in.BatchID,
		MovementID:   result.Movement.ID,
		CurrentStock: result.CurrentStock,
	}, nil
}
