package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hospitalia/farmacia-api/internal/domain"
	"github.com/hospitalia/farmacia-api/internal/domain/entity"
	dominv "github.com/hospitalia/farmacia-api/internal/domain/inventory"
	"github.com/hospitalia/farmacia-api/internal/domain/repository"
	"github.com/hospitalia/farmacia-api/pkg/logger"
)

// StockMutationUseCase es el único mutador de current_stock. Cada llamada
// bloquea la fila del lote (SELECT FOR UPDATE), valida la no-negatividad y
// escribe el lote y exactamente una entrada del ledger en la misma transacción.
type StockMutationUseCase struct {
	txRunner TxRunner
	log      *logger.Logger
}

// NewStockMutationUseCase construye el caso de uso.
func NewStockMutationUseCase(txRunner TxRunner, log *logger.Logger) *StockMutationUseCase {
	return &StockMutationUseCase{txRunner: txRunner, log: log}
}

// MovementInput entrada para aplicar un movimiento de stock.
// Direction solo es obligatoria para ADJUSTMENT; en el resto se deriva del tipo.
type MovementInput struct {
	BatchID       string
	MovementType  string
	Direction     string
	Quantity      int64
	Reason        string
	PerformedBy   string
	ReferenceType string
	ReferenceID   string
}

// MovementResult movimiento creado y stock resultante.
type MovementResult struct {
	Movement     *entity.Movement
	CurrentStock int64
}

// ApplyMovement abre una transacción y aplica el movimiento (ver ApplyInTx).
func (uc *StockMutationUseCase) ApplyMovement(ctx context.Context, in MovementInput) (*MovementResult, error) {
	var result *MovementResult
	err := uc.txRunner.Run(ctx, func(
		batchRepo repository.BatchRepository,
		movRepo repository.MovementRepository,
	) error {
		mov, err := uc.ApplyInTx(batchRepo, movRepo, in, time.Now())
		if err != nil {
			return err
		}
		result = &MovementResult{Movement: mov, CurrentStock: mov.QuantityAfter}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("batch_id", in.BatchID).
		Str("type", in.MovementType).
		Int64("quantity", in.Quantity).
		Int64("stock", result.CurrentStock).
		Msg("movimiento de stock aplicado")
	return result, nil
}

// ApplyInTx aplica un movimiento usando los repositorios del caller (misma
// transacción). Bloquea la fila del lote, calcula quantity_after según el tipo
// y la dirección explícita, actualiza el lote e inserta la entrada del ledger
// con before/after exactos al estado del lote en ese instante.
func (uc *StockMutationUseCase) ApplyInTx(
	batchRepo repository.BatchRepository,
	movRepo repository.MovementRepository,
	in MovementInput,
	now time.Time,
) (*entity.Movement, error) {
	if in.BatchID == "" || !entity.ValidMovementType(in.MovementType) || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	direction, err := dominv.ResolveDirection(in.MovementType, in.Direction)
	if err != nil {
		return nil, err
	}

	batch, err := batchRepo.GetForUpdate(in.BatchID)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, domain.ErrNotFound
	}
	if !batch.IsActive {
		return nil, domain.ErrBatchInactive
	}

	before := batch.CurrentStock
	after, err := dominv.ComputeAfter(batch, direction, in.Quantity)
	if err != nil {
		return nil, err
	}

	batch.CurrentStock = after
	if direction == entity.DirectionOut && in.ReferenceType == entity.ReferenceSale {
		batch.SoldQuantity += in.Quantity
	}
	batch.UpdatedAt = now
	if err := batchRepo.UpdateStock(batch); err != nil {
		return nil, err
	}

	mov := &entity.Movement{
		ID:             uuid.New().String(),
		BatchID:        batch.ID,
		MovementType:   in.MovementType,
		Direction:      direction,
		QuantityBefore: before,
		QuantityChange: in.Quantity,
		QuantityAfter:  after,
		ReferenceType:  in.ReferenceType,
		ReferenceID:    in.ReferenceID,
		Reason:         in.Reason,
		PerformedBy:    in.PerformedBy,
		MovementDate:   now,
	}
	if err := movRepo.Create(mov); err != nil {
		// La tx del caller hace rollback: lote y ledger nunca quedan desincronizados.
		return nil, err
	}
	return mov, nil
}

// DeductForSaleInTx descuenta una asignación de venta sobre un lote dentro de
// la transacción del caller. Implementa billing.StockMutator.
func (uc *StockMutationUseCase) DeductForSaleInTx(
	batchRepo repository.BatchRepository,
	movRepo repository.MovementRepository,
	batchID string,
	quantity int64,
	performedBy, billNumber string,
	now time.Time,
) (*entity.Movement, error) {
	return uc.ApplyInTx(batchRepo, movRepo, MovementInput{
		BatchID:       batchID,
		MovementType:  entity.MovementTypeOUT,
		Quantity:      quantity,
		PerformedBy:   performedBy,
		ReferenceType: entity.ReferenceSale,
		ReferenceID:   billNumber,
	}, now)
}
