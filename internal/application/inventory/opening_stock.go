package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/hospitalia/farmacia-api/internal/application/dto"
	"github.com/hospitalia/farmacia-api/internal/domain"
	"github.com/hospitalia/farmacia-api/internal/domain/entity"
	"github.com/hospitalia/farmacia-api/internal/domain/repository"
	"github.com/hospitalia/farmacia-api/pkg/logger"
)

// OpeningStockUseCase registra un lote nuevo con su stock inicial. El lote nace
// con current_stock = 0 y el stock entra vía un movimiento OPENING_STOCK en la
// misma transacción: hasta la primera unidad queda trazada en el ledger.
type OpeningStockUseCase struct {
	txRunner     TxRunner
	medicineRepo repository.MedicineRepository
	mutation     *StockMutationUseCase
	log          *logger.Logger
}

// NewOpeningStockUseCase construye el caso de uso.
func NewOpeningStockUseCase(
	txRunner TxRunner,
	medicineRepo repository.MedicineRepository,
	mutation *StockMutationUseCase,
	log *logger.Logger,
) *OpeningStockUseCase {
	return &OpeningStockUseCase{
		txRunner:     txRunner,
		medicineRepo: medicineRepo,
		mutation:     mutation,
		log:          log,
	}
}

// AddOpeningStock valida, crea el lote y aplica el movimiento OPENING_STOCK.
// Un batch_number repetido para el mismo medicamento crea un lote independiente
// (el código de lote no es único global); nunca se fusionan lotes.
func (uc *OpeningStockUseCase) AddOpeningStock(ctx context.Context, in dto.OpeningStockRequest) (*dto.OpeningStockResponse, error) {
	if in.MedicineID == "" || in.BatchNumber == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.ExpiryDate.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if in.PurchasePrice.LessThan(decimal.Zero) || in.MRP.LessThan(decimal.Zero) || in.SellingPrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	medicine, err := uc.medicineRepo.GetByID(in.MedicineID)
	if err != nil {
		return nil, err
	}
	if medicine == nil {
		return nil, domain.ErrNotFound
	}

	piecesPerPack := in.PiecesPerPack
	if piecesPerPack <= 0 {
		piecesPerPack = medicine.PiecesPerPack
	}
	if piecesPerPack <= 0 {
		piecesPerPack = 1
	}

	now := time.Now()
	batch := &entity.Batch{
		ID:                uuid.New().String(),
		MedicineID:        in.MedicineID,
		BatchNumber:       in.BatchNumber,
		ExpiryDate:        in.ExpiryDate,
		ManufacturingDate: in.ManufacturingDate,
		PiecesPerPack:     piecesPerPack,
		ReceivedQuantity:  in.Quantity,
		CurrentStock:      0,
		PurchasePrice:     in.PurchasePrice,
		MRP:               in.MRP,
		SellingPrice:      in.SellingPrice,
		SupplierRef:       in.SupplierRef,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	var movementID string
	err = uc.txRunner.Run(ctx, func(
		batchRepo repository.BatchRepository,
		movRepo repository.MovementRepository,
	) error {
		if err := batchRepo.Create(batch); err != nil {
			return err
		}
		mov, err := uc.mutation.ApplyInTx(batchRepo, movRepo, MovementInput{
			BatchID:       batch.ID,
			MovementType:  entity.MovementTypeOpeningStock,
			Quantity:      in.Quantity,
			Reason:        "stock inicial",
			PerformedBy:   in.PerformedBy,
			ReferenceType: entity.ReferenceOpeningStock,
			ReferenceID:   in.BatchNumber,
		}, now)
		if err != nil {
			return err
		}
		movementID = mov.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("batch_id", batch.ID).
		Str("medicine_id", in.MedicineID).
		Str("batch_number", in.BatchNumber).
		Int64("quantity", in.Quantity).
		Msg("stock inicial registrado")

	return &dto.OpeningStockResponse{
		BatchID:      batch.ID,
		MovementID:   movementID,
		CurrentStock: in.Quantity,
	}, nil
}
