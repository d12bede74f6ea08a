package inventory

import (
	"context"

	"github.com/hospitalia/farmacia-api/internal/application/dto"
	"github.com/hospitalia/farmacia-api/internal/domain"
	"github.com/hospitalia/farmacia-api/internal/domain/entity"
	"github.com/hospitalia/farmacia-api/internal/domain/repository"
	"github.com/hospitalia/farmacia-api/pkg/textutil"
)

// LedgerQueryUseCase consultas de solo lectura sobre el ledger de movimientos
// (auditoría y reportes de la UI).
type LedgerQueryUseCase struct {
	movRepo repository.MovementRepository
}

// NewLedgerQueryUseCase construye el caso de uso.
func NewLedgerQueryUseCase(movRepo repository.MovementRepository) *LedgerQueryUseCase {
	return &LedgerQueryUseCase{movRepo: movRepo}
}

// ListMovements filtra el ledger por lote, procedencia y rango de fechas.
func (uc *LedgerQueryUseCase) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]dto.MovementResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	movements, err := uc.movRepo.List(filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, toMovementResponse(m))
	}
	return out, nil
}

func toMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:             m.ID,
		BatchID:        m.BatchID,
		MovementType:   m.MovementType,
		Direction:      m.Direction,
		QuantityBefore: m.QuantityBefore,
		QuantityChange: m.QuantityChange,
		QuantityAfter:  m.QuantityAfter,
		ReferenceType:  m.ReferenceType,
		ReferenceID:    m.ReferenceID,
		Reason:         m.Reason,
		PerformedBy:    m.PerformedBy,
		MovementDate:   m.MovementDate,
	}
}

// BatchQueryUseCase consultas de solo lectura sobre lotes.
type BatchQueryUseCase struct {
	batchRepo repository.BatchRepository
}

// NewBatchQueryUseCase construye el caso de uso.
func NewBatchQueryUseCase(batchRepo repository.BatchRepository) *BatchQueryUseCase {
	return &BatchQueryUseCase{batchRepo: batchRepo}
}

// ListByMedicine lista los lotes de un medicamento (incluye inactivos y vencidos,
// para la pantalla de administración de lotes).
func (uc *BatchQueryUseCase) ListByMedicine(ctx context.Context, medicineID string) ([]dto.BatchResponse, error) {
	if medicineID == "" {
		return nil, domain.ErrInvalidInput
	}
	batches, err := uc.batchRepo.ListByMedicine(medicineID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BatchResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, dto.BatchResponse{
			ID:               b.ID,
			MedicineID:       b.MedicineID,
			BatchNumber:      b.BatchNumber,
			ExpiryDate:       b.ExpiryDate,
			PiecesPerPack:    b.PiecesPerPack,
			ReceivedQuantity: b.ReceivedQuantity,
			CurrentStock:     b.CurrentStock,
			SoldQuantity:     b.SoldQuantity,
			SellingPrice:     b.SellingPrice,
			IsActive:         b.IsActive,
			IsExpired:        b.IsExpired,
		})
	}
	return out, nil
}

// MedicineQueryUseCase búsqueda de medicamentos (colaborador de referencia).
type MedicineQueryUseCase struct {
	medicineRepo repository.MedicineRepository
}

// NewMedicineQueryUseCase construye el caso de uso.
func NewMedicineQueryUseCase(medicineRepo repository.MedicineRepository) *MedicineQueryUseCase {
	return &MedicineQueryUseCase{medicineRepo: medicineRepo}
}

// GetByID consulta puntual del catálogo.
func (uc *MedicineQueryUseCase) GetByID(ctx context.Context, id string) (*entity.Medicine, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	m, err := uc.medicineRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

// Search busca por nombre o genérico; el término se normaliza (minúsculas, sin
// tildes) antes de ir a la base.
func (uc *MedicineQueryUseCase) Search(ctx context.Context, term string, page dto.PageRequest) ([]*entity.Medicine, error) {
	page.DefaultPage()
	return uc.medicineRepo.Search(textutil.Normalize(term), page.Limit, page.Offset)
}
