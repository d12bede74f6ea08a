package repository

import (
	"time"

	"github.com/hospitalia/farmacia-api/internal/domain/entity"
)

// MovementFilter filtros para consultar el ledger (auditoría/reportes).
type MovementFilter struct {
	BatchID       string
	ReferenceType string
	From          *time.Time
	To            *time.Time
	Limit         int
	Offset        int
}

// MovementRepository puerto de persistencia del ledger de movimientos.
// Solo inserta y lee: las entradas son inmutables.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	List(filter MovementFilter) ([]*entity.Movement, error)
	// ListByBatchAsc devuelve todos los movimientos de un lote del más antiguo
	// al más reciente (para reconstruir el stock por replay).
	ListByBatchAsc(batchID string) ([]*entity.Movement, error)
}
