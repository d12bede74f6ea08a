package repository

import (
	"time"

	"github.com/hospitalia/farmacia-api/internal/domain/entity"
)

// BatchWithMedicine fila de lectura para el tablero de alertas: lote + datos
// mínimos del medicamento (nombre y umbral de reorden).
type BatchWithMedicine struct {
	Batch        entity.Batch
	MedicineName string
	ReorderLevel int64
}

// BatchRepository puerto de persistencia de lotes. Los métodos *ForUpdate se
// usan dentro de transacciones y bloquean las filas (SELECT FOR UPDATE).
type BatchRepository interface {
	GetByID(id string) (*entity.Batch, error)
	GetForUpdate(id string) (*entity.Batch, error)
	Create(batch *entity.Batch) error
	// UpdateStock escribe current_stock/sold_quantity/updated_at. Solo el
	// servicio de mutación de stock debe llamarlo.
	UpdateStock(batch *entity.Batch) error
	// ListEligibleForUpdate devuelve los lotes asignables de un medicamento
	// (activos, no vencidos, stock > 0) en orden FEFO, bloqueados.
	ListEligibleForUpdate(medicineID string, today time.Time) ([]*entity.Batch, error)
	ListByMedicine(medicineID string) ([]*entity.Batch, error)
	ListActiveWithMedicine() ([]*BatchWithMedicine, error)
	// MarkExpired marca is_expired en lotes cuyo vencimiento ya pasó; no toca stock.
	MarkExpired(today time.Time) (int64, error)
	Deactivate(id string) error
}
