package inventory

import (
	"fmt"

	"github.com/hospitalia/farmacia-api/internal/domain"
	"github.com/hospitalia/farmacia-api/internal/domain/entity"
)

// NegativeStockError indica que aplicar el movimiento dejaría CurrentStock < 0.
// Nunca se recorta a cero en silencio: el caller debe replanificar con datos
// frescos o fallar la línea de venta.
type NegativeStockError struct {
	BatchID   string
	Requested int64
	Available int64
}

func (e *NegativeStockError) Error() string {
	return fmt.Sprintf("stock negativo en lote %s: salida de %d con %d disponibles",
		e.BatchID, e.Requested, e.Available)
}

func (e *NegativeStockError) Unwrap() error { return domain.ErrNegativeStock }

// ResolveDirection resuelve la dirección efectiva de un movimiento. Para
// ADJUSTMENT la dirección es obligatoria y explícita del caller; para el resto
// está implícita en el tipo y, si viene, debe coincidir.
func ResolveDirection(movementType, explicit string) (string, error) {
	implied, ok := entity.DirectionFor(movementType)
	if !ok {
		if explicit != entity.DirectionIn && explicit != entity.DirectionOut {
			return "", domain.ErrInvalidInput
		}
		return explicit, nil
	}
	if explicit != "" && explicit != implied {
		return "", domain.ErrInvalidInput
	}
	return implied, nil
}

// ComputeAfter calcula quantity_after para un movimiento sobre un lote.
// Invariantes: el resultado nunca es negativo (NegativeStockError) y una
// entrada nunca supera received_quantity (ErrExceedsReceived).
func ComputeAfter(b *entity.Batch, direction string, quantity int64) (int64, error) {
	if quantity <= 0 {
		return 0, domain.ErrInvalidInput
	}
	switch direction {
	case entity.DirectionOut:
		after := b.CurrentStock - quantity
		if after < 0 {
			return 0, &NegativeStockError{BatchID: b.ID, Requested: quantity, Available: b.CurrentStock}
		}
		return after, nil
	case entity.DirectionIn:
		after := b.CurrentStock + quantity
		if b.ReceivedQuantity > 0 && after > b.ReceivedQuantity {
			return 0, domain.ErrExceedsReceived
		}
		return after, nil
	default:
		return 0, domain.ErrInvalidInput
	}
}
