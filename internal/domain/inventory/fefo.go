package inventory

import (
	"fmt"
	"sort"
	"time"

	"github.com/hospitalia/farmacia-api/internal/domain"
	"github.com/hospitalia/farmacia-api/internal/domain/entity"
)

// Allocation es un par (lote, cantidad a tomar) dentro de un plan de asignación.
type Allocation struct {
	Batch    *entity.Batch
	Quantity int64
}

// InsufficientStockError indica que los lotes elegibles existen pero no cubren
// la cantidad pedida. Expone el faltante para el mensaje al usuario.
type InsufficientStockError struct {
	MedicineID string
	Requested  int64
	Available  int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para medicamento %s: pedido %d, disponible %d",
		e.MedicineID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return domain.ErrInsufficientStock }

// Shortfall cantidad que falta para cubrir el pedido.
func (e *InsufficientStockError) Shortfall() int64 { return e.Requested - e.Available }

// Allocate arma el plan FEFO (First-Expiry-First-Out) para un medicamento:
// recorre los lotes elegibles del vencimiento más próximo al más lejano
// (empate por ID ascendente, determinista) y reparte la cantidad pedida.
//
// Es un paso de planificación de solo lectura: no reserva ni descuenta nada.
// El caller debe aplicar las deducciones vía el servicio de mutación de stock
// dentro de la misma transacción que bloqueó los lotes, o dos ventas
// concurrentes podrían sobre-asignar el mismo lote.
func Allocate(medicineID string, requested int64, batches []*entity.Batch, today time.Time) ([]Allocation, error) {
	if requested <= 0 {
		return nil, domain.ErrInvalidInput
	}

	eligible := make([]*entity.Batch, 0, len(batches))
	for _, b := range batches {
		if b.MedicineID == medicineID && b.Eligible(today) {
			eligible = append(eligible, b)
		}
	}
	if len(eligible) == 0 {
		return nil, domain.ErrNoStockAvailable
	}

	sort.Slice(eligible, func(i, j int) bool {
		if !eligible[i].ExpiryDate.Equal(eligible[j].ExpiryDate) {
			return eligible[i].ExpiryDate.Before(eligible[j].ExpiryDate)
		}
		return eligible[i].ID < eligible[j].ID
	})

	var available int64
	for _, b := range eligible {
		available += b.CurrentStock
	}
	if available < requested {
		return nil, &InsufficientStockError{MedicineID: medicineID, Requested: requested, Available: available}
	}

	var plan []Allocation
	remaining := requested
	for _, b := range eligible {
		if remaining == 0 {
			break
		}
		take := b.CurrentStock
		if take > remaining {
			take = remaining
		}
		plan = append(plan, Allocation{Batch: b, Quantity: take})
		remaining -= take
	}
	return plan, nil
}
