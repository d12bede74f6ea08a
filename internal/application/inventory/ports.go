package inventory

import (
	"context"

	"github.com/hospitalia/farmacia-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la actualización del lote y la
// inserción en el ledger se confirmen juntas o ninguna.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		batchRepo repository.BatchRepository,
		movRepo repository.MovementRepository,
	) error) error
}
