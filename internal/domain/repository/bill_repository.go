package repository

import "github.com/hospitalia/farmacia-api/internal/domain/entity"

// BillRepository puerto de persistencia de facturas de venta.
type BillRepository interface {
	// Create inserta la cabecera; retorna domain.ErrDuplicateBillNumber si el
	// número ya existe (colisión bajo concurrencia, el caller reintenta).
	Create(bill *entity.Bill) error
	CreateLine(line *entity.BillLine) error
	GetByNumber(billNumber string) (*entity.Bill, error)
	GetLines(billID string) ([]*entity.BillLine, error)
	// NextBillNumber incrementa el consecutivo (prefix, year) de forma
	// serializada dentro de la transacción y devuelve el siguiente valor.
	NextBillNumber(prefix string, year int) (int64, error)
}
