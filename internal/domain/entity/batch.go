package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Batch representa un lote recibido de un medicamento, con su vencimiento y precios.
// CurrentStock se lleva siempre en piezas (nunca cajas + sueltas) y solo lo escribe
// el servicio de mutación de stock; cada cambio queda en stock_movements.
type Batch struct {
	ID                string
	MedicineID        string
	BatchNumber       string // código de lote legible; único por medicamento, no global
	ExpiryDate        time.Time
	ManufacturingDate *time.Time
	PiecesPerPack     int
	ReceivedQuantity  int64 // total recibido al crear el lote; no se decrementa (auditoría)
	CurrentStock      int64
	SoldQuantity      int64
	ReservedStock     int64
	PurchasePrice     decimal.Decimal
	MRP               decimal.Decimal
	SellingPrice      decimal.Decimal
	SupplierRef       string
	IsActive          bool
	IsExpired         bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Eligible indica si el lote puede participar en una asignación de venta:
// activo, no marcado vencido, con vencimiento posterior a la fecha dada y stock > 0.
func (b *Batch) Eligible(today time.Time) bool {
	return b.IsActive && !b.IsExpired && b.CurrentStock > 0 && b.ExpiryDate.After(today)
}

// DaysToExpiry días hasta el vencimiento (negativo si ya venció).
func (b *Batch) DaysToExpiry(today time.Time) int {
	return int(b.ExpiryDate.Sub(today).Hours() / 24)
}
