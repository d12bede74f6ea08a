package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bill es la cabecera de una venta liquidada: las deducciones de stock y la
// factura se confirman como una sola unidad o no se confirman.
type Bill struct {
	ID            string
	BillNumber    string // PREFIX-YYYY-NNNN, único
	BuyerRef      string
	PaymentMethod string
	Subtotal      decimal.Decimal // suma de netos de línea (con descuento de línea)
	Discount      decimal.Decimal // descuento a nivel de orden
	TaxTotal      decimal.Decimal
	TotalAmount   decimal.Decimal // max(0, subtotal+impuestos-descuento), redondeado hacia arriba
	CreatedBy     string
	CreatedAt     time.Time
}

// BillLine es una línea de venta ya resuelta a un lote concreto. Una línea del
// request puede producir varias BillLine si la asignación FEFO cruza lotes.
type BillLine struct {
	ID          string
	BillID      string
	MedicineID  string
	BatchID     string
	BatchNumber string
	Quantity    int64
	UnitPrice   decimal.Decimal
	DiscountPct decimal.Decimal
	TaxPct      decimal.Decimal
	Amount      decimal.Decimal // neto + impuesto, precisión fraccionaria
}
