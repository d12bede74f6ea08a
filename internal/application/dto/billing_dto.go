package dto

import "github.com/shopspring/decimal"

// SaleLineRequest línea de venta. BatchID vacío = asignación FEFO automática;
// con valor = lote elegido manualmente (mismo camino de mutación de stock).
type SaleLineRequest struct {
	MedicineID  string          `json:"medicine_id"`
	BatchID     string          `json:"batch_id,omitempty"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
	TaxPct      decimal.Decimal `json:"tax_pct"`
}

// SettleSaleRequest body para POST /api/sales.
type SettleSaleRequest struct {
	Lines          []SaleLineRequest `json:"lines"`
	OrderDiscount  decimal.Decimal   `json:"order_discount"`
	PaymentMethod  string            `json:"payment_method"`
	BuyerRef       string            `json:"buyer_ref,omitempty"`
	BillNumberHint string            `json:"bill_number_hint,omitempty"`
	PerformedBy    string            `json:"performed_by"`
}

// BillLineResponse línea resuelta a lote concreto.
type BillLineResponse struct {
	MedicineID  string          `json:"medicine_id"`
	BatchID     string          `json:"batch_id"`
	BatchNumber string          `json:"batch_number"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
	TaxPct      decimal.Decimal `json:"tax_pct"`
	Amount      decimal.Decimal `json:"amount"`
}

// BillResponse factura liquidada.
type BillResponse struct {
	BillNumber    string             `json:"bill_number"`
	BuyerRef      string             `json:"buyer_ref,omitempty"`
	PaymentMethod string             `json:"payment_method"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Discount      decimal.Decimal    `json:"discount"`
	TaxTotal      decimal.Decimal    `json:"tax_total"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	Lines         []BillLineResponse `json:"lines"`
}
