package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpeningStockRequest body para POST /api/inventory/opening-stock.
type OpeningStockRequest struct {
	MedicineID        string          `json:"medicine_id"`
	BatchNumber       string          `json:"batch_number"`
	Quantity          int64           `json:"quantity"`
	PiecesPerPack     int             `json:"pieces_per_pack"`
	ExpiryDate        time.Time       `json:"expiry_date"`
	ManufacturingDate *time.Time      `json:"manufacturing_date,omitempty"`
	PurchasePrice     decimal.Decimal `json:"purchase_price"`
	MRP               decimal.Decimal `json:"mrp"`
	SellingPrice      decimal.Decimal `json:"selling_price"`
	SupplierRef       string          `json:"supplier_ref,omitempty"`
	PerformedBy       string          `json:"performed_by"`
}

// OpeningStockResponse lote creado y su movimiento OPENING_STOCK.
type OpeningStockResponse struct {
	BatchID      string `json:"batch_id"`
	MovementID   string `json:"movement_id"`
	CurrentStock int64  `json:"current_stock"`
}

// AdjustStockRequest body para POST /api/inventory/adjustments.
type AdjustStockRequest struct {
	BatchID        string `json:"batch_id"`
	AdjustmentType string `json:"adjustment_type"` // IN, OUT, ADJUSTMENT, DAMAGE, EXPIRY
	Direction      string `json:"direction,omitempty"`
	Quantity       int64  `json:"quantity"`
	Reason         string `json:"reason"`
	PerformedBy    string `json:"performed_by"`
}

// AdjustStockResponse resultado del ajuste.
type AdjustStockResponse struct {
	BatchID      string `json:"batch_id"`
	MovementID   string `json:"movement_id"`
	CurrentStock int64  `json:"current_stock"`
}

// MovementResponse entrada del ledger para consumo de la UI.
type MovementResponse struct {
	ID             string    `json:"id"`
	BatchID        string    `json:"batch_id"`
	MovementType   string    `json:"movement_type"`
	Direction      string    `json:"direction"`
	QuantityBefore int64     `json:"quantity_before"`
	QuantityChange int64     `json:"quantity_changed"`
	QuantityAfter  int64     `json:"quantity_after"`
	ReferenceType  string    `json:"reference_type,omitempty"`
	ReferenceID    string    `json:"reference_id,omitempty"`
	Reason         string    `json:"reason,omitempty"`
	PerformedBy    string    `json:"performed_by,omitempty"`
	MovementDate   time.Time `json:"movement_date"`
}

// BatchAlertDTO fila del tablero de alertas de lotes.
type BatchAlertDTO struct {
	BatchID      string `json:"batch_id"`
	BatchNumber  string `json:"batch_number"`
	MedicineID   string `json:"medicine_id"`
	MedicineName string `json:"medicine_name"`
	CurrentStock int64  `json:"current_stock"`
	DaysToExpiry int    `json:"days_to_expiry"`
	ExpiryStatus string `json:"expiry_status"`
	StockStatus  string `json:"stock_status"`
	Severity     string `json:"severity"`
}

// BatchResponse lote para listados por medicamento.
type BatchResponse struct {
	ID               string          `json:"id"`
	MedicineID       string          `json:"medicine_id"`
	BatchNumber      string          `json:"batch_number"`
	ExpiryDate       time.Time       `json:"expiry_date"`
	PiecesPerPack    int             `json:"pieces_per_pack"`
	ReceivedQuantity int64           `json:"received_quantity"`
	CurrentStock     int64           `json:"current_stock"`
	SoldQuantity     int64           `json:"sold_quantity"`
	SellingPrice     decimal.Decimal `json:"selling_price"`
	IsActive         bool            `json:"is_active"`
	IsExpired        bool            `json:"is_expired"`
}
