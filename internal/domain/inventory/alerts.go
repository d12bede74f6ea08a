package inventory

import (
	"time"

	"github.com/hospitalia/farmacia-api/internal/domain/entity"
)

// Estados de vencimiento.
const (
	ExpiryStatusExpired = "EXPIRED"
	ExpiryStatusNear    = "NEAR_EXPIRY"
	ExpiryStatusOK      = "OK"
)

// Estados de stock.
const (
	StockStatusOut = "OUT_OF_STOCK"
	StockStatusLow = "LOW_STOCK"
	StockStatusOK  = "OK"
)

// Severidades combinadas de alerta.
const (
	SeverityLow      = "LOW"
	SeverityMedium   = "MEDIUM"
	SeverityHigh     = "HIGH"
	SeverityCritical = "CRITICAL"
)

// Thresholds umbrales de clasificación (configurables).
type Thresholds struct {
	NearExpiryDays int   // días para considerar "por vencer" (30 por defecto)
	ReorderLevel   int64 // umbral global de stock bajo cuando el medicamento no define uno
}

// DefaultThresholds valores por defecto del tablero de alertas.
func DefaultThresholds() Thresholds {
	return Thresholds{NearExpiryDays: 30, ReorderLevel: 10}
}

// ClassifyExpiry clasifica el vencimiento de un lote respecto a hoy.
func ClassifyExpiry(b *entity.Batch, today time.Time, t Thresholds) string {
	days := b.DaysToExpiry(today)
	switch {
	case b.IsExpired || days < 0:
		return ExpiryStatusExpired
	case days <= t.NearExpiryDays:
		return ExpiryStatusNear
	default:
		return ExpiryStatusOK
	}
}

// ClassifyStock clasifica el nivel de stock; reorderLevel=0 usa el umbral global.
func ClassifyStock(currentStock, reorderLevel int64, t Thresholds) string {
	level := reorderLevel
	if level <= 0 {
		level = t.ReorderLevel
	}
	switch {
	case currentStock == 0:
		return StockStatusOut
	case currentStock < level:
		return StockStatusLow
	default:
		return StockStatusOK
	}
}

// Severity combina las dos clasificaciones en una severidad para la UI.
// Salida consultiva: no afecta la elegibilidad de asignación.
func Severity(expiryStatus, stockStatus string) string {
	switch {
	case expiryStatus == ExpiryStatusExpired:
		return SeverityCritical
	case stockStatus == StockStatusOut:
		return SeverityHigh
	case expiryStatus == ExpiryStatusNear && stockStatus == StockStatusLow:
		return SeverityHigh
	case expiryStatus == ExpiryStatusNear || stockStatus == StockStatusLow:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
