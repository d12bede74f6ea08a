package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeIN           = "IN"            // entrada (compra, devolución)
	MovementTypeOUT          = "OUT"           // salida (venta)
	MovementTypeADJUSTMENT   = "ADJUSTMENT"    // ajuste manual; dirección explícita del caller
	MovementTypeDAMAGE       = "DAMAGE"        // baja por daño
	MovementTypeEXPIRY       = "EXPIRY"        // baja por vencimiento
	MovementTypeOpeningStock = "OPENING_STOCK" // stock inicial del lote
)

// Dirección del movimiento sobre CurrentStock.
const (
	DirectionIn  = "IN"
	DirectionOut = "OUT"
)

// Tipos de referencia (procedencia) registrados en el ledger.
const (
	ReferenceSale         = "SALE"
	ReferenceAdjustment   = "ADJUSTMENT"
	ReferenceOpeningStock = "OPENING_STOCK"
)

// Movement es una entrada inmutable del ledger de stock: un registro por cada
// cambio discreto de CurrentStock, con cantidades antes/después. Nunca se
// actualiza ni se borra; revertir un movimiento confirmado es un movimiento nuevo.
type Movement struct {
	ID             string
	BatchID        string
	MovementType   string
	Direction      string
	QuantityBefore int64
	QuantityChange int64 // magnitud positiva del cambio aplicado
	QuantityAfter  int64
	ReferenceType  string
	ReferenceID    string // ej. número de factura
	Reason         string
	PerformedBy    string
	MovementDate   time.Time
}

// DirectionFor devuelve la dirección implícita de un tipo de movimiento.
// ok=false para ADJUSTMENT: ahí la dirección la decide el caller, nunca se infiere.
func DirectionFor(movementType string) (string, bool) {
	switch movementType {
	case MovementTypeIN, MovementTypeOpeningStock:
		return DirectionIn, true
	case MovementTypeOUT, MovementTypeDAMAGE, MovementTypeEXPIRY:
		return DirectionOut, true
	default:
		return "", false
	}
}

// ValidMovementType indica si el tipo pertenece al conjunto soportado.
func ValidMovementType(movementType string) bool {
	switch movementType {
	case MovementTypeIN, MovementTypeOUT, MovementTypeADJUSTMENT,
		MovementTypeDAMAGE, MovementTypeEXPIRY, MovementTypeOpeningStock:
		return true
	}
	return false
}
