package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrNoStockAvailable    = errors.New("sin lotes con stock disponible")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrNegativeStock       = errors.New("el movimiento dejaría el stock en negativo")
	ErrExceedsReceived     = errors.New("el movimiento superaría la cantidad recibida del lote")
	ErrBatchInactive       = errors.New("lote inactivo")
	ErrBatchExpired        = errors.New("lote vencido")
	ErrDuplicateBillNumber = errors.New("número de factura duplicado")
)
