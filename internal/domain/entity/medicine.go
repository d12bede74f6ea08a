package entity

import "time"

// Medicine representa el catálogo de medicamentos (dato de referencia, solo lectura
// para el motor de inventario). El stock nunca vive aquí: se lleva por lote en Batch.
type Medicine struct {
	ID            string
	Name          string
	GenericName   string
	PiecesPerPack int   // presentación nominal (unidades por caja/blíster)
	ReorderLevel  int64 // umbral de stock bajo por medicamento; 0 = usar el global
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
