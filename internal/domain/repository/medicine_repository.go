package repository

import "github.com/hospitalia/farmacia-api/internal/domain/entity"

// MedicineRepository puerto de solo lectura al catálogo de medicamentos
// (colaborador externo; el motor de inventario nunca lo escribe).
type MedicineRepository interface {
	GetByID(id string) (*entity.Medicine, error)
	// Search busca por nombre o nombre genérico, insensible a mayúsculas y tildes.
	// El término debe venir ya normalizado (ver pkg/textutil).
	Search(term string, limit, offset int) ([]*entity.Medicine, error)
}
