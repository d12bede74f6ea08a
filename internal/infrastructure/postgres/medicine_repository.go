package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/hospitalia/farmacia-api/internal/domain/entity"
	"github.com/hospitalia/farmacia-api/internal/domain/repository"
)

var _ repository.MedicineRepository = (*MedicineRepo)(nil)

// MedicineRepo acceso de solo lectura al catálogo de medicamentos.
type MedicineRepo struct {
	q Querier
}

// NewMedicineRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMedicineRepository(q Querier) *MedicineRepo {
	return &MedicineRepo{q: q}
}

// GetByID obtiene un medicamento por ID.
func (r *MedicineRepo) GetByID(id string) (*entity.Medicine, error) {
	query := `
		SELECT id, name, generic_name, pieces_per_pack, COALESCE(reorder_level, 0), created_at, updated_at
		FROM medicines WHERE id = $1`
	var m entity.Medicine
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.Name, &m.GenericName, &m.PiecesPerPack, &m.ReorderLevel, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get medicine: %w", err)
	}
	return &m, nil
}

// Search busca por nombre o genérico. El término llega normalizado (minúsculas,
// sin tildes); unaccent() del lado de la base empareja las columnas.
func (r *MedicineRepo) Search(term string, limit, offset int) ([]*entity.Medicine, error) {
	query := `
		SELECT id, name, generic_name, pieces_per_pack, COALESCE(reorder_level, 0), created_at, updated_at
		FROM medicines
		WHERE unaccent(lower(name)) LIKE '%' || $1 || '%'
		   OR unaccent(lower(generic_name)) LIKE '%' || $1 || '%'
		ORDER BY name ASC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, term, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("search medicines: %w", err)
	}
	defer rows.Close()
	var list []*entity.Medicine
	for rows.Next() {
		var m entity.Medicine
		if err := rows.Scan(&m.ID, &m.Name, &m.GenericName, &m.PiecesPerPack, &m.ReorderLevel, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan medicine: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
