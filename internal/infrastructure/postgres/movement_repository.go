package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/hospitalia/farmacia-api/internal/domain/entity"
	"github.com/hospitalia/farmacia-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, batch_id, movement_type, direction, quantity_before,
		quantity_changed, quantity_after, reference_type, reference_id, reason,
		performed_by, movement_date`

// MovementRepo implementación del ledger sobre PostgreSQL (usable con pool o tx).
// Solo INSERT y SELECT: las entradas del ledger son inmutables.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste una entrada del ledger.
func (r *MovementRepo) Create(movement *entity.Movement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.BatchID, movement.MovementType, movement.Direction,
		movement.QuantityBefore, movement.QuantityChange, movement.QuantityAfter,
		nullIfEmpty(movement.ReferenceType), nullIfEmpty(movement.ReferenceID),
		nullIfEmpty(movement.Reason), nullIfEmpty(movement.PerformedBy), movement.MovementDate,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var refType, refID, reason, performedBy *string
	err := row.Scan(
		&m.ID, &m.BatchID, &m.MovementType, &m.Direction, &m.QuantityBefore,
		&m.QuantityChange, &m.QuantityAfter, &refType, &refID, &reason,
		&performedBy, &m.MovementDate,
	)
	if err != nil {
		return nil, err
	}
	if refType != nil {
		m.ReferenceType = *refType
	}
	if refID != nil {
		m.ReferenceID = *refID
	}
	if reason != nil {
		m.Reason = *reason
	}
	if performedBy != nil {
		m.PerformedBy = *performedBy
	}
	return &m, nil
}

// GetByID obtiene una entrada por ID.
func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// List filtra el ledger por lote, procedencia y rango de fechas.
func (r *MovementRepo) List(filter repository.MovementFilter) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE 1=1`
	var args []any
	pos := 1
	if filter.BatchID != "" {
		query += fmt.Sprintf(" AND batch_id = $%d", pos)
		args = append(args, filter.BatchID)
		pos++
	}
	if filter.ReferenceType != "" {
		query += fmt.Sprintf(" AND reference_type = $%d", pos)
		args = append(args, filter.ReferenceType)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND movement_date >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND movement_date <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY movement_date DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	return collectMovements(rows)
}

// ListByBatchAsc devuelve todos los movimientos de un lote del más antiguo al
// más reciente, para reconstruir el stock por replay (verificación del ledger).
func (r *MovementRepo) ListByBatchAsc(batchID string) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE batch_id = $1 ORDER BY movement_date ASC, id ASC`
	rows, err := r.q.Query(context.Background(), query, batchID)
	if err != nil {
		return nil, fmt.Errorf("list movements by batch: %w", err)
	}
	defer rows.Close()
	return collectMovements(rows)
}

func collectMovements(rows pgx.Rows) ([]*entity.Movement, error) {
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
