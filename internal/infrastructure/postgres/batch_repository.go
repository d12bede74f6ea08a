package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/hospitalia/farmacia-api/internal/domain/entity"
	"github.com/hospitalia/farmacia-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

const batchColumns = `id, medicine_id, batch_number, expiry_date, manufacturing_date,
		pieces_per_pack, received_quantity, current_stock, sold_quantity, reserved_stock,
		purchase_price, mrp, selling_price, supplier_ref, is_active, is_expired, created_at, updated_at`

// BatchRepo implementación de BatchRepository sobre PostgreSQL (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

func scanBatch(row pgx.Row) (*entity.Batch, error) {
	var b entity.Batch
	var supplierRef *string
	err := row.Scan(
		&b.ID, &b.MedicineID, &b.BatchNumber, &b.ExpiryDate, &b.ManufacturingDate,
		&b.PiecesPerPack, &b.ReceivedQuantity, &b.CurrentStock, &b.SoldQuantity, &b.ReservedStock,
		&b.PurchasePrice, &b.MRP, &b.SellingPrice, &supplierRef, &b.IsActive, &b.IsExpired,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if supplierRef != nil {
		b.SupplierRef = *supplierRef
	}
	return &b, nil
}

// GetByID obtiene un lote por ID.
func (r *BatchRepo) GetByID(id string) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM medicine_batches WHERE id = $1`
	b, err := scanBatch(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

// GetForUpdate obtiene el lote y bloquea la fila (SELECT FOR UPDATE) durante
// la ventana leer-decidir-escribir del servicio de mutación.
func (r *BatchRepo) GetForUpdate(id string) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM medicine_batches WHERE id = $1 FOR UPDATE`
	b, err := scanBatch(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch for update: %w", err)
	}
	return b, nil
}

// Create persiste un lote nuevo.
func (r *BatchRepo) Create(batch *entity.Batch) error {
	if batch.ID == "" {
		batch.ID = uuid.New().String()
	}
	query := `
		INSERT INTO medicine_batches (` + batchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(context.Background(), query,
		batch.ID, batch.MedicineID, batch.BatchNumber, batch.ExpiryDate, batch.ManufacturingDate,
		batch.PiecesPerPack, batch.ReceivedQuantity, batch.CurrentStock, batch.SoldQuantity, batch.ReservedStock,
		batch.PurchasePrice, batch.MRP, batch.SellingPrice, nullIfEmpty(batch.SupplierRef),
		batch.IsActive, batch.IsExpired, batch.CreatedAt, batch.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// UpdateStock escribe los campos de stock del lote. Solo el servicio de
// mutación de stock debe llamarlo, siempre dentro de una tx con la fila bloqueada.
func (r *BatchRepo) UpdateStock(batch *entity.Batch) error {
	query := `
		UPDATE medicine_batches
		SET current_stock = $2, sold_quantity = $3, reserved_stock = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		batch.ID, batch.CurrentStock, batch.SoldQuantity, batch.ReservedStock, batch.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update batch stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update batch stock: lote %s no existe", batch.ID)
	}
	return nil
}

// ListEligibleForUpdate devuelve los lotes asignables de un medicamento en
// orden FEFO (vencimiento ascendente, empate por id) y los bloquea. El orden
// del SELECT y el del asignador coinciden para evitar interbloqueos entre
// ventas concurrentes del mismo medicamento.
func (r *BatchRepo) ListEligibleForUpdate(medicineID string, today time.Time) ([]*entity.Batch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM medicine_batches
		WHERE medicine_id = $1 AND is_active AND NOT is_expired
		  AND current_stock > 0 AND expiry_date > $2
		ORDER BY expiry_date ASC, id ASC
		FOR UPDATE`
	rows, err := r.q.Query(context.Background(), query, medicineID, today)
	if err != nil {
		return nil, fmt.Errorf("list eligible batches: %w", err)
	}
	defer rows.Close()
	return collectBatches(rows)
}

// ListByMedicine lista todos los lotes de un medicamento (admin de lotes).
func (r *BatchRepo) ListByMedicine(medicineID string) ([]*entity.Batch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM medicine_batches
		WHERE medicine_id = $1
		ORDER BY expiry_date ASC, id ASC`
	rows, err := r.q.Query(context.Background(), query, medicineID)
	if err != nil {
		return nil, fmt.Errorf("list batches by medicine: %w", err)
	}
	defer rows.Close()
	return collectBatches(rows)
}

func collectBatches(rows pgx.Rows) ([]*entity.Batch, error) {
	var list []*entity.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// ListActiveWithMedicine filas para el tablero de alertas: lote activo + nombre
// y umbral de reorden del medicamento.
func (r *BatchRepo) ListActiveWithMedicine() ([]*repository.BatchWithMedicine, error) {
	query := `
		SELECT b.id, b.medicine_id, b.batch_number, b.expiry_date, b.manufacturing_date,
		       b.pieces_per_pack, b.received_quantity, b.current_stock, b.sold_quantity, b.reserved_stock,
		       b.purchase_price, b.mrp, b.selling_price, b.supplier_ref, b.is_active, b.is_expired,
		       b.created_at, b.updated_at,
		       m.name, COALESCE(m.reorder_level, 0)
		FROM medicine_batches b
		JOIN medicines m ON m.id = b.medicine_id
		WHERE b.is_active
		ORDER BY b.expiry_date ASC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list active batches: %w", err)
	}
	defer rows.Close()
	var list []*repository.BatchWithMedicine
	for rows.Next() {
		var row repository.BatchWithMedicine
		b := &row.Batch
		var supplierRef *string
		if err := rows.Scan(
			&b.ID, &b.MedicineID, &b.BatchNumber, &b.ExpiryDate, &b.ManufacturingDate,
			&b.PiecesPerPack, &b.ReceivedQuantity, &b.CurrentStock, &b.SoldQuantity, &b.ReservedStock,
			&b.PurchasePrice, &b.MRP, &b.SellingPrice, &supplierRef, &b.IsActive, &b.IsExpired,
			&b.CreatedAt, &b.UpdatedAt,
			&row.MedicineName, &row.ReorderLevel,
		); err != nil {
			return nil, fmt.Errorf("scan batch with medicine: %w", err)
		}
		if supplierRef != nil {
			b.SupplierRef = *supplierRef
		}
		list = append(list, &row)
	}
	return list, rows.Err()
}

// MarkExpired marca is_expired en lotes vencidos a la fecha. No toca stock:
// la baja de stock vencido es un ajuste EXPIRY explícito.
func (r *BatchRepo) MarkExpired(today time.Time) (int64, error) {
	query := `
		UPDATE medicine_batches
		SET is_expired = true, updated_at = now()
		WHERE NOT is_expired AND expiry_date <= $1`
	tag, err := r.q.Exec(context.Background(), query, today)
	if err != nil {
		return 0, fmt.Errorf("mark expired batches: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Deactivate desactiva un lote (nunca se borra: el ledger debe poder
// dereferenciarlo siempre).
func (r *BatchRepo) Deactivate(id string) error {
	query := `UPDATE medicine_batches SET is_active = false, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id)
	if err != nil {
		return fmt.Errorf("deactivate batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deactivate batch: lote %s no existe", id)
	}
	return nil
}
