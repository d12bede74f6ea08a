package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/hospitalia/farmacia-api/internal/domain"
	"github.com/hospitalia/farmacia-api/internal/domain/entity"
	"github.com/hospitalia/farmacia-api/internal/domain/repository"
)

var _ repository.BillRepository = (*BillRepo)(nil)

// BillRepo implementación de BillRepository (usable con pool o tx).
type BillRepo struct {
	q Querier
}

// NewBillRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBillRepository(q Querier) *BillRepo {
	return &BillRepo{q: q}
}

// Create persiste la cabecera de la factura. La colisión del número único se
// traduce a ErrDuplicateBillNumber para que el caso de uso reintente acotado.
func (r *BillRepo) Create(bill *entity.Bill) error {
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	query := `
		INSERT INTO bills (id, bill_number, buyer_ref, payment_method, subtotal, discount, tax_total, total_amount, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		bill.ID, bill.BillNumber, nullIfEmpty(bill.BuyerRef), bill.PaymentMethod,
		bill.Subtotal, bill.Discount, bill.TaxTotal, bill.TotalAmount,
		nullIfEmpty(bill.CreatedBy), bill.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("bill number %s: %w", bill.BillNumber, domain.ErrDuplicateBillNumber)
		}
		return fmt.Errorf("insert bill: %w", err)
	}
	return nil
}

// CreateLine persiste una línea de la factura.
func (r *BillRepo) CreateLine(line *entity.BillLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	query := `
		INSERT INTO bill_lines (id, bill_id, medicine_id, batch_id, batch_number, quantity, unit_price, discount_pct, tax_pct, amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.BillID, line.MedicineID, line.BatchID, line.BatchNumber,
		line.Quantity, line.UnitPrice, line.DiscountPct, line.TaxPct, line.Amount,
	)
	if err != nil {
		return fmt.Errorf("insert bill line: %w", err)
	}
	return nil
}

// GetByNumber obtiene la cabecera por número de factura.
func (r *BillRepo) GetByNumber(billNumber string) (*entity.Bill, error) {
	query := `
		SELECT id, bill_number, COALESCE(buyer_ref, ''), payment_method, subtotal, discount, tax_total, total_amount, COALESCE(created_by, ''), created_at
		FROM bills WHERE bill_number = $1`
	var b entity.Bill
	err := r.q.QueryRow(context.Background(), query, billNumber).Scan(
		&b.ID, &b.BillNumber, &b.BuyerRef, &b.PaymentMethod,
		&b.Subtotal, &b.Discount, &b.TaxTotal, &b.TotalAmount, &b.CreatedBy, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bill: %w", err)
	}
	return &b, nil
}

// GetLines obtiene las líneas de una factura.
func (r *BillRepo) GetLines(billID string) ([]*entity.BillLine, error) {
	query := `
		SELECT id, bill_id, medicine_id, batch_id, batch_number, quantity, unit_price, discount_pct, tax_pct, amount
		FROM bill_lines WHERE bill_id = $1 ORDER BY id ASC`
	rows, err := r.q.Query(context.Background(), query, billID)
	if err != nil {
		return nil, fmt.Errorf("list bill lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.BillLine
	for rows.Next() {
		var l entity.BillLine
		if err := rows.Scan(&l.ID, &l.BillID, &l.MedicineID, &l.BatchID, &l.BatchNumber,
			&l.Quantity, &l.UnitPrice, &l.DiscountPct, &l.TaxPct, &l.Amount); err != nil {
			return nil, fmt.Errorf("scan bill line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// NextBillNumber incrementa el consecutivo (prefix, year). El upsert con
// incremento bloquea la fila del contador, así la numeración queda serializada
// frente a ventas concurrentes dentro de sus transacciones.
func (r *BillRepo) NextBillNumber(prefix string, year int) (int64, error) {
	query := `
		INSERT INTO bill_counters (prefix, year, last_number)
		VALUES ($1, $2, 1)
		ON CONFLICT (prefix, year)
		DO UPDATE SET last_number = bill_counters.last_number + 1
		RETURNING last_number`
	var n int64
	if err := r.q.QueryRow(context.Background(), query, prefix, year).Scan(&n); err != nil {
		return 0, fmt.Errorf("next bill number: %w", err)
	}
	return n, nil
}
