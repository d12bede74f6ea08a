package billing_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hospitalia/farmacia-api/internal/domain"
	"github.com/hospitalia/farmacia-api/internal/domain/entity"
	"github.com/hospitalia/farmacia-api/internal/domain/repository"
	"github.com/hospitalia/farmacia-api/pkg/logger"
)

// memStore banco en memoria para los tests de liquidación. RunSettlement toma
// un lock global (modela los bloqueos de fila de la transacción) y ante error
// restaura el snapshot completo, igual que el rollback de PostgreSQL.
type memStore struct {
	mu        sync.Mutex
	batches   map[string]*entity.Batch
	movements []*entity.Movement
	medicines map[string]*entity.Medicine
	bills     map[string]*entity.Bill // por número
	billLines map[string][]*entity.BillLine
	counters  map[string]int64 // "prefix-year" -> último consecutivo
}

func newMemStore() *memStore {
	return &memStore{
		batches:   make(map[string]*entity.Batch),
		medicines: make(map[string]*entity.Medicine),
		bills:     make(map[string]*entity.Bill),
		billLines: make(map[string][]*entity.BillLine),
		counters:  make(map[string]int64),
	}
}

type storeSnapshot struct {
	batches   map[string]*entity.Batch
	movements []*entity.Movement
	bills     map[string]*entity.Bill
	billLines map[string][]*entity.BillLine
	counters  map[string]int64
}

func (s *memStore) snapshot() storeSnapshot {
	snap := storeSnapshot{
		batches:   make(map[string]*entity.Batch, len(s.batches)),
		movements: make([]*entity.Movement, len(s.movements)),
		bills:     make(map[string]*entity.Bill, len(s.bills)),
		billLines: make(map[string][]*entity.BillLine, len(s.billLines)),
		counters:  make(map[string]int64, len(s.counters)),
	}
	for id, b := range s.batches {
		cp := *b
		snap.batches[id] = &cp
	}
	copy(snap.movements, s.movements)
	for n, b := range s.bills {
		cp := *b
		snap.bills[n] = &cp
	}
	for id, lines := range s.billLines {
		cp := make([]*entity.BillLine, len(lines))
		copy(cp, lines)
		snap.billLines[id] = cp
	}
	for k, v := range s.counters {
		snap.counters[k] = v
	}
	return snap
}

func (s *memStore) restore(snap storeSnapshot) {
	s.batches = snap.batches
	s.movements = snap.movements
	s.bills = snap.bills
	s.billLines = snap.billLines
	s.counters = snap.counters
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

// ── SettlementTxRunner (+ TxRunner de inventario) ─────────────────────────────

type memTxRunner struct {
	s *memStore
}

func (r *memTxRunner) Run(ctx context.Context, fn func(
	batchRepo repository.BatchRepository,
	movRepo repository.MovementRepository,
) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	snap := r.s.snapshot()
	if err := fn(&memBatchRepo{s: r.s}, &memMovementRepo{s: r.s}); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

func (r *memTxRunner) RunSettlement(ctx context.Context, fn func(
	batchRepo repository.BatchRepository,
	movRepo repository.MovementRepository,
	billRepo repository.BillRepository,
) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	snap := r.s.snapshot()
	if err := fn(&memBatchRepo{s: r.s}, &memMovementRepo{s: r.s}, &memBillRepo{s: r.s}); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

// ── BatchRepository ───────────────────────────────────────────────────────────

type memBatchRepo struct {
	s *memStore
}

var _ repository.BatchRepository = (*memBatchRepo)(nil)

func (r *memBatchRepo) GetByID(id string) (*entity.Batch, error) {
	b, ok := r.s.batches[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *memBatchRepo) GetForUpdate(id string) (*entity.Batch, error) {
	return r.GetByID(id)
}

func (r *memBatchRepo) Create(batch *entity.Batch) error {
	cp := *batch
	r.s.batches[batch.ID] = &cp
	return nil
}

func (r *memBatchRepo) UpdateStock(batch *entity.Batch) error {
	if _, ok := r.s.batches[batch.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *batch
	r.s.batches[batch.ID] = &cp
	return nil
}

func (r *memBatchRepo) ListEligibleForUpdate(medicineID string, today time.Time) ([]*entity.Batch, error) {
	var out []*entity.Batch
	for _, b := range r.s.batches {
		if b.MedicineID == medicineID && b.Eligible(today) {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ExpiryDate.Equal(out[j].ExpiryDate) {
			return out[i].ExpiryDate.Before(out[j].ExpiryDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *memBatchRepo) ListByMedicine(medicineID string) ([]*entity.Batch, error) {
	var out []*entity.Batch
	for _, b := range r.s.batches {
		if b.MedicineID == medicineID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memBatchRepo) ListActiveWithMedicine() ([]*repository.BatchWithMedicine, error) {
	return nil, nil
}

func (r *memBatchRepo) MarkExpired(today time.Time) (int64, error) {
	return 0, nil
}

func (r *memBatchRepo) Deactivate(id string) error {
	b, ok := r.s.batches[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.IsActive = false
	return nil
}

// ── MovementRepository ────────────────────────────────────────────────────────

type memMovementRepo struct {
	s *memStore
}

var _ repository.MovementRepository = (*memMovementRepo)(nil)

func (r *memMovementRepo) Create(movement *entity.Movement) error {
	cp := *movement
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *memMovementRepo) GetByID(id string) (*entity.Movement, error) {
	for _, m := range r.s.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memMovementRepo) List(filter repository.MovementFilter) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.s.movements {
		if filter.BatchID != "" && m.BatchID != filter.BatchID {
			continue
		}
		if filter.ReferenceType != "" && m.ReferenceType != filter.ReferenceType {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memMovementRepo) ListByBatchAsc(batchID string) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.s.movements {
		if m.BatchID == batchID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ── MedicineRepository ────────────────────────────────────────────────────────

type memMedicineRepo struct {
	s *memStore
}

var _ repository.MedicineRepository = (*memMedicineRepo)(nil)

func (r *memMedicineRepo) GetByID(id string) (*entity.Medicine, error) {
	m, ok := r.s.medicines[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *memMedicineRepo) Search(term string, limit, offset int) ([]*entity.Medicine, error) {
	return nil, nil
}

// ── BillRepository ────────────────────────────────────────────────────────────

type memBillRepo struct {
	s *memStore
}

var _ repository.BillRepository = (*memBillRepo)(nil)

func (r *memBillRepo) Create(bill *entity.Bill) error {
	if _, exists := r.s.bills[bill.BillNumber]; exists {
		return domain.ErrDuplicateBillNumber
	}
	cp := *bill
	r.s.bills[bill.BillNumber] = &cp
	return nil
}

func (r *memBillRepo) CreateLine(line *entity.BillLine) error {
	cp := *line
	r.s.billLines[line.BillID] = append(r.s.billLines[line.BillID], &cp)
	return nil
}

func (r *memBillRepo) GetByNumber(billNumber string) (*entity.Bill, error) {
	b, ok := r.s.bills[billNumber]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *memBillRepo) GetLines(billID string) ([]*entity.BillLine, error) {
	lines := r.s.billLines[billID]
	out := make([]*entity.BillLine, 0, len(lines))
	for _, l := range lines {
		cp := *l
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memBillRepo) NextBillNumber(prefix string, year int) (int64, error) {
	key := fmt.Sprintf("%s-%d", prefix, year)
	r.s.counters[key]++
	return r.s.counters[key], nil
}
