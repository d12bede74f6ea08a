package inventory_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hospitalia/farmacia-api/internal/domain"
	"github.com/hospitalia/farmacia-api/internal/domain/entity"
	"github.com/hospitalia/farmacia-api/internal/domain/repository"
	"github.com/hospitalia/farmacia-api/pkg/logger"
	"github.com/hospitalia/farmacia-api/pkg/textutil"
)

// memStore banco en memoria para los tests de casos de uso. El TxRunner toma
// un lock global (modela los bloqueos de fila de SELECT FOR UPDATE) y ante
// error restaura el snapshot, igual que el rollback de PostgreSQL.
type memStore struct {
	mu        sync.Mutex
	batches   map[string]*entity.Batch
	movements []*entity.Movement
	medicines map[string]*entity.Medicine
}

func newMemStore() *memStore {
	return &memStore{
		batches:   make(map[string]*entity.Batch),
		medicines: make(map[string]*entity.Medicine),
	}
}

func (s *memStore) snapshot() (map[string]*entity.Batch, []*entity.Movement) {
	batches := make(map[string]*entity.Batch, len(s.batches))
	for id, b := range s.batches {
		batches[id] = copyBatch(b)
	}
	movements := make([]*entity.Movement, len(s.movements))
	copy(movements, s.movements)
	return batches, movements
}

func (s *memStore) restore(batches map[string]*entity.Batch, movements []*entity.Movement) {
	s.batches = batches
	s.movements = movements
}

func copyBatch(b *entity.Batch) *entity.Batch {
	cp := *b
	return &cp
}

// testLogger logger silencioso para los tests.
func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

type memTxRunner struct {
	s *memStore
}

func (r *memTxRunner) Run(ctx context.Context, fn func(
	batchRepo repository.BatchRepository,
	movRepo repository.MovementRepository,
) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	snapBatches, snapMovements := r.s.snapshot()
	if err := fn(&memBatchRepo{s: r.s}, &memMovementRepo{s: r.s}); err != nil {
		r.s.restore(snapBatches, snapMovements)
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
	return copyBatch(b), nil
}

func (r *memBatchRepo) GetForUpdate(id string) (*entity.Batch, error) {
	return r.GetByID(id)
}

func (r *memBatchRepo) Create(batch *entity.Batch) error {
	r.s.batches[batch.ID] = copyBatch(batch)
	return nil
}

func (r *memBatchRepo) UpdateStock(batch *entity.Batch) error {
	if _, ok := r.s.batches[batch.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.batches[batch.ID] = copyBatch(batch)
	return nil
}

func (r *memBatchRepo) ListEligibleForUpdate(medicineID string, today time.Time) ([]*entity.Batch, error) {
	var out []*entity.Batch
	for _, b := range r.s.batches {
		if b.MedicineID == medicineID && b.Eligible(today) {
			out = append(out, copyBatch(b))
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
			out = append(out, copyBatch(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memBatchRepo) ListActiveWithMedicine() ([]*repository.BatchWithMedicine, error) {
	var out []*repository.BatchWithMedicine
	for _, b := range r.s.batches {
		if !b.IsActive {
			continue
		}
		row := &repository.BatchWithMedicine{Batch: *b}
		if med, ok := r.s.medicines[b.MedicineID]; ok {
			row.MedicineName = med.Name
			row.ReorderLevel = med.ReorderLevel
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Batch.ID < out[j].Batch.ID })
	return out, nil
}

func (r *memBatchRepo) MarkExpired(today time.Time) (int64, error) {
	var marked int64
	for _, b := range r.s.batches {
		if !b.IsExpired && !b.ExpiryDate.After(today) {
			b.IsExpired = true
			b.UpdatedAt = today
			marked++
		}
	}
	return marked, nil
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
		if filter.From != nil && m.MovementDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && m.MovementDate.After(*filter.To) {
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
	var out []*entity.Medicine
	for _, m := range r.s.medicines {
		if term == "" ||
			strings.Contains(textutil.Normalize(m.Name), term) ||
			strings.Contains(textutil.Normalize(m.GenericName), term) {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}
