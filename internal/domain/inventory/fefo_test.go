package inventory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hospitalia/farmacia-api/internal/domain"
	"github.com/hospitalia/farmacia-api/internal/domain/entity"
	"github.com/hospitalia/farmacia-api/internal/domain/inventory"
)

var hoy = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func lote(id string, stock int64, vence time.Time) *entity.Batch {
	return &entity.Batch{
		ID:           id,
		MedicineID:   "med-1",
		BatchNumber:  "BN-" + id,
		ExpiryDate:   vence,
		CurrentStock: stock,
		IsActive:     true,
	}
}

// TestAllocate_RepartoFEFO verifica el reparto multi-lote: con 5 unidades en el
// lote que vence primero y 10 en el siguiente, un pedido de 7 debe agotar el
// primero (5) y tomar el resto (2) del segundo.
func TestAllocate_RepartoFEFO(t *testing.T) {
	batches := []*entity.Batch{
		lote("b2", 10, hoy.AddDate(0, 6, 0)),
		lote("b1", 5, hoy.AddDate(0, 1, 0)),
	}

	plan, err := inventory.Allocate("med-1", 7, batches, hoy)
	require.NoError(t, err)
	require.Len(t, plan, 2)

	assert.Equal(t, "b1", plan[0].Batch.ID, "el lote que vence primero se agota primero")
	assert.EqualValues(t, 5, plan[0].Quantity)
	assert.Equal(t, "b2", plan[1].Batch.ID)
	assert.EqualValues(t, 2, plan[1].Quantity)
}

// TestAllocate_EmpateDeterminista: dos lotes con el mismo vencimiento se
// ordenan por ID ascendente, siempre en el mismo orden.
func TestAllocate_EmpateDeterminista(t *testing.T) {
	vence := hoy.AddDate(0, 3, 0)
	batches := []*entity.Batch{
		lote("b-zz", 4, vence),
		lote("b-aa", 4, vence),
	}

	for i := 0; i < 5; i++ {
		plan, err := inventory.Allocate("med-1", 6, batches, hoy)
		require.NoError(t, err)
		require.Len(t, plan, 2)
		assert.Equal(t, "b-aa", plan[0].Batch.ID, "empate de vencimiento resuelto por ID")
		assert.EqualValues(t, 4, plan[0].Quantity)
		assert.Equal(t, "b-zz", plan[1].Batch.ID)
		assert.EqualValues(t, 2, plan[1].Quantity)
	}
}

// TestAllocate_FiltraNoElegibles: lotes vencidos, inactivos, sin stock o de
// otro medicamento no participan del plan.
func TestAllocate_FiltraNoElegibles(t *testing.T) {
	vencido := lote("b-vencido", 50, hoy.AddDate(0, -1, 0))
	inactivo := lote("b-inactivo", 50, hoy.AddDate(0, 6, 0))
	inactivo.IsActive = false
	marcado := lote("b-marcado", 50, hoy.AddDate(0, 6, 0))
	marcado.IsExpired = true
	sinStock := lote("b-vacio", 0, hoy.AddDate(0, 6, 0))
	otroMed := lote("b-otro", 50, hoy.AddDate(0, 6, 0))
	otroMed.MedicineID = "med-2"
	bueno := lote("b-bueno", 3, hoy.AddDate(0, 6, 0))

	plan, err := inventory.Allocate("med-1", 3,
		[]*entity.Batch{vencido, inactivo, marcado, sinStock, otroMed, bueno}, hoy)
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, "b-bueno", plan[0].Batch.ID)
}

func TestAllocate_SinLotesElegibles(t *testing.T) {
	vencido := lote("b1", 10, hoy.AddDate(0, -1, 0))
	_, err := inventory.Allocate("med-1", 1, []*entity.Batch{vencido}, hoy)
	assert.ErrorIs(t, err, domain.ErrNoStockAvailable)
}

// TestAllocate_StockInsuficiente: hay lotes elegibles pero no cubren el pedido;
// el error expone pedido, disponible y faltante.
func TestAllocate_StockInsuficiente(t *testing.T) {
	batches := []*entity.Batch{
		lote("b1", 3, hoy.AddDate(0, 1, 0)),
		lote("b2", 4, hoy.AddDate(0, 2, 0)),
	}

	_, err := inventory.Allocate("med-1", 10, batches, hoy)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insuf *inventory.InsufficientStockError
	require.True(t, errors.As(err, &insuf))
	assert.EqualValues(t, 10, insuf.Requested)
	assert.EqualValues(t, 7, insuf.Available)
	assert.EqualValues(t, 3, insuf.Shortfall())
}

func TestAllocate_CantidadInvalida(t *testing.T) {
	batches := []*entity.Batch{lote("b1", 10, hoy.AddDate(0, 1, 0))}

	_, err := inventory.Allocate("med-1", 0, batches, hoy)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = inventory.Allocate("med-1", -5, batches, hoy)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestAllocate_SoloPlanifica: Allocate es de solo lectura, no descuenta stock.
func TestAllocate_SoloPlanifica(t *testing.T) {
	b := lote("b1", 10, hoy.AddDate(0, 1, 0))

	_, err := inventory.Allocate("med-1", 4, []*entity.Batch{b}, hoy)
	require.NoError(t, err)
	assert.EqualValues(t, 10, b.CurrentStock, "la planificación no debe mutar el lote")
}
