package kardex_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/kardex"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var today = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

func lot(id int64, daysToExpiry int, remaining int64) *entity.Lot {
	return &entity.Lot{
		ID:             id,
		SupplyID:       1,
		LotNumber:      "L" + string(rune('A'+id-1)),
		ExpirationDate: today.AddDate(0, 0, daysToExpiry),
		RemainingUnits: remaining,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests EligibleLots / SortFIFO
// ──────────────────────────────────────────────────────────────────────────────

func TestEligibleLots_OrdenaPorVencimientoYExcluyeVencidosYAgotados(t *testing.T) {
	lots := []*entity.Lot{
		lot(1, 60, 20),
		lot(2, -1, 5), // vencido ayer
		lot(3, 10, 3),
		lot(4, 5, 0), // agotado
		lot(5, 0, 7), // vence hoy: todavía utilizable
	}

	got := kardex.EligibleLots(lots, today)

	require.Len(t, got, 3)
	assert.Equal(t, int64(5), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)
	assert.Equal(t, int64(1), got[2].ID)
}

func TestSortFIFO_MismaFechaDesempataPorID(t *testing.T) {
	lots := []*entity.Lot{lot(9, 30, 1), lot(2, 30, 1), lot(5, 30, 1)}

	kardex.SortFIFO(lots)

	assert.Equal(t, []int64{2, 5, 9}, []int64{lots[0].ID, lots[1].ID, lots[2].ID})
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests PlanConsumption
// ──────────────────────────────────────────────────────────────────────────────

// Lote A: 3 aplicaciones (vence en 10 días); lote B: 20 (vence en 60 días).
// Consumir 5 agota A y deja 18 en B.
func TestPlanConsumption_CruzaLotesEnOrdenFIFO(t *testing.T) {
	lots := kardex.EligibleLots([]*entity.Lot{lot(2, 60, 20), lot(1, 10, 3)}, today)

	plan, err := kardex.PlanConsumption(lots, 5)
	require.NoError(t, err)

	assert.True(t, plan.Fulfilled())
	require.Len(t, plan.Deductions, 2)

	assert.Equal(t, int64(1), plan.Deductions[0].LotID)
	assert.Equal(t, int64(3), plan.Deductions[0].Amount)
	assert.True(t, plan.Deductions[0].Exhausted(), "el lote A debe quedar agotado")

	assert.Equal(t, int64(2), plan.Deductions[1].LotID)
	assert.Equal(t, int64(2), plan.Deductions[1].Amount)
	assert.Equal(t, int64(18), plan.Deductions[1].Remaining)
	assert.False(t, plan.Deductions[1].Exhausted())
}

func TestPlanConsumption_UnSoloLoteSiAlcanza(t *testing.T) {
	plan, err := kardex.PlanConsumption([]*entity.Lot{lot(1, 10, 3), lot(2, 60, 20)}, 3)
	require.NoError(t, err)

	require.Len(t, plan.Deductions, 1, "no debe tocar el segundo lote")
	assert.True(t, plan.Deductions[0].Exhausted())
}

func TestPlanConsumption_FaltanteQuedaRegistrado(t *testing.T) {
	plan, err := kardex.PlanConsumption([]*entity.Lot{lot(1, 10, 3), lot(2, 60, 4)}, 10)
	require.NoError(t, err)

	assert.False(t, plan.Fulfilled())
	assert.Equal(t, int64(3), plan.Missing)
	assert.Len(t, plan.Deductions, 2)
}

func TestPlanConsumption_SinLotes_RetornaErrNoStock(t *testing.T) {
	_, err := kardex.PlanConsumption(nil, 1)
	assert.ErrorIs(t, err, domain.ErrNoStock)
}

func TestPlanConsumption_CantidadNoPositiva_RetornaErrInvalidAmount(t *testing.T) {
	for _, q := range []int64{0, -4} {
		_, err := kardex.PlanConsumption([]*entity.Lot{lot(1, 10, 3)}, q)
		assert.ErrorIs(t, err, domain.ErrInvalidAmount, "cantidad %d", q)
	}
}

// La suma descontada más el faltante siempre iguala lo pedido.
func TestPlanConsumption_ConservaCantidad(t *testing.T) {
	lots := []*entity.Lot{lot(1, 1, 2), lot(2, 2, 5), lot(3, 3, 1)}
	for q := int64(1); q <= 12; q++ {
		plan, err := kardex.PlanConsumption(lots, q)
		require.NoError(t, err)
		var sum int64
		for _, d := range plan.Deductions {
			sum += d.Amount
		}
		assert.Equal(t, q, sum+plan.Missing, "cantidad %d", q)
	}
}
