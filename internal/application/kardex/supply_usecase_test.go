package kardex_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/kardex"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

func TestSupply_ListStockOrdenaPorPrioridad(t *testing.T) {
	f := newFixture(t) // N0111: mínimo 50
	f.addLot(f.supplyID, "A", 10, 40)
	critical := f.addSupply("C0001") // mínimo 10
	f.addLot(critical, "C", 10, 1)
	low := f.addSupply("B0001")
	f.addLot(low, "B", 10, 3)

	rows, err := kardex.NewSupplyUseCase(f.store.Repos(), f.clock).ListStock(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "C0001", rows[0].Code)
	assert.Equal(t, 1, rows[0].Priority)
	assert.Equal(t, "B0001", rows[1].Code)
	assert.Equal(t, 2, rows[1].Priority)
	assert.Equal(t, "N0111", rows[2].Code)
	assert.Equal(t, 3, rows[2].Priority)
	assert.Equal(t, "80", rows[2].StockPercent.String())
	require.NotNil(t, rows[2].KardexNumber)
}

func TestSupply_Search(t *testing.T) {
	f := newFixture(t)
	uc := kardex.NewSupplyUseCase(f.store.Repos(), f.clock)

	found, err := uc.Search(context.Background(), "lido")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "N0111", found[0].Code)

	_, err = uc.Search(context.Background(), " ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSupply_LotsConEstado(t *testing.T) {
	f := newFixture(t)
	f.addLot(f.supplyID, "V", -1, 3)
	f.addLot(f.supplyID, "E", 5, 0)
	f.addLot(f.supplyID, "A", 20, 3)

	lots, err := kardex.NewSupplyUseCase(f.store.Repos(), f.clock).Lots(context.Background(), f.supplyID)
	require.NoError(t, err)
	require.Len(t, lots, 3)
	assert.Equal(t, entity.LotStateExpired, lots[0].State)
	assert.Equal(t, entity.LotStateExhausted, lots[1].State)
	assert.Equal(t, entity.LotStateActive, lots[2].State)

	_, err = kardex.NewSupplyUseCase(f.store.Repos(), f.clock).Lots(context.Background(), 9999)
	assert.ErrorIs(t, err, domain.ErrSupplyNotFound)
}
