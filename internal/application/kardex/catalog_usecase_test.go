package kardex_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/kardex"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

func (f *fixture) catalogUC() *kardex.CatalogUseCase {
	return kardex.NewCatalogUseCase(f.store, f.clock, testLocation, zerolog.Nop())
}

func TestCatalog_ImportAbreKardexSoloDondeFalta(t *testing.T) {
	f := newFixture(t)

	res, err := f.catalogUC().Import(context.Background(), kardex.ImportInput{
		Supplies: []entity.Supply{
			{Code: "N0111", GenericName: "Lidocaína 2% con epinefrina", MinimumApplications: 60, Yield: 1},
			{Code: "IM201", GenericName: "Ionómero de vidrio", MinimumApplications: 10, Yield: 15, UnitCost: decimal.NewFromInt(45)},
		},
		OpenLedgers: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Upserted)
	// N0111 ya tenía K-2026-001 abierto
	assert.Equal(t, []string{"K-2026-002"}, res.OpenedKardex)

	s, err := f.store.Repos().Supplies.GetByID(context.Background(), f.supplyID)
	require.NoError(t, err)
	assert.Equal(t, "Lidocaína 2% con epinefrina", s.GenericName)
	assert.EqualValues(t, 60, s.MinimumApplications)
}

func TestCatalog_ImportSinKardex(t *testing.T) {
	f := newFixture(t)

	res, err := f.catalogUC().Import(context.Background(), kardex.ImportInput{
		Supplies: []entity.Supply{{Code: "IP301", GenericName: "Flúor gel", Yield: 20}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Upserted)
	assert.Empty(t, res.OpenedKardex)
}

func TestCatalog_ImportValida(t *testing.T) {
	f := newFixture(t)
	uc := f.catalogUC()

	_, err := uc.Import(context.Background(), kardex.ImportInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Import(context.Background(), kardex.ImportInput{
		Supplies: []entity.Supply{{Code: "X1", GenericName: "Gasa", Yield: -1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = uc.Import(context.Background(), kardex.ImportInput{
		Supplies: []entity.Supply{{Code: " ", GenericName: "Gasa"}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
