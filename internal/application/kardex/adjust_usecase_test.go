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

// Delta 0 en el punto de entrada compatible: el lote con 7 aplicaciones queda en 0
// y el movimiento registra ajustes = 7.
func TestAdjust_DeltaCeroConfirmaAgotado(t *testing.T) {
	f := newFixture(t)
	lotID := f.addLot(f.supplyID, "A", 10, 7)
	f.addLot(f.supplyID, "B", 20, 5)

	res, err := f.adjustUC().Adjust(context.Background(), kardex.AdjustInput{
		LotID: lotID, Delta: 0, Reason: "lote vacío", OperatorID: testOperatorCI,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(0), res.LotRemaining)
	assert.Equal(t, int64(-7), res.Applied)
	assert.Equal(t, int64(5), res.NewTotalForSupply)
	assert.Equal(t, int64(0), f.remaining(t, lotID))

	movs := f.store.Movements(f.kardexID)
	require.Len(t, movs, 1)
	m := movs[0]
	assert.Equal(t, entity.MovementAjuste, m.Kind)
	assert.Equal(t, int64(7), m.Ajustes())
	assert.Zero(t, m.Entradas())
	assert.Zero(t, m.Salidas())
	assert.Equal(t, "AJUSTE-"+itoa(lotID), m.DocumentKey)
	assert.Equal(t, "lote vacío", m.Reason)
	assert.Equal(t, res.MovementID, m.ID)
}

func TestAdjustBy_FaltanteAcotadoACero(t *testing.T) {
	f := newFixture(t)
	lotID := f.addLot(f.supplyID, "A", 10, 5)

	res, err := f.adjustUC().AdjustBy(context.Background(), kardex.AdjustInput{
		LotID: lotID, Delta: -1000, OperatorID: testOperatorCI,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(0), res.LotRemaining)
	assert.Equal(t, int64(-5), res.Applied)
	assert.Equal(t, int64(5), f.store.Movements(f.kardexID)[0].Ajustes())
}

func TestAdjustBy_Sobrante(t *testing.T) {
	f := newFixture(t)
	lotID := f.addLot(f.supplyID, "A", 10, 5)

	res, err := f.adjustUC().AdjustBy(context.Background(), kardex.AdjustInput{
		LotID: lotID, Delta: 3, OperatorID: testOperatorCI,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(8), res.LotRemaining)
	assert.Equal(t, int64(8), res.NewTotalForSupply)
	assert.Equal(t, int64(3), f.store.Movements(f.kardexID)[0].Quantity)
}

func TestAdjustBy_DeltaCero_RetornaErrInvalidAmount(t *testing.T) {
	f := newFixture(t)
	lotID := f.addLot(f.supplyID, "A", 10, 5)

	_, err := f.adjustUC().AdjustBy(context.Background(), kardex.AdjustInput{LotID: lotID, OperatorID: testOperatorCI})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	assert.Zero(t, f.store.MovementCount())
}

func TestConfirmExhausted(t *testing.T) {
	f := newFixture(t)
	lotID := f.addLot(f.supplyID, "A", 10, 4)

	res, err := f.adjustUC().ConfirmExhausted(context.Background(), kardex.ConfirmExhaustedInput{
		LotID: lotID, OperatorID: testOperatorCI,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.LotRemaining)
	assert.Equal(t, int64(-4), res.Applied)
}

// El ajuste sobre un lote vencido también se refleja en el saldo.
func TestAdjust_LoteVencido(t *testing.T) {
	f := newFixture(t)
	lotID := f.addLot(f.supplyID, "V", -5, 6)

	res, err := f.adjustUC().Adjust(context.Background(), kardex.AdjustInput{LotID: lotID, OperatorID: testOperatorCI})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.NewTotalForSupply)
}

func TestAdjust_Errores(t *testing.T) {
	f := newFixture(t)
	lotID := f.addLot(f.supplyID, "A", 10, 5)

	_, err := f.adjustUC().AdjustBy(context.Background(), kardex.AdjustInput{LotID: 9999, Delta: 1, OperatorID: testOperatorCI})
	assert.ErrorIs(t, err, domain.ErrLotNotFound)

	_, err = f.adjustUC().AdjustBy(context.Background(), kardex.AdjustInput{LotID: lotID, Delta: 1, OperatorID: "nadie"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = f.ledgerUC(nil).Close(context.Background(), f.kardexID)
	require.NoError(t, err)
	_, err = f.adjustUC().AdjustBy(context.Background(), kardex.AdjustInput{LotID: lotID, Delta: 1, OperatorID: testOperatorCI})
	assert.ErrorIs(t, err, domain.ErrNoOpenLedger)

	assert.Equal(t, int64(5), f.remaining(t, lotID), "ningún error debe modificar el lote")
}
