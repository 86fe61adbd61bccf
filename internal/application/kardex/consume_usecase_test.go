package kardex_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/kardex"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// Escenario de referencia: lote A con 3 aplicaciones a 10 (vence en 10 días) y
// lote B con 20 a 12 (vence en 60 días). Consumir 5 agota A y deja 18 en B.
func TestConsume_EscenarioFIFOConValoracion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.receiveUC().Receive(ctx, kardex.ReceiveInput{
		OperatorID:   testOperatorCI,
		DocumentRef:  "FAC-001",
		ReceivedFrom: "Dental Sur",
		Items: []kardex.ReceiveItem{
			{SupplyID: f.supplyID, LotNumber: "A", ExpirationDate: dayOffset(10), PhysicalQuantity: 3, TotalCost: decimal.NewFromInt(30)},
			{SupplyID: f.supplyID, LotNumber: "B", ExpirationDate: dayOffset(60), PhysicalQuantity: 20, TotalCost: decimal.NewFromInt(240)},
		},
	})
	require.NoError(t, err)

	res, err := f.consumeUC().Consume(ctx, kardex.ConsumeInput{
		OperatorID:  testOperatorCI,
		DocumentRef: "FORM-77",
		Items:       []kardex.ConsumeItem{{SupplyID: f.supplyID, Quantity: 5}},
	})
	require.NoError(t, err)

	require.Len(t, res.Movements, 2)
	assert.Equal(t, "A", res.Movements[0].LotNumber)
	assert.Equal(t, int64(3), res.Movements[0].Quantity)
	assert.Equal(t, int64(20), res.Movements[0].Balance)
	assert.Equal(t, "B", res.Movements[1].LotNumber)
	assert.Equal(t, int64(2), res.Movements[1].Quantity)
	assert.Equal(t, int64(18), res.Movements[1].Balance)

	// El costo se arrastra de la última entrada (12) y saldo valorado = 18 * 12.
	assert.True(t, decimal.NewFromInt(12).Equal(res.Movements[1].UnitCost))
	assert.True(t, decimal.NewFromInt(216).Equal(res.Movements[1].BalanceValue))

	require.Len(t, res.ExhaustedLots, 1)
	assert.Equal(t, "A", res.ExhaustedLots[0].LotNumber)
	assert.True(t, res.RequiresAdjustment)
	assert.NotEmpty(t, res.TransactionID)

	movs := f.store.Movements(f.kardexID)
	require.Len(t, movs, 4, "2 entradas + 2 salidas")
	for _, m := range movs[2:] {
		assert.Equal(t, entity.MovementSalida, m.Kind)
		assert.Equal(t, "FORM-77", m.DocumentKey)
		assert.Equal(t, "Ana Quispe", m.ReceivedFrom)
		assert.Equal(t, testOperatorCI, m.ReceivedBy)
		assert.Equal(t, res.TransactionID, m.TransactionID)
	}
}

func TestConsume_ConservaAplicaciones(t *testing.T) {
	f := newFixture(t)
	a := f.addLot(f.supplyID, "A", 5, 4)
	b := f.addLot(f.supplyID, "B", 9, 6)

	_, err := f.consumeUC().Consume(context.Background(), kardex.ConsumeInput{
		OperatorID: testOperatorCI,
		Items:      []kardex.ConsumeItem{{SupplyID: f.supplyID, Quantity: 7}},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(10-7), f.remaining(t, a)+f.remaining(t, b))
	var salidas int64
	for _, m := range f.store.Movements(f.kardexID) {
		salidas += m.Salidas()
	}
	assert.Equal(t, int64(7), salidas)
}

func TestConsume_ExcluyeLotesVencidos(t *testing.T) {
	f := newFixture(t)
	expired := f.addLot(f.supplyID, "V", -1, 50)
	fresh := f.addLot(f.supplyID, "F", 30, 5)

	res, err := f.consumeUC().Consume(context.Background(), kardex.ConsumeInput{
		OperatorID: testOperatorCI,
		Items:      []kardex.ConsumeItem{{SupplyID: f.supplyID, Quantity: 2}},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(50), f.remaining(t, expired), "el lote vencido no se toca")
	assert.Equal(t, int64(3), f.remaining(t, fresh))
	// El saldo incluye el lote vencido con stock.
	assert.Equal(t, int64(53), res.Movements[0].Balance)
}

func TestConsume_SoloVencidos_RetornaErrNoStock(t *testing.T) {
	f := newFixture(t)
	f.addLot(f.supplyID, "V", -3, 50)

	_, err := f.consumeUC().Consume(context.Background(), kardex.ConsumeInput{
		OperatorID: testOperatorCI,
		Items:      []kardex.ConsumeItem{{SupplyID: f.supplyID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNoStock)
}

func TestConsume_Faltante_RetornaShortageErrorSinCambios(t *testing.T) {
	f := newFixture(t)
	a := f.addLot(f.supplyID, "A", 5, 2)
	b := f.addLot(f.supplyID, "B", 8, 3)

	_, err := f.consumeUC().Consume(context.Background(), kardex.ConsumeInput{
		OperatorID: testOperatorCI,
		Items:      []kardex.ConsumeItem{{SupplyID: f.supplyID, Quantity: 9}},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var shortage *domain.ShortageError
	require.True(t, errors.As(err, &shortage))
	assert.Equal(t, int64(4), shortage.Missing)
	assert.Equal(t, int64(9), shortage.Requested)
	assert.Equal(t, f.supplyID, shortage.SupplyID)

	assert.Equal(t, int64(2), f.remaining(t, a))
	assert.Equal(t, int64(3), f.remaining(t, b))
	assert.Zero(t, f.store.MovementCount())
}

// Si el segundo ítem falla, el primero también se revierte.
func TestConsume_AtomicidadEntreInsumos(t *testing.T) {
	f := newFixture(t)
	okLot := f.addLot(f.supplyID, "A", 10, 10)
	other := f.addSupply("N0222")
	f.addLot(other, "X", 10, 1)

	_, err := f.consumeUC().Consume(context.Background(), kardex.ConsumeInput{
		OperatorID: testOperatorCI,
		Items: []kardex.ConsumeItem{
			{SupplyID: f.supplyID, Quantity: 4},
			{SupplyID: other, Quantity: 5},
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(10), f.remaining(t, okLot))
	assert.Zero(t, f.store.MovementCount())
}

// Un fallo al registrar el movimiento revierte el descuento del lote.
func TestConsume_FalloAlRegistrarMovimiento_Revierte(t *testing.T) {
	f := newFixture(t)
	lotID := f.addLot(f.supplyID, "A", 10, 10)
	boom := errors.New("disco lleno")
	f.store.AppendHook = func(*entity.Movement) error { return boom }

	_, err := f.consumeUC().Consume(context.Background(), kardex.ConsumeInput{
		OperatorID: testOperatorCI,
		Items:      []kardex.ConsumeItem{{SupplyID: f.supplyID, Quantity: 3}},
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, int64(10), f.remaining(t, lotID))
}

func TestConsume_Validaciones(t *testing.T) {
	f := newFixture(t)
	f.addLot(f.supplyID, "A", 10, 10)
	noKardex := f.store.AddSupply(entity.Supply{Code: "SINK", GenericName: "Sin kardex"})

	cases := []struct {
		name string
		in   kardex.ConsumeInput
		want error
	}{
		{"sin ítems", kardex.ConsumeInput{OperatorID: testOperatorCI}, domain.ErrInvalidInput},
		{"cantidad cero", kardex.ConsumeInput{OperatorID: testOperatorCI, Items: []kardex.ConsumeItem{{SupplyID: f.supplyID, Quantity: 0}}}, domain.ErrInvalidAmount},
		{"cantidad negativa", kardex.ConsumeInput{OperatorID: testOperatorCI, Items: []kardex.ConsumeItem{{SupplyID: f.supplyID, Quantity: -2}}}, domain.ErrInvalidAmount},
		{"insumo inexistente", kardex.ConsumeInput{OperatorID: testOperatorCI, Items: []kardex.ConsumeItem{{SupplyID: 9999, Quantity: 1}}}, domain.ErrSupplyNotFound},
		{"sin kardex abierto", kardex.ConsumeInput{OperatorID: testOperatorCI, Items: []kardex.ConsumeItem{{SupplyID: noKardex, Quantity: 1}}}, domain.ErrNoOpenLedger},
		{"operador inexistente", kardex.ConsumeInput{OperatorID: "000", Items: []kardex.ConsumeItem{{SupplyID: f.supplyID, Quantity: 1}}}, domain.ErrUserNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.consumeUC().Consume(context.Background(), tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Zero(t, f.store.MovementCount())
}

func TestConsume_NoEsIdempotente(t *testing.T) {
	f := newFixture(t)
	lotID := f.addLot(f.supplyID, "A", 10, 10)
	in := kardex.ConsumeInput{OperatorID: testOperatorCI, Items: []kardex.ConsumeItem{{SupplyID: f.supplyID, Quantity: 2}}}

	first, err := f.consumeUC().Consume(context.Background(), in)
	require.NoError(t, err)
	second, err := f.consumeUC().Consume(context.Background(), in)
	require.NoError(t, err)

	assert.NotEqual(t, first.TransactionID, second.TransactionID)
	assert.Equal(t, int64(6), f.remaining(t, lotID))
}

func TestConsume_KardexCerrado_RetornaErrNoOpenLedger(t *testing.T) {
	f := newFixture(t)
	f.addLot(f.supplyID, "A", 10, 10)
	_, err := f.ledgerUC(nil).Close(context.Background(), f.kardexID)
	require.NoError(t, err)

	_, err = f.consumeUC().Consume(context.Background(), kardex.ConsumeInput{
		OperatorID: testOperatorCI,
		Items:      []kardex.ConsumeItem{{SupplyID: f.supplyID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNoOpenLedger)
}

func TestHistory_SoloSalidasDelOperadorMasRecientesPrimero(t *testing.T) {
	f := newFixture(t)
	f.addLot(f.supplyID, "A", 10, 10)
	uc := f.consumeUC()
	for _, q := range []int64{1, 2} {
		_, err := uc.Consume(context.Background(), kardex.ConsumeInput{
			OperatorID: testOperatorCI,
			Items:      []kardex.ConsumeItem{{SupplyID: f.supplyID, Quantity: q}},
		})
		require.NoError(t, err)
	}

	recs, err := uc.History(context.Background(), testOperatorCI, nil, nil)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, int64(2), recs[0].Quantity)
	assert.Equal(t, "N0111", recs[0].SupplyCode)
	require.NotNil(t, recs[0].LotNumber)
	assert.Equal(t, "A", *recs[0].LotNumber)

	other, err := uc.History(context.Background(), "otro", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, other)
}
