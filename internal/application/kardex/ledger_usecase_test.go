package kardex_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/kardex"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

type fakePDF struct {
	calls     int
	movements int
}

func (p *fakePDF) GenerateKardexPDF(_ *entity.Supply, _ *entity.Kardex, movs []*entity.Movement) ([]byte, error) {
	p.calls++
	p.movements = len(movs)
	return []byte("%PDF-1.4"), nil
}

func TestLedger_OpenRechazaSegundoAbierto(t *testing.T) {
	f := newFixture(t)

	_, err := f.ledgerUC(nil).Open(context.Background(), kardex.OpenLedgerInput{SupplyID: f.supplyID})
	assert.ErrorIs(t, err, domain.ErrLedgerAlreadyOpen)
}

func TestLedger_CloseYReabre(t *testing.T) {
	f := newFixture(t)
	uc := f.ledgerUC(nil)
	ctx := context.Background()

	closed, err := uc.Close(ctx, f.kardexID)
	require.NoError(t, err)
	assert.False(t, closed.Open)
	require.NotNil(t, closed.ClosedAt)
	assert.True(t, testNow.Equal(*closed.ClosedAt))

	k, err := uc.Open(ctx, kardex.OpenLedgerInput{SupplyID: f.supplyID, Gestion: 2027, Location: "Consultorio 2"})
	require.NoError(t, err)
	assert.Equal(t, "K-2027-001", k.Number)
	assert.Equal(t, "Consultorio 2", k.Location)

	years, err := uc.Years(ctx, f.supplyID)
	require.NoError(t, err)
	assert.Equal(t, []int{2027, 2026}, years)
}

// Aperturas de insumos distintos en la misma gestión toman correlativos distintos
// y bloquean la numeración de la gestión antes de contar.
func TestLedger_OpenNumeraCorrelativoPorGestion(t *testing.T) {
	f := newFixture(t)
	uc := f.ledgerUC(nil)
	ctx := context.Background()

	s1 := f.store.AddSupply(entity.Supply{Code: "N0200", GenericName: "Resina A2", Yield: 1})
	s2 := f.store.AddSupply(entity.Supply{Code: "N0201", GenericName: "Resina A3", Yield: 1})

	k1, err := uc.Open(ctx, kardex.OpenLedgerInput{SupplyID: s1})
	require.NoError(t, err)
	k2, err := uc.Open(ctx, kardex.OpenLedgerInput{SupplyID: s2})
	require.NoError(t, err)

	assert.Equal(t, "K-2026-002", k1.Number)
	assert.Equal(t, "K-2026-003", k2.Number)
	assert.Equal(t, []int{2026, 2026}, f.store.GestionLocks())
}

// Un número ya usado en la gestión se rechaza como duplicado.
func TestLedger_CreateNumeroRepetido_RetornaErrDuplicate(t *testing.T) {
	f := newFixture(t)
	other := f.store.AddSupply(entity.Supply{Code: "N0202", GenericName: "Ionómero", Yield: 1})

	err := f.store.Run(context.Background(), func(r kardex.Repos) error {
		return r.Kardex.Create(context.Background(), &entity.Kardex{SupplyID: other, Number: "K-2026-001", Gestion: 2026})
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// Cerrar dos veces conserva la primera fecha de cierre.
func TestLedger_CloseIdempotente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ledgerUC(nil).Close(ctx, f.kardexID)
	require.NoError(t, err)

	later := kardex.NewLedgerUseCase(f.store, f.store.Repos(), nil,
		func() time.Time { return testNow.Add(48 * time.Hour) }, testLocation, noLog())
	again, err := later.Close(ctx, f.kardexID)
	require.NoError(t, err)
	assert.True(t, testNow.Equal(*again.ClosedAt))
}

func TestLedger_AppendEnKardexCerrado_RetornaErrLedgerClosed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.ledgerUC(nil).Close(ctx, f.kardexID)
	require.NoError(t, err)

	err = f.store.Repos().Movements.Append(ctx, &entity.Movement{KardexID: f.kardexID, Kind: entity.MovementSalida, Quantity: 1, Date: testNow})
	assert.ErrorIs(t, err, domain.ErrLedgerClosed)
}

func TestLedger_HistoryYMovimientos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addLot(f.supplyID, "A", 10, 10)
	_, err := f.consumeUC().Consume(ctx, kardex.ConsumeInput{
		OperatorID: testOperatorCI,
		Items:      []kardex.ConsumeItem{{SupplyID: f.supplyID, Quantity: 4}},
	})
	require.NoError(t, err)

	uc := f.ledgerUC(nil)
	current, err := uc.Current(ctx, f.supplyID)
	require.NoError(t, err)
	require.Len(t, current.Movements, 1)
	assert.Equal(t, "N0111", current.Supply.Code)

	_, err = uc.Close(ctx, f.kardexID)
	require.NoError(t, err)

	hist, err := uc.History(ctx, f.supplyID)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, int64(1), hist[0].TotalMovements)
	require.NotNil(t, hist[0].FinalBalance)
	assert.Equal(t, int64(6), *hist[0].FinalBalance)

	_, err = uc.Current(ctx, f.supplyID)
	assert.ErrorIs(t, err, domain.ErrNoOpenLedger)

	from := testNow.Add(time.Hour)
	view, err := uc.Movements(ctx, f.kardexID, &from, nil)
	require.NoError(t, err)
	assert.Empty(t, view.Movements, "el rango excluye el movimiento")
}

func TestLedger_ExportPDF(t *testing.T) {
	f := newFixture(t)
	pdf := &fakePDF{}

	content, name, err := f.ledgerUC(pdf).ExportPDF(context.Background(), f.kardexID)
	require.NoError(t, err)
	assert.Equal(t, "K-2026-001.pdf", name)
	assert.NotEmpty(t, content)
	assert.Equal(t, 1, pdf.calls)

	_, _, err = f.ledgerUC(pdf).ExportPDF(context.Background(), 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
