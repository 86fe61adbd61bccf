package kardex_test

import (
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/kardex"
	"github.com/jhoicas/kardex-api/internal/application/kardex/kardextest"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testOperatorCI = "4567890"
	testLocation   = "Almacén Principal"
)

var testNow = time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

type fixture struct {
	store    *kardextest.Store
	clock    kardex.Clock
	supplyID int64
	kardexID int64
}

// newFixture crea un insumo con kardex abierto y un operador registrado.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := kardextest.NewStore()
	store.AddUser(entity.User{CI: testOperatorCI, FirstNames: "Ana", LastNames: "Quispe", Role: entity.RoleOdontologo, Active: true})
	supplyID := store.AddSupply(entity.Supply{
		Code:                "N0111",
		GenericName:         "Lidocaína 2%",
		Presentation:        "Caja x 50 cartuchos",
		MinimumApplications: 50,
		Yield:               1,
	})
	kardexID := store.OpenKardex(supplyID, testNow.Year(), testNow)
	return &fixture{store: store, clock: kardextest.FixedClock(testNow), supplyID: supplyID, kardexID: kardexID}
}

// addSupply agrega otro insumo con su kardex abierto.
func (f *fixture) addSupply(code string) int64 {
	id := f.store.AddSupply(entity.Supply{Code: code, GenericName: "Insumo " + code, MinimumApplications: 10, Yield: 1})
	f.store.OpenKardex(id, testNow.Year(), testNow)
	return id
}

// addLot registra un lote del insumo que vence en days días.
func (f *fixture) addLot(supplyID int64, number string, days int, remaining int64) int64 {
	return f.store.AddLot(entity.Lot{
		SupplyID:         supplyID,
		LotNumber:        number,
		ExpirationDate:   dayOffset(days),
		PhysicalQuantity: remaining,
		TotalCost:        decimal.Zero,
		RemainingUnits:   remaining,
	})
}

func dayOffset(days int) time.Time {
	y, m, d := testNow.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, days)
}

func (f *fixture) consumeUC() *kardex.ConsumeUseCase {
	return kardex.NewConsumeUseCase(f.store, f.store.Repos(), f.clock, zerolog.Nop())
}

func (f *fixture) adjustUC() *kardex.AdjustUseCase {
	return kardex.NewAdjustUseCase(f.store, f.clock, zerolog.Nop())
}

func (f *fixture) receiveUC() *kardex.ReceiveUseCase {
	return kardex.NewReceiveUseCase(f.store, f.clock, testLocation, zerolog.Nop())
}

func (f *fixture) ledgerUC(pdf kardex.PDFGenerator) *kardex.LedgerUseCase {
	return kardex.NewLedgerUseCase(f.store, f.store.Repos(), pdf, f.clock, testLocation, zerolog.Nop())
}

func (f *fixture) remaining(t *testing.T, lotID int64) int64 {
	t.Helper()
	l := f.store.Lot(lotID)
	require.NotZero(t, l.ID, "el lote %d debe existir", lotID)
	return l.RemainingUnits
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

func noLog() zerolog.Logger {
	return zerolog.Nop()
}
