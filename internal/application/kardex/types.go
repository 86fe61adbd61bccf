package kardex

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// MovementCreated movimiento registrado por una operación del motor.
type MovementCreated struct {
	MovementID   int64
	KardexID     int64
	SupplyID     int64
	LotID        int64
	LotNumber    string
	Kind         entity.MovementKind
	Quantity     int64
	Balance      int64
	UnitCost     decimal.Decimal
	BalanceValue decimal.Decimal
}

func newMovementCreated(m *entity.Movement, supplyID int64, lotNumber string) MovementCreated {
	mc := MovementCreated{
		MovementID:   m.ID,
		KardexID:     m.KardexID,
		SupplyID:     supplyID,
		LotNumber:    lotNumber,
		Kind:         m.Kind,
		Quantity:     m.Quantity,
		Balance:      m.Balance,
		UnitCost:     m.UnitCost,
		BalanceValue: m.BalanceValue,
	}
	if m.LotID != nil {
		mc.LotID = *m.LotID
	}
	return mc
}

// ExhaustedLot lote que quedó en cero y requiere verificación física.
type ExhaustedLot struct {
	LotID      int64
	LotNumber  string
	SupplyID   int64
	SupplyCode string
	SupplyName string
}

// LotStatus lote con su estado derivado a una fecha.
type LotStatus struct {
	*entity.Lot
	State        string
	DaysToExpiry int
}

func lotStatuses(lots []*entity.Lot, day time.Time) []LotStatus {
	out := make([]LotStatus, 0, len(lots))
	for _, l := range lots {
		out = append(out, LotStatus{Lot: l, State: l.State(day), DaysToExpiry: l.DaysToExpiry(day)})
	}
	return out
}

// LedgerView kardex con su insumo y movimientos.
type LedgerView struct {
	Supply    *entity.Supply
	Kardex    *entity.Kardex
	Movements []*entity.Movement
}
