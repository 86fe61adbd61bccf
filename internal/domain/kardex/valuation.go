package kardex

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// unitCostPlaces decimales del costo unitario por aplicación.
const unitCostPlaces = 4

// EntryUnitCost costo por aplicación de un lote recibido: costo total / aplicaciones.
func EntryUnitCost(totalCost decimal.Decimal, applications int64) decimal.Decimal {
	if applications <= 0 {
		return decimal.Zero
	}
	return totalCost.DivRound(decimal.NewFromInt(applications), unitCostPlaces)
}

// CarryForwardCost costo unitario vigente del kardex: el del último movimiento.
// Un kardex sin movimientos arranca en cero.
func CarryForwardCost(last *entity.Movement) decimal.Decimal {
	if last == nil {
		return decimal.Zero
	}
	return last.UnitCost
}

// NextUnitCost costo del próximo movimiento: las entradas fijan un costo nuevo,
// salidas y ajustes heredan el del último movimiento.
func NextUnitCost(kind entity.MovementKind, last *entity.Movement, entryCost decimal.Decimal) decimal.Decimal {
	if kind == entity.MovementEntrada {
		return entryCost
	}
	return CarryForwardCost(last)
}

// Valuate saldo valorado = saldo * costo unitario.
func Valuate(balance int64, unitCost decimal.Decimal) decimal.Decimal {
	return unitCost.Mul(decimal.NewFromInt(balance))
}
