// Package kardex contiene la lógica pura del kardex: selección FIFO de lotes,
// resolución de ajustes y valoración con costo arrastrado.
package kardex

import (
	"sort"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// Deduction es el descuento planificado sobre un lote.
type Deduction struct {
	LotID     int64
	LotNumber string
	Amount    int64
	Remaining int64 // aplicaciones del lote después del descuento
}

// Exhausted indica si el lote queda en cero tras el descuento.
func (d Deduction) Exhausted() bool { return d.Remaining == 0 }

// Plan resultado de repartir una cantidad entre lotes en orden FIFO.
type Plan struct {
	Requested  int64
	Deductions []Deduction
	Missing    int64 // aplicaciones que no pudieron cubrirse
}

// Fulfilled indica si la cantidad se cubrió por completo.
func (p Plan) Fulfilled() bool { return p.Missing == 0 }

// SortFIFO ordena por fecha de vencimiento ascendente y, a igual fecha, por ID.
func SortFIFO(lots []*entity.Lot) {
	sort.SliceStable(lots, func(i, j int) bool {
		a, b := lots[i], lots[j]
		if !a.ExpirationDate.Equal(b.ExpirationDate) {
			return a.ExpirationDate.Before(b.ExpirationDate)
		}
		return a.ID < b.ID
	})
}

// EligibleLots filtra los lotes con stock y no vencidos a la fecha today, en orden FIFO.
func EligibleLots(lots []*entity.Lot, today time.Time) []*entity.Lot {
	out := make([]*entity.Lot, 0, len(lots))
	for _, l := range lots {
		if l.IsEligible(today) {
			out = append(out, l)
		}
	}
	SortFIFO(out)
	return out
}

// PlanConsumption reparte quantity entre lots, que deben venir elegibles y en orden FIFO.
// Consume min(pendiente, disponible) de cada lote hasta cubrir la cantidad.
func PlanConsumption(lots []*entity.Lot, quantity int64) (Plan, error) {
	if quantity <= 0 {
		return Plan{}, domain.ErrInvalidAmount
	}
	if len(lots) == 0 {
		return Plan{}, domain.ErrNoStock
	}
	plan := Plan{Requested: quantity}
	pending := quantity
	for _, lot := range lots {
		if pending == 0 {
			break
		}
		if lot.RemainingUnits <= 0 {
			continue
		}
		take := min(pending, lot.RemainingUnits)
		plan.Deductions = append(plan.Deductions, Deduction{
			LotID:     lot.ID,
			LotNumber: lot.LotNumber,
			Amount:    take,
			Remaining: lot.RemainingUnits - take,
		})
		pending -= take
	}
	plan.Missing = pending
	return plan, nil
}
