package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados derivados de un lote.
const (
	LotStateActive    = "ACTIVO"
	LotStateExhausted = "AGOTADO"
	LotStateExpired   = "VENCIDO"
)

// Lot representa un lote físico recibido de un insumo.
// RemainingUnits son aplicaciones utilizables, independientes de la cantidad física.
type Lot struct {
	ID               int64
	SupplyID         int64
	LotNumber        string
	ExpirationDate   time.Time // solo fecha
	PhysicalQuantity int64
	TotalCost        decimal.Decimal
	RemainingUnits   int64
	ExpiryNotified   bool
	RegisteredBy     string // CI del operador
	CreatedAt        time.Time
}

// IsExpired indica si la fecha de vencimiento es anterior a today (comparación por día calendario).
func (l *Lot) IsExpired(today time.Time) bool {
	return civilDate(l.ExpirationDate).Before(civilDate(today))
}

// IsEligible indica si el lote puede seleccionarse para consumo FIFO.
func (l *Lot) IsEligible(today time.Time) bool {
	return l.RemainingUnits > 0 && !l.IsExpired(today)
}

// State devuelve VENCIDO, AGOTADO o ACTIVO (en ese orden de precedencia).
func (l *Lot) State(today time.Time) string {
	switch {
	case l.IsExpired(today):
		return LotStateExpired
	case l.RemainingUnits == 0:
		return LotStateExhausted
	default:
		return LotStateActive
	}
}

// DaysToExpiry días enteros hasta el vencimiento (negativo si ya venció).
func (l *Lot) DaysToExpiry(today time.Time) int {
	d := civilDate(l.ExpirationDate).Sub(civilDate(today))
	return int(d.Hours() / 24)
}

// civilDate lleva t a su día calendario en UTC: las columnas DATE llegan en UTC
// y today en la zona de la clínica.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
