package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Kardex es el libro de inventario perpetuo de un insumo para una gestión (año fiscal).
// Como máximo un kardex abierto por insumo.
type Kardex struct {
	ID       int64
	SupplyID int64
	Number   string // K-<gestion>-NNN
	Gestion  int
	Location string
	OpenedAt time.Time
	ClosedAt *time.Time
	Open     bool
}

// KardexNumber arma el número correlativo de kardex de una gestión (ej. K-2025-001).
func KardexNumber(gestion, seq int) string {
	return fmt.Sprintf("K-%d-%03d", gestion, seq)
}

// KardexSummary resume un kardex cerrado para el historial.
type KardexSummary struct {
	Kardex
	TotalMovements int64
	FinalBalance   *int64
	FinalValue     *decimal.Decimal
}
