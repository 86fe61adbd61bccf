package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supply representa un insumo del catálogo (odontológico).
// El núcleo de kardex solo lo lee; la gestión del catálogo es externa.
type Supply struct {
	ID                  int64
	Code                string // código único (ej. N0111)
	GenericName         string
	Presentation        string // ej. "Caja x 50 cartuchos"
	UnitMeasure         string
	MinimumApplications int64           // umbral de stock mínimo en aplicaciones
	Yield               int64           // aplicaciones por unidad física (rendimiento teórico)
	UnitCost            decimal.Decimal // costo de referencia por unidad física
	CreatedAt           time.Time
}

// ApplicationsFor convierte unidades físicas en aplicaciones según el rendimiento.
// Un rendimiento no configurado (<= 0) se toma como 1.
func (s *Supply) ApplicationsFor(physical int64) int64 {
	if s.Yield <= 0 {
		return physical
	}
	return physical * s.Yield
}

// SupplyStock fila del resumen de stock por insumo (listado principal del kardex).
type SupplyStock struct {
	Supply
	AvailableApplications int64
	StockPercent          decimal.Decimal // disponible / mínimo * 100
	Priority              int             // 1 crítico, 2 bajo, 3 normal
	KardexID              *int64
	KardexNumber          *string
	KardexBalance         *int64
	KardexValue           *decimal.Decimal
}

// StockPriority clasifica la disponibilidad frente al mínimo:
// 1 si está en o bajo el 10%, 2 si está en o bajo el 30%, 3 en otro caso.
func StockPriority(available, minimum int64) int {
	m := decimal.NewFromInt(minimum)
	a := decimal.NewFromInt(available)
	switch {
	case a.LessThanOrEqual(m.Mul(decimal.NewFromFloat(0.1))):
		return 1
	case a.LessThanOrEqual(m.Mul(decimal.NewFromFloat(0.3))):
		return 2
	default:
		return 3
	}
}

// StockPercent porcentaje disponible sobre el mínimo, redondeado a 2 decimales.
func StockPercent(available, minimum int64) decimal.Decimal {
	if available == 0 || minimum == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(available).Div(decimal.NewFromInt(minimum)).Mul(decimal.NewFromInt(100)).Round(2)
}
