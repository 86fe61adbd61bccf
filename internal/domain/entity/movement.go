package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind tipo de movimiento de kardex. Cada fila es exactamente uno de ellos.
type MovementKind string

// Tipos de movimiento de kardex.
const (
	MovementEntrada MovementKind = "ENTRADA" // recepción de un lote
	MovementSalida  MovementKind = "SALIDA"  // consumo
	MovementAjuste  MovementKind = "AJUSTE"  // corrección tras verificación física
)

// IsValid indica si el tipo es conocido.
func (k MovementKind) IsValid() bool {
	switch k {
	case MovementEntrada, MovementSalida, MovementAjuste:
		return true
	}
	return false
}

// Movement es una fila inmutable del kardex (detalle_kardex).
// Quantity es positiva para ENTRADA y SALIDA; en AJUSTE lleva signo
// (positivo: sobrante encontrado, negativo: faltante o lote confirmado agotado).
type Movement struct {
	ID            int64
	KardexID      int64
	LotID         *int64
	TransactionID string
	Date          time.Time
	Kind          MovementKind
	Quantity      int64
	Balance       int64           // saldo: aplicaciones restantes de todos los lotes del insumo
	UnitCost      decimal.Decimal // costo unitario por aplicación
	BalanceValue  decimal.Decimal // saldo valorado = Balance * UnitCost
	DocumentKey   string          // clave_doc (recibo, formulario, AJUSTE-<lote>)
	ReceivedFrom  string          // recibido_de
	ReceivedBy    string          // recepcionado_por (CI del operador)
	Reason        string
}

// NewMovement crea un movimiento del kardex. En AJUSTE quantity lleva signo.
func NewMovement(kardexID int64, kind MovementKind, quantity int64, at time.Time) Movement {
	return Movement{KardexID: kardexID, Kind: kind, Quantity: quantity, Date: at}
}

// Entradas columna legacy: unidades recibidas.
func (m *Movement) Entradas() int64 {
	if m.Kind == MovementEntrada {
		return m.Quantity
	}
	return 0
}

// Salidas columna legacy: unidades consumidas.
func (m *Movement) Salidas() int64 {
	if m.Kind == MovementSalida {
		return m.Quantity
	}
	return 0
}

// Ajustes columna legacy: magnitud sin signo del ajuste.
func (m *Movement) Ajustes() int64 {
	if m.Kind != MovementAjuste {
		return 0
	}
	if m.Quantity < 0 {
		return -m.Quantity
	}
	return m.Quantity
}

// ConsumptionRecord fila del historial de consumos de un operador.
type ConsumptionRecord struct {
	MovementID   int64
	Date         time.Time
	Quantity     int64
	DocumentKey  string
	BalanceValue decimal.Decimal
	SupplyCode   string
	SupplyName   string
	LotNumber    *string
}
