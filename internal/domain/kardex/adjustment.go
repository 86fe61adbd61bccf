package kardex

// Adjustment resultado de aplicar un delta a las aplicaciones de un lote.
type Adjustment struct {
	Previous  int64
	Remaining int64
	Applied   int64 // Remaining - Previous; puede diferir del delta pedido por el acotamiento
}

// ResolveAdjustment aplica delta sobre current acotando el resultado a cero.
func ResolveAdjustment(current, delta int64) Adjustment {
	next := max(current+delta, 0)
	return Adjustment{Previous: current, Remaining: next, Applied: next - current}
}

// ConfirmExhausted lleva el lote a cero: el delta aplicado es -current.
func ConfirmExhausted(current int64) Adjustment {
	return ResolveAdjustment(current, -current)
}
