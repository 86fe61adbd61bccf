package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrUserNotFound = errors.New("usuario no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// Kardex y lotes.
	ErrNoOpenLedger      = errors.New("no hay kardex abierto para el insumo")
	ErrLedgerAlreadyOpen = errors.New("el insumo ya tiene un kardex abierto")
	ErrLedgerClosed      = errors.New("el kardex está cerrado")
	ErrNoStock           = errors.New("no hay stock disponible")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidAmount     = errors.New("cantidad inválida")
	ErrLotNotFound       = errors.New("lote no encontrado")
	ErrSupplyNotFound    = errors.New("insumo no encontrado")
)

// ShortageError detalla un faltante de aplicaciones al consumir un insumo.
// errors.Is(err, ErrInsufficientStock) es verdadero para este tipo.
type ShortageError struct {
	SupplyID  int64
	Requested int64
	Missing   int64
}

func (e *ShortageError) Error() string {
	return fmt.Sprintf("stock insuficiente para insumo %d: faltaron %d de %d aplicaciones",
		e.SupplyID, e.Missing, e.Requested)
}

// Is permite comparar con ErrInsufficientStock.
func (e *ShortageError) Is(target error) bool {
	return target == ErrInsufficientStock
}
