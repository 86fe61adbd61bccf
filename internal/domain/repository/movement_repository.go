package repository

import (
	"context"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// MovementRepository define el puerto append-only de movimientos de kardex.
type MovementRepository interface {
	// Append inserta el movimiento y completa su ID. domain.ErrLedgerClosed si el kardex no está abierto.
	Append(ctx context.Context, m *entity.Movement) error
	// Last devuelve el último movimiento del kardex por (fecha, id), o nil si no hay.
	Last(ctx context.Context, kardexID int64) (*entity.Movement, error)
	// ListByKardex movimientos ordenados por (fecha, id) ascendente; from/to opcionales.
	ListByKardex(ctx context.Context, kardexID int64, from, to *time.Time) ([]*entity.Movement, error)
	// ListConsumptionsByOperator salidas registradas por un operador, más recientes primero.
	ListConsumptionsByOperator(ctx context.Context, operatorCI string, from, to *time.Time, limit int) ([]*entity.ConsumptionRecord, error)
}
