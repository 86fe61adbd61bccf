package repository

import (
	"context"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// KardexRepository define el puerto de persistencia de los kardex (cabecera).
type KardexRepository interface {
	// GetOpen devuelve el kardex abierto del insumo o domain.ErrNoOpenLedger.
	GetOpen(ctx context.Context, supplyID int64) (*entity.Kardex, error)
	GetByID(ctx context.Context, id int64) (*entity.Kardex, error)
	// LockGestion serializa la numeración de la gestión hasta el fin de la transacción.
	LockGestion(ctx context.Context, gestion int) error
	// CountByGestion cantidad de kardex creados en la gestión (para numeración).
	CountByGestion(ctx context.Context, gestion int) (int, error)
	// Create persiste un kardex abierto. domain.ErrLedgerAlreadyOpen si ya hay otro abierto.
	Create(ctx context.Context, k *entity.Kardex) error
	// Close marca el kardex como cerrado; idempotente.
	Close(ctx context.Context, id int64, at time.Time) (*entity.Kardex, error)
	ListClosed(ctx context.Context, supplyID int64) ([]*entity.KardexSummary, error)
	ListGestiones(ctx context.Context, supplyID int64) ([]int, error)
}
