package repository

import (
	"context"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// LotRepository define el registro de lotes: consulta y mutación de aplicaciones disponibles.
type LotRepository interface {
	Create(ctx context.Context, lot *entity.Lot) error
	GetByID(ctx context.Context, id int64) (*entity.Lot, error)
	// GetForUpdate obtiene el lote bloqueando la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id int64) (*entity.Lot, error)
	ListBySupply(ctx context.Context, supplyID int64) ([]*entity.Lot, error)

	// ListEligible devuelve los lotes con aplicaciones > 0 y vencimiento >= today,
	// ordenados por (vencimiento, id) ascendente. Sin lotes devuelve slice vacío.
	ListEligible(ctx context.Context, supplyID int64, today time.Time) ([]*entity.Lot, error)
	// Deduct resta amount de las aplicaciones del lote y devuelve el nuevo valor.
	// Falla con domain.ErrInvalidAmount si amount supera lo disponible.
	Deduct(ctx context.Context, lotID, amount int64) (int64, error)
	// Adjust aplica un delta con signo, acotado a un mínimo de 0.
	Adjust(ctx context.Context, lotID, delta int64) (int64, error)
	// TotalRemaining suma las aplicaciones de TODOS los lotes del insumo (vencidos incluidos).
	TotalRemaining(ctx context.Context, supplyID int64) (int64, error)

	// ListExpiredUnnotified lotes vencidos con stock aún no notificados. supplyID 0 = todos.
	ListExpiredUnnotified(ctx context.Context, supplyID int64, today time.Time) ([]*entity.Lot, error)
	MarkExpiryNotified(ctx context.Context, lotIDs []int64) (int64, error)
	// ListExpiringWithin lotes con stock que vencen entre today y today+days.
	ListExpiringWithin(ctx context.Context, today time.Time, days int) ([]*entity.Lot, error)
}
