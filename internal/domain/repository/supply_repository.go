package repository

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// SupplyRepository define el puerto de lectura del catálogo de insumos (DIP).
type SupplyRepository interface {
	// GetByID devuelve domain.ErrSupplyNotFound si no existe.
	GetByID(ctx context.Context, id int64) (*entity.Supply, error)
	GetByCode(ctx context.Context, code string) (*entity.Supply, error)
	// LockForUpdate bloquea la fila del insumo (SELECT FOR UPDATE) para serializar
	// consumos y ajustes concurrentes del mismo insumo. Devuelve nil si no existe.
	LockForUpdate(ctx context.Context, id int64) (*entity.Supply, error)
	Search(ctx context.Context, term string, limit int) ([]*entity.Supply, error)
	// ListStock devuelve las aplicaciones disponibles (suma de todos los lotes) y el kardex abierto
	// de cada insumo. Porcentaje y prioridad los calcula el caso de uso.
	ListStock(ctx context.Context, limit int) ([]*entity.SupplyStock, error)
	// Upsert crea o actualiza un insumo por código (carga de catálogo).
	Upsert(ctx context.Context, supply *entity.Supply) error
}
