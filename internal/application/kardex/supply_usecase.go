package kardex

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

const (
	defaultStockLimit  = 100
	defaultSearchLimit = 20
)

// SupplyUseCase consultas de stock por insumo.
type SupplyUseCase struct {
	repos Repos
	now   Clock
}

// NewSupplyUseCase construye el caso de uso.
func NewSupplyUseCase(repos Repos, now Clock) *SupplyUseCase {
	return &SupplyUseCase{repos: repos, now: now}
}

// ListStock resumen de stock por insumo: los más críticos primero
// (prioridad, porcentaje sobre el mínimo y código).
func (uc *SupplyUseCase) ListStock(ctx context.Context, limit int) ([]*entity.SupplyStock, error) {
	if limit <= 0 {
		limit = defaultStockLimit
	}
	rows, err := uc.repos.Supplies.ListStock(ctx, limit)
	if err != nil {
		return nil, err
	}
	for _, s := range rows {
		s.StockPercent = entity.StockPercent(s.AvailableApplications, s.MinimumApplications)
		s.Priority = entity.StockPriority(s.AvailableApplications, s.MinimumApplications)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if !a.StockPercent.Equal(b.StockPercent) {
			return a.StockPercent.LessThan(b.StockPercent)
		}
		return a.Code < b.Code
	})
	return rows, nil
}

// Search busca insumos por código o nombre genérico.
func (uc *SupplyUseCase) Search(ctx context.Context, term string) ([]*entity.Supply, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.repos.Supplies.Search(ctx, term, defaultSearchLimit)
}

// Lots lotes del insumo con su estado (ACTIVO, AGOTADO, VENCIDO) a la fecha actual.
func (uc *SupplyUseCase) Lots(ctx context.Context, supplyID int64) ([]LotStatus, error) {
	if _, err := uc.repos.Supplies.GetByID(ctx, supplyID); err != nil {
		return nil, err
	}
	lots, err := uc.repos.Lots.ListBySupply(ctx, supplyID)
	if err != nil {
		return nil, err
	}
	return lotStatuses(lots, today(uc.now())), nil
}
