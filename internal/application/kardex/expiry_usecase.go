package kardex

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/kardex-api/internal/domain"
)

// ExpiryUseCase alertas de vencimiento de lotes.
type ExpiryUseCase struct {
	repos       Repos
	now         Clock
	warningDays int
	log         zerolog.Logger
}

// NewExpiryUseCase construye el caso de uso. warningDays es la ventana por defecto de "por vencer".
func NewExpiryUseCase(repos Repos, now Clock, warningDays int, log zerolog.Logger) *ExpiryUseCase {
	return &ExpiryUseCase{repos: repos, now: now, warningDays: warningDays, log: log}
}

// ListExpired lotes vencidos con aplicaciones que aún no fueron notificados. supplyID 0 = todos.
func (uc *ExpiryUseCase) ListExpired(ctx context.Context, supplyID int64) ([]LotStatus, error) {
	day := today(uc.now())
	lots, err := uc.repos.Lots.ListExpiredUnnotified(ctx, supplyID, day)
	if err != nil {
		return nil, err
	}
	return lotStatuses(lots, day), nil
}

// MarkNotified marca los lotes como notificados y devuelve cuántos cambiaron.
func (uc *ExpiryUseCase) MarkNotified(ctx context.Context, lotIDs []int64) (int64, error) {
	if len(lotIDs) == 0 {
		return 0, domain.ErrInvalidInput
	}
	n, err := uc.repos.Lots.MarkExpiryNotified(ctx, lotIDs)
	if err != nil {
		return 0, err
	}
	uc.log.Info().Int64("lots", n).Msg("lotes vencidos notificados")
	return n, nil
}

// ListExpiring lotes con aplicaciones que vencen dentro de days días (0 = ventana por defecto).
func (uc *ExpiryUseCase) ListExpiring(ctx context.Context, days int) ([]LotStatus, error) {
	if days < 0 {
		return nil, domain.ErrInvalidInput
	}
	if days == 0 {
		days = uc.warningDays
	}
	day := today(uc.now())
	lots, err := uc.repos.Lots.ListExpiringWithin(ctx, day, days)
	if err != nil {
		return nil, err
	}
	return lotStatuses(lots, day), nil
}
