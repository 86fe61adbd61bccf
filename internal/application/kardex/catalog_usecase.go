package kardex

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// CatalogUseCase carga del catálogo de insumos (seed).
type CatalogUseCase struct {
	txRunner        TxRunner
	now             Clock
	defaultLocation string
	log             zerolog.Logger
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(txRunner TxRunner, now Clock, defaultLocation string, log zerolog.Logger) *CatalogUseCase {
	return &CatalogUseCase{txRunner: txRunner, now: now, defaultLocation: defaultLocation, log: log}
}

// ImportInput insumos a registrar. OpenLedgers abre el kardex de la gestión actual
// para los que no tengan uno abierto.
type ImportInput struct {
	Supplies    []entity.Supply
	OpenLedgers bool
	Location    string
}

// ImportResult resumen de la carga.
type ImportResult struct {
	Upserted     int
	OpenedKardex []string
}

// Import registra o actualiza los insumos por código en una sola transacción.
func (uc *CatalogUseCase) Import(ctx context.Context, in ImportInput) (*ImportResult, error) {
	if len(in.Supplies) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for i, s := range in.Supplies {
		if err := validateSupply(s); err != nil {
			return nil, fmt.Errorf("insumo %d (%s): %w", i+1, s.Code, err)
		}
	}
	location := strings.TrimSpace(in.Location)
	if location == "" {
		location = uc.defaultLocation
	}
	now := uc.now()
	result := &ImportResult{}

	err := uc.txRunner.Run(ctx, func(r Repos) error {
		for _, s := range in.Supplies {
			s.Code = strings.TrimSpace(s.Code)
			if err := r.Supplies.Upsert(ctx, &s); err != nil {
				return fmt.Errorf("insumo %s: %w", s.Code, err)
			}
			result.Upserted++
			if !in.OpenLedgers {
				continue
			}
			k, opened, err := openOrCreateLedger(ctx, r, s.ID, location, now)
			if err != nil {
				return fmt.Errorf("kardex de %s: %w", s.Code, err)
			}
			if opened {
				result.OpenedKardex = append(result.OpenedKardex, k.Number)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Int("supplies", result.Upserted).
		Int("opened_kardex", len(result.OpenedKardex)).
		Msg("catálogo importado")
	return result, nil
}

func validateSupply(s entity.Supply) error {
	switch {
	case strings.TrimSpace(s.Code) == "", strings.TrimSpace(s.GenericName) == "":
		return domain.ErrInvalidInput
	case s.MinimumApplications < 0, s.Yield < 0, s.UnitCost.IsNegative():
		return domain.ErrInvalidAmount
	}
	return nil
}
