package kardex

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// LedgerUseCase consultas y acciones sobre la cabecera del kardex.
type LedgerUseCase struct {
	txRunner        TxRunner
	repos           Repos
	pdf             PDFGenerator
	now             Clock
	defaultLocation string
	log             zerolog.Logger
}

// NewLedgerUseCase construye el caso de uso. pdf puede ser nil si no se exporta.
func NewLedgerUseCase(
	txRunner TxRunner,
	repos Repos,
	pdf PDFGenerator,
	now Clock,
	defaultLocation string,
	log zerolog.Logger,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:        txRunner,
		repos:           repos,
		pdf:             pdf,
		now:             now,
		defaultLocation: defaultLocation,
		log:             log,
	}
}

// OpenLedgerInput apertura manual de kardex. Gestion 0 = año actual.
type OpenLedgerInput struct {
	SupplyID int64
	Gestion  int
	Location string
}

// Open abre un kardex para el insumo. Falla con domain.ErrLedgerAlreadyOpen si ya hay uno abierto.
func (uc *LedgerUseCase) Open(ctx context.Context, in OpenLedgerInput) (*entity.Kardex, error) {
	now := uc.now()
	gestion := in.Gestion
	if gestion == 0 {
		gestion = now.Year()
	}
	if gestion < 2000 || gestion > 9999 {
		return nil, domain.ErrInvalidInput
	}
	location := strings.TrimSpace(in.Location)
	if location == "" {
		location = uc.defaultLocation
	}

	var k *entity.Kardex
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		if _, err := lockSupplies(ctx, r, []int64{in.SupplyID}); err != nil {
			return err
		}
		var err error
		k, err = openLedger(ctx, r, in.SupplyID, gestion, location, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("supply_id", in.SupplyID).Str("kardex", k.Number).Msg("kardex abierto")
	return k, nil
}

// Close cierra el kardex. Cerrar uno ya cerrado no cambia su fecha de cierre.
func (uc *LedgerUseCase) Close(ctx context.Context, kardexID int64) (*entity.Kardex, error) {
	k, err := uc.repos.Kardex.Close(ctx, kardexID, uc.now())
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("kardex_id", k.ID).Str("kardex", k.Number).Msg("kardex cerrado")
	return k, nil
}

// Current devuelve el kardex abierto del insumo con todos sus movimientos.
func (uc *LedgerUseCase) Current(ctx context.Context, supplyID int64) (*LedgerView, error) {
	supply, err := uc.repos.Supplies.GetByID(ctx, supplyID)
	if err != nil {
		return nil, err
	}
	k, err := uc.repos.Kardex.GetOpen(ctx, supplyID)
	if err != nil {
		return nil, err
	}
	movs, err := uc.repos.Movements.ListByKardex(ctx, k.ID, nil, nil)
	if err != nil {
		return nil, err
	}
	return &LedgerView{Supply: supply, Kardex: k, Movements: movs}, nil
}

// Movements devuelve los movimientos de un kardex (abierto o cerrado) en el rango opcional.
func (uc *LedgerUseCase) Movements(ctx context.Context, kardexID int64, from, to *time.Time) (*LedgerView, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, domain.ErrInvalidInput
	}
	k, err := uc.repos.Kardex.GetByID(ctx, kardexID)
	if err != nil {
		return nil, err
	}
	supply, err := uc.repos.Supplies.GetByID(ctx, k.SupplyID)
	if err != nil {
		return nil, err
	}
	movs, err := uc.repos.Movements.ListByKardex(ctx, k.ID, from, to)
	if err != nil {
		return nil, err
	}
	return &LedgerView{Supply: supply, Kardex: k, Movements: movs}, nil
}

// History kardex cerrados del insumo con saldo final y cantidad de movimientos.
func (uc *LedgerUseCase) History(ctx context.Context, supplyID int64) ([]*entity.KardexSummary, error) {
	if _, err := uc.repos.Supplies.GetByID(ctx, supplyID); err != nil {
		return nil, err
	}
	return uc.repos.Kardex.ListClosed(ctx, supplyID)
}

// Years gestiones con kardex para el insumo, la más reciente primero.
func (uc *LedgerUseCase) Years(ctx context.Context, supplyID int64) ([]int, error) {
	if _, err := uc.repos.Supplies.GetByID(ctx, supplyID); err != nil {
		return nil, err
	}
	return uc.repos.Kardex.ListGestiones(ctx, supplyID)
}

// ExportPDF genera el PDF del kardex. Devuelve el contenido y el nombre de archivo sugerido.
func (uc *LedgerUseCase) ExportPDF(ctx context.Context, kardexID int64) ([]byte, string, error) {
	if uc.pdf == nil {
		return nil, "", fmt.Errorf("generador PDF no configurado")
	}
	view, err := uc.Movements(ctx, kardexID, nil, nil)
	if err != nil {
		return nil, "", err
	}
	content, err := uc.pdf.GenerateKardexPDF(view.Supply, view.Kardex, view.Movements)
	if err != nil {
		return nil, "", fmt.Errorf("generar PDF: %w", err)
	}
	return content, view.Kardex.Number + ".pdf", nil
}
