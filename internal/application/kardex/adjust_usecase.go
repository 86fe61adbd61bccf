package kardex

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	rules "github.com/jhoicas/kardex-api/internal/domain/kardex"
)

// AdjustUseCase corrige las aplicaciones de un lote tras una verificación física.
type AdjustUseCase struct {
	txRunner TxRunner
	now      Clock
	log      zerolog.Logger
}

// NewAdjustUseCase construye el caso de uso.
func NewAdjustUseCase(txRunner TxRunner, now Clock, log zerolog.Logger) *AdjustUseCase {
	return &AdjustUseCase{txRunner: txRunner, now: now, log: log}
}

// AdjustInput ajuste con signo: positivo sobrante encontrado, negativo faltante.
type AdjustInput struct {
	LotID      int64
	Delta      int64
	Reason     string
	OperatorID string
}

// ConfirmExhaustedInput confirma que un lote quedó físicamente vacío.
type ConfirmExhaustedInput struct {
	LotID      int64
	Reason     string
	OperatorID string
}

// AdjustResult resultado de un ajuste.
type AdjustResult struct {
	LotID             int64
	Applied           int64 // delta efectivo tras acotar a cero
	LotRemaining      int64
	NewTotalForSupply int64
	MovementID        int64
}

// AdjustBy aplica un delta distinto de cero al lote, acotando el resultado a cero.
func (uc *AdjustUseCase) AdjustBy(ctx context.Context, in AdjustInput) (*AdjustResult, error) {
	if in.Delta == 0 {
		return nil, domain.ErrInvalidAmount
	}
	return uc.apply(ctx, in.LotID, in.Reason, in.OperatorID, func(current int64) rules.Adjustment {
		return rules.ResolveAdjustment(current, in.Delta)
	})
}

// ConfirmExhausted lleva el lote a cero registrando el faltante como ajuste.
func (uc *AdjustUseCase) ConfirmExhausted(ctx context.Context, in ConfirmExhaustedInput) (*AdjustResult, error) {
	return uc.apply(ctx, in.LotID, in.Reason, in.OperatorID, rules.ConfirmExhausted)
}

// Adjust punto de entrada compatible con el formulario de ajuste: un delta de 0
// significa "confirmar lote agotado".
func (uc *AdjustUseCase) Adjust(ctx context.Context, in AdjustInput) (*AdjustResult, error) {
	if in.Delta == 0 {
		return uc.ConfirmExhausted(ctx, ConfirmExhaustedInput{LotID: in.LotID, Reason: in.Reason, OperatorID: in.OperatorID})
	}
	return uc.AdjustBy(ctx, in)
}

func (uc *AdjustUseCase) apply(
	ctx context.Context,
	lotID int64,
	reason, operatorID string,
	resolve func(current int64) rules.Adjustment,
) (*AdjustResult, error) {
	if lotID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	var result *AdjustResult

	err := uc.txRunner.Run(ctx, func(r Repos) error {
		receivedFrom, err := operatorName(ctx, r, operatorID)
		if err != nil {
			return err
		}
		lot, err := r.Lots.GetByID(ctx, lotID)
		if err != nil {
			return err
		}
		// Mismo orden de bloqueo que el consumo: insumo y luego lote.
		if _, err := lockSupplies(ctx, r, []int64{lot.SupplyID}); err != nil {
			return err
		}
		lot, err = r.Lots.GetForUpdate(ctx, lotID)
		if err != nil {
			return err
		}
		k, err := r.Kardex.GetOpen(ctx, lot.SupplyID)
		if err != nil {
			return err
		}

		adj := resolve(lot.RemainingUnits)
		remaining, err := r.Lots.Adjust(ctx, lotID, adj.Applied)
		if err != nil {
			return err
		}
		m, err := postMovement(ctx, r, posting{
			kardex:       k,
			lotID:        &lotID,
			kind:         entity.MovementAjuste,
			quantity:     adj.Applied,
			documentKey:  fmt.Sprintf("AJUSTE-%d", lotID),
			receivedFrom: receivedFrom,
			receivedBy:   operatorID,
			reason:       reason,
			at:           now,
		})
		if err != nil {
			return err
		}
		result = &AdjustResult{
			LotID:             lotID,
			Applied:           adj.Applied,
			LotRemaining:      remaining,
			NewTotalForSupply: m.Balance,
			MovementID:        m.ID,
		}
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Int64("lot_id", lotID).Msg("ajuste rechazado")
		return nil, err
	}
	uc.log.Info().
		Int64("lot_id", lotID).
		Int64("applied", result.Applied).
		Int64("lot_remaining", result.LotRemaining).
		Str("operator", operatorID).
		Msg("ajuste registrado")
	return result, nil
}
