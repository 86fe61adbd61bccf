package kardex

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	rules "github.com/jhoicas/kardex-api/internal/domain/kardex"
)

// consumptionHistoryLimit máximo de filas del historial de consumos.
const consumptionHistoryLimit = 100

// ConsumeUseCase registra consumos de insumos descontando lotes en orden FIFO
// (primero el que vence primero) dentro de una única transacción.
type ConsumeUseCase struct {
	txRunner TxRunner
	repos    Repos
	now      Clock
	log      zerolog.Logger
}

// NewConsumeUseCase construye el caso de uso.
func NewConsumeUseCase(txRunner TxRunner, repos Repos, now Clock, log zerolog.Logger) *ConsumeUseCase {
	return &ConsumeUseCase{txRunner: txRunner, repos: repos, now: now, log: log}
}

// ConsumeItem insumo y cantidad de aplicaciones a consumir.
type ConsumeItem struct {
	SupplyID int64
	Quantity int64
}

// ConsumeInput solicitud de consumo de uno o más insumos.
type ConsumeInput struct {
	OperatorID  string // CI del operador
	DocumentRef string // clave_doc (formulario de consumo)
	Items       []ConsumeItem
}

// ConsumeResult movimientos creados y lotes agotados por la solicitud.
type ConsumeResult struct {
	TransactionID      string
	Movements          []MovementCreated
	ExhaustedLots      []ExhaustedLot
	RequiresAdjustment bool
}

// Consume descuenta cada ítem de sus lotes elegibles en orden FIFO y registra una
// SALIDA por lote tocado. Cualquier fallo revierte la solicitud completa.
// No es idempotente: repetir la llamada consume de nuevo.
func (uc *ConsumeUseCase) Consume(ctx context.Context, in ConsumeInput) (*ConsumeResult, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	ids := make([]int64, 0, len(in.Items))
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("insumo %d: %w", it.SupplyID, domain.ErrInvalidAmount)
		}
		ids = append(ids, it.SupplyID)
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	now := uc.now()
	day := today(now)
	result := &ConsumeResult{TransactionID: uuid.New().String()}

	err := uc.txRunner.Run(ctx, func(r Repos) error {
		// Reinicia por si el runner reintenta la transacción.
		result.Movements = result.Movements[:0]
		result.ExhaustedLots = result.ExhaustedLots[:0]

		receivedFrom, err := operatorName(ctx, r, in.OperatorID)
		if err != nil {
			return err
		}
		supplies, err := lockSupplies(ctx, r, ids)
		if err != nil {
			return err
		}
		for _, it := range in.Items {
			if err := uc.consumeItem(ctx, r, result, supplies[it.SupplyID], it.Quantity, in, receivedFrom, now, day); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("operator", in.OperatorID).Str("transaction_id", result.TransactionID).Msg("consumo rechazado")
		return nil, err
	}

	result.RequiresAdjustment = len(result.ExhaustedLots) > 0
	uc.log.Info().
		Str("operator", in.OperatorID).
		Str("transaction_id", result.TransactionID).
		Int("movements", len(result.Movements)).
		Int("exhausted_lots", len(result.ExhaustedLots)).
		Msg("consumo registrado")
	return result, nil
}

func (uc *ConsumeUseCase) consumeItem(
	ctx context.Context,
	r Repos,
	result *ConsumeResult,
	supply *entity.Supply,
	quantity int64,
	in ConsumeInput,
	receivedFrom string,
	now, day time.Time,
) error {
	k, err := r.Kardex.GetOpen(ctx, supply.ID)
	if err != nil {
		return fmt.Errorf("insumo %s: %w", supply.Code, err)
	}
	lots, err := r.Lots.ListEligible(ctx, supply.ID, day)
	if err != nil {
		return err
	}
	plan, err := rules.PlanConsumption(lots, quantity)
	if err != nil {
		return fmt.Errorf("insumo %s: %w", supply.Code, err)
	}
	if !plan.Fulfilled() {
		return &domain.ShortageError{SupplyID: supply.ID, Requested: quantity, Missing: plan.Missing}
	}

	for _, d := range plan.Deductions {
		remaining, err := r.Lots.Deduct(ctx, d.LotID, d.Amount)
		if err != nil {
			return fmt.Errorf("lote %s: %w", d.LotNumber, err)
		}
		lotID := d.LotID
		m, err := postMovement(ctx, r, posting{
			kardex:        k,
			lotID:         &lotID,
			transactionID: result.TransactionID,
			kind:          entity.MovementSalida,
			quantity:      d.Amount,
			documentKey:   in.DocumentRef,
			receivedFrom:  receivedFrom,
			receivedBy:    in.OperatorID,
			at:            now,
		})
		if err != nil {
			return err
		}
		result.Movements = append(result.Movements, newMovementCreated(m, supply.ID, d.LotNumber))
		if remaining == 0 {
			result.ExhaustedLots = append(result.ExhaustedLots, ExhaustedLot{
				LotID:      d.LotID,
				LotNumber:  d.LotNumber,
				SupplyID:   supply.ID,
				SupplyCode: supply.Code,
				SupplyName: supply.GenericName,
			})
		}
	}
	return nil
}

// History devuelve las salidas registradas por el operador en el rango, más recientes primero.
func (uc *ConsumeUseCase) History(ctx context.Context, operatorCI string, from, to *time.Time) ([]*entity.ConsumptionRecord, error) {
	if operatorCI == "" {
		return nil, domain.ErrInvalidInput
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, domain.ErrInvalidInput
	}
	return uc.repos.Movements.ListConsumptionsByOperator(ctx, operatorCI, from, to, consumptionHistoryLimit)
}
