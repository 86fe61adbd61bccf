package kardex

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	rules "github.com/jhoicas/kardex-api/internal/domain/kardex"
)

// ReceiveUseCase registra la recepción de lotes (importación de facturas de compra).
type ReceiveUseCase struct {
	txRunner        TxRunner
	now             Clock
	defaultLocation string
	log             zerolog.Logger
}

// NewReceiveUseCase construye el caso de uso. defaultLocation se usa al abrir
// implícitamente el kardex de la gestión.
func NewReceiveUseCase(txRunner TxRunner, now Clock, defaultLocation string, log zerolog.Logger) *ReceiveUseCase {
	return &ReceiveUseCase{txRunner: txRunner, now: now, defaultLocation: defaultLocation, log: log}
}

// ReceiveItem lote recibido de un insumo.
type ReceiveItem struct {
	SupplyID         int64
	LotNumber        string
	ExpirationDate   time.Time
	PhysicalQuantity int64
	TotalCost        decimal.Decimal
}

// ReceiveInput recepción de uno o más lotes.
type ReceiveInput struct {
	OperatorID   string
	DocumentRef  string // número de factura o recibo
	ReceivedFrom string // proveedor
	Location     string
	Items        []ReceiveItem
}

// ReceivedLot lote creado por la recepción.
type ReceivedLot struct {
	LotID        int64
	SupplyID     int64
	LotNumber    string
	Applications int64
	UnitCost     decimal.Decimal
}

// ReceiveResult lotes creados, movimientos de entrada y kardex abiertos en el proceso.
type ReceiveResult struct {
	TransactionID string
	Lots          []ReceivedLot
	Movements     []MovementCreated
	OpenedKardex  []string
}

// Receive crea los lotes (aplicaciones = cantidad física * rendimiento) y registra una
// ENTRADA por lote. Si el insumo no tiene kardex abierto se abre el de la gestión actual.
func (uc *ReceiveUseCase) Receive(ctx context.Context, in ReceiveInput) (*ReceiveResult, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	ids := make([]int64, 0, len(in.Items))
	for _, it := range in.Items {
		if it.PhysicalQuantity <= 0 {
			return nil, fmt.Errorf("lote %s: %w", it.LotNumber, domain.ErrInvalidAmount)
		}
		if strings.TrimSpace(it.LotNumber) == "" || it.ExpirationDate.IsZero() || it.TotalCost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		ids = append(ids, it.SupplyID)
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	location := strings.TrimSpace(in.Location)
	if location == "" {
		location = uc.defaultLocation
	}
	now := uc.now()
	result := &ReceiveResult{TransactionID: uuid.New().String()}

	err := uc.txRunner.Run(ctx, func(r Repos) error {
		result.Lots = result.Lots[:0]
		result.Movements = result.Movements[:0]
		result.OpenedKardex = result.OpenedKardex[:0]

		if _, err := operatorName(ctx, r, in.OperatorID); err != nil {
			return err
		}
		supplies, err := lockSupplies(ctx, r, ids)
		if err != nil {
			return err
		}
		for _, it := range in.Items {
			supply := supplies[it.SupplyID]
			apps := supply.ApplicationsFor(it.PhysicalQuantity)
			lot := &entity.Lot{
				SupplyID:         supply.ID,
				LotNumber:        strings.TrimSpace(it.LotNumber),
				ExpirationDate:   it.ExpirationDate,
				PhysicalQuantity: it.PhysicalQuantity,
				TotalCost:        it.TotalCost,
				RemainingUnits:   apps,
				RegisteredBy:     in.OperatorID,
				CreatedAt:        now,
			}
			if err := r.Lots.Create(ctx, lot); err != nil {
				return fmt.Errorf("lote %s: %w", lot.LotNumber, err)
			}

			k, opened, err := openOrCreateLedger(ctx, r, supply.ID, location, now)
			if err != nil {
				return err
			}
			if opened {
				result.OpenedKardex = append(result.OpenedKardex, k.Number)
			}

			unitCost := rules.EntryUnitCost(it.TotalCost, apps)
			lotID := lot.ID
			m, err := postMovement(ctx, r, posting{
				kardex:        k,
				lotID:         &lotID,
				transactionID: result.TransactionID,
				kind:          entity.MovementEntrada,
				quantity:      apps,
				entryCost:     unitCost,
				documentKey:   in.DocumentRef,
				receivedFrom:  in.ReceivedFrom,
				receivedBy:    in.OperatorID,
				at:            now,
			})
			if err != nil {
				return err
			}
			result.Lots = append(result.Lots, ReceivedLot{
				LotID:        lot.ID,
				SupplyID:     supply.ID,
				LotNumber:    lot.LotNumber,
				Applications: apps,
				UnitCost:     unitCost,
			})
			result.Movements = append(result.Movements, newMovementCreated(m, supply.ID, lot.LotNumber))
		}
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("document", in.DocumentRef).Msg("recepción rechazada")
		return nil, err
	}
	uc.log.Info().
		Str("document", in.DocumentRef).
		Str("transaction_id", result.TransactionID).
		Int("lots", len(result.Lots)).
		Strs("opened_kardex", result.OpenedKardex).
		Msg("recepción registrada")
	return result, nil
}
