package kardex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	rules "github.com/jhoicas/kardex-api/internal/domain/kardex"
)

// posting datos de un movimiento a registrar en el kardex abierto de un insumo.
type posting struct {
	kardex        *entity.Kardex
	lotID         *int64
	transactionID string
	kind          entity.MovementKind
	quantity      int64
	entryCost     decimal.Decimal // solo ENTRADA
	documentKey   string
	receivedFrom  string
	receivedBy    string
	reason        string
	at            time.Time
}

// postMovement agrega un movimiento al kardex. El saldo se recalcula desde los lotes
// (suma de todas las aplicaciones del insumo) y el costo unitario se arrastra del
// último movimiento salvo en entradas.
func postMovement(ctx context.Context, r Repos, p posting) (*entity.Movement, error) {
	balance, err := r.Lots.TotalRemaining(ctx, p.kardex.SupplyID)
	if err != nil {
		return nil, fmt.Errorf("saldo del insumo %d: %w", p.kardex.SupplyID, err)
	}
	last, err := r.Movements.Last(ctx, p.kardex.ID)
	if err != nil {
		return nil, fmt.Errorf("último movimiento del kardex %d: %w", p.kardex.ID, err)
	}
	cost := rules.NextUnitCost(p.kind, last, p.entryCost)

	mv := entity.NewMovement(p.kardex.ID, p.kind, p.quantity, p.at)
	m := &mv
	m.LotID = p.lotID
	m.TransactionID = p.transactionID
	m.Balance = balance
	m.UnitCost = cost
	m.BalanceValue = rules.Valuate(balance, cost)
	m.DocumentKey = p.documentKey
	m.ReceivedFrom = p.receivedFrom
	m.ReceivedBy = p.receivedBy
	m.Reason = p.reason
	if err := r.Movements.Append(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// openLedger crea el kardex de la gestión con el siguiente correlativo K-<gestion>-NNN.
func openLedger(ctx context.Context, r Repos, supplyID int64, gestion int, location string, at time.Time) (*entity.Kardex, error) {
	if err := r.Kardex.LockGestion(ctx, gestion); err != nil {
		return nil, err
	}
	count, err := r.Kardex.CountByGestion(ctx, gestion)
	if err != nil {
		return nil, err
	}
	k := &entity.Kardex{
		SupplyID: supplyID,
		Number:   entity.KardexNumber(gestion, count+1),
		Gestion:  gestion,
		Location: location,
		OpenedAt: at,
		Open:     true,
	}
	if err := r.Kardex.Create(ctx, k); err != nil {
		return nil, err
	}
	return k, nil
}

// openOrCreateLedger devuelve el kardex abierto del insumo, creándolo si no existe.
func openOrCreateLedger(ctx context.Context, r Repos, supplyID int64, location string, at time.Time) (*entity.Kardex, bool, error) {
	k, err := r.Kardex.GetOpen(ctx, supplyID)
	if err == nil {
		return k, false, nil
	}
	if !errors.Is(err, domain.ErrNoOpenLedger) {
		return nil, false, err
	}
	k, err = openLedger(ctx, r, supplyID, at.Year(), location, at)
	if err != nil {
		return nil, false, err
	}
	return k, true, nil
}

// operatorName resuelve el nombre del operador para recibido_de.
func operatorName(ctx context.Context, r Repos, ci string) (string, error) {
	if ci == "" {
		return "", domain.ErrInvalidInput
	}
	u, err := r.Users.GetByCI(ctx, ci)
	if err != nil {
		return "", fmt.Errorf("operador %s: %w", ci, err)
	}
	return u.FullName(), nil
}

// lockSupplies bloquea las filas de los insumos en orden ascendente de ID.
func lockSupplies(ctx context.Context, r Repos, ids []int64) (map[int64]*entity.Supply, error) {
	out := make(map[int64]*entity.Supply, len(ids))
	for _, id := range ids {
		s, err := r.Supplies.LockForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if s == nil {
			return nil, fmt.Errorf("insumo %d: %w", id, domain.ErrSupplyNotFound)
		}
		out[id] = s
	}
	return out, nil
}
