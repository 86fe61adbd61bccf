package kardextest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var (
	_ repository.SupplyRepository   = (*supplyRepo)(nil)
	_ repository.LotRepository      = (*lotRepo)(nil)
	_ repository.KardexRepository   = (*kardexRepo)(nil)
	_ repository.MovementRepository = (*movementRepo)(nil)
	_ repository.UserRepository     = (*userRepo)(nil)
)

// ──────────────────────────────────────────────────────────────────────────────
// Insumos
// ──────────────────────────────────────────────────────────────────────────────

type supplyRepo struct{ sc *scope }

func (r *supplyRepo) GetByID(_ context.Context, id int64) (*entity.Supply, error) {
	var out *entity.Supply
	err := r.sc.do(func(st *state) error {
		s, ok := st.supplies[id]
		if !ok {
			return domain.ErrSupplyNotFound
		}
		out = &s
		return nil
	})
	return out, err
}

func (r *supplyRepo) GetByCode(_ context.Context, code string) (*entity.Supply, error) {
	var out *entity.Supply
	err := r.sc.do(func(st *state) error {
		for _, s := range st.supplies {
			if s.Code == code {
				out = &s
				return nil
			}
		}
		return domain.ErrSupplyNotFound
	})
	return out, err
}

func (r *supplyRepo) LockForUpdate(_ context.Context, id int64) (*entity.Supply, error) {
	var out *entity.Supply
	err := r.sc.do(func(st *state) error {
		if s, ok := st.supplies[id]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *supplyRepo) Search(_ context.Context, term string, limit int) ([]*entity.Supply, error) {
	term = strings.ToLower(term)
	var out []*entity.Supply
	err := r.sc.do(func(st *state) error {
		for _, s := range st.supplies {
			if strings.Contains(strings.ToLower(s.Code), term) || strings.Contains(strings.ToLower(s.GenericName), term) {
				out = append(out, &s)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].GenericName < out[j].GenericName })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

func (r *supplyRepo) ListStock(_ context.Context, limit int) ([]*entity.SupplyStock, error) {
	var out []*entity.SupplyStock
	err := r.sc.do(func(st *state) error {
		for _, s := range st.supplies {
			row := &entity.SupplyStock{Supply: s}
			for _, l := range st.lots {
				if l.SupplyID == s.ID {
					row.AvailableApplications += l.RemainingUnits
				}
			}
			if k, ok := openKardex(st, s.ID); ok {
				id, number := k.ID, k.Number
				row.KardexID, row.KardexNumber = &id, &number
				if m := lastMovement(st, k.ID); m != nil {
					balance, value := m.Balance, m.BalanceValue
					row.KardexBalance, row.KardexValue = &balance, &value
				}
			}
			out = append(out, row)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

func (r *supplyRepo) Upsert(_ context.Context, s *entity.Supply) error {
	return r.sc.do(func(st *state) error {
		for id, existing := range st.supplies {
			if existing.Code == s.Code {
				s.ID = id
				st.supplies[id] = *s
				return nil
			}
		}
		s.ID = st.nextID()
		st.supplies[s.ID] = *s
		return nil
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Lotes
// ──────────────────────────────────────────────────────────────────────────────

type lotRepo struct{ sc *scope }

func (r *lotRepo) Create(_ context.Context, l *entity.Lot) error {
	return r.sc.do(func(st *state) error {
		for _, existing := range st.lots {
			if existing.SupplyID == l.SupplyID && existing.LotNumber == l.LotNumber {
				return domain.ErrDuplicate
			}
		}
		l.ID = st.nextID()
		st.lots[l.ID] = *l
		return nil
	})
}

func (r *lotRepo) GetByID(_ context.Context, id int64) (*entity.Lot, error) {
	var out *entity.Lot
	err := r.sc.do(func(st *state) error {
		l, ok := st.lots[id]
		if !ok {
			return domain.ErrLotNotFound
		}
		out = &l
		return nil
	})
	return out, err
}

func (r *lotRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Lot, error) {
	return r.GetByID(ctx, id)
}

func (r *lotRepo) ListBySupply(_ context.Context, supplyID int64) ([]*entity.Lot, error) {
	return r.filter(func(l entity.Lot) bool { return l.SupplyID == supplyID })
}

func (r *lotRepo) ListEligible(_ context.Context, supplyID int64, today time.Time) ([]*entity.Lot, error) {
	return r.filter(func(l entity.Lot) bool { return l.SupplyID == supplyID && l.IsEligible(today) })
}

func (r *lotRepo) Deduct(_ context.Context, lotID, amount int64) (int64, error) {
	var remaining int64
	err := r.sc.do(func(st *state) error {
		l, ok := st.lots[lotID]
		if !ok {
			return domain.ErrLotNotFound
		}
		if amount <= 0 || amount > l.RemainingUnits {
			return fmt.Errorf("descontar %d de lote %d: %w", amount, lotID, domain.ErrInvalidAmount)
		}
		l.RemainingUnits -= amount
		st.lots[lotID] = l
		remaining = l.RemainingUnits
		return nil
	})
	return remaining, err
}

func (r *lotRepo) Adjust(_ context.Context, lotID, delta int64) (int64, error) {
	var remaining int64
	err := r.sc.do(func(st *state) error {
		l, ok := st.lots[lotID]
		if !ok {
			return domain.ErrLotNotFound
		}
		l.RemainingUnits = max(l.RemainingUnits+delta, 0)
		st.lots[lotID] = l
		remaining = l.RemainingUnits
		return nil
	})
	return remaining, err
}

func (r *lotRepo) TotalRemaining(_ context.Context, supplyID int64) (int64, error) {
	var total int64
	err := r.sc.do(func(st *state) error {
		for _, l := range st.lots {
			if l.SupplyID == supplyID {
				total += l.RemainingUnits
			}
		}
		return nil
	})
	return total, err
}

func (r *lotRepo) ListExpiredUnnotified(_ context.Context, supplyID int64, today time.Time) ([]*entity.Lot, error) {
	return r.filter(func(l entity.Lot) bool {
		return (supplyID == 0 || l.SupplyID == supplyID) &&
			l.RemainingUnits > 0 && !l.ExpiryNotified && l.IsExpired(today)
	})
}

func (r *lotRepo) MarkExpiryNotified(_ context.Context, lotIDs []int64) (int64, error) {
	var n int64
	err := r.sc.do(func(st *state) error {
		for _, id := range lotIDs {
			l, ok := st.lots[id]
			if !ok || l.ExpiryNotified {
				continue
			}
			l.ExpiryNotified = true
			st.lots[id] = l
			n++
		}
		return nil
	})
	return n, err
}

func (r *lotRepo) ListExpiringWithin(_ context.Context, today time.Time, days int) ([]*entity.Lot, error) {
	return r.filter(func(l entity.Lot) bool {
		return l.RemainingUnits > 0 && !l.IsExpired(today) && l.DaysToExpiry(today) <= days
	})
}

// filter devuelve copias de los lotes que cumplen keep, en orden FIFO.
func (r *lotRepo) filter(keep func(l entity.Lot) bool) ([]*entity.Lot, error) {
	out := []*entity.Lot{}
	err := r.sc.do(func(st *state) error {
		for _, l := range st.lots {
			if keep(l) {
				out = append(out, &l)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ExpirationDate.Equal(out[j].ExpirationDate) {
			return out[i].ExpirationDate.Before(out[j].ExpirationDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

// ──────────────────────────────────────────────────────────────────────────────
// Kardex
// ──────────────────────────────────────────────────────────────────────────────

type kardexRepo struct{ sc *scope }

func openKardex(st *state, supplyID int64) (entity.Kardex, bool) {
	for _, k := range st.kardex {
		if k.SupplyID == supplyID && k.Open {
			return k, true
		}
	}
	return entity.Kardex{}, false
}

func (r *kardexRepo) GetOpen(_ context.Context, supplyID int64) (*entity.Kardex, error) {
	var out *entity.Kardex
	err := r.sc.do(func(st *state) error {
		k, ok := openKardex(st, supplyID)
		if !ok {
			return domain.ErrNoOpenLedger
		}
		out = &k
		return nil
	})
	return out, err
}

func (r *kardexRepo) GetByID(_ context.Context, id int64) (*entity.Kardex, error) {
	var out *entity.Kardex
	err := r.sc.do(func(st *state) error {
		k, ok := st.kardex[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = &k
		return nil
	})
	return out, err
}

func (r *kardexRepo) LockGestion(_ context.Context, gestion int) error {
	return r.sc.do(func(*state) error {
		r.sc.store.gestionLocks = append(r.sc.store.gestionLocks, gestion)
		return nil
	})
}

func (r *kardexRepo) CountByGestion(_ context.Context, gestion int) (int, error) {
	var n int
	err := r.sc.do(func(st *state) error {
		for _, k := range st.kardex {
			if k.Gestion == gestion {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *kardexRepo) Create(_ context.Context, k *entity.Kardex) error {
	return r.sc.do(func(st *state) error {
		if _, ok := openKardex(st, k.SupplyID); ok {
			return domain.ErrLedgerAlreadyOpen
		}
		for _, other := range st.kardex {
			if other.Number == k.Number {
				return domain.ErrDuplicate
			}
		}
		k.ID = st.nextID()
		k.Open = true
		st.kardex[k.ID] = *k
		return nil
	})
}

func (r *kardexRepo) Close(_ context.Context, id int64, at time.Time) (*entity.Kardex, error) {
	var out *entity.Kardex
	err := r.sc.do(func(st *state) error {
		k, ok := st.kardex[id]
		if !ok {
			return domain.ErrNotFound
		}
		if k.Open {
			k.Open = false
			k.ClosedAt = &at
			st.kardex[id] = k
		}
		out = &k
		return nil
	})
	return out, err
}

func (r *kardexRepo) ListClosed(_ context.Context, supplyID int64) ([]*entity.KardexSummary, error) {
	var out []*entity.KardexSummary
	err := r.sc.do(func(st *state) error {
		for _, k := range st.kardex {
			if k.SupplyID != supplyID || k.Open {
				continue
			}
			sum := &entity.KardexSummary{Kardex: k}
			for _, m := range st.movements {
				if m.KardexID == k.ID {
					sum.TotalMovements++
				}
			}
			if m := lastMovement(st, k.ID); m != nil {
				balance, value := m.Balance, m.BalanceValue
				sum.FinalBalance, sum.FinalValue = &balance, &value
			}
			out = append(out, sum)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Gestion != out[j].Gestion {
			return out[i].Gestion > out[j].Gestion
		}
		return out[i].ID > out[j].ID
	})
	return out, err
}

func (r *kardexRepo) ListGestiones(_ context.Context, supplyID int64) ([]int, error) {
	var out []int
	err := r.sc.do(func(st *state) error {
		seen := map[int]bool{}
		for _, k := range st.kardex {
			if k.SupplyID == supplyID && !seen[k.Gestion] {
				seen[k.Gestion] = true
				out = append(out, k.Gestion)
			}
		}
		return nil
	})
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out, err
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos
// ──────────────────────────────────────────────────────────────────────────────

type movementRepo struct{ sc *scope }

// lastMovement último movimiento del kardex por (fecha, id).
func lastMovement(st *state, kardexID int64) *entity.Movement {
	var last *entity.Movement
	for i := range st.movements {
		m := st.movements[i]
		if m.KardexID != kardexID {
			continue
		}
		if last == nil || m.Date.After(last.Date) || (m.Date.Equal(last.Date) && m.ID > last.ID) {
			last = &m
		}
	}
	return last
}

func (r *movementRepo) Append(_ context.Context, m *entity.Movement) error {
	if hook := r.sc.store.AppendHook; hook != nil {
		if err := hook(m); err != nil {
			return err
		}
	}
	return r.sc.do(func(st *state) error {
		k, ok := st.kardex[m.KardexID]
		if !ok {
			return domain.ErrNotFound
		}
		if !k.Open {
			return domain.ErrLedgerClosed
		}
		if !m.Kind.IsValid() {
			return domain.ErrInvalidInput
		}
		m.ID = st.nextID()
		st.movements = append(st.movements, *m)
		return nil
	})
}

func (r *movementRepo) Last(_ context.Context, kardexID int64) (*entity.Movement, error) {
	var out *entity.Movement
	err := r.sc.do(func(st *state) error {
		out = lastMovement(st, kardexID)
		return nil
	})
	return out, err
}

func (r *movementRepo) ListByKardex(_ context.Context, kardexID int64, from, to *time.Time) ([]*entity.Movement, error) {
	out := []*entity.Movement{}
	err := r.sc.do(func(st *state) error {
		for _, m := range st.movements {
			if m.KardexID != kardexID || !inRange(m.Date, from, to) {
				continue
			}
			out = append(out, &m)
		}
		return nil
	})
	sortByDateID(out)
	return out, err
}

func (r *movementRepo) ListConsumptionsByOperator(_ context.Context, operatorCI string, from, to *time.Time, limit int) ([]*entity.ConsumptionRecord, error) {
	var movs []*entity.Movement
	out := []*entity.ConsumptionRecord{}
	err := r.sc.do(func(st *state) error {
		for _, m := range st.movements {
			if m.Kind == entity.MovementSalida && m.Quantity > 0 && m.ReceivedBy == operatorCI && inRange(m.Date, from, to) {
				movs = append(movs, &m)
			}
		}
		sortByDateID(movs)
		for i := len(movs) - 1; i >= 0 && len(out) < limit; i-- {
			m := movs[i]
			rec := &entity.ConsumptionRecord{
				MovementID:   m.ID,
				Date:         m.Date,
				Quantity:     m.Quantity,
				DocumentKey:  m.DocumentKey,
				BalanceValue: m.BalanceValue,
			}
			if k, ok := st.kardex[m.KardexID]; ok {
				s := st.supplies[k.SupplyID]
				rec.SupplyCode, rec.SupplyName = s.Code, s.GenericName
			}
			if m.LotID != nil {
				if l, ok := st.lots[*m.LotID]; ok {
					number := l.LotNumber
					rec.LotNumber = &number
				}
			}
			out = append(out, rec)
		}
		return nil
	})
	return out, err
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

func sortByDateID(ms []*entity.Movement) {
	sort.Slice(ms, func(i, j int) bool {
		if !ms[i].Date.Equal(ms[j].Date) {
			return ms[i].Date.Before(ms[j].Date)
		}
		return ms[i].ID < ms[j].ID
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Operadores
// ──────────────────────────────────────────────────────────────────────────────

type userRepo struct{ sc *scope }

func (r *userRepo) GetByCI(_ context.Context, ci string) (*entity.User, error) {
	var out *entity.User
	err := r.sc.do(func(st *state) error {
		u, ok := st.users[ci]
		if !ok {
			return domain.ErrUserNotFound
		}
		out = &u
		return nil
	})
	return out, err
}

func (r *userRepo) Upsert(_ context.Context, u *entity.User) error {
	return r.sc.do(func(st *state) error {
		st.users[u.CI] = *u
		return nil
	})
}
