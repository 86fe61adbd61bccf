// Package kardextest provee un almacenamiento en memoria con transacciones
// (snapshot y restauración) para probar el motor de kardex sin PostgreSQL.
package kardextest

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/kardex-api/internal/application/kardex"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

var _ kardex.TxRunner = (*Store)(nil)

type state struct {
	supplies  map[int64]entity.Supply
	lots      map[int64]entity.Lot
	kardex    map[int64]entity.Kardex
	movements []entity.Movement
	users     map[string]entity.User
	seq       int64
}

func newState() *state {
	return &state{
		supplies: map[int64]entity.Supply{},
		lots:     map[int64]entity.Lot{},
		kardex:   map[int64]entity.Kardex{},
		users:    map[string]entity.User{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.supplies {
		c.supplies[k] = v
	}
	for k, v := range s.lots {
		c.lots[k] = v
	}
	for k, v := range s.kardex {
		c.kardex[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	c.movements = append([]entity.Movement(nil), s.movements...)
	c.seq = s.seq
	return c
}

func (s *state) nextID() int64 {
	s.seq++
	return s.seq
}

// Store almacenamiento en memoria. Las transacciones se serializan con un mutex,
// equivalente a los bloqueos de fila del adaptador PostgreSQL.
type Store struct {
	mu sync.Mutex
	st *state

	// AppendHook, si no es nil, se ejecuta antes de cada Append; un error aborta la operación.
	AppendHook func(m *entity.Movement) error

	gestionLocks []int
}

// GestionLocks gestiones bloqueadas para numerar kardex, en orden de llamada.
func (s *Store) GestionLocks() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.gestionLocks...)
}

// NewStore crea un almacenamiento vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn en una transacción: si fn falla se restaura el estado previo.
func (s *Store) Run(ctx context.Context, fn func(r kardex.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	snapshot := s.st.clone()
	if err := fn(s.repos(true)); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// Repos repositorios fuera de transacción (cada llamada toma el mutex).
func (s *Store) Repos() kardex.Repos {
	return s.repos(false)
}

func (s *Store) repos(inTx bool) kardex.Repos {
	sc := &scope{store: s, inTx: inTx}
	return kardex.Repos{
		Supplies:  &supplyRepo{sc},
		Lots:      &lotRepo{sc},
		Kardex:    &kardexRepo{sc},
		Movements: &movementRepo{sc},
		Users:     &userRepo{sc},
	}
}

// scope da acceso al estado; fuera de transacción toma el mutex en cada operación.
type scope struct {
	store *Store
	inTx  bool
}

func (sc *scope) do(fn func(st *state) error) error {
	if !sc.inTx {
		sc.store.mu.Lock()
		defer sc.store.mu.Unlock()
	}
	return fn(sc.store.st)
}

// ──────────────────────────────────────────────────────────────────────────────
// Carga de datos para tests
// ──────────────────────────────────────────────────────────────────────────────

// AddSupply registra un insumo y devuelve su ID.
func (s *Store) AddSupply(sp entity.Supply) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sp.ID == 0 {
		sp.ID = s.st.nextID()
	}
	s.st.supplies[sp.ID] = sp
	return sp.ID
}

// AddLot registra un lote y devuelve su ID.
func (s *Store) AddLot(l entity.Lot) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == 0 {
		l.ID = s.st.nextID()
	}
	s.st.lots[l.ID] = l
	return l.ID
}

// OpenKardex registra un kardex abierto para el insumo y devuelve su ID.
func (s *Store) OpenKardex(supplyID int64, gestion int, openedAt time.Time) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	seq := 1
	for _, k := range s.st.kardex {
		if k.Gestion == gestion {
			seq++
		}
	}
	id := s.st.nextID()
	s.st.kardex[id] = entity.Kardex{
		ID:       id,
		SupplyID: supplyID,
		Number:   entity.KardexNumber(gestion, seq),
		Gestion:  gestion,
		Location: "Almacén Principal",
		OpenedAt: openedAt,
		Open:     true,
	}
	return id
}

// AddUser registra un operador.
func (s *Store) AddUser(u entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.users[u.CI] = u
}

// Lot devuelve una copia del lote.
func (s *Store) Lot(id int64) entity.Lot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.lots[id]
}

// Kardex devuelve una copia del kardex.
func (s *Store) Kardex(id int64) entity.Kardex {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.kardex[id]
}

// Movements devuelve los movimientos del kardex en orden de registro.
func (s *Store) Movements(kardexID int64) []entity.Movement {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.Movement
	for _, m := range s.st.movements {
		if m.KardexID == kardexID {
			out = append(out, m)
		}
	}
	return out
}

// MovementCount cantidad total de movimientos registrados.
func (s *Store) MovementCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.movements)
}

// FixedClock reloj que siempre devuelve t.
func FixedClock(t time.Time) kardex.Clock {
	return func() time.Time { return t }
}
