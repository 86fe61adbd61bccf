package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

const lotColumns = `id_lote, id_insumo, numero_lote, fecha_vencimiento, cantidad_insumos, costo_total,
	aplicaciones_disponibles, notificado_vencimiento, COALESCE(id_usuario, ''), fecha_creacion`

// LotRepo implementación de LotRepository sobre PostgreSQL (usable con pool o tx).
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

func scanLot(row pgx.Row, l *entity.Lot) error {
	return row.Scan(
		&l.ID, &l.SupplyID, &l.LotNumber, &l.ExpirationDate, &l.PhysicalQuantity, &l.TotalCost,
		&l.RemainingUnits, &l.ExpiryNotified, &l.RegisteredBy, &l.CreatedAt,
	)
}

func (r *LotRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Lot, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()

	list := []*entity.Lot{}
	for rows.Next() {
		var l entity.Lot
		if err := scanLot(rows, &l); err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// Create persiste un lote nuevo. domain.ErrDuplicate si el número de lote ya existe para el insumo.
func (r *LotRepo) Create(ctx context.Context, l *entity.Lot) error {
	query := `
		INSERT INTO lotes (id_insumo, numero_lote, fecha_vencimiento, cantidad_insumos, costo_total,
			aplicaciones_disponibles, id_usuario, fecha_creacion)
		VALUES ($1, $2, $3::date, $4, $5, $6, NULLIF($7, ''), $8)
		RETURNING id_lote`
	err := r.q.QueryRow(ctx, query,
		l.SupplyID, l.LotNumber, sqlDate(l.ExpirationDate), l.PhysicalQuantity, l.TotalCost,
		l.RemainingUnits, l.RegisteredBy, l.CreatedAt,
	).Scan(&l.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert lot: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID.
func (r *LotRepo) GetByID(ctx context.Context, id int64) (*entity.Lot, error) {
	return r.getOne(ctx, `SELECT `+lotColumns+` FROM lotes WHERE id_lote = $1`, id)
}

// GetForUpdate obtiene el lote y bloquea la fila (SELECT FOR UPDATE).
func (r *LotRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Lot, error) {
	return r.getOne(ctx, `SELECT `+lotColumns+` FROM lotes WHERE id_lote = $1 FOR UPDATE`, id)
}

func (r *LotRepo) getOne(ctx context.Context, query string, id int64) (*entity.Lot, error) {
	var l entity.Lot
	if err := scanLot(r.q.QueryRow(ctx, query, id), &l); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLotNotFound
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return &l, nil
}

// ListBySupply todos los lotes del insumo en orden FIFO.
func (r *LotRepo) ListBySupply(ctx context.Context, supplyID int64) ([]*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lotes WHERE id_insumo = $1 ORDER BY fecha_vencimiento, id_lote`
	return r.list(ctx, query, supplyID)
}

// ListEligible lotes con aplicaciones y no vencidos, en orden FIFO, bloqueados para update.
func (r *LotRepo) ListEligible(ctx context.Context, supplyID int64, today time.Time) ([]*entity.Lot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM lotes
		WHERE id_insumo = $1 AND aplicaciones_disponibles > 0 AND fecha_vencimiento >= $2::date
		ORDER BY fecha_vencimiento ASC, id_lote ASC
		FOR UPDATE`
	return r.list(ctx, query, supplyID, sqlDate(today))
}

// Deduct resta amount solo si alcanza (compare-and-swap en el WHERE).
func (r *LotRepo) Deduct(ctx context.Context, lotID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}
	query := `
		UPDATE lotes SET aplicaciones_disponibles = aplicaciones_disponibles - $2
		WHERE id_lote = $1 AND aplicaciones_disponibles >= $2
		RETURNING aplicaciones_disponibles`
	var remaining int64
	err := r.q.QueryRow(ctx, query, lotID, amount).Scan(&remaining)
	if err == nil {
		return remaining, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("deduct lot: %w", err)
	}
	if _, err := r.GetByID(ctx, lotID); err != nil {
		return 0, err
	}
	return 0, fmt.Errorf("descontar %d de lote %d: %w", amount, lotID, domain.ErrInvalidAmount)
}

// Adjust aplica delta acotando el resultado a 0.
func (r *LotRepo) Adjust(ctx context.Context, lotID, delta int64) (int64, error) {
	query := `
		UPDATE lotes SET aplicaciones_disponibles = GREATEST(0, aplicaciones_disponibles + $2)
		WHERE id_lote = $1
		RETURNING aplicaciones_disponibles`
	var remaining int64
	if err := r.q.QueryRow(ctx, query, lotID, delta).Scan(&remaining); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrLotNotFound
		}
		return 0, fmt.Errorf("adjust lot: %w", err)
	}
	return remaining, nil
}

// TotalRemaining suma de aplicaciones de todos los lotes del insumo, vencidos incluidos.
func (r *LotRepo) TotalRemaining(ctx context.Context, supplyID int64) (int64, error) {
	query := `SELECT COALESCE(SUM(aplicaciones_disponibles), 0) FROM lotes WHERE id_insumo = $1`
	var total int64
	if err := r.q.QueryRow(ctx, query, supplyID).Scan(&total); err != nil {
		return 0, fmt.Errorf("total remaining: %w", err)
	}
	return total, nil
}

// ListExpiredUnnotified lotes vencidos con aplicaciones sin notificar. supplyID 0 = todos.
func (r *LotRepo) ListExpiredUnnotified(ctx context.Context, supplyID int64, today time.Time) ([]*entity.Lot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM lotes
		WHERE fecha_vencimiento < $1::date
		  AND aplicaciones_disponibles > 0
		  AND NOT notificado_vencimiento
		  AND ($2::bigint = 0 OR id_insumo = $2)
		ORDER BY fecha_vencimiento, id_lote`
	return r.list(ctx, query, sqlDate(today), supplyID)
}

// MarkExpiryNotified marca los lotes como notificados; devuelve las filas cambiadas.
func (r *LotRepo) MarkExpiryNotified(ctx context.Context, lotIDs []int64) (int64, error) {
	query := `UPDATE lotes SET notificado_vencimiento = TRUE WHERE id_lote = ANY($1) AND NOT notificado_vencimiento`
	tag, err := r.q.Exec(ctx, query, lotIDs)
	if err != nil {
		return 0, fmt.Errorf("mark expiry notified: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListExpiringWithin lotes con aplicaciones que vencen entre today y today + days.
func (r *LotRepo) ListExpiringWithin(ctx context.Context, today time.Time, days int) ([]*entity.Lot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM lotes
		WHERE aplicaciones_disponibles > 0
		  AND fecha_vencimiento >= $1::date
		  AND fecha_vencimiento <= $1::date + $2::int
		ORDER BY fecha_vencimiento, id_lote`
	return r.list(ctx, query, sqlDate(today), days)
}
