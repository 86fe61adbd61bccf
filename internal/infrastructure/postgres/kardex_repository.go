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

var _ repository.KardexRepository = (*KardexRepo)(nil)

// openLedgerConstraint índice único parcial: un solo kardex abierto por insumo.
const openLedgerConstraint = "uq_kardex_abierto"

// kardexNumberLockKey primer componente del advisory lock de numeración (el segundo es la gestión).
const kardexNumberLockKey = 7301

const kardexColumns = `k.id_kardex, k.id_insumo, k.numero_kardex, k.gestion, k.ubicacion,
	k.fecha_apertura, k.fecha_cierre, k.abierto`

// KardexRepo implementación de KardexRepository sobre PostgreSQL (usable con pool o tx).
type KardexRepo struct {
	q Querier
}

// NewKardexRepository construye el adaptador de kardex. Pasar pool o tx (Querier).
func NewKardexRepository(q Querier) *KardexRepo {
	return &KardexRepo{q: q}
}

func scanKardex(row pgx.Row, k *entity.Kardex, extra ...any) error {
	dest := []any{&k.ID, &k.SupplyID, &k.Number, &k.Gestion, &k.Location, &k.OpenedAt, &k.ClosedAt, &k.Open}
	return row.Scan(append(dest, extra...)...)
}

// GetOpen kardex abierto del insumo; domain.ErrNoOpenLedger si no hay.
func (r *KardexRepo) GetOpen(ctx context.Context, supplyID int64) (*entity.Kardex, error) {
	query := `SELECT ` + kardexColumns + ` FROM kardex k WHERE k.id_insumo = $1 AND k.abierto`
	var k entity.Kardex
	if err := scanKardex(r.q.QueryRow(ctx, query, supplyID), &k); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNoOpenLedger
		}
		return nil, fmt.Errorf("get open kardex: %w", err)
	}
	return &k, nil
}

// GetByID obtiene un kardex por ID.
func (r *KardexRepo) GetByID(ctx context.Context, id int64) (*entity.Kardex, error) {
	query := `SELECT ` + kardexColumns + ` FROM kardex k WHERE k.id_kardex = $1`
	var k entity.Kardex
	if err := scanKardex(r.q.QueryRow(ctx, query, id), &k); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get kardex: %w", err)
	}
	return &k, nil
}

// LockGestion toma un advisory lock de transacción por gestión; sin él dos aperturas
// concurrentes de insumos distintos leen el mismo correlativo.
func (r *KardexRepo) LockGestion(ctx context.Context, gestion int) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock($1::int, $2::int)`, kardexNumberLockKey, gestion); err != nil {
		return fmt.Errorf("lock gestion %d: %w", gestion, err)
	}
	return nil
}

// CountByGestion cantidad de kardex de la gestión.
func (r *KardexRepo) CountByGestion(ctx context.Context, gestion int) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM kardex WHERE gestion = $1`, gestion).Scan(&n); err != nil {
		return 0, fmt.Errorf("count kardex: %w", err)
	}
	return n, nil
}

// Create inserta un kardex abierto.
func (r *KardexRepo) Create(ctx context.Context, k *entity.Kardex) error {
	query := `
		INSERT INTO kardex (id_insumo, numero_kardex, gestion, ubicacion, fecha_apertura, abierto)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING id_kardex`
	err := r.q.QueryRow(ctx, query, k.SupplyID, k.Number, k.Gestion, k.Location, k.OpenedAt).Scan(&k.ID)
	if err != nil {
		if isUniqueViolation(err) {
			if violatedConstraint(err) == openLedgerConstraint {
				return domain.ErrLedgerAlreadyOpen
			}
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert kardex: %w", err)
	}
	k.Open = true
	return nil
}

// Close cierra el kardex; si ya estaba cerrado conserva la fecha de cierre original.
func (r *KardexRepo) Close(ctx context.Context, id int64, at time.Time) (*entity.Kardex, error) {
	query := `
		UPDATE kardex k SET abierto = FALSE, fecha_cierre = COALESCE(k.fecha_cierre, $2)
		WHERE k.id_kardex = $1
		RETURNING ` + kardexColumns
	var k entity.Kardex
	if err := scanKardex(r.q.QueryRow(ctx, query, id, at), &k); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("close kardex: %w", err)
	}
	return &k, nil
}

// ListClosed kardex cerrados del insumo con cantidad de movimientos y saldo final.
func (r *KardexRepo) ListClosed(ctx context.Context, supplyID int64) ([]*entity.KardexSummary, error) {
	query := `
		SELECT ` + kardexColumns + `,
			(SELECT COUNT(*) FROM detalle_kardex d WHERE d.id_kardex = k.id_kardex),
			last.saldo, last.saldo_valorado
		FROM kardex k
		LEFT JOIN LATERAL (
			SELECT saldo, saldo_valorado FROM detalle_kardex
			WHERE id_kardex = k.id_kardex
			ORDER BY fecha DESC, id_detalle DESC
			LIMIT 1
		) last ON TRUE
		WHERE k.id_insumo = $1 AND NOT k.abierto
		ORDER BY k.gestion DESC, k.id_kardex DESC`
	rows, err := r.q.Query(ctx, query, supplyID)
	if err != nil {
		return nil, fmt.Errorf("list closed kardex: %w", err)
	}
	defer rows.Close()

	list := []*entity.KardexSummary{}
	for rows.Next() {
		var s entity.KardexSummary
		if err := scanKardex(rows, &s.Kardex, &s.TotalMovements, &s.FinalBalance, &s.FinalValue); err != nil {
			return nil, fmt.Errorf("scan kardex summary: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// ListGestiones gestiones con kardex del insumo, más reciente primero.
func (r *KardexRepo) ListGestiones(ctx context.Context, supplyID int64) ([]int, error) {
	rows, err := r.q.Query(ctx, `SELECT DISTINCT gestion FROM kardex WHERE id_insumo = $1 ORDER BY gestion DESC`, supplyID)
	if err != nil {
		return nil, fmt.Errorf("list gestiones: %w", err)
	}
	defer rows.Close()

	years := []int{}
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, fmt.Errorf("scan gestion: %w", err)
		}
		years = append(years, y)
	}
	return years, rows.Err()
}
