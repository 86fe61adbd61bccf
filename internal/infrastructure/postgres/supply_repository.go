package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.SupplyRepository = (*SupplyRepo)(nil)

const supplyColumns = `i.id_insumo, i.codigo, i.nombre_generico, i.presentacion, i.unidad_medida,
	i.aplicaciones_minimas, i.rendimiento_teorico, i.costo_unitario, i.fecha_creacion`

// SupplyRepo implementación de SupplyRepository sobre PostgreSQL (usable con pool o tx).
type SupplyRepo struct {
	q Querier
}

// NewSupplyRepository construye el adaptador de insumos. Pasar pool o tx (Querier).
func NewSupplyRepository(q Querier) *SupplyRepo {
	return &SupplyRepo{q: q}
}

func scanSupply(row pgx.Row, s *entity.Supply, extra ...any) error {
	dest := []any{
		&s.ID, &s.Code, &s.GenericName, &s.Presentation, &s.UnitMeasure,
		&s.MinimumApplications, &s.Yield, &s.UnitCost, &s.CreatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

// GetByID obtiene un insumo por ID.
func (r *SupplyRepo) GetByID(ctx context.Context, id int64) (*entity.Supply, error) {
	query := `SELECT ` + supplyColumns + ` FROM insumos i WHERE i.id_insumo = $1`
	return r.getOne(ctx, query, id)
}

// GetByCode obtiene un insumo por código.
func (r *SupplyRepo) GetByCode(ctx context.Context, code string) (*entity.Supply, error) {
	query := `SELECT ` + supplyColumns + ` FROM insumos i WHERE i.codigo = $1`
	return r.getOne(ctx, query, code)
}

// LockForUpdate obtiene el insumo bloqueando la fila (SELECT FOR UPDATE). nil si no existe.
func (r *SupplyRepo) LockForUpdate(ctx context.Context, id int64) (*entity.Supply, error) {
	query := `SELECT ` + supplyColumns + ` FROM insumos i WHERE i.id_insumo = $1 FOR UPDATE`
	s, err := r.getOne(ctx, query, id)
	if errors.Is(err, domain.ErrSupplyNotFound) {
		return nil, nil
	}
	return s, err
}

func (r *SupplyRepo) getOne(ctx context.Context, query string, arg any) (*entity.Supply, error) {
	var s entity.Supply
	if err := scanSupply(r.q.QueryRow(ctx, query, arg), &s); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSupplyNotFound
		}
		return nil, fmt.Errorf("get supply: %w", err)
	}
	return &s, nil
}

// Search busca por código o nombre genérico (ILIKE).
func (r *SupplyRepo) Search(ctx context.Context, term string, limit int) ([]*entity.Supply, error) {
	query := `
		SELECT ` + supplyColumns + `
		FROM insumos i
		WHERE i.codigo ILIKE $1 ESCAPE '\' OR i.nombre_generico ILIKE $1 ESCAPE '\'
		ORDER BY i.nombre_generico
		LIMIT $2`
	rows, err := r.q.Query(ctx, query, containsPattern(term), limit)
	if err != nil {
		return nil, fmt.Errorf("search supplies: %w", err)
	}
	defer rows.Close()

	var list []*entity.Supply
	for rows.Next() {
		var s entity.Supply
		if err := scanSupply(rows, &s); err != nil {
			return nil, fmt.Errorf("scan supply: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// ListStock aplicaciones disponibles por insumo con el último saldo del kardex abierto.
// Ordena por disponibilidad relativa al mínimo para que el LIMIT conserve los críticos.
func (r *SupplyRepo) ListStock(ctx context.Context, limit int) ([]*entity.SupplyStock, error) {
	query := `
		SELECT ` + supplyColumns + `,
			COALESCE(l.total, 0),
			k.id_kardex, k.numero_kardex, d.saldo, d.saldo_valorado
		FROM insumos i
		LEFT JOIN (
			SELECT id_insumo, SUM(aplicaciones_disponibles) AS total
			FROM lotes GROUP BY id_insumo
		) l ON l.id_insumo = i.id_insumo
		LEFT JOIN kardex k ON k.id_insumo = i.id_insumo AND k.abierto
		LEFT JOIN LATERAL (
			SELECT saldo, saldo_valorado FROM detalle_kardex
			WHERE id_kardex = k.id_kardex
			ORDER BY fecha DESC, id_detalle DESC
			LIMIT 1
		) d ON TRUE
		ORDER BY COALESCE(l.total, 0)::numeric / NULLIF(i.aplicaciones_minimas, 0) ASC NULLS LAST, i.codigo
		LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()

	var list []*entity.SupplyStock
	for rows.Next() {
		var s entity.SupplyStock
		if err := scanSupply(rows, &s.Supply,
			&s.AvailableApplications, &s.KardexID, &s.KardexNumber, &s.KardexBalance, &s.KardexValue,
		); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Upsert crea o actualiza el insumo por código.
func (r *SupplyRepo) Upsert(ctx context.Context, s *entity.Supply) error {
	query := `
		INSERT INTO insumos (codigo, nombre_generico, presentacion, unidad_medida,
			aplicaciones_minimas, rendimiento_teorico, costo_unitario)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (codigo) DO UPDATE SET
			nombre_generico = EXCLUDED.nombre_generico,
			presentacion = EXCLUDED.presentacion,
			unidad_medida = EXCLUDED.unidad_medida,
			aplicaciones_minimas = EXCLUDED.aplicaciones_minimas,
			rendimiento_teorico = EXCLUDED.rendimiento_teorico,
			costo_unitario = EXCLUDED.costo_unitario
		RETURNING id_insumo, fecha_creacion`
	err := r.q.QueryRow(ctx, query,
		s.Code, s.GenericName, s.Presentation, s.UnitMeasure,
		s.MinimumApplications, s.Yield, s.UnitCost,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert supply: %w", err)
	}
	return nil
}
