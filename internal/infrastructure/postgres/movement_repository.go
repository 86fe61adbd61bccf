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

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id_detalle, id_kardex, id_lote, COALESCE(transaccion_id::text, ''), fecha, tipo,
	cantidad, saldo, costo_unitario, saldo_valorado, clave_doc, recibido_de, recepcionado_por, motivo`

// MovementRepo implementación de MovementRepository sobre PostgreSQL (usable con pool o tx).
// La tabla detalle_kardex es append-only: no hay UPDATE ni DELETE.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador de movimientos. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

func scanMovement(row pgx.Row, m *entity.Movement) error {
	var kind string
	err := row.Scan(
		&m.ID, &m.KardexID, &m.LotID, &m.TransactionID, &m.Date, &kind,
		&m.Quantity, &m.Balance, &m.UnitCost, &m.BalanceValue,
		&m.DocumentKey, &m.ReceivedFrom, &m.ReceivedBy, &m.Reason,
	)
	m.Kind = entity.MovementKind(kind)
	return err
}

// Append inserta el movimiento solo si el kardex sigue abierto. Las columnas legacy
// entradas/salidas/ajustes se derivan del tipo.
func (r *MovementRepo) Append(ctx context.Context, m *entity.Movement) error {
	if !m.Kind.IsValid() {
		return domain.ErrInvalidInput
	}
	query := `
		INSERT INTO detalle_kardex (id_kardex, id_lote, transaccion_id, fecha, tipo, cantidad,
			entradas, salidas, ajustes, saldo, costo_unitario, saldo_valorado,
			clave_doc, recibido_de, recepcionado_por, motivo)
		SELECT k.id_kardex, $2::bigint, NULLIF($3::text, '')::uuid, $4::timestamptz, $5::text, $6::bigint,
			$7::bigint, $8::bigint, $9::bigint, $10::bigint, $11::numeric, $12::numeric,
			$13::text, $14::text, $15::text, $16::text
		FROM kardex k
		WHERE k.id_kardex = $1 AND k.abierto
		RETURNING id_detalle`
	err := r.q.QueryRow(ctx, query,
		m.KardexID, m.LotID, m.TransactionID, m.Date, string(m.Kind), m.Quantity,
		m.Entradas(), m.Salidas(), m.Ajustes(), m.Balance, m.UnitCost, m.BalanceValue,
		m.DocumentKey, m.ReceivedFrom, m.ReceivedBy, m.Reason,
	).Scan(&m.ID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("insert movement: %w", err)
	}
	// Sin fila insertada: el kardex no existe o está cerrado.
	var open bool
	if err := r.q.QueryRow(ctx, `SELECT abierto FROM kardex WHERE id_kardex = $1`, m.KardexID).Scan(&open); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("check kardex: %w", err)
	}
	return domain.ErrLedgerClosed
}

// Last último movimiento del kardex por (fecha, id); nil si no hay.
func (r *MovementRepo) Last(ctx context.Context, kardexID int64) (*entity.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM detalle_kardex
		WHERE id_kardex = $1
		ORDER BY fecha DESC, id_detalle DESC
		LIMIT 1`
	var m entity.Movement
	if err := scanMovement(r.q.QueryRow(ctx, query, kardexID), &m); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("last movement: %w", err)
	}
	return &m, nil
}

// ListByKardex movimientos del kardex en orden (fecha, id), opcionalmente acotados por fecha.
func (r *MovementRepo) ListByKardex(ctx context.Context, kardexID int64, from, to *time.Time) ([]*entity.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM detalle_kardex
		WHERE id_kardex = $1
		  AND ($2::timestamptz IS NULL OR fecha >= $2)
		  AND ($3::timestamptz IS NULL OR fecha <= $3)
		ORDER BY fecha ASC, id_detalle ASC`
	rows, err := r.q.Query(ctx, query, kardexID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	list := []*entity.Movement{}
	for rows.Next() {
		var m entity.Movement
		if err := scanMovement(rows, &m); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// ListConsumptionsByOperator salidas del operador con insumo y lote, más recientes primero.
func (r *MovementRepo) ListConsumptionsByOperator(ctx context.Context, operatorCI string, from, to *time.Time, limit int) ([]*entity.ConsumptionRecord, error) {
	query := `
		SELECT d.id_detalle, d.fecha, d.salidas, d.clave_doc, d.saldo_valorado,
			i.codigo, i.nombre_generico, l.numero_lote
		FROM detalle_kardex d
		JOIN kardex k ON k.id_kardex = d.id_kardex
		JOIN insumos i ON i.id_insumo = k.id_insumo
		LEFT JOIN lotes l ON l.id_lote = d.id_lote
		WHERE d.recepcionado_por = $1
		  AND d.salidas > 0
		  AND ($2::timestamptz IS NULL OR d.fecha >= $2)
		  AND ($3::timestamptz IS NULL OR d.fecha <= $3)
		ORDER BY d.fecha DESC, d.id_detalle DESC
		LIMIT $4`
	rows, err := r.q.Query(ctx, query, operatorCI, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("list consumptions: %w", err)
	}
	defer rows.Close()

	list := []*entity.ConsumptionRecord{}
	for rows.Next() {
		var c entity.ConsumptionRecord
		if err := rows.Scan(
			&c.MovementID, &c.Date, &c.Quantity, &c.DocumentKey, &c.BalanceValue,
			&c.SupplyCode, &c.SupplyName, &c.LotNumber,
		); err != nil {
			return nil, fmt.Errorf("scan consumption: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
