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

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para operadores.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// GetByCI obtiene un operador por su CI.
func (r *UserRepo) GetByCI(ctx context.Context, ci string) (*entity.User, error) {
	query := `
		SELECT ci, nombres, apellidos, password_hash, rol, activo, fecha_creacion
		FROM usuarios WHERE ci = $1`
	var u entity.User
	err := r.q.QueryRow(ctx, query, ci).Scan(
		&u.CI, &u.FirstNames, &u.LastNames, &u.PasswordHash, &u.Role, &u.Active, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// Upsert crea o actualiza un operador por CI.
func (r *UserRepo) Upsert(ctx context.Context, u *entity.User) error {
	query := `
		INSERT INTO usuarios (ci, nombres, apellidos, password_hash, rol, activo)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (ci) DO UPDATE SET
			nombres = EXCLUDED.nombres,
			apellidos = EXCLUDED.apellidos,
			password_hash = EXCLUDED.password_hash,
			rol = EXCLUDED.rol,
			activo = EXCLUDED.activo
		RETURNING fecha_creacion`
	err := r.q.QueryRow(ctx, query, u.CI, u.FirstNames, u.LastNames, u.PasswordHash, u.Role, u.Active).Scan(&u.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}
