package repository

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para operadores (DIP).
type UserRepository interface {
	GetByCI(ctx context.Context, ci string) (*entity.User, error)
	Upsert(ctx context.Context, user *entity.User) error
}
