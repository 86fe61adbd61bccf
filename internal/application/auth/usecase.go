package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login de operadores por CI.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// Login verifica CI/password, genera JWT y retorna token + operador.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	ci := strings.TrimSpace(in.CI)
	if ci == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	user, err := uc.userRepo.GetByCI(ctx, ci)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.Active {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.CI, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  ToUserResponse(user),
	}, nil
}

// RegisterOperator crea o actualiza un operador con su contraseña hasheada (alta desde CLI).
func (uc *AuthUseCase) RegisterOperator(ctx context.Context, in dto.RegisterOperatorRequest) (*dto.UserResponse, error) {
	ci := strings.TrimSpace(in.CI)
	if ci == "" || strings.TrimSpace(in.FirstNames) == "" {
		return nil, domain.ErrInvalidInput
	}
	if !ValidRole(in.Role) {
		return nil, fmt.Errorf("rol %q: %w", in.Role, domain.ErrInvalidInput)
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		CI:           ci,
		FirstNames:   strings.TrimSpace(in.FirstNames),
		LastNames:    strings.TrimSpace(in.LastNames),
		PasswordHash: hash,
		Role:         in.Role,
		Active:       true,
	}
	if err := uc.userRepo.Upsert(ctx, user); err != nil {
		return nil, err
	}
	out := ToUserResponse(user)
	return &out, nil
}

// HashPassword hashea una contraseña con bcrypt (alta de operadores).
func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", domain.ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ValidRole indica si el rol es uno de los admitidos.
func ValidRole(role string) bool {
	switch role {
	case entity.RoleAdmin, entity.RoleOdontologo, entity.RoleAlmacen:
		return true
	}
	return false
}

// ToUserResponse proyecta un operador sin su hash.
func ToUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		CI:        u.CI,
		FullName:  u.FullName(),
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}
