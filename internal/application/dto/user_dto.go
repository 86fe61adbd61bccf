package dto

import "time"

// UserResponse salida de un operador (sin password).
type UserResponse struct {
	CI        string    `json:"ci"`
	FullName  string    `json:"nombre"`
	Role      string    `json:"rol"`
	Active    bool      `json:"activo"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginRequest entrada para login por CI.
type LoginRequest struct {
	CI       string `json:"ci" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// RegisterOperatorRequest alta de un operador (password en texto, se hashea en use case).
type RegisterOperatorRequest struct {
	CI         string `json:"ci" validate:"required"`
	FirstNames string `json:"nombres" validate:"required"`
	LastNames  string `json:"apellidos"`
	Password   string `json:"password" validate:"required,min=8"`
	Role       string `json:"rol" validate:"required,oneof=admin odontologo almacen"`
}
