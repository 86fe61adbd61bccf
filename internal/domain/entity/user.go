package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin      = "admin"
	RoleOdontologo = "odontologo"
	RoleAlmacen    = "almacen"
)

// User representa un operador de la clínica, identificado por su CI.
type User struct {
	CI           string
	FirstNames   string
	LastNames    string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string // admin, odontologo, almacen
	Active       bool
	CreatedAt    time.Time
}

// FullName nombre para mostrar en recibido_de.
func (u *User) FullName() string {
	return u.FirstNames + " " + u.LastNames
}
