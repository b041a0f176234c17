package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleClient  = "client"
)

// User representa un usuario del sistema; los clientes de pedidos de venta
// también son usuarios (role=client).
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, manager, client
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
