package entity

import "time"

// User operador que inicia sesión para gestionar facturas.
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	CreatedAt    time.Time
}
