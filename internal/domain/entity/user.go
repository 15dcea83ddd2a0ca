package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin   = "admin"   // gestiona usuarios e importa registros
	RoleAnalyst = "analyst" // ejecuta el pipeline
	RoleViewer  = "viewer"  // solo consulta ejecuciones
)

// User usuario de la API.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt
	Name         string
	Role         string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
