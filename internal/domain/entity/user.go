package entity

import "time"

// Roles válidos para User.
const (
	RoleHR       = "HR"
	RoleEmployee = "employee"
)

// User representa un empleado registrado en el bot de asistencia.
// LastChatID es el chat de Telegram al que está ligada su sesión activa
// (vacío = sin sesión). El OTP se guarda hasheado con bcrypt y se marca
// expirado tras el primer login por chat.
type User struct {
	ID           string
	EmployeeID   string
	FullName     string
	Role         string // HR, employee
	PasswordHash string // bcrypt hash del OTP, nunca plano después de persistir
	LastChatID   string
	IsActive     bool
	IsPwdExpired bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsHR indica si el usuario puede ejecutar comandos administrativos.
func (u *User) IsHR() bool {
	return u != nil && u.Role == RoleHR
}
