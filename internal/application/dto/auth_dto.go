package dto

import "time"

// LoginRequest credenciales de la API de administración (employee ID + OTP).
type LoginRequest struct {
	EmployeeID string `json:"employee_id"`
	Password   string `json:"password"`
}

// LoginResponse token JWT más el usuario autenticado.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse usuario sin campos sensibles (nunca expone el hash del OTP).
type UserResponse struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employee_id"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	IsPwdExpired bool      `json:"is_pwd_expired"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
