package dto

// CreateUserRequest alta de usuario por HR: employee ID, nombre, rol y OTP inicial.
type CreateUserRequest struct {
	EmployeeID string `json:"employee_id"`
	FullName   string `json:"full_name"`
	Role       string `json:"role"`
	Password   string `json:"password"`
}

// ResetPasswordRequest nuevo OTP emitido por HR.
type ResetPasswordRequest struct {
	Password string `json:"password"`
}
