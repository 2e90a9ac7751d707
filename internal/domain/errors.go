package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado o desactivado")
	ErrEmployeeIDExists   = errors.New("el employee ID ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrMalformedPayload   = errors.New("payload del evento inválido")
	ErrInvalidCredentials = errors.New("credenciales inválidas u OTP expirado")
	ErrNotLoggedIn        = errors.New("el chat no tiene sesión iniciada")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
)
