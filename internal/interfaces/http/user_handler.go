package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/AsutoshPati/TelegramAttendanceBot/internal/application/dto"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/application/usecase"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/domain"
)

// UserHandler maneja la gestión de cuentas de empleados (solo HR).
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler construye el handler de usuarios.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// Create godoc
// @Summary      Crear cuenta de empleado
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUserRequest  true  "employee_id, full_name, role, password"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrEmployeeIDExists) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMPLOYEE_EXISTS", Message: "el employee_id ya está registrado"})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByEmployeeID godoc
// @Summary      Consultar cuenta por employee_id
// @Tags         users
// @Produce      json
// @Param        employee_id  path  string  true  "employee ID"
// @Success      200  {object}  dto.UserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{employee_id} [get]
func (h *UserHandler) GetByEmployeeID(c *fiber.Ctx) error {
	out, err := h.uc.GetByEmployeeID(c.Context(), c.Params("employee_id"))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "usuario no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// ResetPassword godoc
// @Summary      Emitir nueva contraseña temporal
// @Tags         users
// @Accept       json
// @Param        employee_id  path  string  true  "employee ID"
// @Param        body  body  dto.ResetPasswordRequest  true  "password"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{employee_id}/password [put]
func (h *UserHandler) ResetPassword(c *fiber.Ctx) error {
	var in dto.ResetPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "password es requerido"})
	}
	return h.noContentOrError(c, h.uc.ResetPassword(c.Context(), c.Params("employee_id"), in.Password))
}

// Deactivate godoc
// @Summary      Desactivar cuenta
// @Tags         users
// @Param        employee_id  path  string  true  "employee ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{employee_id} [delete]
func (h *UserHandler) Deactivate(c *fiber.Ctx) error {
	return h.noContentOrError(c, h.uc.Deactivate(c.Context(), c.Params("employee_id")))
}

// Reactivate godoc
// @Summary      Reactivar cuenta desactivada
// @Tags         users
// @Param        employee_id  path  string  true  "employee ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{employee_id}/reactivate [post]
func (h *UserHandler) Reactivate(c *fiber.Ctx) error {
	return h.noContentOrError(c, h.uc.Reactivate(c.Context(), c.Params("employee_id")))
}

func (h *UserHandler) noContentOrError(c *fiber.Ctx, err error) error {
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "usuario no encontrado o desactivado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
