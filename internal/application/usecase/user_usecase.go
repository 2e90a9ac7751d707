package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/AsutoshPati/TelegramAttendanceBot/internal/application/dto"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/domain"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/domain/entity"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/domain/repository"
)

// UserUseCase gestión de cuentas por HR: alta, reset de OTP, activación.
// La autorización (solo HR) la resuelven el dispatcher del bot y el
// middleware RBAC de la API; aquí no se vuelve a verificar.
type UserUseCase struct {
	userRepo repository.UserRepository
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(userRepo repository.UserRepository) *UserUseCase {
	return &UserUseCase{userRepo: userRepo}
}

// Create da de alta un usuario: hashea el OTP con bcrypt y persiste.
// Devuelve ErrEmployeeIDExists si el employee ID ya está registrado.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if in.EmployeeID == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	role := in.Role
	if role == "" {
		role = entity.RoleEmployee
	}
	if role != entity.RoleHR && role != entity.RoleEmployee {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.userRepo.GetByEmployeeID(ctx, in.EmployeeID, false)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmployeeIDExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	name := in.FullName
	if name == "" {
		name = in.EmployeeID
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		EmployeeID:   in.EmployeeID,
		FullName:     name,
		Role:         role,
		PasswordHash: string(hash),
		IsActive:     true,
		IsPwdExpired: false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// ResetPassword emite un OTP nuevo para un usuario activo y lo marca como
// utilizable otra vez. Un usuario desactivado no recibe OTP ("Employee
// doesn't exist or deactivated" en el bot).
func (uc *UserUseCase) ResetPassword(ctx context.Context, employeeID, newPassword string) error {
	if newPassword == "" {
		return domain.ErrInvalidInput
	}
	user, err := uc.userRepo.GetByEmployeeID(ctx, employeeID, true)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.IsPwdExpired = false
	return uc.userRepo.Update(ctx, user)
}

// Deactivate desactiva un usuario activo. Su sesión de chat queda muerta de
// inmediato porque los lookups por chat filtran is_active.
func (uc *UserUseCase) Deactivate(ctx context.Context, employeeID string) error {
	user, err := uc.userRepo.GetByEmployeeID(ctx, employeeID, true)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	user.IsActive = false
	return uc.userRepo.Update(ctx, user)
}

// Reactivate reactiva un usuario desactivado. El lookup va sin filtro de
// is_active: buscar solo activos nunca encontraría a quién reactivar.
func (uc *UserUseCase) Reactivate(ctx context.Context, employeeID string) error {
	user, err := uc.userRepo.GetByEmployeeID(ctx, employeeID, false)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	user.IsActive = true
	return uc.userRepo.Update(ctx, user)
}

// GetByEmployeeID consulta un usuario (incluye desactivados).
func (uc *UserUseCase) GetByEmployeeID(ctx context.Context, employeeID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByEmployeeID(ctx, employeeID, false)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return toUserResponse(user), nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:           u.ID,
		EmployeeID:   u.EmployeeID,
		FullName:     u.FullName,
		Role:         u.Role,
		IsActive:     u.IsActive,
		IsPwdExpired: u.IsPwdExpired,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
