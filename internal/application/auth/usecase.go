package auth

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/AsutoshPati/TelegramAttendanceBot/internal/application/dto"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/domain"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/domain/entity"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/domain/repository"
	"github.com/AsutoshPati/TelegramAttendanceBot/pkg/jwt"
)

// JWTConfig configuración para generación de tokens de la API.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: login de la API (JWT) y sesión
// de chat (binding chat-usuario por el last_chat_id).
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// Login valida employee ID + OTP contra el hash bcrypt y genera un JWT para
// la API de administración. Un OTP ya consumido por chat (is_pwd_expired)
// deja de servir también aquí.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.validCredential(ctx, in.EmployeeID, in.Password)
	if err != nil {
		return nil, err
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.EmployeeID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

// LoginChat valida las credenciales y liga la sesión al chat: guarda el chat
// ID y marca el OTP como consumido (un solo uso). Un chat controla a lo sumo
// una cuenta: si ya estaba ligado a otro usuario, esa sesión previa se
// desliga primero para que el lookup por chat nunca sea ambiguo.
func (uc *AuthUseCase) LoginChat(ctx context.Context, employeeID, password, chatID string) (*entity.User, error) {
	user, err := uc.validCredential(ctx, employeeID, password)
	if err != nil {
		return nil, err
	}
	prev, err := uc.userRepo.GetByChatID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if prev != nil && prev.ID != user.ID {
		prev.LastChatID = ""
		if err := uc.userRepo.Update(ctx, prev); err != nil {
			return nil, fmt.Errorf("desligar sesión previa del chat: %w", err)
		}
	}
	user.LastChatID = chatID
	user.IsPwdExpired = true
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("ligar sesión de chat: %w", err)
	}
	return user, nil
}

// LogoutChat desliga la sesión del chat. Para volver a entrar el usuario
// necesita un OTP nuevo de HR.
func (uc *AuthUseCase) LogoutChat(ctx context.Context, chatID string) error {
	user, err := uc.userRepo.GetByChatID(ctx, chatID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrNotLoggedIn
	}
	user.LastChatID = ""
	return uc.userRepo.Update(ctx, user)
}

// ResolveChat devuelve el usuario activo ligado al chat, o nil si el chat no
// tiene sesión.
func (uc *AuthUseCase) ResolveChat(ctx context.Context, chatID string) (*entity.User, error) {
	return uc.userRepo.GetByChatID(ctx, chatID)
}

// validCredential exige usuario activo, OTP correcto y no consumido.
func (uc *AuthUseCase) validCredential(ctx context.Context, employeeID, password string) (*entity.User, error) {
	user, err := uc.userRepo.GetByEmployeeID(ctx, employeeID, true)
	if err != nil {
		return nil, err
	}
	if user == nil || user.IsPwdExpired {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
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
