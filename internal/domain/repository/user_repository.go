package repository

import (
	"context"

	"github.com/AsutoshPati/TelegramAttendanceBot/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
//
// Los lookups con onlyActive=true replican el filtro is_active del bot:
// un usuario desactivado es invisible para login, comandos y eventos.
// GetByChatID solo considera usuarios activos (la sesión de un desactivado
// queda muerta de inmediato).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string, onlyActive bool) (*entity.User, error)
	GetByEmployeeID(ctx context.Context, employeeID string, onlyActive bool) (*entity.User, error)
	GetByChatID(ctx context.Context, chatID string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
}
