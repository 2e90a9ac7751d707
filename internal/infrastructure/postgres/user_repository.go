package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/AsutoshPati/TelegramAttendanceBot/internal/domain"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/domain/entity"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, employee_id, fullname, role, temp_pwd, COALESCE(last_chat_id, ''), is_active, is_pwd_expired, created_at, updated_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
// El hash del OTP vive en temp_pwd (nombre heredado del esquema del bot);
// last_chat_id NULL significa chat sin sesión y se mapea a cadena vacía.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios. Pasar pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO user_account (id, employee_id, fullname, role, temp_pwd, last_chat_id, is_active, is_pwd_expired, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.EmployeeID, user.FullName, user.Role, user.PasswordHash,
		user.LastChatID, user.IsActive, user.IsPwdExpired, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmployeeIDExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID; con onlyActive filtra desactivados.
func (r *UserRepo) GetByID(ctx context.Context, id string, onlyActive bool) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM user_account WHERE id = $1`
	if onlyActive {
		query += ` AND is_active`
	}
	return r.scanOne(ctx, query, id)
}

// GetByEmployeeID obtiene un usuario por employee ID; con onlyActive filtra desactivados.
func (r *UserRepo) GetByEmployeeID(ctx context.Context, employeeID string, onlyActive bool) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM user_account WHERE employee_id = $1`
	if onlyActive {
		query += ` AND is_active`
	}
	return r.scanOne(ctx, query, employeeID)
}

// GetByChatID obtiene el usuario activo ligado a un chat.
func (r *UserRepo) GetByChatID(ctx context.Context, chatID string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM user_account WHERE last_chat_id = $1 AND is_active`
	return r.scanOne(ctx, query, chatID)
}

// Update actualiza un usuario.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE user_account
		SET fullname = $2, role = $3, temp_pwd = $4, last_chat_id = NULLIF($5, ''),
		    is_active = $6, is_pwd_expired = $7, updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.FullName, user.Role, user.PasswordHash, user.LastChatID,
		user.IsActive, user.IsPwdExpired,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (r *UserRepo) scanOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	var u entity.User
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.EmployeeID, &u.FullName, &u.Role, &u.PasswordHash,
		&u.LastChatID, &u.IsActive, &u.IsPwdExpired, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
