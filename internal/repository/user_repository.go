package repository

import (
	"contacts-web-server/config"
	"contacts-web-server/internal/apperror"
	"contacts-web-server/internal/model"
	"contacts-web-server/internal/util"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type UserRepository struct {
	*config.Database
}

func NewUserRepository(database *config.Database) *UserRepository {
	return &UserRepository{database}
}

// CreateUser : сохраняет нового пользователя. Дубликат username или email
// ловится на уникальных индексах БД — это единственная точка сериализации
// конкурентных регистраций, из двух одинаковых запросов ровно один получит
// ErrConflict.
func (r *UserRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	query := `
	INSERT INTO users (uuid, username, email, password_hash, avatar, confirmed, role)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING uuid, username, email, password_hash, COALESCE(avatar, '') AS avatar, confirmed, role,
		COALESCE(reset_password_token, '') AS reset_password_token, created_at
	`

	created := &model.User{}
	err := r.DB.QueryRowxContext(ctx, query,
		user.UUID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Avatar,
		user.Confirmed,
		user.Role,
	).StructScan(created)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, fmt.Errorf("пользователь уже существует: %w", apperror.ErrConflict)
		}
		return nil, util.LogError("[UserRepo] ошибка вставки данных в БД", err)
	}

	return created, nil
}

func (r *UserRepository) FindByUUID(ctx context.Context, uuid string) (*model.User, error) {
	return r.findOne(ctx, `WHERE uuid = $1`, uuid)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, `WHERE username = $1`, username)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, `WHERE email = $1`, email)
}

func (r *UserRepository) findOne(ctx context.Context, where string, arg interface{}) (*model.User, error) {
	query := `
	SELECT uuid, username, email, password_hash, COALESCE(avatar, '') AS avatar, confirmed, role,
		COALESCE(reset_password_token, '') AS reset_password_token, created_at
	FROM users ` + where

	var user model.User
	err := sqlx.GetContext(ctx, r.DB, &user, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, util.LogError("[UserRepo] не удалось найти пользователя в БД", err)
	}
	return &user, nil
}

// ConfirmEmail : выставляет флаг confirmed, флаг меняется ровно один раз
func (r *UserRepository) ConfirmEmail(ctx context.Context, email string) error {
	query := `UPDATE users SET confirmed = TRUE WHERE email = $1 AND confirmed = FALSE`
	if _, err := r.DB.ExecContext(ctx, query, email); err != nil {
		return util.LogError("[UserRepo] не удалось подтвердить email", err)
	}
	return nil
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, email, url string) error {
	query := `UPDATE users SET avatar = $2 WHERE email = $1`
	if _, err := r.DB.ExecContext(ctx, query, email, url); err != nil {
		return util.LogError("[UserRepo] не удалось обновить аватар", err)
	}
	return nil
}

// ChangePassword : меняет хэш пароля и сбрасывает сохраненный reset-токен
func (r *UserRepository) ChangePassword(ctx context.Context, email, newPasswordHash string) error {
	query := `UPDATE users SET password_hash = $2, reset_password_token = NULL WHERE email = $1`
	if _, err := r.DB.ExecContext(ctx, query, email, newPasswordHash); err != nil {
		return util.LogError("[UserRepo] не удалось обновить пароль", err)
	}
	return nil
}

func (r *UserRepository) SetResetPasswordToken(ctx context.Context, email, token string) error {
	query := `UPDATE users SET reset_password_token = $2 WHERE email = $1`
	if _, err := r.DB.ExecContext(ctx, query, email, token); err != nil {
		return util.LogError("[UserRepo] не удалось сохранить reset-токен", err)
	}
	return nil
}
