package repository

import (
	"contacts-web-server/config"
	"contacts-web-server/internal/apperror"
	"contacts-web-server/internal/model"
	"contacts-web-server/internal/util"
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"
)

type RefreshTokenRepository struct {
	*config.Database
	refreshTTL time.Duration
}

func NewRefreshTokenRepository(database *config.Database, refreshTTL time.Duration) *RefreshTokenRepository {
	return &RefreshTokenRepository{database, refreshTTL}
}

// generateRawToken : 32 байта энтропии, наружу уходит base64url-строка.
// Сырой токен виден только вызывающему, в БД попадает только хэш.
func generateRawToken() (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", util.LogError("ошибка генерации", err)
	}
	return base64.RawURLEncoding.EncodeToString(tokenBytes), nil
}

// hashToken : детерминированный sha3-256, по нему и ищем, и храним.
// Утечка таблицы не дает рабочих токенов.
func hashToken(rawToken string) string {
	sum := sha3.Sum256([]byte(rawToken))
	return hex.EncodeToString(sum[:])
}

// Issue выдает новый refresh-токен для пользователя
func (r *RefreshTokenRepository) Issue(ctx context.Context, userUUID, ipAddress, userAgent string) (string, error) {
	rawToken, err := generateRawToken()
	if err != nil {
		return "", err
	}

	query := `INSERT INTO refresh_tokens (uuid, user_uuid, token_hash, expired_at, ip_address, user_agent)
				VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = r.DB.ExecContext(ctx, query,
		uuid.New().String(),
		userUUID,
		hashToken(rawToken),
		time.Now().UTC().Add(r.refreshTTL),
		ipAddress,
		userAgent,
	)
	if err != nil {
		return "", util.LogError("ошибка вставки refresh-токена в БД", err)
	}

	return rawToken, nil
}

// LookupActive ищет токен по хэшу и возвращает его, только если он
// не отозван и не просрочен. Иначе (nil, nil).
func (r *RefreshTokenRepository) LookupActive(ctx context.Context, rawToken string) (*model.RefreshToken, error) {
	query := `SELECT uuid, user_uuid, token_hash, created_at, expired_at, revoked_at, ip_address, user_agent
				FROM refresh_tokens
				WHERE token_hash = $1 AND revoked_at IS NULL AND expired_at > $2`

	token := &model.RefreshToken{}
	err := r.DB.QueryRowxContext(ctx, query, hashToken(rawToken), time.Now().UTC()).StructScan(token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, util.LogError("ошибка при выполнении запроса", err)
	}

	return token, nil
}

// Revoke помечает токен отозванным. Идемпотентна: отсутствующий или уже
// отозванный токен — no-op.
func (r *RefreshTokenRepository) Revoke(ctx context.Context, rawToken string) error {
	query := `UPDATE refresh_tokens SET revoked_at = $2 WHERE token_hash = $1 AND revoked_at IS NULL`

	if _, err := r.DB.ExecContext(ctx, query, hashToken(rawToken), time.Now().UTC()); err != nil {
		return util.LogError("не удалось отозвать refresh-токен", err)
	}
	return nil
}

// Rotate отзывает предъявленный токен и выдает преемника в одной транзакции.
// Условный UPDATE захватывает строку: из двух конкурентных refresh выживает
// первый, второй видит ноль строк и получает ErrUnauthorized. Активный
// преемник всегда не более одного.
func (r *RefreshTokenRepository) Rotate(ctx context.Context, rawToken, ipAddress, userAgent string) (string, string, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return "", "", util.LogError("не удалось открыть транзакцию", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	var userUUID string
	claim := `UPDATE refresh_tokens SET revoked_at = $2
				WHERE token_hash = $1 AND revoked_at IS NULL AND expired_at > $2
				RETURNING user_uuid`
	err = tx.QueryRowxContext(ctx, claim, hashToken(rawToken), now).Scan(&userUUID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", fmt.Errorf("refresh-токен неактивен: %w", apperror.ErrUnauthorized)
	}
	if err != nil {
		return "", "", util.LogError("не удалось отозвать refresh-токен", err)
	}

	newRawToken, err := generateRawToken()
	if err != nil {
		return "", "", err
	}

	insert := `INSERT INTO refresh_tokens (uuid, user_uuid, token_hash, expired_at, ip_address, user_agent)
				VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = tx.ExecContext(ctx, insert,
		uuid.New().String(),
		userUUID,
		hashToken(newRawToken),
		now.Add(r.refreshTTL),
		ipAddress,
		userAgent,
	)
	if err != nil {
		return "", "", util.LogError("ошибка вставки refresh-токена в БД", err)
	}

	if err := tx.Commit(); err != nil {
		return "", "", util.LogError("не удалось зафиксировать транзакцию", err)
	}

	return newRawToken, userUUID, nil
}

// PurgeExpired удаляет просроченные строки и отозванные старше окна хранения.
// Вызывается janitor'ом, на инварианты безопасности не влияет.
func (r *RefreshTokenRepository) PurgeExpired(ctx context.Context, retention time.Duration) (int64, error) {
	now := time.Now().UTC()
	query := `DELETE FROM refresh_tokens
				WHERE expired_at < $1 OR (revoked_at IS NOT NULL AND revoked_at < $2)`

	result, err := r.DB.ExecContext(ctx, query, now, now.Add(-retention))
	if err != nil {
		return 0, util.LogError("не удалось удалить старые refresh-токены", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, util.LogError("не удалось получить число удаленных строк", err)
	}
	return deleted, nil
}
