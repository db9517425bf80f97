package repository_test

import (
	"contacts-web-server/config"
	"contacts-web-server/internal/apperror"
	"contacts-web-server/internal/repository"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

func newMockDatabase(t *testing.T) (*config.Database, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &config.Database{DB: sqlx.NewDb(db, "sqlmock")}, mock
}

// 1. Issue: наружу уходит сырой токен, в БД попадает что-то другое
func TestRefreshTokenRepository_Issue(t *testing.T) {
	database, dbMock := newMockDatabase(t)
	repo := repository.NewRefreshTokenRepository(database, 7*24*time.Hour)

	dbMock.ExpectExec("INSERT INTO refresh_tokens").
		WithArgs(sqlmock.AnyArg(), "u1", sqlmock.AnyArg(), sqlmock.AnyArg(), "127.0.0.1", "agent").
		WillReturnResult(sqlmock.NewResult(1, 1))

	rawToken, err := repo.Issue(context.Background(), "u1", "127.0.0.1", "agent")

	assert.NoError(t, err)
	assert.NotEmpty(t, rawToken)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

// 2. LookupActive: неизвестный токен дает (nil, nil), не ошибку
func TestRefreshTokenRepository_LookupActive_NotFound(t *testing.T) {
	database, dbMock := newMockDatabase(t)
	repo := repository.NewRefreshTokenRepository(database, 7*24*time.Hour)

	dbMock.ExpectQuery("SELECT (.+) FROM refresh_tokens").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"uuid"}))

	token, err := repo.LookupActive(context.Background(), "unknown-token")

	assert.NoError(t, err)
	assert.Nil(t, token)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

// 3. LookupActive: активная строка сканируется целиком
func TestRefreshTokenRepository_LookupActive_Found(t *testing.T) {
	database, dbMock := newMockDatabase(t)
	repo := repository.NewRefreshTokenRepository(database, 7*24*time.Hour)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"uuid", "user_uuid", "token_hash", "created_at", "expired_at", "revoked_at", "ip_address", "user_agent",
	}).AddRow("t1", "u1", "hash", now, now.Add(time.Hour), nil, "127.0.0.1", "agent")

	dbMock.ExpectQuery("SELECT (.+) FROM refresh_tokens").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(rows)

	token, err := repo.LookupActive(context.Background(), "raw-token")

	assert.NoError(t, err)
	assert.Equal(t, "u1", token.UserUUID)
	assert.True(t, token.Active(now))
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

// 4. Revoke: отсутствующий токен — no-op без ошибки
func TestRefreshTokenRepository_Revoke_Idempotent(t *testing.T) {
	database, dbMock := newMockDatabase(t)
	repo := repository.NewRefreshTokenRepository(database, 7*24*time.Hour)

	dbMock.ExpectExec("UPDATE refresh_tokens SET revoked_at").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Revoke(context.Background(), "already-revoked")

	assert.NoError(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

// 5. Rotate: отзыв и вставка преемника в одной транзакции с коммитом
func TestRefreshTokenRepository_Rotate_Success(t *testing.T) {
	database, dbMock := newMockDatabase(t)
	repo := repository.NewRefreshTokenRepository(database, 7*24*time.Hour)

	dbMock.ExpectBegin()
	dbMock.ExpectQuery("UPDATE refresh_tokens SET revoked_at").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"user_uuid"}).AddRow("u1"))
	dbMock.ExpectExec("INSERT INTO refresh_tokens").
		WithArgs(sqlmock.AnyArg(), "u1", sqlmock.AnyArg(), sqlmock.AnyArg(), "127.0.0.1", "agent").
		WillReturnResult(sqlmock.NewResult(1, 1))
	dbMock.ExpectCommit()

	newToken, userUUID, err := repo.Rotate(context.Background(), "old-token", "127.0.0.1", "agent")

	assert.NoError(t, err)
	assert.NotEmpty(t, newToken)
	assert.NotEqual(t, "old-token", newToken)
	assert.Equal(t, "u1", userUUID)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

// 6. Rotate: неактивный токен не захватывает строку — Unauthorized, откат
func TestRefreshTokenRepository_Rotate_InactiveToken(t *testing.T) {
	database, dbMock := newMockDatabase(t)
	repo := repository.NewRefreshTokenRepository(database, 7*24*time.Hour)

	dbMock.ExpectBegin()
	dbMock.ExpectQuery("UPDATE refresh_tokens SET revoked_at").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"user_uuid"}))
	dbMock.ExpectRollback()

	_, _, err := repo.Rotate(context.Background(), "dead-token", "127.0.0.1", "agent")

	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

// 7. Rotate: ошибка вставки преемника откатывает и отзыв
func TestRefreshTokenRepository_Rotate_InsertFails(t *testing.T) {
	database, dbMock := newMockDatabase(t)
	repo := repository.NewRefreshTokenRepository(database, 7*24*time.Hour)

	dbMock.ExpectBegin()
	dbMock.ExpectQuery("UPDATE refresh_tokens SET revoked_at").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"user_uuid"}).AddRow("u1"))
	dbMock.ExpectExec("INSERT INTO refresh_tokens").
		WillReturnError(errors.New("диск кончился"))
	dbMock.ExpectRollback()

	_, _, err := repo.Rotate(context.Background(), "old-token", "127.0.0.1", "agent")

	assert.Error(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

// 8. PurgeExpired возвращает число удаленных строк
func TestRefreshTokenRepository_PurgeExpired(t *testing.T) {
	database, dbMock := newMockDatabase(t)
	repo := repository.NewRefreshTokenRepository(database, 7*24*time.Hour)

	dbMock.ExpectExec("DELETE FROM refresh_tokens").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 42))

	deleted, err := repo.PurgeExpired(context.Background(), 7*24*time.Hour)

	assert.NoError(t, err)
	assert.Equal(t, int64(42), deleted)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}
