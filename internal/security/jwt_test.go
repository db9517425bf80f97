package security_test

import (
	"contacts-web-server/config"
	"contacts-web-server/internal/apperror"
	"contacts-web-server/internal/security"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestJWTService(t *testing.T) *security.JWTService {
	t.Helper()

	svc, err := security.NewJWTService(&config.JWTConfig{
		SecretKey:       "test-secret",
		Algorithm:       "HS256",
		AccessTokenTTL:  "15m",
		RefreshTokenTTL: "168h",
	})
	assert.NoError(t, err)
	return svc
}

// 1. Неизвестный или не-HMAC алгоритм отклоняется на старте
func TestNewJWTService_AlgorithmValidation(t *testing.T) {
	_, err := security.NewJWTService(&config.JWTConfig{SecretKey: "s", Algorithm: "HS512"})
	assert.NoError(t, err)

	_, err = security.NewJWTService(&config.JWTConfig{SecretKey: "s", Algorithm: "RS256"})
	assert.Error(t, err)

	_, err = security.NewJWTService(&config.JWTConfig{SecretKey: "s", Algorithm: "какой-то"})
	assert.Error(t, err)
}

// 2. Access-токен: round-trip подписи и разбора
func TestAccessToken_RoundTrip(t *testing.T) {
	svc := newTestJWTService(t)

	token, err := svc.GenerateAccessToken("alice")
	assert.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.NotNil(t, claims.ExpiresAt)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

// 3. Подделка и просрочка неотличимы: один и тот же вид ошибки
func TestValidateAccessToken_TamperAndExpiryIndistinguishable(t *testing.T) {
	svc := newTestJWTService(t)

	token, err := svc.GenerateAccessToken("alice")
	assert.NoError(t, err)

	tampered := token + "x"
	_, errTampered := svc.ValidateAccessToken(tampered)

	expiredSvc, err := security.NewJWTService(&config.JWTConfig{
		SecretKey:      "test-secret",
		Algorithm:      "HS256",
		AccessTokenTTL: "-1m",
	})
	assert.NoError(t, err)
	expired, err := expiredSvc.GenerateAccessToken("alice")
	assert.NoError(t, err)
	_, errExpired := svc.ValidateAccessToken(expired)

	assert.ErrorIs(t, errTampered, apperror.ErrInvalidToken)
	assert.ErrorIs(t, errExpired, apperror.ErrInvalidToken)
	assert.Equal(t, errTampered.Error(), errExpired.Error())
}

// 4. Токен, подписанный другим ключом, не проходит
func TestValidateAccessToken_WrongKey(t *testing.T) {
	svc := newTestJWTService(t)

	other, err := security.NewJWTService(&config.JWTConfig{
		SecretKey:      "другой-ключ",
		Algorithm:      "HS256",
		AccessTokenTTL: "15m",
	})
	assert.NoError(t, err)

	token, err := other.GenerateAccessToken("alice")
	assert.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
}

// 5. Reset-токен несет email и переживает round-trip
func TestResetToken_RoundTrip(t *testing.T) {
	svc := newTestJWTService(t)

	token, err := svc.GenerateResetToken("alice@example.com")
	assert.NoError(t, err)

	email, err := svc.ParseResetToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "alice@example.com", email)
}

// 6. Confirm-токен несет email
func TestConfirmToken_RoundTrip(t *testing.T) {
	svc := newTestJWTService(t)

	token, err := svc.GenerateConfirmToken("alice@example.com")
	assert.NoError(t, err)

	email, err := svc.ParseConfirmToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "alice@example.com", email)
}

// 7. Мусор вместо токена
func TestParseResetToken_Garbage(t *testing.T) {
	svc := newTestJWTService(t)

	_, err := svc.ParseResetToken("не.жвт.совсем")
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)

	_, err = svc.ParseResetToken(strings.Repeat("a", 64))
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
}
