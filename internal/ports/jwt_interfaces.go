package ports

import (
	"contacts-web-server/internal/model"
	"contacts-web-server/internal/security"
	"context"
	"time"
)

type JWTServiceInterface interface {
	GenerateAccessToken(username string) (string, error)
	ValidateAccessToken(tokenStr string) (*security.Claims, error)
	GenerateResetToken(email string) (string, error)
	ParseResetToken(tokenStr string) (string, error)
	GenerateConfirmToken(email string) (string, error)
	ParseConfirmToken(tokenStr string) (string, error)
}

// RefreshTokenRepository : хранилище refresh-токенов. Наружу отдается только
// сырой токен, в БД живет исключительно его хэш.
type RefreshTokenRepository interface {
	Issue(ctx context.Context, userUUID, ipAddress, userAgent string) (string, error)
	LookupActive(ctx context.Context, rawToken string) (*model.RefreshToken, error)
	Revoke(ctx context.Context, rawToken string) error
	Rotate(ctx context.Context, rawToken, ipAddress, userAgent string) (newRawToken string, userUUID string, err error)
	PurgeExpired(ctx context.Context, retention time.Duration) (int64, error)
}
