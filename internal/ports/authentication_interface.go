package ports

import (
	"contacts-web-server/internal/model"
	"context"
)

type AuthenticationService interface {
	Register(ctx context.Context, username, email, password string) (*model.User, error)
	Login(ctx context.Context, username, password, userAgent, ipAddress string) (*model.TokensPair, error)
	Refresh(ctx context.Context, rawRefreshToken, userAgent, ipAddress string) (*model.TokensPair, error)
	Logout(ctx context.Context, rawAccessToken, rawRefreshToken string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	GetCurrentUser(ctx context.Context, rawAccessToken string) (*model.User, error)
}
