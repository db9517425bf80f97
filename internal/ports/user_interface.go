package ports

import (
	"contacts-web-server/internal/model"
	"context"
)

// UserRepository : SQL слой. Методы Find* возвращают (nil, nil),
// если пользователь не найден.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	FindByUUID(ctx context.Context, uuid string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	ConfirmEmail(ctx context.Context, email string) error
	UpdateAvatar(ctx context.Context, email, url string) error
	ChangePassword(ctx context.Context, email, newPasswordHash string) error
	SetResetPasswordToken(ctx context.Context, email, token string) error
}

type UserService interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ConfirmEmail(ctx context.Context, token string) (alreadyConfirmed bool, err error)
	RequestConfirmEmail(ctx context.Context, email string) error
	UpdateAvatar(ctx context.Context, user *model.User, filename string, data []byte) (*model.User, error)
}
