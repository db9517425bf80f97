package service

import (
	"contacts-web-server/internal/apperror"
	"contacts-web-server/internal/model"
	"contacts-web-server/internal/ports"
	"contacts-web-server/internal/util"
	"context"
	"fmt"
	"log"
	"path"
)

type UserService struct {
	userRepository ports.UserRepository
	jwtService     ports.JWTServiceInterface
	avatarStorage  ports.AvatarStorage
	mailer         ports.Mailer
	baseURL        string
}

func NewUserService(
	userRepository ports.UserRepository,
	jwtService ports.JWTServiceInterface,
	avatarStorage ports.AvatarStorage,
	mailer ports.Mailer,
	baseURL string,
) *UserService {
	return &UserService{
		userRepository: userRepository,
		jwtService:     jwtService,
		avatarStorage:  avatarStorage,
		mailer:         mailer,
		baseURL:        baseURL,
	}
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.userRepository.FindByEmail(ctx, email)
}

// ConfirmEmail подтверждает email по токену из письма.
// Флаг переключается ровно один раз, повторное подтверждение различимо.
func (s *UserService) ConfirmEmail(ctx context.Context, token string) (bool, error) {
	email, err := s.jwtService.ParseConfirmToken(token)
	if err != nil {
		return false, err
	}

	user, err := s.userRepository.FindByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, fmt.Errorf("verification error: %w", apperror.ErrInvalidToken)
	}
	if user.Confirmed {
		return true, nil
	}

	if err := s.userRepository.ConfirmEmail(ctx, email); err != nil {
		return false, err
	}
	return false, nil
}

// RequestConfirmEmail повторно отправляет письмо подтверждения.
// Для несуществующего или уже подтвержденного email — тихий no-op,
// ответ наружу всегда одинаковый.
func (s *UserService) RequestConfirmEmail(ctx context.Context, email string) error {
	user, err := s.userRepository.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil || user.Confirmed {
		return nil
	}

	go func() {
		if err := s.mailer.SendConfirmation(user.Email, user.Username, s.baseURL); err != nil {
			log.Printf("не удалось отправить письмо подтверждения: %v", err)
		}
	}()
	return nil
}

// UpdateAvatar загружает файл в объектное хранилище и сохраняет
// публичный URL на пользователе
func (s *UserService) UpdateAvatar(ctx context.Context, user *model.User, filename string, data []byte) (*model.User, error) {
	key := fmt.Sprintf("avatars/%s%s", user.UUID, path.Ext(filename))

	url, err := s.avatarStorage.Upload(ctx, key, contentTypeByExt(filename), data)
	if err != nil {
		return nil, util.LogError("[UserService] не удалось загрузить аватар", err)
	}

	if err := s.userRepository.UpdateAvatar(ctx, user.Email, url); err != nil {
		return nil, err
	}

	updated := *user
	updated.Avatar = url
	return &updated, nil
}

func contentTypeByExt(filename string) string {
	switch path.Ext(filename) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
