package service

import (
	"contacts-web-server/internal/apperror"
	"contacts-web-server/internal/model"
	"contacts-web-server/internal/ports"
	"contacts-web-server/internal/security"
	"contacts-web-server/internal/util"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

type AuthenticationService struct {
	userRepository ports.UserRepository
	refreshTokens  ports.RefreshTokenRepository
	blacklist      ports.BlacklistRepository
	jwtService     ports.JWTServiceInterface
	mailer         ports.Mailer
	avatarLookup   ports.AvatarLookup
	baseURL        string
}

func NewAuthenticationService(
	userRepository ports.UserRepository,
	refreshTokens ports.RefreshTokenRepository,
	blacklist ports.BlacklistRepository,
	jwtService ports.JWTServiceInterface,
	mailer ports.Mailer,
	avatarLookup ports.AvatarLookup,
	baseURL string,
) *AuthenticationService {
	return &AuthenticationService{
		userRepository: userRepository,
		refreshTokens:  refreshTokens,
		blacklist:      blacklist,
		jwtService:     jwtService,
		mailer:         mailer,
		avatarLookup:   avatarLookup,
		baseURL:        baseURL,
	}
}

// Register создает нового неподтвержденного пользователя.
// Сначала проверяется username, потом email; занятое значение — ErrConflict.
// Уникальные индексы БД страхуют гонку двух одинаковых регистраций.
// Поиск аватара best-effort: неудача не мешает регистрации.
func (s *AuthenticationService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	existing, err := s.userRepository.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("пользователь уже существует: %w", apperror.ErrConflict)
	}

	existing, err = s.userRepository.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("email уже занят: %w", apperror.ErrConflict)
	}

	avatar, _ := s.avatarLookup.Lookup(email)

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, util.LogError("не удалось создать хэш пароля", err)
	}

	user := &model.User{
		UUID:         uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Avatar:       avatar,
		Confirmed:    false,
		Role:         model.RoleUser,
	}

	created, err := s.userRepository.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}

	go func() {
		if err := s.mailer.SendConfirmation(created.Email, created.Username, s.baseURL); err != nil {
			log.Printf("не удалось отправить письмо подтверждения: %v", err)
		}
	}()

	return created, nil
}

// Authenticate проверяет учетные данные. Неизвестный username и неверный
// пароль дают одно и то же сообщение, неподтвержденный email — отличимое
// (поведение исходной системы сохранено сознательно).
func (s *AuthenticationService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.userRepository.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("incorrect username or password: %w", apperror.ErrUnauthorized)
	}

	if !user.Confirmed {
		return nil, apperror.ErrEmailNotConfirmed
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, fmt.Errorf("incorrect username or password: %w", apperror.ErrUnauthorized)
	}

	return user, nil
}

// Login выдает пару токенов после успешной аутентификации
func (s *AuthenticationService) Login(ctx context.Context, username, password, userAgent, ipAddress string) (*model.TokensPair, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user.Username)
	if err != nil {
		return nil, util.LogError("ошибка генерации access-токена", err)
	}

	refreshToken, err := s.refreshTokens.Issue(ctx, user.UUID, ipAddress, userAgent)
	if err != nil {
		return nil, util.LogError("ошибка выдачи refresh-токена", err)
	}

	return &model.TokensPair{
		AccessToken:  accessToken,
		TokenType:    "bearer",
		RefreshToken: refreshToken,
	}, nil
}

// Refresh меняет предъявленный refresh-токен на новую пару. Отзыв старого и
// выдача нового атомарны на уровне хранилища; неактивный токен — Unauthorized.
// Старый сырой токен после ротации никогда больше не проходит LookupActive.
func (s *AuthenticationService) Refresh(ctx context.Context, rawRefreshToken, userAgent, ipAddress string) (*model.TokensPair, error) {
	newRefreshToken, userUUID, err := s.refreshTokens.Rotate(ctx, rawRefreshToken, ipAddress, userAgent)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepository.FindByUUID(ctx, userUUID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("владелец токена не найден: %w", apperror.ErrUnauthorized)
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user.Username)
	if err != nil {
		return nil, util.LogError("ошибка генерации access-токена", err)
	}

	return &model.TokensPair{
		AccessToken:  accessToken,
		TokenType:    "bearer",
		RefreshToken: newRefreshToken,
	}, nil
}

// Logout заносит access-токен в черный список на остаток его срока и
// отзывает refresh-токен. Обе части независимы и идемпотентны: уже мертвый
// токен — безобидный no-op, повторный вызов не дает новых ошибок.
func (s *AuthenticationService) Logout(ctx context.Context, rawAccessToken, rawRefreshToken string) error {
	claims, err := s.jwtService.ValidateAccessToken(rawAccessToken)
	if err == nil && claims.ExpiresAt != nil {
		ttl := time.Until(claims.ExpiresAt.Time)
		if err := s.blacklist.Blacklist(ctx, rawAccessToken, ttl); err != nil {
			return err
		}
	} else if err != nil {
		log.Printf("logout: access-токен уже невалиден: %v", err)
	}

	if err := s.refreshTokens.Revoke(ctx, rawRefreshToken); err != nil {
		return err
	}
	return nil
}

// RequestPasswordReset всегда завершается одинаково для вызывающего:
// существует email или нет, наружу уходит один и тот же ответ. Письмо
// отправляется в фоне, его ошибки только логируются.
func (s *AuthenticationService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepository.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	token, err := s.jwtService.GenerateResetToken(email)
	if err != nil {
		return util.LogError("ошибка генерации reset-токена", err)
	}

	if err := s.userRepository.SetResetPasswordToken(ctx, email, token); err != nil {
		return err
	}

	go func() {
		if err := s.mailer.SendPasswordReset(user.Email, user.Username, s.baseURL, token); err != nil {
			log.Printf("не удалось отправить письмо сброса пароля: %v", err)
		}
	}()

	return nil
}

// ResetPassword меняет пароль по действующему reset-токену.
// Токен одноразовым не является и остается валидным до истечения часа;
// активные refresh-токены аккаунта при смене пароля не отзываются.
func (s *AuthenticationService) ResetPassword(ctx context.Context, token, newPassword string) error {
	email, err := s.jwtService.ParseResetToken(token)
	if err != nil {
		return err
	}

	user, err := s.userRepository.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		log.Printf("reset-токен валиден, но пользователь %s не найден", email)
		return nil
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return util.LogError("не удалось создать хэш пароля", err)
	}

	return s.userRepository.ChangePassword(ctx, email, hash)
}

// GetCurrentUser — точка входа аутентификации запроса. Порядок фиксирован:
// сперва черный список, затем подпись и срок, затем поиск живого
// пользователя. Отозванный токен отклоняется даже с валидной подписью.
func (s *AuthenticationService) GetCurrentUser(ctx context.Context, rawAccessToken string) (*model.User, error) {
	blacklisted, err := s.blacklist.IsBlacklisted(ctx, rawAccessToken)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		return nil, fmt.Errorf("токен отозван: %w", apperror.ErrUnauthorized)
	}

	claims, err := s.jwtService.ValidateAccessToken(rawAccessToken)
	if err != nil {
		return nil, fmt.Errorf("could not validate credentials: %w", apperror.ErrUnauthorized)
	}

	user, err := s.userRepository.FindByUsername(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("could not validate credentials: %w", apperror.ErrUnauthorized)
	}

	return user, nil
}
