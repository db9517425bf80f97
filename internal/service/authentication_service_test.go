package service_test

import (
	"contacts-web-server/internal/apperror"
	"contacts-web-server/internal/model"
	"contacts-web-server/internal/security"
	"contacts-web-server/internal/service"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// ===== MOCKS =====

// MockUserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByUUID(ctx context.Context, uuid string) (*model.User, error) {
	args := m.Called(ctx, uuid)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) ConfirmEmail(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateAvatar(ctx context.Context, email, url string) error {
	args := m.Called(ctx, email, url)
	return args.Error(0)
}

func (m *MockUserRepository) ChangePassword(ctx context.Context, email, newPasswordHash string) error {
	args := m.Called(ctx, email, newPasswordHash)
	return args.Error(0)
}

func (m *MockUserRepository) SetResetPasswordToken(ctx context.Context, email, token string) error {
	args := m.Called(ctx, email, token)
	return args.Error(0)
}

// MockRefreshTokenRepository
type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Issue(ctx context.Context, userUUID, ipAddress, userAgent string) (string, error) {
	args := m.Called(ctx, userUUID, ipAddress, userAgent)
	return args.String(0), args.Error(1)
}

func (m *MockRefreshTokenRepository) LookupActive(ctx context.Context, rawToken string) (*model.RefreshToken, error) {
	args := m.Called(ctx, rawToken)
	if token, ok := args.Get(0).(*model.RefreshToken); ok {
		return token, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRefreshTokenRepository) Revoke(ctx context.Context, rawToken string) error {
	args := m.Called(ctx, rawToken)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) Rotate(ctx context.Context, rawToken, ipAddress, userAgent string) (string, string, error) {
	args := m.Called(ctx, rawToken, ipAddress, userAgent)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockRefreshTokenRepository) PurgeExpired(ctx context.Context, retention time.Duration) (int64, error) {
	args := m.Called(ctx, retention)
	return args.Get(0).(int64), args.Error(1)
}

// MockBlacklistRepository
type MockBlacklistRepository struct {
	mock.Mock
}

func (m *MockBlacklistRepository) Blacklist(ctx context.Context, rawToken string, ttl time.Duration) error {
	args := m.Called(ctx, rawToken, ttl)
	return args.Error(0)
}

func (m *MockBlacklistRepository) IsBlacklisted(ctx context.Context, rawToken string) (bool, error) {
	args := m.Called(ctx, rawToken)
	return args.Bool(0), args.Error(1)
}

// MockJWTService
type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateAccessToken(username string) (string, error) {
	args := m.Called(username)
	return args.String(0), args.Error(1)
}

func (m *MockJWTService) ValidateAccessToken(tokenStr string) (*security.Claims, error) {
	args := m.Called(tokenStr)
	if claims, ok := args.Get(0).(*security.Claims); ok {
		return claims, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockJWTService) GenerateResetToken(email string) (string, error) {
	args := m.Called(email)
	return args.String(0), args.Error(1)
}

func (m *MockJWTService) ParseResetToken(tokenStr string) (string, error) {
	args := m.Called(tokenStr)
	return args.String(0), args.Error(1)
}

func (m *MockJWTService) GenerateConfirmToken(email string) (string, error) {
	args := m.Called(email)
	return args.String(0), args.Error(1)
}

func (m *MockJWTService) ParseConfirmToken(tokenStr string) (string, error) {
	args := m.Called(tokenStr)
	return args.String(0), args.Error(1)
}

// MockMailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendConfirmation(email, username, baseURL string) error {
	args := m.Called(email, username, baseURL)
	return args.Error(0)
}

func (m *MockMailer) SendPasswordReset(email, username, baseURL, token string) error {
	args := m.Called(email, username, baseURL, token)
	return args.Error(0)
}

// MockAvatarLookup
type MockAvatarLookup struct {
	mock.Mock
}

func (m *MockAvatarLookup) Lookup(email string) (string, bool) {
	args := m.Called(email)
	return args.String(0), args.Bool(1)
}

// ===== HELPERS =====

type authMocks struct {
	users     *MockUserRepository
	refresh   *MockRefreshTokenRepository
	blacklist *MockBlacklistRepository
	jwt       *MockJWTService
	mailer    *MockMailer
	avatars   *MockAvatarLookup
}

func newTestAuthService() (*service.AuthenticationService, *authMocks) {
	m := &authMocks{
		users:     new(MockUserRepository),
		refresh:   new(MockRefreshTokenRepository),
		blacklist: new(MockBlacklistRepository),
		jwt:       new(MockJWTService),
		mailer:    new(MockMailer),
		avatars:   new(MockAvatarLookup),
	}

	svc := service.NewAuthenticationService(
		m.users,
		m.refresh,
		m.blacklist,
		m.jwt,
		m.mailer,
		m.avatars,
		"http://localhost:8080",
	)

	return svc, m
}

func validClaims(username string, ttl time.Duration) *security.Claims {
	return &security.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
}

// ===== TESTS: REGISTER =====

// 1. Имя пользователя уже занято
func TestRegister_UsernameTaken(t *testing.T) {
	svc, m := newTestAuthService()
	ctx := context.Background()

	m.users.On("FindByUsername", ctx, "alice").
		Return(&model.User{UUID: "u1", Username: "alice"}, nil)

	_, err := svc.Register(ctx, "alice", "alice@example.com", "secret1")

	assert.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrConflict)
	m.users.AssertExpectations(t)
}

// 2. Email уже занят другим аккаунтом
func TestRegister_EmailTaken(t *testing.T) {
	svc, m := newTestAuthService()
	ctx := context.Background()

	m.users.On("FindByUsername", ctx, "alice").Return(nil, nil)
	m.users.On("FindByEmail", ctx, "alice@example.com").
		Return(&model.User{UUID: "u2", Email: "alice@example.com"}, nil)

	_, err := svc.Register(ctx, "alice", "alice@example.com", "secret1")

	assert.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrConflict)
	m.users.AssertExpectations(t)
}

// 3. Успешная регистрация: пользователь не подтвержден, роль USER,
// хэш пароля не равен самому паролю, аватар взят из lookup
func TestRegister_Success(t *testing.T) {
	svc, m := newTestAuthService()
	ctx := context.Background()

	m.users.On("FindByUsername", ctx, "alice").Return(nil, nil)
	m.users.On("FindByEmail", ctx, "alice@example.com").Return(nil, nil)
	m.avatars.On("Lookup", "alice@example.com").
		Return("https://www.gravatar.com/avatar/abc", true)
	created := &model.User{
		UUID:     "u1",
		Username: "alice",
		Email:    "alice@example.com",
		Avatar:   "https://www.gravatar.com/avatar/abc",
		Role:     model.RoleUser,
	}
	m.users.On("CreateUser", ctx, mock.MatchedBy(func(u *model.User) bool {
		return u.Username == "alice" &&
			u.Email == "alice@example.com" &&
			u.Role == model.RoleUser &&
			!u.Confirmed &&
			u.Avatar == "https://www.gravatar.com/avatar/abc" &&
			u.PasswordHash != "secret1" &&
			security.CheckPassword("secret1", u.PasswordHash)
	})).Return(created, nil)
	m.mailer.On("SendConfirmation", "alice@example.com", "alice", "http://localhost:8080").
		Return(nil).Maybe()

	user, err := svc.Register(ctx, "alice", "alice@example.com", "secret1")

	assert.NoError(t, err)
	assert.Equal(t, "u1", user.UUID)
	assert.Equal(t, "https://www.gravatar.com/avatar/abc", user.Avatar)
	m.users.AssertExpectations(t)
}

// ===== TESTS: LOGIN =====

// 4. Неизвестный username и неверный пароль дают одинаковое сообщение
func TestLogin_UnknownUserAndWrongPassword_SameMessage(t *testing.T) {
	svc, m := newTestAuthService()
	ctx := context.Background()

	hash, _ := security.HashPassword("goodpass")
	m.users.On("FindByUsername", ctx, "ghost").Return(nil, nil)
	m.users.On("FindByUsername", ctx, "alice").
		Return(&model.User{UUID: "u1", Username: "alice", PasswordHash: hash, Confirmed: true}, nil)

	_, errUnknown := svc.Login(ctx, "ghost", "whatever", "agent", "127.0.0.1")
	_, errWrongPass := svc.Login(ctx, "alice", "badpass", "agent", "127.0.0.1")

	assert.ErrorIs(t, errUnknown, apperror.ErrUnauthorized)
	assert.ErrorIs(t, errWrongPass, apperror.ErrUnauthorized)
	assert.Equal(t, errUnknown.Error(), errWrongPass.Error())
}

// 5. Неподтвержденный email отличим от неверных учетных данных
func TestLogin_EmailNotConfirmed(t *testing.T) {
	svc, m := newTestAuthService()
	ctx := context.Background()

	hash, _ := security.HashPassword("goodpass")
	m.users.On("FindByUsername", ctx, "alice").
		Return(&model.User{UUID: "u1", Username: "alice", PasswordHash: hash, Confirmed: false}, nil)

	_, err := svc.Login(ctx, "alice", "goodpass", "agent", "127.0.0.1")

	assert.ErrorIs(t, err, apperror.ErrEmailNotConfirmed)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	assert.NotContains(t, err.Error(), "incorrect username or password")
}

// 6. Успешный логин: access + refresh, тип bearer
func TestLogin_Success(t *testing.T) {
	svc, m := newTestAuthService()
	ctx := context.Background()

	hash, _ := security.HashPassword("goodpass")
	m.users.On("FindByUsername", ctx, "alice").
		Return(&model.User{UUID: "u1", Username: "alice", PasswordHash: hash, Confirmed: true}, nil)
	m.jwt.On("GenerateAccessToken", "alice").Return("acc", nil)
	m.refresh.On("Issue", ctx, "u1", "127.0.0.1", "agent").Return("raw-refresh", nil)

	tokens, err := svc.Login(ctx, "alice", "goodpass", "agent", "127.0.0.1")

	assert.NoError(t, err)
	assert.Equal(t, "acc", tokens.AccessToken)
	assert.Equal(t, "bearer", tokens.TokenType)
	assert.Equal(t, "raw-refresh", tokens.RefreshToken)
	m.refresh.AssertExpectations(t)
}

// ===== TESTS: REFRESH =====

// 7. Неактивный refresh-токен: хранилище отказывает, наружу Unauthorized
func TestRefresh_InactiveToken(t *testing.T) {
	svc, m := newTestAuthService()
	ctx := context.Background()

	m.refresh.On("Rotate", ctx, "dead-token", "127.0.0.1", "agent").
		Return("", "", apperror.ErrUnauthorized)

	_, err := svc.Refresh(ctx, "dead-token", "agent", "127.0.0.1")

	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	m.refresh.AssertExpectations(t)
}

// 8. Успешная ротация: наружу уходит новый refresh и свежий access
func TestRefresh_Success(t *testing.T) {
	svc, m := newTestAuthService()
	ctx := context.Background()

	m.refresh.On("Rotate", ctx, "old-refresh", "127.0.0.1", "agent").
		Return("new-refresh", "u1", nil)
	m.users.On("FindByUUID", ctx, "u1").
		Return(&model.User{UUID: "u1", Username: "alice", Confirmed: true}, nil)
	m.jwt.On("GenerateAccessToken", "alice").Return("acc2", nil)

	tokens, err := svc.Refresh(ctx, "old-refresh", "agent", "127.0.0.1")

	assert.NoError(t, err)
	assert.Equal(t, "new-refresh", tokens.RefreshToken)
	assert.Equal(t, "acc2", tokens.AccessToken)
	m.refresh.AssertExpectations(t)
}

// ===== TESTS: LOGOUT =====

// 9. Валидный access попадает в черный список на остаток срока
func TestLogout_ValidAccessBlacklisted(t *testing.T) {
	svc, m := newTestAuthService()
	ctx := context.Background()

	m.jwt.On("ValidateAccessToken", "acc").
		Return(validClaims("alice", 10*time.Minute), nil)
	m.blacklist.On("Blacklist", ctx, "acc", mock.MatchedBy(func(ttl time.Duration) bool {
		return ttl > 9*time.Minute && ttl <= 10*time.Minute
	})).Return(nil)
	m.refresh.On("Revoke", ctx, "raw-refresh").Return(nil)

	err := svc.Logout(ctx, "acc", "raw-refresh")

	assert.NoError(t, err)
	m.blacklist.AssertExpectations(t)
	m.refresh.AssertExpectations(t)
}

// 10. Просроченный access пропускается молча, refresh все равно отзывается
func TestLogout_ExpiredAccessStillRevokesRefresh(t *testing.T) {
	svc, m := newTestAuthService()
	ctx := context.Background()

	m.jwt.On("ValidateAccessToken", "expired").
		Return(nil, errors.New("token is expired"))
	m.refresh.On("Revoke", ctx, "raw-refresh").Return(nil)

	err := svc.Logout(ctx, "expired", "raw-refresh")

	assert.NoError(t, err)
	m.blacklist.AssertNotCalled(t, "Blacklist", mock.Anything, mock.Anything, mock.Anything)
	m.refresh.AssertExpectations(t)
}

// ===== TESTS: PASSWORD RESET =====

// 11. Несуществующий email: успех без каких-либо действий
func TestRequestPasswordReset_UnknownEmail(t *testing.T) {
	svc, m := newTestAuthService()
	ctx := context.Background()

	m.users.On("FindByEmail", ctx, "ghost@example.com").Return(nil, nil)

	err := svc.RequestPasswordReset(ctx, "ghost@example.com")

	assert.NoError(t, err)
	m.jwt.AssertNotCalled(t, "GenerateResetToken", mock.Anything)
	m.users.AssertNotCalled(t, "SetResetPasswordToken", mock.Anything, mock.Anything, mock.Anything)
}

// 12. Существующий email: токен сохраняется в профиле
func TestRequestPasswordReset_Success(t *testing.T) {
	svc, m := newTestAuthService()
	ctx := context.Background()

	m.users.On("FindByEmail", ctx, "alice@example.com").
		Return(&model.User{UUID: "u1", Username: "alice", Email: "alice@example.com"}, nil)
	m.jwt.On("GenerateResetToken", "alice@example.com").Return("reset-token", nil)
	m.users.On("SetResetPasswordToken", ctx, "alice@example.com", "reset-token").Return(nil)
	m.mailer.On("SendPasswordReset", "alice@example.com", "alice", "http://localhost:8080", "reset-token").
		Return(nil).Maybe()

	err := svc.RequestPasswordReset(ctx, "alice@example.com")

	assert.NoError(t, err)
	m.users.AssertExpectations(t)
}

// 13. Битый reset-токен
func TestResetPassword_InvalidToken(t *testing.T) {
	svc, m := newTestAuthService()
	ctx := context.Background()

	m.jwt.On("ParseResetToken", "garbage").
		Return("", apperror.ErrInvalidToken)

	err := svc.ResetPassword(ctx, "garbage", "newpass")

	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
	m.users.AssertNotCalled(t, "ChangePassword", mock.Anything, mock.Anything, mock.Anything)
}

// 14. Успешная смена: новый пароль хэшируется, старый перестает подходить
func TestResetPassword_Success(t *testing.T) {
	svc, m := newTestAuthService()
	ctx := context.Background()

	m.jwt.On("ParseResetToken", "reset-token").Return("alice@example.com", nil)
	m.users.On("FindByEmail", ctx, "alice@example.com").
		Return(&model.User{UUID: "u1", Username: "alice", Email: "alice@example.com"}, nil)
	m.users.On("ChangePassword", ctx, "alice@example.com", mock.MatchedBy(func(hash string) bool {
		return security.CheckPassword("newpass", hash) && !security.CheckPassword("oldpass", hash)
	})).Return(nil)

	err := svc.ResetPassword(ctx, "reset-token", "newpass")

	assert.NoError(t, err)
	m.users.AssertExpectations(t)
}

// ===== TESTS: GET CURRENT USER =====

// 15. Отозванный токен отклоняется до проверки подписи
func TestGetCurrentUser_BlacklistedBeforeSignature(t *testing.T) {
	svc, m := newTestAuthService()
	ctx := context.Background()

	m.blacklist.On("IsBlacklisted", ctx, "acc").Return(true, nil)

	_, err := svc.GetCurrentUser(ctx, "acc")

	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	m.jwt.AssertNotCalled(t, "ValidateAccessToken", mock.Anything)
}

// 16. Невалидная подпись
func TestGetCurrentUser_InvalidSignature(t *testing.T) {
	svc, m := newTestAuthService()
	ctx := context.Background()

	m.blacklist.On("IsBlacklisted", ctx, "forged").Return(false, nil)
	m.jwt.On("ValidateAccessToken", "forged").
		Return(nil, errors.New("signature is invalid"))

	_, err := svc.GetCurrentUser(ctx, "forged")

	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

// 17. Живой токен возвращает владельца
func TestGetCurrentUser_Success(t *testing.T) {
	svc, m := newTestAuthService()
	ctx := context.Background()

	m.blacklist.On("IsBlacklisted", ctx, "acc").Return(false, nil)
	m.jwt.On("ValidateAccessToken", "acc").
		Return(validClaims("alice", 10*time.Minute), nil)
	m.users.On("FindByUsername", ctx, "alice").
		Return(&model.User{UUID: "u1", Username: "alice", Confirmed: true}, nil)

	user, err := svc.GetCurrentUser(ctx, "acc")

	assert.NoError(t, err)
	assert.Equal(t, "u1", user.UUID)
}

// 18. Сценарий logout: после выхода тот же access-токен больше не проходит
func TestLogoutThenGetCurrentUser_Rejected(t *testing.T) {
	svc, m := newTestAuthService()
	ctx := context.Background()

	m.jwt.On("ValidateAccessToken", "acc").
		Return(validClaims("alice", 10*time.Minute), nil)
	m.blacklist.On("Blacklist", ctx, "acc", mock.Anything).Return(nil)
	m.refresh.On("Revoke", ctx, "raw-refresh").Return(nil)

	assert.NoError(t, svc.Logout(ctx, "acc", "raw-refresh"))

	// черный список теперь отвечает "да"
	m.blacklist.On("IsBlacklisted", ctx, "acc").Return(true, nil)

	_, err := svc.GetCurrentUser(ctx, "acc")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}
