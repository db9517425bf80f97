package security

import (
	"contacts-web-server/config"
	"contacts-web-server/internal/apperror"
	"contacts-web-server/internal/util"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer = "Contacts-web-server"

	// срок жизни токена сброса пароля фиксированный, час —
	// токен уходит по почте и несет повышенный риск
	resetTokenTTL = time.Hour

	// письмо подтверждения email живет дольше
	confirmTokenTTL = 7 * 24 * time.Hour
)

type Claims struct {
	jwt.RegisteredClaims
}

type JWTService struct {
	*config.JWTConfig
	method jwt.SigningMethod
}

func NewJWTService(cfg *config.JWTConfig) (*JWTService, error) {
	method := jwt.GetSigningMethod(cfg.Algorithm)
	if method == nil {
		return nil, fmt.Errorf("неизвестный алгоритм подписи: %q", cfg.Algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("поддерживается только семейство HMAC, получен %q", cfg.Algorithm)
	}
	return &JWTService{cfg, method}, nil
}

// GenerateAccessToken подписывает короткоживущий access-токен
// с sub = username и exp = now + access_token_ttl
func (service *JWTService) GenerateAccessToken(username string) (string, error) {
	ttl, err := time.ParseDuration(service.AccessTokenTTL)
	if err != nil {
		return "", util.LogError("ошибка парсинга access_token_ttl", err)
	}
	return service.sign(username, ttl)
}

// ValidateAccessToken проверяет подпись и срок жизни. Подделка, битый формат
// и просрочка намеренно сливаются в один вид ошибки, чтобы не давать оракул.
func (service *JWTService) ValidateAccessToken(tokenStr string) (*Claims, error) {
	return service.parse(tokenStr)
}

func (service *JWTService) GenerateResetToken(email string) (string, error) {
	return service.sign(email, resetTokenTTL)
}

// ParseResetToken возвращает email из токена сброса пароля.
// Срок сверяется явно с текущим временем поверх проверки библиотеки.
func (service *JWTService) ParseResetToken(tokenStr string) (string, error) {
	claims, err := service.parse(tokenStr)
	if err != nil {
		return "", err
	}
	if claims.ExpiresAt == nil || time.Now().UTC().After(claims.ExpiresAt.Time) {
		return "", fmt.Errorf("токен просрочен: %w", apperror.ErrInvalidToken)
	}
	return claims.Subject, nil
}

func (service *JWTService) GenerateConfirmToken(email string) (string, error) {
	return service.sign(email, confirmTokenTTL)
}

func (service *JWTService) ParseConfirmToken(tokenStr string) (string, error) {
	claims, err := service.parse(tokenStr)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (service *JWTService) sign(subject string, ttl time.Duration) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    issuer,
		},
	}

	jwtToken := jwt.NewWithClaims(service.method, claims)
	signed, err := jwtToken.SignedString([]byte(service.SecretKey))
	if err != nil {
		return "", util.LogError("ошибка подписи токена", err)
	}
	return signed, nil
}

func (service *JWTService) parse(tokenStr string) (*Claims, error) {
	var claims = &Claims{}

	jwtToken, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Header["alg"] != service.method.Alg() {
			return nil, fmt.Errorf("неверный способ подписи токена: %v", token.Header["alg"])
		}
		return []byte(service.SecretKey), nil
	})

	if err != nil || !jwtToken.Valid {
		return nil, fmt.Errorf("невалидный токен: %w", apperror.ErrInvalidToken)
	}

	return claims, nil
}
