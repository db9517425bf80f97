package security

import (
	"contacts-web-server/internal/model"
	"contacts-web-server/internal/util"
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
)

type contextKey string

const (
	UserContextKey contextKey = "user"
)

// UserResolver превращает сырой access-токен в живого пользователя.
// Реализуется сервисом аутентификации: сперва чеклист отозванных токенов,
// потом подпись, потом поиск пользователя.
type UserResolver interface {
	GetCurrentUser(ctx context.Context, rawAccessToken string) (*model.User, error)
}

func AuthMiddleware(resolver UserResolver) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(handleAuthentication(resolver, next))
	}
}

func handleAuthentication(resolver UserResolver, next http.Handler) func(writer http.ResponseWriter, request *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		authorizationHeader := request.Header.Get("Authorization")
		if !strings.HasPrefix(authorizationHeader, "Bearer ") {
			util.HandleError(writer, "пустой или неверный заголовок Authorization", http.StatusUnauthorized)
			return
		}

		token := strings.TrimPrefix(authorizationHeader, "Bearer ")

		user, err := resolver.GetCurrentUser(request.Context(), token)
		if err != nil {
			log.Printf("невалидный токен: %v", err)
			util.HandleError(writer, "Could not validate credentials", http.StatusUnauthorized)
			return
		}

		req := request.WithContext(context.WithValue(request.Context(), UserContextKey, user))
		next.ServeHTTP(writer, req)
	}
}

func GetUserFromContext(ctx context.Context) (*model.User, error) {
	user, ok := ctx.Value(UserContextKey).(*model.User)
	if !ok || user == nil {
		return nil, fmt.Errorf("пользователь не авторизован")
	}
	return user, nil
}

// RawBearerToken достает токен из заголовка как есть,
// нужен logout'у для занесения в черный список
func RawBearerToken(request *http.Request) (string, bool) {
	authorizationHeader := request.Header.Get("Authorization")
	if !strings.HasPrefix(authorizationHeader, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(authorizationHeader, "Bearer "), true
}
