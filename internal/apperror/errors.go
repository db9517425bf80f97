// Package apperror определяет доменные виды ошибок сервиса авторизации.
// Сервисный слой возвращает их через errors.Is-совместимые обертки,
// HTTP-слой отображает каждый вид в статус-код ровно в одном месте.
package apperror

import (
	"errors"
	"fmt"
)

var (
	// ErrConflict : логин или email уже заняты при регистрации (409)
	ErrConflict = errors.New("conflict")

	// ErrUnauthorized : неверные учетные данные, неподтвержденный email,
	// отозванный/просроченный access-токен или неактивный refresh-токен (401)
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidToken : битая подпись или формат подписанного токена (400).
	// Просрочка намеренно не отличима от подделки, чтобы не давать оракул.
	ErrInvalidToken = errors.New("invalid token")

	// ErrNotFound : запрошенный ресурс не существует или принадлежит
	// другому пользователю (404)
	ErrNotFound = errors.New("not found")
)

// ErrEmailNotConfirmed различим от общего сообщения про логин/пароль — так
// ведет себя исходная система, хотя это ослабляет устойчивость к перечислению
// аккаунтов. Оборачивает ErrUnauthorized, маппинг в 401 сохраняется.
var ErrEmailNotConfirmed = fmt.Errorf("email is not confirmed: %w", ErrUnauthorized)
