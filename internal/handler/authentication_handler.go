package handler

import (
	"contacts-web-server/internal/apperror"
	"contacts-web-server/internal/model"
	"contacts-web-server/internal/model/requestresponse"
	"contacts-web-server/internal/ports"
	"contacts-web-server/internal/security"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type AuthenticationHandler struct {
	ports.AuthenticationService
}

func NewAuthenticationHandler(authenticationService ports.AuthenticationService) *AuthenticationHandler {
	return &AuthenticationHandler{authenticationService}
}

func userProjection(user *model.User) requestresponse.UserResponse {
	return requestresponse.UserResponse{
		UUID:      user.UUID,
		Username:  user.Username,
		Email:     user.Email,
		Avatar:    user.Avatar,
		Confirmed: user.Confirmed,
		Role:      user.Role,
	}
}

// Register godoc
// @Summary Регистрация нового пользователя
// @Description Создает неподтвержденного пользователя и в фоне отправляет письмо подтверждения
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.RegisterRequest true "Тело запроса"
// @Success 201 {object} requestresponse.UserResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Некорректный JSON или пустые поля"
// @Failure 409 {object} requestresponse.ErrorResponse "Логин или email уже заняты"
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/v1/auth/register [post]
func (h *AuthenticationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		sendErrorResponse(w, http.StatusBadRequest, "username, email и password обязательны")
		return
	}

	user, err := h.AuthenticationService.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, apperror.ErrConflict):
			sendErrorResponse(w, http.StatusConflict, "user already exists")
		default:
			sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		}
		return
	}

	writeJSON(w, http.StatusCreated, userProjection(user))
}

// Login godoc
// @Summary Аутентификация пользователя
// @Description Принимает form-encoded username/password, возвращает пару access+refresh токенов
// @Tags Authentication
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Имя пользователя"
// @Param password formData string true "Пароль"
// @Success 200 {object} model.TokensPair
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse "Неверные учетные данные или неподтвержденный email"
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/v1/auth/login [post]
func (h *AuthenticationHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		sendErrorResponse(w, http.StatusBadRequest, "некорректная форма")
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		sendErrorResponse(w, http.StatusBadRequest, "username и password обязательны")
		return
	}

	tokens, err := h.AuthenticationService.Login(r.Context(), username, password, r.UserAgent(), r.RemoteAddr)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, apperror.ErrEmailNotConfirmed):
			sendErrorResponse(w, http.StatusUnauthorized, "Email is not confirmed")
		case errors.Is(err, apperror.ErrUnauthorized):
			sendErrorResponse(w, http.StatusUnauthorized, "Incorrect username or password")
		default:
			sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		}
		return
	}

	writeJSON(w, http.StatusOK, tokens)
}

// Refresh godoc
// @Summary Обновление пары токенов
// @Description Меняет действующий refresh-токен на новую пару, старый токен отзывается атомарно
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.RefreshTokenRequest true "Тело запроса"
// @Success 200 {object} model.TokensPair
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse "Токен неактивен"
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/v1/auth/refresh [post]
func (h *AuthenticationHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.RefreshTokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	if req.RefreshToken == "" {
		sendErrorResponse(w, http.StatusBadRequest, "refresh_token обязателен")
		return
	}

	tokens, err := h.AuthenticationService.Refresh(r.Context(), req.RefreshToken, r.UserAgent(), r.RemoteAddr)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, apperror.ErrUnauthorized):
			sendErrorResponse(w, http.StatusUnauthorized, "Invalid refresh token")
		default:
			sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		}
		return
	}

	writeJSON(w, http.StatusOK, tokens)
}

// Logout godoc
// @Summary Завершение сессии
// @Description Заносит access-токен в черный список на остаток срока и отзывает refresh-токен. Идемпотентен.
// @Tags Authentication
// @Accept json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Param body body requestresponse.LogoutRequest true "Тело запроса"
// @Success 204 "Сессия завершена"
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/auth/logout [post]
func (h *AuthenticationHandler) Logout(w http.ResponseWriter, r *http.Request) {
	accessToken, ok := security.RawBearerToken(r)
	if !ok {
		sendErrorResponse(w, http.StatusUnauthorized, "пустой или неверный заголовок Authorization")
		return
	}

	var req requestresponse.LogoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	if err := h.AuthenticationService.Logout(r.Context(), accessToken, req.RefreshToken); err != nil {
		log.Println(err)
		sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RequestPasswordReset godoc
// @Summary Запрос письма для сброса пароля
// @Description Ответ одинаков вне зависимости от существования email — защита от перечисления аккаунтов
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.PasswordResetRequest true "Тело запроса"
// @Success 200 {object} requestresponse.MessageResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/v1/auth/request_password_reset [post]
func (h *AuthenticationHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.PasswordResetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	if err := h.AuthenticationService.RequestPasswordReset(r.Context(), req.Email); err != nil {
		log.Println(err)
		sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.MessageResponse{
		Message: "Check your email address",
	})
}

// ResetPassword godoc
// @Summary Смена пароля по reset-токену
// @Description Проверяет подписанный токен из письма и сохраняет новый пароль
// @Tags Authentication
// @Accept json
// @Produce json
// @Param token path string true "Reset-токен из письма"
// @Param body body requestresponse.ResetPasswordRequest true "Тело запроса"
// @Success 200 {object} requestresponse.MessageResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Битый или просроченный токен"
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/v1/auth/reset_password/{token} [post]
func (h *AuthenticationHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		sendErrorResponse(w, http.StatusBadRequest, "токен не указан")
		return
	}

	var req requestresponse.ResetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	if req.NewPassword == "" {
		sendErrorResponse(w, http.StatusBadRequest, "new_password обязателен")
		return
	}

	if err := h.AuthenticationService.ResetPassword(r.Context(), token, req.NewPassword); err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, apperror.ErrInvalidToken):
			sendErrorResponse(w, http.StatusBadRequest, "Token wrong")
		default:
			sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		}
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.MessageResponse{
		Message: "Password has been changed",
	})
}
