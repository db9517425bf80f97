package handler

import (
	"contacts-web-server/internal/apperror"
	"contacts-web-server/internal/model/requestresponse"
	"contacts-web-server/internal/ports"
	"contacts-web-server/internal/security"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Аватар больше 2 МБ не принимаем
const maxAvatarSize = 2 << 20

type UserHandler struct {
	ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService}
}

// Me godoc
// @Summary Текущий пользователь
// @Description Возвращает профиль пользователя, которому принадлежит access-токен
// @Tags Users
// @Produce json
// @Success 200 {object} requestresponse.UserResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/users/me [get]
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := security.GetUserFromContext(r.Context())
	if err != nil {
		sendErrorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	writeJSON(w, http.StatusOK, userProjection(user))
}

// ConfirmedEmail godoc
// @Summary Подтверждение email по токену из письма
// @Description Повторный переход по ссылке безопасен: ответ сообщает, что email уже подтвержден
// @Tags Users
// @Produce json
// @Param token path string true "Токен подтверждения из письма"
// @Success 200 {object} requestresponse.MessageResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Битый или просроченный токен"
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/v1/users/confirmed_email/{token} [get]
func (h *UserHandler) ConfirmedEmail(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		sendErrorResponse(w, http.StatusBadRequest, "токен не указан")
		return
	}

	alreadyConfirmed, err := h.UserService.ConfirmEmail(r.Context(), token)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, apperror.ErrInvalidToken):
			sendErrorResponse(w, http.StatusBadRequest, "Verification error")
		default:
			sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		}
		return
	}

	message := "Email confirmed"
	if alreadyConfirmed {
		message = "Your email is already confirmed"
	}
	writeJSON(w, http.StatusOK, requestresponse.MessageResponse{Message: message})
}

// RequestEmail godoc
// @Summary Повторная отправка письма подтверждения
// @Description Ответ одинаков для несуществующих и уже подтвержденных адресов
// @Tags Users
// @Accept json
// @Produce json
// @Param body body requestresponse.RequestEmailBody true "Тело запроса"
// @Success 200 {object} requestresponse.MessageResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/v1/users/request_email [post]
func (h *UserHandler) RequestEmail(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.RequestEmailBody
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	if err := h.UserService.RequestConfirmEmail(r.Context(), req.Email); err != nil {
		log.Println(err)
		sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.MessageResponse{
		Message: "Check your email for confirmation",
	})
}

// UpdateAvatar godoc
// @Summary Загрузка аватара
// @Description Принимает multipart-файл, кладет его в объектное хранилище и обновляет ссылку в профиле
// @Tags Users
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Файл изображения"
// @Success 200 {object} requestresponse.UserResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/users/avatar [patch]
func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	user, err := security.GetUserFromContext(r.Context())
	if err != nil {
		sendErrorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		sendErrorResponse(w, http.StatusBadRequest, "некорректная multipart-форма")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		sendErrorResponse(w, http.StatusBadRequest, "файл не передан")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxAvatarSize+1))
	if err != nil {
		log.Println(err)
		sendErrorResponse(w, http.StatusInternalServerError, "не удалось прочитать файл")
		return
	}
	if len(data) > maxAvatarSize {
		sendErrorResponse(w, http.StatusBadRequest, "файл слишком большой")
		return
	}

	updated, err := h.UserService.UpdateAvatar(r.Context(), user, header.Filename, data)
	if err != nil {
		log.Println(err)
		sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		return
	}

	writeJSON(w, http.StatusOK, userProjection(updated))
}
