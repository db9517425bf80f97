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
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

const birthdayLayout = "2006-01-02"

type ContactHandler struct {
	ports.ContactService
}

func NewContactHandler(contactService ports.ContactService) *ContactHandler {
	return &ContactHandler{contactService}
}

// Create godoc
// @Summary Создание контакта
// @Tags Contacts
// @Accept json
// @Produce json
// @Param body body requestresponse.CreateContactRequest true "Тело запроса"
// @Success 201 {object} model.Contact
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/contacts [post]
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := security.GetUserFromContext(r.Context())
	if err != nil {
		sendErrorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req requestresponse.CreateContactRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	if req.FirstName == "" || req.LastName == "" || req.Email == "" {
		sendErrorResponse(w, http.StatusBadRequest, "first_name, last_name и email обязательны")
		return
	}

	birthday, err := time.Parse(birthdayLayout, req.Birthday)
	if err != nil {
		sendErrorResponse(w, http.StatusBadRequest, "birthday должен быть в формате YYYY-MM-DD")
		return
	}

	contact := &model.Contact{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		Birthday:     birthday,
		OptionalData: req.OptionalData,
	}

	created, err := h.ContactService.Create(r.Context(), user.UUID, contact)
	if err != nil {
		log.Println(err)
		sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// Get godoc
// @Summary Контакт по идентификатору
// @Tags Contacts
// @Produce json
// @Param id path int true "Идентификатор контакта"
// @Success 200 {object} model.Contact
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/contacts/{id} [get]
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := security.GetUserFromContext(r.Context())
	if err != nil {
		sendErrorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := contactID(r)
	if err != nil {
		sendErrorResponse(w, http.StatusBadRequest, "некорректный идентификатор")
		return
	}

	contact, err := h.ContactService.Get(r.Context(), user.UUID, id)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, apperror.ErrNotFound):
			sendErrorResponse(w, http.StatusNotFound, "Contact not found")
		default:
			sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		}
		return
	}

	writeJSON(w, http.StatusOK, contact)
}

// List godoc
// @Summary Список контактов пользователя
// @Tags Contacts
// @Produce json
// @Param limit query int false "Размер страницы (по умолчанию 10, максимум 100)"
// @Param offset query int false "Смещение"
// @Success 200 {array} model.Contact
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/contacts [get]
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	user, err := security.GetUserFromContext(r.Context())
	if err != nil {
		sendErrorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit, offset := pagination(r)

	contacts, err := h.ContactService.List(r.Context(), user.UUID, limit, offset)
	if err != nil {
		log.Println(err)
		sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		return
	}

	writeJSON(w, http.StatusOK, contacts)
}

// Update godoc
// @Summary Частичное обновление контакта
// @Description Меняет только переданные поля, остальные остаются как были
// @Tags Contacts
// @Accept json
// @Produce json
// @Param id path int true "Идентификатор контакта"
// @Param body body requestresponse.UpdateContactRequest true "Тело запроса"
// @Success 200 {object} model.Contact
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/contacts/{id} [patch]
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, err := security.GetUserFromContext(r.Context())
	if err != nil {
		sendErrorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := contactID(r)
	if err != nil {
		sendErrorResponse(w, http.StatusBadRequest, "некорректный идентификатор")
		return
	}

	var req requestresponse.UpdateContactRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	var birthday time.Time
	if req.Birthday != nil {
		birthday, err = time.Parse(birthdayLayout, *req.Birthday)
		if err != nil {
			sendErrorResponse(w, http.StatusBadRequest, "birthday должен быть в формате YYYY-MM-DD")
			return
		}
	}

	updated, err := h.ContactService.Update(r.Context(), user.UUID, id, func(contact *model.Contact) {
		if req.FirstName != nil {
			contact.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			contact.LastName = *req.LastName
		}
		if req.Email != nil {
			contact.Email = *req.Email
		}
		if req.Phone != nil {
			contact.Phone = *req.Phone
		}
		if req.Birthday != nil {
			contact.Birthday = birthday
		}
		if req.OptionalData != nil {
			contact.OptionalData = *req.OptionalData
		}
	})
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, apperror.ErrNotFound):
			sendErrorResponse(w, http.StatusNotFound, "Contact not found")
		default:
			sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		}
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Delete godoc
// @Summary Удаление контакта
// @Tags Contacts
// @Param id path int true "Идентификатор контакта"
// @Success 204 "Контакт удален"
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/contacts/{id} [delete]
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := security.GetUserFromContext(r.Context())
	if err != nil {
		sendErrorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := contactID(r)
	if err != nil {
		sendErrorResponse(w, http.StatusBadRequest, "некорректный идентификатор")
		return
	}

	if err := h.ContactService.Delete(r.Context(), user.UUID, id); err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, apperror.ErrNotFound):
			sendErrorResponse(w, http.StatusNotFound, "Contact not found")
		default:
			sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Search godoc
// @Summary Поиск контактов по имени, фамилии или email
// @Tags Contacts
// @Produce json
// @Param q query string true "Строка поиска"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {array} model.Contact
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/contacts/search [get]
func (h *ContactHandler) Search(w http.ResponseWriter, r *http.Request) {
	user, err := security.GetUserFromContext(r.Context())
	if err != nil {
		sendErrorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		sendErrorResponse(w, http.StatusBadRequest, "параметр q обязателен")
		return
	}

	limit, offset := pagination(r)

	contacts, err := h.ContactService.Search(r.Context(), user.UUID, query, limit, offset)
	if err != nil {
		log.Println(err)
		sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		return
	}

	writeJSON(w, http.StatusOK, contacts)
}

// UpcomingBirthdays godoc
// @Summary Контакты с днем рождения в ближайшие дни
// @Tags Contacts
// @Produce json
// @Param days query int false "Горизонт в днях (по умолчанию 7)"
// @Success 200 {array} model.Contact
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/contacts/birthdays [get]
func (h *ContactHandler) UpcomingBirthdays(w http.ResponseWriter, r *http.Request) {
	user, err := security.GetUserFromContext(r.Context())
	if err != nil {
		sendErrorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	days, _ := strconv.Atoi(r.URL.Query().Get("days"))

	contacts, err := h.ContactService.UpcomingBirthdays(r.Context(), user.UUID, days)
	if err != nil {
		log.Println(err)
		sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		return
	}

	writeJSON(w, http.StatusOK, contacts)
}

func contactID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func pagination(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	return limit, offset
}
