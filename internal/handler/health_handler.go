package handler

import (
	"contacts-web-server/config"
	"contacts-web-server/internal/model/requestresponse"
	"log"
	"net/http"
)

type HealthHandler struct {
	database *config.Database
}

func NewHealthHandler(database *config.Database) *HealthHandler {
	return &HealthHandler{database}
}

// Healthchecker godoc
// @Summary Проверка готовности сервиса
// @Description Выполняет тривиальный запрос к базе данных
// @Tags Health
// @Produce json
// @Success 200 {object} requestresponse.MessageResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/v1/healthchecker [get]
func (h *HealthHandler) Healthchecker(w http.ResponseWriter, r *http.Request) {
	var one int
	if err := h.database.DB.GetContext(r.Context(), &one, "SELECT 1"); err != nil {
		log.Println(err)
		sendErrorResponse(w, http.StatusInternalServerError, "база данных недоступна")
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.MessageResponse{
		Message: "Welcome to contacts web server",
	})
}
