package requestresponse

// RegisterRequest : тело запроса регистрации
type RegisterRequest struct {
	Username string `json:"username" example:"alice"`
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"secret1"`
}

// RefreshTokenRequest : запрос на обновление пары токенов
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" example:"vcSi0369y1I62wOpxZFpgZ"`
}

// LogoutRequest : тело запроса завершения сессии
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" example:"vcSi0369y1I62wOpxZFpgZ"`
}

// PasswordResetRequest : запрос письма для сброса пароля
type PasswordResetRequest struct {
	Email string `json:"email" example:"alice@example.com"`
}

// ResetPasswordRequest : тело запроса смены пароля по токену
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" example:"NewSecret123"`
}

// MessageResponse : обобщенный ответ с сообщением
type MessageResponse struct {
	Message string `json:"message" example:"Check your email address"`
}

// ErrorDetail : детальная информация об ошибке
type ErrorDetail struct {
	Code int    `json:"code" example:"400"`
	Text string `json:"text" example:"for example: invalid login or password"`
}

// ErrorResponse : стандартная структура ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
