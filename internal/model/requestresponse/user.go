package requestresponse

// UserResponse : проекция пользователя для API.
// Хэш пароля наружу не отдается никогда.
type UserResponse struct {
	UUID      string `json:"uuid" example:"123e4567-e89b-12d3-a456-426614174000"`
	Username  string `json:"username" example:"alice"`
	Email     string `json:"email" example:"alice@example.com"`
	Avatar    string `json:"avatar,omitempty" example:"https://www.gravatar.com/avatar/abc"`
	Confirmed bool   `json:"confirmed" example:"false"`
	Role      string `json:"role" example:"USER"`
}

// RequestEmailBody : запрос повторной отправки письма подтверждения
type RequestEmailBody struct {
	Email string `json:"email" example:"alice@example.com"`
}
