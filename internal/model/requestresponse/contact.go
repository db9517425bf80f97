package requestresponse

// CreateContactRequest : тело запроса на создание контакта
type CreateContactRequest struct {
	FirstName    string `json:"first_name" example:"Ivan"`
	LastName     string `json:"last_name" example:"Petrov"`
	Email        string `json:"email" example:"ivan@example.com"`
	Phone        string `json:"phone" example:"+380501112233"`
	Birthday     string `json:"birthday" example:"1990-04-12"`
	OptionalData string `json:"optional_data,omitempty"`
}

// UpdateContactRequest : частичное обновление контакта,
// nil-поля не трогаются
type UpdateContactRequest struct {
	FirstName    *string `json:"first_name,omitempty"`
	LastName     *string `json:"last_name,omitempty"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Birthday     *string `json:"birthday,omitempty"`
	OptionalData *string `json:"optional_data,omitempty"`
}
