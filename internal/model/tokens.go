package model

import "time"

type RefreshToken struct {
	UUID      string     `db:"uuid"`
	UserUUID  string     `db:"user_uuid"`
	TokenHash string     `db:"token_hash"`
	CreatedAt time.Time  `db:"created_at"`
	ExpiredAt time.Time  `db:"expired_at"`
	RevokedAt *time.Time `db:"revoked_at"`
	IpAddress string     `db:"ip_address"`
	UserAgent string     `db:"user_agent"`
}

// Active : токен жив, пока он не отозван и не просрочен.
// Других переходов обратно в «живое» состояние не существует.
func (t *RefreshToken) Active(now time.Time) bool {
	return t.RevokedAt == nil && t.ExpiredAt.After(now)
}

// TokensPair содержит пару access и refresh токенов
// swagger:model
type TokensPair struct {
	// Access токен (JWT)
	// example: eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9...
	AccessToken string `json:"access_token"`

	// Тип токена
	// example: bearer
	TokenType string `json:"token_type"`

	// Refresh токен (для получения новой пары)
	// example: vcSi0369y1I62wOpxZFpgZ...
	RefreshToken string `json:"refresh_token"`
}
