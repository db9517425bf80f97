package model

import "time"

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	UUID               string    `db:"uuid" json:"uuid"`
	Username           string    `db:"username" json:"username"`
	Email              string    `db:"email" json:"email"`
	PasswordHash       string    `db:"password_hash" json:"-"`
	Avatar             string    `db:"avatar" json:"avatar,omitempty"`
	Confirmed          bool      `db:"confirmed" json:"confirmed"`
	Role               string    `db:"role" json:"role"`
	ResetPasswordToken string    `db:"reset_password_token" json:"-"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}
