package model

import "time"

type Contact struct {
	ID           int64     `db:"id" json:"id"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	Email        string    `db:"email" json:"email"`
	Phone        string    `db:"phone" json:"phone,omitempty"`
	Birthday     time.Time `db:"birthday" json:"birthday"`
	OptionalData string    `db:"optional_data" json:"optional_data,omitempty"`
	UserUUID     string    `db:"user_uuid" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
