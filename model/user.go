package model

import "time"

// User is a single account record. The password digest and the stored
// refresh token are never serialized into responses.
type User struct {
	UserID       string    `json:"user_id"`
	Password     string    `json:"-"`
	Name         string    `json:"name"`
	Age          int       `json:"age"`
	Email        string    `json:"email"`
	PhoneNum     string    `json:"phone_num"`
	Height       int       `json:"height"`
	RefreshToken *string   `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
