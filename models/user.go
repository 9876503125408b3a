package models

type User struct {
	ID                int    `json:"id"`
	Email             string `json:"email"`
	PasswordHash      string `json:"-"`
	Verified          bool   `json:"verified"`
	IsAdmin           bool   `json:"isAdmin"`
	VerificationToken string `json:"-"`
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}
