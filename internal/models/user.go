package models

import (
	"github.com/go-playground/validator/v10"
)

// User holds a registered account. Password carries the bcrypt hash,
// never the submitted plaintext.
type User struct {
	ID       int64  `db:"id" json:"id"`
	Username string `db:"username" json:"username" validate:"required"`
	Password string `db:"password" json:"-" validate:"required"`
}

func (u *User) Validate() error {
	validate := validator.New()
	return validate.Struct(u)
}
