package models

import (
	"github.com/go-playground/validator/v10"
)

type Student struct {
	ID    int64  `db:"id" json:"id"`
	Name  string `db:"name" json:"name" validate:"required"`
	Age   int    `db:"age" json:"age" validate:"required,min=1,max=150"`
	Grade string `db:"grade" json:"grade" validate:"required"`
}

func (s *Student) Validate() error {
	validate := validator.New()
	return validate.Struct(s)
}
