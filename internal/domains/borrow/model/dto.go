package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// BorrowRequest records a lending: which book, for which member.
type BorrowRequest struct {
	BookID string `json:"bookId"`
	Email  string `json:"email"`
}

func (r BorrowRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID,
			validation.Required.Error("bookId is required"),
			is.UUID.Error("bookId must be a valid id"),
		),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.Email.Error("invalid email format"),
		),
	)
}

// ReturnRequest identifies the member returning a book; the book comes
// from the URL.
type ReturnRequest struct {
	Email string `json:"email"`
}

func (r ReturnRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.Email.Error("invalid email format"),
		),
	)
}
