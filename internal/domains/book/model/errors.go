package model

import "errors"

var (
	ErrBookNotFound   = errors.New("book not found")
	ErrBookOutOfStock = errors.New("book is out of stock")
	ErrDatabaseQuery  = errors.New("database query error")
)
