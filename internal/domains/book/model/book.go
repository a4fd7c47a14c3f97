package model

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Book is a catalog entry. Quantity is the number of copies on the shelf;
// Availability is derived and must always equal quantity > 0.
type Book struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	Title        string          `json:"title" db:"title"`
	Author       string          `json:"author" db:"author"`
	Description  string          `json:"description" db:"description"`
	Category     string          `json:"category" db:"category"`
	Price        decimal.Decimal `json:"price" db:"price"`
	Quantity     int             `json:"quantity" db:"quantity"`
	Availability bool            `json:"availability" db:"availability"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time       `json:"updatedAt" db:"updated_at"`
}

// Available reports whether at least one copy is on the shelf.
func (b *Book) Available() bool {
	return b.Quantity > 0
}

var priceFormat = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// AddBookRequest is the admin payload for creating a book.
type AddBookRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Price       string `json:"price"`
	Quantity    int    `json:"quantity"`
}

func (r AddBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, 500),
		),
		validation.Field(&r.Author,
			validation.Required.Error("author is required"),
			validation.Length(1, 200),
		),
		validation.Field(&r.Description,
			validation.Required.Error("description is required"),
			validation.Length(1, 5000),
		),
		validation.Field(&r.Category,
			validation.Required.Error("category is required"),
			validation.Length(1, 100),
		),
		validation.Field(&r.Price,
			validation.Required.Error("price is required"),
			validation.Match(priceFormat).Error("price must be a positive amount like 12.50"),
		),
		validation.Field(&r.Quantity,
			validation.Min(1).Error("quantity must be at least 1"),
		),
	)
}

// ToBook builds the entity; the caller has already validated the request.
func (r AddBookRequest) ToBook() (*Book, error) {
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Book{
		ID:           uuid.New(),
		Title:        r.Title,
		Author:       r.Author,
		Description:  r.Description,
		Category:     r.Category,
		Price:        price,
		Quantity:     r.Quantity,
		Availability: r.Quantity > 0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
