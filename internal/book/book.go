package book

import (
	"errors"

	"bookstore/internal/httpx"
)

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrSellerNotFound is returned when a book references a missing seller.
	ErrSellerNotFound = errors.New("seller not found")
)

// Book is a persisted book owned by exactly one seller.
type Book struct {
	ID         int64
	Title      string
	Author     string
	Year       int
	CountPages int
	SellerID   int64
}

// IncomingBook is the validated create/update payload.
type IncomingBook struct {
	Title      string
	Author     string
	Year       int
	CountPages int
	SellerID   int64
}

// ReturnedBook is the public shape of a book as nested under its seller.
type ReturnedBook struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	Year       int    `json:"year"`
	CountPages int    `json:"count_pages"`
}

// ReturnedBookDetail is the shape served by the book endpoints.
type ReturnedBookDetail struct {
	ReturnedBook
	SellerID int64 `json:"seller_id"`
}

type ReturnedAllBooks struct {
	Books []ReturnedBookDetail `json:"books"`
}

// Filter narrows a book listing.
type Filter struct {
	SellerID *int64
}

type incomingPayload struct {
	Title      *string `json:"title" validate:"required"`
	Author     *string `json:"author" validate:"required"`
	Year       *int32  `json:"year" validate:"required"`
	CountPages *int32  `json:"count_pages" validate:"required"`
	SellerID   *int64  `json:"seller_id" validate:"required"`
}

// ParseIncoming validates a raw JSON book payload.
func ParseIncoming(raw []byte) (IncomingBook, error) {
	var p incomingPayload
	if err := httpx.DecodeAndValidate(raw, &p); err != nil {
		return IncomingBook{}, err
	}
	return IncomingBook{
		Title:      *p.Title,
		Author:     *p.Author,
		Year:       int(*p.Year),
		CountPages: int(*p.CountPages),
		SellerID:   *p.SellerID,
	}, nil
}

func (b Book) Returned() ReturnedBook {
	return ReturnedBook{
		ID:         b.ID,
		Title:      b.Title,
		Author:     b.Author,
		Year:       b.Year,
		CountPages: b.CountPages,
	}
}

func (b Book) Detail() ReturnedBookDetail {
	return ReturnedBookDetail{ReturnedBook: b.Returned(), SellerID: b.SellerID}
}

// ReturnedList maps books to their nested public shape, keeping order.
func ReturnedList(books []Book) []ReturnedBook {
	out := make([]ReturnedBook, 0, len(books))
	for _, b := range books {
		out = append(out, b.Returned())
	}
	return out
}
