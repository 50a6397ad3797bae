package seller

import (
	"errors"

	"bookstore/internal/book"
	"bookstore/internal/httpx"
)

// ErrNotFound is returned when a seller is not found.
var ErrNotFound = errors.New("seller not found")

// Seller is the persisted seller record. Password is write-only.
type Seller struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
	Password  string `json:"-"`
}

// BaseSeller holds the public fields shared by every seller shape.
type BaseSeller struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// IncomingSeller is a validated create or full-replacement payload.
type IncomingSeller struct {
	BaseSeller
	Password string `json:"-"`
}

type ReturnedSeller struct {
	ID int64 `json:"id"`
	BaseSeller
}

// ReturnedSellerBooks is the seller-with-books view. It carries no id.
type ReturnedSellerBooks struct {
	BaseSeller
	Books []book.ReturnedBook `json:"books"`
}

type ReturnedAllSellers struct {
	Sellers []ReturnedSeller `json:"sellers"`
}

// Pointers tell a missing field apart from an empty string.
type incomingPayload struct {
	FirstName *string `json:"first_name" validate:"required"`
	LastName  *string `json:"last_name" validate:"required"`
	Email     *string `json:"email" validate:"required"`
	Password  *string `json:"password" validate:"required"`
}

// ParseIncoming validates a raw JSON seller payload. Every field must be
// present and be a string; the email format is not checked. Unknown fields
// are ignored.
func ParseIncoming(raw []byte) (IncomingSeller, error) {
	var p incomingPayload
	if err := httpx.DecodeAndValidate(raw, &p); err != nil {
		return IncomingSeller{}, err
	}
	return IncomingSeller{
		BaseSeller: BaseSeller{
			FirstName: *p.FirstName,
			LastName:  *p.LastName,
			Email:     *p.Email,
		},
		Password: *p.Password,
	}, nil
}

func base(rec Seller) BaseSeller {
	return BaseSeller{FirstName: rec.FirstName, LastName: rec.LastName, Email: rec.Email}
}

// Serialize maps a record to its public shape, dropping the password.
func Serialize(rec Seller) ReturnedSeller {
	return ReturnedSeller{ID: rec.ID, BaseSeller: base(rec)}
}

// SerializeWithBooks keeps the order of books as given.
func SerializeWithBooks(rec Seller, books []book.Book) ReturnedSellerBooks {
	return ReturnedSellerBooks{BaseSeller: base(rec), Books: book.ReturnedList(books)}
}

func SerializeAll(recs []Seller) ReturnedAllSellers {
	out := ReturnedAllSellers{Sellers: make([]ReturnedSeller, 0, len(recs))}
	for _, rec := range recs {
		out.Sellers = append(out.Sellers, Serialize(rec))
	}
	return out
}

func fromIncoming(in IncomingSeller) Seller {
	return Seller{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  in.Password,
	}
}
