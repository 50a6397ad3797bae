package seller

import (
	"context"

	"bookstore/internal/book"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=seller

// Repository defines the contract for seller data storage.
type Repository interface {
	Create(ctx context.Context, s *Seller) error
	List(ctx context.Context) ([]Seller, error)
	// GetWithBooks returns the seller and the books it owns in id order.
	GetWithBooks(ctx context.Context, id int64) (Seller, []book.Book, error)
	Update(ctx context.Context, s *Seller) error
	Delete(ctx context.Context, id int64) error
}
