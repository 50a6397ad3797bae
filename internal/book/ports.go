package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository defines the contract for book data storage.
type Repository interface {
	Create(ctx context.Context, b *Book) error
	List(ctx context.Context, f Filter) ([]Book, error)
	Get(ctx context.Context, id int64) (Book, error)
	// Update replaces every mutable field and returns the seller that owned
	// the book before the update.
	Update(ctx context.Context, b *Book) (int64, error)
	// Delete removes the book and returns the seller that owned it.
	Delete(ctx context.Context, id int64) (int64, error)
}
