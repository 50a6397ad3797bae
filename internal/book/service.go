package book

import (
	"context"

	"bookstore/internal/platform/cache"

	"github.com/sirupsen/logrus"
)

// Service provides book-related business logic.
type Service struct {
	repo  Repository
	cache cache.Cache
	log   logrus.FieldLogger
}

type Option func(*Service)

// WithCache makes book writes invalidate the owning seller's cached view.
func WithCache(c cache.Cache) Option {
	return func(s *Service) { s.cache = c }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Service) { s.log = log }
}

// NewService creates a new book service.
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, cache: cache.Noop{}, log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, in IncomingBook) (ReturnedBookDetail, error) {
	b := fromIncoming(in)
	if err := s.repo.Create(ctx, &b); err != nil {
		return ReturnedBookDetail{}, err
	}
	s.invalidate(ctx, b.SellerID)
	return b.Detail(), nil
}

// List returns books in id order, optionally only those of one seller.
func (s *Service) List(ctx context.Context, f Filter) (ReturnedAllBooks, error) {
	books, err := s.repo.List(ctx, f)
	if err != nil {
		return ReturnedAllBooks{}, err
	}
	out := ReturnedAllBooks{Books: make([]ReturnedBookDetail, 0, len(books))}
	for _, b := range books {
		out.Books = append(out.Books, b.Detail())
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (ReturnedBookDetail, error) {
	b, err := s.repo.Get(ctx, id)
	if err != nil {
		return ReturnedBookDetail{}, err
	}
	return b.Detail(), nil
}

// Update replaces all fields of the book.
func (s *Service) Update(ctx context.Context, id int64, in IncomingBook) (ReturnedBookDetail, error) {
	b := fromIncoming(in)
	b.ID = id
	previousSeller, err := s.repo.Update(ctx, &b)
	if err != nil {
		return ReturnedBookDetail{}, err
	}
	s.invalidate(ctx, previousSeller, b.SellerID)
	return b.Detail(), nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	sellerID, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.invalidate(ctx, sellerID)
	return nil
}

func (s *Service) invalidate(ctx context.Context, sellerIDs ...int64) {
	keys := make([]string, 0, len(sellerIDs))
	seen := make(map[int64]bool, len(sellerIDs))
	for _, id := range sellerIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		keys = append(keys, cache.SellerKey(id))
	}
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.log.WithError(err).WithField("seller_ids", sellerIDs).Warn("seller cache invalidation failed")
	}
}

func fromIncoming(in IncomingBook) Book {
	return Book{
		Title:      in.Title,
		Author:     in.Author,
		Year:       in.Year,
		CountPages: in.CountPages,
		SellerID:   in.SellerID,
	}
}
