package seller

import (
	"context"
	"time"

	"bookstore/internal/platform/cache"

	"github.com/sirupsen/logrus"
)

// Service orchestrates seller persistence and shapes its results.
type Service struct {
	repo     Repository
	cache    cache.Cache
	cacheTTL time.Duration
	log      logrus.FieldLogger
}

type Option func(*Service)

// WithCache enables read-through caching of the seller-with-books view.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Service) { s.log = log }
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, cache: cache.Noop{}, log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create persists a new seller; the store assigns the id.
func (s *Service) Create(ctx context.Context, in IncomingSeller) (ReturnedSeller, error) {
	rec := fromIncoming(in)
	if err := s.repo.Create(ctx, &rec); err != nil {
		return ReturnedSeller{}, err
	}
	return Serialize(rec), nil
}

func (s *Service) ListAll(ctx context.Context) (ReturnedAllSellers, error) {
	recs, err := s.repo.List(ctx)
	if err != nil {
		return ReturnedAllSellers{}, err
	}
	return SerializeAll(recs), nil
}

// GetOne returns the seller's public fields and its books.
func (s *Service) GetOne(ctx context.Context, id int64) (ReturnedSellerBooks, error) {
	log := s.log.WithField("seller_id", id)

	version, err := s.cache.Version(ctx, cache.SellerKey(id))
	if err != nil {
		log.WithError(err).Warn("seller cache version read failed")
		return s.load(ctx, id)
	}
	key := cache.Versioned(cache.SellerKey(id), version)

	var cached ReturnedSellerBooks
	found, err := s.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		log.WithError(err).Warn("seller cache read failed")
	}
	if found {
		return cached, nil
	}

	out, err := s.load(ctx, id)
	if err != nil {
		return ReturnedSellerBooks{}, err
	}
	if err := s.cache.SetJSON(ctx, key, out, s.cacheTTL); err != nil {
		log.WithError(err).Warn("seller cache write failed")
	}
	return out, nil
}

func (s *Service) load(ctx context.Context, id int64) (ReturnedSellerBooks, error) {
	rec, books, err := s.repo.GetWithBooks(ctx, id)
	if err != nil {
		return ReturnedSellerBooks{}, err
	}
	return SerializeWithBooks(rec, books), nil
}

// Update replaces every mutable field of the seller.
func (s *Service) Update(ctx context.Context, id int64, in IncomingSeller) (ReturnedSeller, error) {
	rec := fromIncoming(in)
	rec.ID = id
	if err := s.repo.Update(ctx, &rec); err != nil {
		return ReturnedSeller{}, err
	}
	s.invalidate(ctx, id)
	return Serialize(rec), nil
}

// Delete removes the seller. Its books go with it through the store's
// cascade.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *Service) invalidate(ctx context.Context, id int64) {
	if err := s.cache.Invalidate(ctx, cache.SellerKey(id)); err != nil {
		s.log.WithError(err).WithField("seller_id", id).Warn("seller cache invalidation failed")
	}
}
