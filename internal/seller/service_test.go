package seller

import (
	"context"
	"errors"
	"testing"
	"time"

	"bookstore/internal/book"
	"bookstore/internal/platform/cache"
	"bookstore/internal/platform/logger"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var john = IncomingSeller{
	BaseSeller: BaseSeller{FirstName: "John", LastName: "Ivanov", Email: "Ivanov_John@mail.ru"},
	Password:   "123456_qwerty",
}

func TestService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := NewMockRepository(ctrl)
	svc := NewService(mockRepo, WithLogger(logger.Discard()))
	ctx := context.Background()

	mockRepo.EXPECT().Create(ctx, &Seller{FirstName: "John", LastName: "Ivanov", Email: "Ivanov_John@mail.ru", Password: "123456_qwerty"}).
		DoAndReturn(func(_ context.Context, s *Seller) error {
			s.ID = 1
			return nil
		})

	got, err := svc.Create(ctx, john)

	require.NoError(t, err)
	assert.Equal(t, ReturnedSeller{ID: 1, BaseSeller: john.BaseSeller}, got)
}

func TestService_ListAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := NewMockRepository(ctrl)
	svc := NewService(mockRepo)
	ctx := context.Background()

	t.Run("one entry per record", func(t *testing.T) {
		mockRepo.EXPECT().List(ctx).Return([]Seller{
			{ID: 1, FirstName: "John", Password: "a"},
			{ID: 2, FirstName: "Ivan", Password: "b"},
		}, nil)

		got, err := svc.ListAll(ctx)

		require.NoError(t, err)
		require.Len(t, got.Sellers, 2)
		assert.Equal(t, "Ivan", got.Sellers[1].FirstName)
	})

	t.Run("store error", func(t *testing.T) {
		mockRepo.EXPECT().List(ctx).Return(nil, errors.New("boom"))

		_, err := svc.ListAll(ctx)
		assert.Error(t, err)
	})
}

func TestService_GetOne(t *testing.T) {
	rec := Seller{ID: 4, FirstName: "John", LastName: "Ivanov", Email: "e", Password: "p"}
	books := []book.Book{{ID: 1, Title: "Idiot", Author: "Dostoevsky", Year: 2000, CountPages: 104, SellerID: 4}}
	ctx := context.Background()

	t.Run("without cache", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := NewMockRepository(ctrl)
		svc := NewService(mockRepo)
		mockRepo.EXPECT().GetWithBooks(ctx, int64(4)).Return(rec, books, nil)

		got, err := svc.GetOne(ctx, 4)

		require.NoError(t, err)
		assert.Equal(t, "John", got.FirstName)
		require.Len(t, got.Books, 1)
		assert.Equal(t, "Idiot", got.Books[0].Title)
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := NewMockRepository(ctrl)
		svc := NewService(mockRepo)
		mockRepo.EXPECT().GetWithBooks(ctx, int64(4)).Return(Seller{}, nil, ErrNotFound)

		_, err := svc.GetOne(ctx, 4)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("cache miss fills cache", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := NewMockRepository(ctrl)
		mockCache := cache.NewMockCache(ctrl)
		svc := NewService(mockRepo, WithCache(mockCache, time.Minute), WithLogger(logger.Discard()))

		mockCache.EXPECT().Version(ctx, cache.SellerKey(4)).Return(int64(2), nil)
		mockCache.EXPECT().GetJSON(ctx, cache.Versioned(cache.SellerKey(4), 2), gomock.Any()).Return(false, nil)
		mockRepo.EXPECT().GetWithBooks(ctx, int64(4)).Return(rec, books, nil)
		mockCache.EXPECT().SetJSON(ctx, cache.Versioned(cache.SellerKey(4), 2), SerializeWithBooks(rec, books), time.Minute).Return(nil)

		_, err := svc.GetOne(ctx, 4)
		require.NoError(t, err)
	})

	t.Run("cache hit skips store", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := NewMockRepository(ctrl)
		mockCache := cache.NewMockCache(ctrl)
		svc := NewService(mockRepo, WithCache(mockCache, time.Minute), WithLogger(logger.Discard()))

		mockCache.EXPECT().Version(ctx, cache.SellerKey(4)).Return(int64(0), nil)
		mockCache.EXPECT().GetJSON(ctx, cache.Versioned(cache.SellerKey(4), 0), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, dest any) (bool, error) {
				*dest.(*ReturnedSellerBooks) = SerializeWithBooks(rec, books)
				return true, nil
			})

		got, err := svc.GetOne(ctx, 4)

		require.NoError(t, err)
		assert.Equal(t, SerializeWithBooks(rec, books), got)
	})

	t.Run("cache failure falls back to store", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := NewMockRepository(ctrl)
		mockCache := cache.NewMockCache(ctrl)
		svc := NewService(mockRepo, WithCache(mockCache, time.Minute), WithLogger(logger.Discard()))

		mockCache.EXPECT().Version(ctx, cache.SellerKey(4)).Return(int64(0), nil)
		mockCache.EXPECT().GetJSON(ctx, cache.Versioned(cache.SellerKey(4), 0), gomock.Any()).Return(false, errors.New("redis down"))
		mockRepo.EXPECT().GetWithBooks(ctx, int64(4)).Return(rec, []book.Book{}, nil)
		mockCache.EXPECT().SetJSON(ctx, cache.Versioned(cache.SellerKey(4), 0), gomock.Any(), time.Minute).Return(errors.New("redis down"))

		got, err := svc.GetOne(ctx, 4)

		require.NoError(t, err)
		assert.Empty(t, got.Books)
	})

	t.Run("version read failure skips cache", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := NewMockRepository(ctrl)
		mockCache := cache.NewMockCache(ctrl)
		svc := NewService(mockRepo, WithCache(mockCache, time.Minute), WithLogger(logger.Discard()))

		mockCache.EXPECT().Version(ctx, cache.SellerKey(4)).Return(int64(0), errors.New("redis down"))
		mockRepo.EXPECT().GetWithBooks(ctx, int64(4)).Return(rec, books, nil)

		got, err := svc.GetOne(ctx, 4)

		require.NoError(t, err)
		assert.Len(t, got.Books, 1)
	})

	t.Run("book added during a miss is not served stale", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := NewMockRepository(ctrl)
		bookRepo := book.NewMockRepository(ctrl)
		mockCache := cache.NewMockCache(ctrl)
		svc := NewService(mockRepo, WithCache(mockCache, time.Minute), WithLogger(logger.Discard()))
		bookSvc := book.NewService(bookRepo, book.WithCache(mockCache), book.WithLogger(logger.Discard()))
		idiot := book.IncomingBook{Title: "Idiot", Author: "Dostoevsky", Year: 2000, CountPages: 104, SellerID: 4}

		gomock.InOrder(
			mockCache.EXPECT().Version(ctx, cache.SellerKey(4)).Return(int64(0), nil),
			mockCache.EXPECT().GetJSON(ctx, cache.Versioned(cache.SellerKey(4), 0), gomock.Any()).Return(false, nil),
			mockRepo.EXPECT().GetWithBooks(ctx, int64(4)).DoAndReturn(func(context.Context, int64) (Seller, []book.Book, error) {
				_, err := bookSvc.Create(ctx, idiot)
				require.NoError(t, err)
				return rec, nil, nil
			}),
			bookRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil),
			mockCache.EXPECT().Invalidate(ctx, cache.SellerKey(4)).Return(nil),
			mockCache.EXPECT().SetJSON(ctx, cache.Versioned(cache.SellerKey(4), 0), gomock.Any(), time.Minute).Return(nil),
			mockCache.EXPECT().Version(ctx, cache.SellerKey(4)).Return(int64(1), nil),
			mockCache.EXPECT().GetJSON(ctx, cache.Versioned(cache.SellerKey(4), 1), gomock.Any()).Return(false, nil),
			mockRepo.EXPECT().GetWithBooks(ctx, int64(4)).Return(rec, books, nil),
			mockCache.EXPECT().SetJSON(ctx, cache.Versioned(cache.SellerKey(4), 1), gomock.Any(), time.Minute).Return(nil),
		)

		first, err := svc.GetOne(ctx, 4)
		require.NoError(t, err)
		assert.Empty(t, first.Books)

		second, err := svc.GetOne(ctx, 4)
		require.NoError(t, err)
		assert.Len(t, second.Books, 1)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("full replacement keeps id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := NewMockRepository(ctrl)
		mockCache := cache.NewMockCache(ctrl)
		svc := NewService(mockRepo, WithCache(mockCache, time.Minute), WithLogger(logger.Discard()))
		replacement := IncomingSeller{
			BaseSeller: BaseSeller{FirstName: "Ivan", LastName: "Petrov", Email: "petrov@mail.ru"},
			Password:   "new",
		}

		mockRepo.EXPECT().Update(ctx, &Seller{ID: 4, FirstName: "Ivan", LastName: "Petrov", Email: "petrov@mail.ru", Password: "new"}).Return(nil)
		mockCache.EXPECT().Invalidate(ctx, cache.SellerKey(4)).Return(nil)

		got, err := svc.Update(ctx, 4, replacement)

		require.NoError(t, err)
		assert.Equal(t, ReturnedSeller{ID: 4, BaseSeller: replacement.BaseSeller}, got)
	})

	t.Run("missing seller", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := NewMockRepository(ctrl)
		mockCache := cache.NewMockCache(ctrl)
		svc := NewService(mockRepo, WithCache(mockCache, time.Minute))

		mockRepo.EXPECT().Update(ctx, gomock.Any()).Return(ErrNotFound)

		_, err := svc.Update(ctx, 4, john)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("evicts cache", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := NewMockRepository(ctrl)
		mockCache := cache.NewMockCache(ctrl)
		svc := NewService(mockRepo, WithCache(mockCache, time.Minute), WithLogger(logger.Discard()))

		mockRepo.EXPECT().Delete(ctx, int64(4)).Return(nil)
		mockCache.EXPECT().Invalidate(ctx, cache.SellerKey(4)).Return(errors.New("redis down"))

		assert.NoError(t, svc.Delete(ctx, 4))
	})

	t.Run("missing seller", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := NewMockRepository(ctrl)
		svc := NewService(mockRepo)

		mockRepo.EXPECT().Delete(ctx, int64(4)).Return(ErrNotFound)

		assert.ErrorIs(t, svc.Delete(ctx, 4), ErrNotFound)
	})
}
