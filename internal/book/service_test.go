package book

import (
	"context"
	"errors"
	"testing"

	"bookstore/internal/platform/cache"
	"bookstore/internal/platform/logger"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_WritesEvictSellerCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := NewMockRepository(ctrl)
	mockCache := cache.NewMockCache(ctrl)
	svc := NewService(mockRepo, WithCache(mockCache), WithLogger(logger.Discard()))
	ctx := context.Background()
	in := IncomingBook{Title: "Idiot", Author: "Dostoevsky", Year: 2000, CountPages: 104, SellerID: 3}

	t.Run("create evicts owner", func(t *testing.T) {
		mockRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		mockCache.EXPECT().Invalidate(ctx, cache.SellerKey(3)).Return(nil)

		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	})

	t.Run("update evicts previous and new owner", func(t *testing.T) {
		mockRepo.EXPECT().Update(ctx, gomock.Any()).Return(int64(9), nil)
		mockCache.EXPECT().Invalidate(ctx, cache.SellerKey(9), cache.SellerKey(3)).Return(nil)

		got, err := svc.Update(ctx, 4, in)
		require.NoError(t, err)
		assert.Equal(t, int64(4), got.ID)
	})

	t.Run("update with same owner evicts once", func(t *testing.T) {
		mockRepo.EXPECT().Update(ctx, gomock.Any()).Return(int64(3), nil)
		mockCache.EXPECT().Invalidate(ctx, cache.SellerKey(3)).Return(nil)

		_, err := svc.Update(ctx, 4, in)
		require.NoError(t, err)
	})

	t.Run("cache failure does not fail delete", func(t *testing.T) {
		mockRepo.EXPECT().Delete(ctx, int64(4)).Return(int64(3), nil)
		mockCache.EXPECT().Invalidate(ctx, cache.SellerKey(3)).Return(errors.New("redis down"))

		assert.NoError(t, svc.Delete(ctx, 4))
	})

	t.Run("failed write skips eviction", func(t *testing.T) {
		mockRepo.EXPECT().Create(ctx, gomock.Any()).Return(ErrSellerNotFound)

		_, err := svc.Create(ctx, in)
		assert.ErrorIs(t, err, ErrSellerNotFound)
	})
}

func TestService_ListKeepsOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := NewMockRepository(ctrl)
	svc := NewService(mockRepo)

	mockRepo.EXPECT().List(gomock.Any(), Filter{}).Return([]Book{{ID: 2}, {ID: 1}}, nil)

	got, err := svc.List(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, got.Books, 2)
	assert.Equal(t, int64(2), got.Books[0].ID)
	assert.Equal(t, int64(1), got.Books[1].ID)
}
