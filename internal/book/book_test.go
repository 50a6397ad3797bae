package book

import (
	"errors"
	"testing"

	"bookstore/internal/httpx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIncoming(t *testing.T) {
	in, err := ParseIncoming([]byte(`{"title":"Idiot","author":"Dostoevsky","year":2000,"count_pages":104,"seller_id":3}`))
	require.NoError(t, err)
	assert.Equal(t, IncomingBook{Title: "Idiot", Author: "Dostoevsky", Year: 2000, CountPages: 104, SellerID: 3}, in)

	_, err = ParseIncoming([]byte(`{}`))
	var verr *httpx.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Details, 5)
}

func TestParseIncoming_RejectsBadFields(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		fields []string
	}{
		{"year beyond int4", `{"title":"Idiot","author":"Dostoevsky","year":3000000000,"count_pages":104,"seller_id":3}`, []string{"year"}},
		{"pages beyond int4", `{"title":"Idiot","author":"Dostoevsky","year":2000,"count_pages":-2147483649,"seller_id":3}`, []string{"count_pages"}},
		{"wrong-case keys", `{"Title":"Idiot","AUTHOR":"Dostoevsky","year":2000,"count_pages":104,"Seller_Id":3}`, []string{"title", "author", "seller_id"}},
		{"fractional year", `{"title":"Idiot","author":"Dostoevsky","year":2000.5,"count_pages":104,"seller_id":3}`, []string{"year"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseIncoming([]byte(tt.body))

			var verr *httpx.ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			fields := make([]string, 0, len(verr.Details))
			for _, d := range verr.Details {
				fields = append(fields, d.Field)
			}
			assert.Equal(t, tt.fields, fields)
		})
	}
}

func TestReturnedList_EmptyIsNotNil(t *testing.T) {
	got := ReturnedList(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestBook_DetailComposesReturned(t *testing.T) {
	b := Book{ID: 1, Title: "Idiot", Author: "Dostoevsky", Year: 2000, CountPages: 104, SellerID: 3}

	d := b.Detail()

	assert.Equal(t, b.Returned(), d.ReturnedBook)
	assert.Equal(t, int64(3), d.SellerID)
}
