package checks

import (
	"context"
	"errors"
	"testing"

	"furniture-store/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCheckCarts(t *testing.T) {
	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, "store", mock.MatchedBy(func(o minio.ListObjectsOptions) bool {
		return o.Prefix == "carts/"
	})).Return(mocks.Listing("carts/", "carts/zoe@store.test.csv", "carts/bob@store.test.csv", "carts/notes.txt", "carts/amy@store.test.csv"))

	known := func(email string) bool { return email == "bob@store.test" }
	orphaned, err := CheckCarts(context.Background(), client, "store", known)
	require.NoError(t, err)
	assert.Equal(t, []OrphanedCart{
		{Object: "carts/amy@store.test.csv", Email: "amy@store.test"},
		{Object: "carts/zoe@store.test.csv", Email: "zoe@store.test"},
	}, orphaned)
}

func TestCheckCarts_Empty(t *testing.T) {
	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, "store", mock.Anything).Return(mocks.Listing())

	orphaned, err := CheckCarts(context.Background(), client, "store", func(string) bool { return false })
	require.NoError(t, err)
	assert.NotNil(t, orphaned)
	assert.Empty(t, orphaned)
}

func TestCheckCarts_ListingError(t *testing.T) {
	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, "store", mock.Anything).Return(mocks.FailedListing(errors.New("denied")))

	_, err := CheckCarts(context.Background(), client, "store", func(string) bool { return true })
	assert.ErrorContains(t, err, "denied")
}
