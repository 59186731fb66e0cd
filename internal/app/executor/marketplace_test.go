package executor

import (
	"testing"

	"beam_automation/internal/domain/entity"
	"beam_automation/internal/mocks"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMarketplaceGetListings(t *testing.T) {
	env := testEnv(t)
	api := &mocks.GameAPI{}
	env.API = api

	api.On("Get", mock.Anything, "/v1/marketplace/listings", map[string]string{
		"limit": "100", "offset": "0", "assetAddress": testSignerAddress, "sortBy": "price",
	}).Return(map[string]any{"data": []any{map[string]any{"id": "l1"}, map[string]any{"id": "l2"}}}, nil)

	out, err := run(t, env, ResourceMarketplace, OpGetListings, map[string]any{
		"limit":             float64(500),
		"collectionAddress": testSignerAddress,
		"sortBy":            "PRICE",
	})
	require.NoError(t, err)
	require.Equal(t, 2, out["count"])
	api.AssertExpectations(t)
}

func TestMarketplaceCreateListingValidatesFirst(t *testing.T) {
	env := testEnv(t)
	api := &mocks.GameAPI{}
	env.API = api

	for name, params := range map[string]map[string]any{
		"missing entity": {"assetAddress": testSignerAddress, "tokenId": "1", "price": "1"},
		"bad asset":      {"entityId": "u1", "assetAddress": "nope", "tokenId": "1", "price": "1"},
		"zero price":     {"entityId": "u1", "assetAddress": testSignerAddress, "tokenId": "1", "price": "0"},
		"bad quantity":   {"entityId": "u1", "assetAddress": testSignerAddress, "tokenId": "1", "price": "1", "quantity": float64(0)},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := run(t, env, ResourceMarketplace, OpCreateListing, params)
			require.ErrorIs(t, err, entity.ErrInvalidInput)
		})
	}
	api.AssertNotCalled(t, "Post", mock.Anything, mock.Anything, mock.Anything)
}

func TestMarketplaceCancelListingEscapesPath(t *testing.T) {
	env := testEnv(t)
	api := &mocks.GameAPI{}
	env.API = api

	api.On("Delete", mock.Anything, "/v1/marketplace/users/a%2Fb/listing/42").Return(nil, nil)

	out, err := run(t, env, ResourceMarketplace, OpCancelListing, map[string]any{"entityId": "a/b", "listingId": "42"})
	require.NoError(t, err)
	require.Equal(t, true, out["cancelled"])
	api.AssertExpectations(t)
}

func TestMarketplaceNotFoundPassesThrough(t *testing.T) {
	env := testEnv(t)
	api := &mocks.GameAPI{}
	env.API = api

	api.On("Get", mock.Anything, "/v1/marketplace/listings/x", map[string]string(nil)).
		Return(nil, entity.NewNotFoundError("[beam-api] listing not found"))

	_, err := run(t, env, ResourceMarketplace, OpGetListing, map[string]any{"listingId": "x"})
	require.ErrorIs(t, err, entity.ErrNotFound)
}
