package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"beam_automation/internal/domain/entity"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDEXScreenerClientParsesBothShapes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/tokens/v1/beam/0xaaa":
			_, _ = w.Write([]byte(`[{"chainId":"beam","dexId":"beamswap","pairAddress":"0xpair","priceUsd":"0.02","liquidity":{"usd":1000},"volume":{"h24":52.5}}]`))
		case "/tokens/v1/beam/0xbbb":
			_, _ = w.Write([]byte(`{"schemaVersion":"1.0.0","pairs":[{"chainId":"beam","priceUsd":"1.5"}]}`))
		default:
			w.WriteHeader(http.StatusTooManyRequests)
		}
	}))
	defer srv.Close()

	c := NewDEXScreenerClient(srv.URL, 2*time.Second, zap.NewNop(), 10)

	pairs, err := c.TokenPairs(context.Background(), "beam", []string{"0xaaa"})
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	require.Equal(t, "beamswap", pairs[0].DEX)
	require.Equal(t, "0xpair", pairs[0].Address)
	require.Equal(t, 1000.0, pairs[0].LiquidityUSD())
	require.Equal(t, 52.5, pairs[0].Volume.H24)

	pairs, err = c.TokenPairs(context.Background(), "beam", []string{"0xbbb"})
	require.NoError(t, err)
	require.Equal(t, "1.5", pairs[0].PriceUSD)
	require.Zero(t, pairs[0].LiquidityUSD())

	_, err = c.TokenPairs(context.Background(), "beam", []string{"0xccc"})
	require.True(t, errors.Is(err, entity.ErrTransport))

	_, err = c.TokenPairs(context.Background(), "beam", nil)
	require.True(t, errors.Is(err, entity.ErrInvalidInput))
}

func TestDEXScreenerClientPagesAddresses(t *testing.T) {
	var requests, widest atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		n := int32(len(strings.Split(strings.TrimPrefix(r.URL.Path, "/tokens/v1/beam/"), ",")))
		if n > widest.Load() {
			widest.Store(n)
		}
		_, _ = w.Write([]byte(`[{"priceUsd":"1"}]`))
	}))
	defer srv.Close()

	c := NewDEXScreenerClient(srv.URL, 2*time.Second, zap.NewNop(), 2)
	pairs, err := c.TokenPairs(context.Background(), "beam", []string{"0x1", "0x2", "0x3", "0x4", "0x5"})
	require.NoError(t, err)
	require.Len(t, pairs, 3)
	require.EqualValues(t, 3, requests.Load())
	require.EqualValues(t, 2, widest.Load())
}
