package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"beam_automation/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"
)

type rpcRequest struct {
	ID     jsoniter.RawMessage `json:"id"`
	Method string              `json:"method"`
}

// fakeNode answers JSON-RPC calls from a method table and counts them.
type fakeNode struct {
	mu      sync.Mutex
	results map[string]string
	calls   map[string]int
}

func newFakeNode(t *testing.T, results map[string]string) (*fakeNode, *httptest.Server) {
	t.Helper()
	node := &fakeNode{results: results, calls: map[string]int{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := jsoniter.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		node.mu.Lock()
		node.calls[req.Method]++
		result, ok := node.results[req.Method]
		node.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if !ok {
			_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":` + string(req.ID) + `,"error":{"code":-32601,"message":"method not found"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":` + string(req.ID) + `,"result":"` + result + `"}`))
	}))
	t.Cleanup(srv.Close)
	return node, srv
}

func (n *fakeNode) count(method string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls[method]
}

func TestNewEVMClientDoesNotContactNode(t *testing.T) {
	node, srv := newFakeNode(t, map[string]string{"eth_chainId": "0x10f1"})
	c, err := NewEVMClient(entity.NetworkDefinition{Identifier: "mainnet", ChainID: 4337, RPCURL: srv.URL}, time.Second, time.Second, 10*time.Millisecond)
	require.NoError(t, err)
	defer c.Close()

	require.Zero(t, node.count("eth_chainId"))
}

func TestEVMClientChecksChainOnce(t *testing.T) {
	node, srv := newFakeNode(t, map[string]string{"eth_chainId": "0x10f1", "eth_blockNumber": "0x2a"})
	c, err := NewEVMClient(entity.NetworkDefinition{Identifier: "mainnet", ChainID: 4337, RPCURL: srv.URL}, time.Second, time.Second, 10*time.Millisecond)
	require.NoError(t, err)
	defer c.Close()

	for range 2 {
		n, err := c.BlockNumber(context.Background())
		require.NoError(t, err)
		require.Equal(t, uint64(42), n)
	}
	require.Equal(t, 1, node.count("eth_chainId"))
	require.Equal(t, 2, node.count("eth_blockNumber"))
}

func TestEVMClientRejectsWrongChain(t *testing.T) {
	node, srv := newFakeNode(t, map[string]string{"eth_chainId": "0x1", "eth_blockNumber": "0x2a"})
	c, err := NewEVMClient(entity.NetworkDefinition{Identifier: "mainnet", ChainID: 4337, RPCURL: srv.URL}, time.Second, time.Second, 10*time.Millisecond)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.BlockNumber(context.Background())
	require.ErrorIs(t, err, entity.ErrInvalidInput)
	require.Zero(t, node.count("eth_blockNumber"))
}
