package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveTokenURI(t *testing.T) {
	cases := map[string]string{
		"ipfs://QmHash/1.json":       "https://ipfs.io/ipfs/QmHash/1.json",
		"ipfs://ipfs/QmHash":         "https://ipfs.io/ipfs/QmHash",
		"/ipfs/QmHash/meta":          "https://ipfs.io/ipfs/QmHash/meta",
		"ar://tx123":                 "https://arweave.net/tx123",
		"https://api.game.io/1.json": "https://api.game.io/1.json",
		"data:application/json,{}":   "data:application/json,{}",
	}
	for in, want := range cases {
		got, err := ResolveTokenURI(in, "")
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	got, err := ResolveTokenURI("ipfs://QmHash", "https://gateway.example/ipfs")
	require.NoError(t, err)
	require.Equal(t, "https://gateway.example/ipfs/QmHash", got)

	for _, bad := range []string{"", "ipfs://", "ftp://x", "ar://"} {
		_, err := ResolveTokenURI(bad, "")
		require.Error(t, err, bad)
	}
}

func TestSubstituteTokenID(t *testing.T) {
	got := SubstituteTokenID("https://x/{id}.json", "0x2a")
	require.Equal(t, "https://x/000000000000000000000000000000000000000000000000000000000000002a.json", got)
	require.Equal(t, "https://x/1.json", SubstituteTokenID("https://x/1.json", "1"))
}
