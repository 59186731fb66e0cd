package utils

import (
	"strings"

	"beam_automation/internal/domain/entity"
)

const (
	DefaultIPFSGateway    = "https://ipfs.io/ipfs/"
	DefaultArweaveGateway = "https://arweave.net/"
)

// ResolveTokenURI turns a token URI into something an HTTP client can fetch.
// ipfs://CID/path, ipfs://ipfs/CID, bare /ipfs/CID paths and ar:// URIs are
// rewritten onto gateways; http(s) and data: URIs pass through.
func ResolveTokenURI(uri, ipfsGateway string) (string, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return "", entity.NewInvalidInputError("token URI is empty")
	}
	if ipfsGateway == "" {
		ipfsGateway = DefaultIPFSGateway
	}
	if !strings.HasSuffix(ipfsGateway, "/") {
		ipfsGateway += "/"
	}

	lower := strings.ToLower(uri)
	switch {
	case strings.HasPrefix(lower, "ipfs://"):
		rest := uri[len("ipfs://"):]
		rest = strings.TrimPrefix(rest, "ipfs/")
		if rest == "" {
			return "", entity.NewInvalidInputError("ipfs URI %q has no content identifier", uri)
		}
		return ipfsGateway + rest, nil
	case strings.HasPrefix(lower, "/ipfs/"):
		return ipfsGateway + uri[len("/ipfs/"):], nil
	case strings.HasPrefix(lower, "ar://"):
		rest := uri[len("ar://"):]
		if rest == "" {
			return "", entity.NewInvalidInputError("arweave URI %q has no transaction id", uri)
		}
		return DefaultArweaveGateway + rest, nil
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"), strings.HasPrefix(lower, "data:"):
		return uri, nil
	}
	return "", entity.NewInvalidInputError("unsupported token URI scheme in %q", uri)
}

// SubstituteTokenID implements the ERC-1155 {id} placeholder: the token id as
// 64 lowercase hex characters.
func SubstituteTokenID(uri string, hexID string) string {
	if !strings.Contains(uri, "{id}") {
		return uri
	}
	hexID = strings.TrimPrefix(strings.ToLower(hexID), "0x")
	if len(hexID) < 64 {
		hexID = strings.Repeat("0", 64-len(hexID)) + hexID
	}
	return strings.ReplaceAll(uri, "{id}", hexID)
}
