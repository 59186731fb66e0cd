package client

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"time"

	"beam_automation/internal/domain/entity"
	"beam_automation/internal/pkg/utils"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const metadataSource = "metadata"

// MetadataClient implements port.MetadataFetcher for token metadata documents.
type MetadataClient struct {
	client      *fasthttp.Client
	ipfsGateway string
	timeout     time.Duration
	logger      *zap.Logger
}

func NewMetadataClient(ipfsGateway string, timeout time.Duration, maxBodyBytes int, logger *zap.Logger) *MetadataClient {
	return &MetadataClient{
		client:      &fasthttp.Client{MaxResponseBodySize: maxBodyBytes},
		ipfsGateway: ipfsGateway,
		timeout:     timeout,
		logger:      logger.Named("MetadataClient"),
	}
}

// FetchJSON resolves uri onto a gateway when needed and decodes the JSON
// document it points at. data: URIs are decoded in place.
func (c *MetadataClient) FetchJSON(ctx context.Context, uri string) (map[string]any, error) {
	resolved, err := utils.ResolveTokenURI(uri, c.ipfsGateway)
	if err != nil {
		return nil, err
	}

	var raw []byte
	if strings.HasPrefix(strings.ToLower(resolved), "data:") {
		raw, err = decodeDataURI(resolved)
		if err != nil {
			return nil, err
		}
	} else {
		raw, err = c.get(ctx, resolved)
		if err != nil {
			return nil, err
		}
	}

	var doc map[string]any
	if err := decodeExact(raw, &doc); err != nil {
		return nil, entity.NewTransportError(metadataSource, fmt.Errorf("metadata at %s is not a JSON object: %w", resolved, err))
	}
	return doc, nil
}

func (c *MetadataClient) get(ctx context.Context, resolved string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(resolved)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Fetching token metadata", zap.String("url", resolved))
	if err := doWithContext(ctx, c.client, req, resp, c.timeout); err != nil {
		return nil, entity.NewTransportError(metadataSource, err)
	}

	switch status := resp.StatusCode(); {
	case status == fasthttp.StatusNotFound:
		return nil, entity.NewNotFoundError("[%s] no document at %s", metadataSource, resolved)
	case status < 200 || status >= 300:
		return nil, entity.NewHTTPTransportError(metadataSource, status, errorMessage(resp.Body()))
	}

	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return body, nil
}

// decodeDataURI supports data:[<mediatype>][;base64],<payload>.
func decodeDataURI(uri string) ([]byte, error) {
	comma := strings.IndexByte(uri, ',')
	if comma < 0 {
		return nil, entity.NewInvalidInputError("malformed data URI")
	}
	header, payload := uri[len("data:"):comma], uri[comma+1:]
	if strings.HasSuffix(strings.ToLower(header), ";base64") {
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, entity.NewInvalidInputError("data URI is not valid base64: %v", err)
		}
		return decoded, nil
	}
	unescaped, err := url.PathUnescape(payload)
	if err != nil {
		return nil, entity.NewInvalidInputError("data URI is not valid percent-encoding: %v", err)
	}
	return []byte(unescaped), nil
}
