package client

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"beam_automation/internal/domain/entity"
	"beam_automation/internal/domain/market"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const (
	dexScreenerSource = "dexscreener"
	// DEXScreener rejects /tokens/v1 lookups with more addresses than this.
	dexScreenerMaxAddresses = 30
)

// DEXScreenerClient reads pool data for tokens on one DEXScreener chain.
type DEXScreenerClient interface {
	TokenPairs(ctx context.Context, chainID string, tokens []string) ([]market.Pair, error)
}

type dexScreenerClient struct {
	http     *fasthttp.Client
	baseURL  string
	timeout  time.Duration
	pageSize int
	logger   *zap.Logger
}

// NewDEXScreenerClient builds the client. pageSize <= 0 uses the API maximum.
func NewDEXScreenerClient(baseURL string, timeout time.Duration, logger *zap.Logger, pageSize int) DEXScreenerClient {
	if pageSize <= 0 || pageSize > dexScreenerMaxAddresses {
		pageSize = dexScreenerMaxAddresses
	}
	return &dexScreenerClient{
		http:     &fasthttp.Client{Name: userAgent},
		baseURL:  strings.TrimRight(baseURL, "/"),
		timeout:  timeout,
		pageSize: pageSize,
		logger:   logger,
	}
}

// TokenPairs returns every pool DEXScreener lists for tokens, issuing one
// request per page of addresses. Pages are fetched in order; the first failed
// page fails the call.
func (c *dexScreenerClient) TokenPairs(ctx context.Context, chainID string, tokens []string) ([]market.Pair, error) {
	if len(tokens) == 0 {
		return nil, entity.NewInvalidInputError("at least one token address is required")
	}
	var pairs []market.Pair
	for page := range slices.Chunk(tokens, c.pageSize) {
		got, err := c.fetchPage(ctx, chainID, page)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, got...)
	}
	return pairs, nil
}

func (c *dexScreenerClient) fetchPage(ctx context.Context, chainID string, tokens []string) ([]market.Pair, error) {
	url := fmt.Sprintf("%s/tokens/v1/%s/%s", c.baseURL, chainID, strings.Join(tokens, ","))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	if err := doWithContext(ctx, c.http, req, resp, c.timeout); err != nil {
		c.logger.Warn("pair lookup failed", zap.String("chain", chainID), zap.Int("tokens", len(tokens)), zap.Error(err))
		return nil, entity.NewTransportError(dexScreenerSource, err)
	}
	body := resp.Body()
	if status := resp.StatusCode(); status != fasthttp.StatusOK {
		c.logger.Warn("pair lookup rejected",
			zap.String("chain", chainID),
			zap.Int("status", status),
			zap.Duration("elapsed", time.Since(start)),
		)
		return nil, entity.NewHTTPTransportError(dexScreenerSource, status, errorMessage(body))
	}

	pairs, err := decodePairs(body)
	if err != nil {
		return nil, entity.NewTransportError(dexScreenerSource, err)
	}
	c.logger.Debug("pairs fetched",
		zap.String("chain", chainID),
		zap.Int("tokens", len(tokens)),
		zap.Int("pairs", len(pairs)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return pairs, nil
}

// decodePairs accepts both the bare array served by /tokens/v1 and the older
// {"pairs": [...]} envelope.
func decodePairs(body []byte) ([]market.Pair, error) {
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "{") {
		var envelope struct {
			Pairs []market.Pair `json:"pairs"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, fmt.Errorf("failed to decode pair envelope: %w", err)
		}
		return envelope.Pairs, nil
	}
	var pairs []market.Pair
	if err := json.Unmarshal(body, &pairs); err != nil {
		return nil, fmt.Errorf("failed to decode pair list: %w", err)
	}
	return pairs, nil
}
