package client

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"beam_automation/internal/app/port"
	"beam_automation/internal/domain/entity"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const beamAPISource = "beam-api"

// BeamAPIOptions tune the REST transport.
type BeamAPIOptions struct {
	Timeout   time.Duration
	RateLimit float64 // requests per second
	Burst     int
}

// BeamAPIClient implements port.GameAPI against the Beam REST API.
type BeamAPIClient struct {
	client    *fasthttp.Client
	baseURL   string
	apiKey    string
	projectID string
	timeout   time.Duration
	limiter   *rate.Limiter
	logger    *zap.Logger
}

// NewBeamAPIClient validates the credentials and builds a rate limited client.
func NewBeamAPIClient(creds entity.APICredentials, opts BeamAPIOptions, logger *zap.Logger) (*BeamAPIClient, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}

	return &BeamAPIClient{
		client:    &fasthttp.Client{Name: "beam-automation"},
		baseURL:   strings.TrimRight(creds.Endpoint, "/"),
		apiKey:    creds.APIKey,
		projectID: creds.ProjectID,
		timeout:   opts.Timeout,
		limiter:   rate.NewLimiter(limit, opts.Burst),
		logger:    logger.Named("BeamAPIClient"),
	}, nil
}

// ProjectID returns the project the credentials are scoped to.
func (c *BeamAPIClient) ProjectID() string { return c.projectID }

func (c *BeamAPIClient) Get(ctx context.Context, path string, query map[string]string, out any) error {
	return c.do(ctx, fasthttp.MethodGet, path, query, nil, out)
}

func (c *BeamAPIClient) Post(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, fasthttp.MethodPost, path, nil, body, out)
}

func (c *BeamAPIClient) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, fasthttp.MethodDelete, path, nil, nil, out)
}

func (c *BeamAPIClient) do(ctx context.Context, method, path string, query map[string]string, body any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return entity.NewTransportError(beamAPISource, fmt.Errorf("rate limiter: %w", err))
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + "/" + strings.TrimLeft(path, "/"))
	for k, v := range query {
		if v != "" {
			req.URI().QueryArgs().Add(k, v)
		}
	}
	req.Header.SetMethod(method)
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return entity.NewInvalidInputError("failed to encode request body: %v", err)
		}
		req.Header.SetContentType("application/json")
		req.SetBodyRaw(payload)
	}

	c.logger.Debug("Beam API request", zap.String("method", method), zap.String("path", path))

	if err := doWithContext(ctx, c.client, req, resp, c.timeout); err != nil {
		c.logger.Error("Beam API request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return entity.NewTransportError(beamAPISource, fmt.Errorf("%s %s: %w", method, path, err))
	}

	status := resp.StatusCode()
	rawBody := resp.Body()
	switch {
	case status == fasthttp.StatusNotFound:
		return entity.NewNotFoundError("[%s] %s: %s", beamAPISource, path, errorMessage(rawBody))
	case status < 200 || status >= 300:
		c.logger.Warn("Beam API returned an error status",
			zap.String("path", path), zap.Int("statusCode", status), zap.ByteString("responseBody", rawBody))
		return entity.NewHTTPTransportError(beamAPISource, status, errorMessage(rawBody))
	}

	if out == nil || len(rawBody) == 0 {
		return nil
	}
	if err := decodeExact(rawBody, out); err != nil {
		return entity.NewTransportError(beamAPISource, fmt.Errorf("failed to decode response from %s: %w", path, err))
	}
	return nil
}

// BeamAPIProvider implements port.GameAPIProvider with one cached client per
// credential set.
type BeamAPIProvider struct {
	mu      sync.Mutex
	clients map[entity.APICredentials]*BeamAPIClient
	opts    BeamAPIOptions
	logger  *zap.Logger
}

func NewBeamAPIProvider(opts BeamAPIOptions, logger *zap.Logger) *BeamAPIProvider {
	return &BeamAPIProvider{
		clients: make(map[entity.APICredentials]*BeamAPIClient),
		opts:    opts,
		logger:  logger,
	}
}

func (p *BeamAPIProvider) GetClient(creds entity.APICredentials) (port.GameAPI, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.clients[creds]; ok {
		return c, nil
	}
	c, err := NewBeamAPIClient(creds, p.opts, p.logger)
	if err != nil {
		return nil, err
	}
	p.clients[creds] = c
	return c, nil
}
