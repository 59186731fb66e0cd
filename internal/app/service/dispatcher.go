package service

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"
	"time"

	"beam_automation/internal/app/executor"
	"beam_automation/internal/app/port"
	"beam_automation/internal/domain/entity"
	"beam_automation/internal/pkg/metrics"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
)

// DispatcherDeps are the collaborators a dispatcher builds executor
// environments from. Prices and Metadata may be nil when no operation that
// needs them is used.
type DispatcherDeps struct {
	Credentials port.CredentialProvider
	Networks    port.NetworkRegistry
	Tokens      port.TokenRegistry
	Chains      port.ChainClientProvider
	APIs        port.GameAPIProvider
	Prices      port.PriceFeed
	Metadata    port.MetadataFetcher
	Logger      port.Logger
}

// DispatcherOptions tune executor behaviour.
type DispatcherOptions struct {
	ConfirmTimeout time.Duration
	IPFSGateway    string
	Now            func() time.Time
}

// dispatcherImpl implements port.Dispatcher.
type dispatcherImpl struct {
	deps DispatcherDeps
	opts DispatcherOptions
}

// NewDispatcher creates the batch dispatcher.
func NewDispatcher(deps DispatcherDeps, opts DispatcherOptions) port.Dispatcher {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &dispatcherImpl{deps: deps, opts: opts}
}

// ExecuteBatch runs items strictly in order. Under continue-on-fail a failed
// item yields an error record and the batch goes on; otherwise the first
// failure ends the batch. Transactions submitted before an abort are not
// reverted.
func (d *dispatcherImpl) ExecuteBatch(ctx context.Context, req entity.BatchRequest) ([]entity.ExecutionResult, error) {
	log := d.deps.Logger.With("execution_id", uuid.NewString())
	log.Info("Executing batch", "items", len(req.Items), "continue_on_fail", req.ContinueOnFail)

	creds, err := d.deps.Credentials.Credentials(ctx)
	if err != nil {
		metrics.ObserveBatch(req.ContinueOnFail, "failed")
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}

	b := &batchEnv{d: d, creds: creds, log: log}
	lookup := req.Lookup()
	results := make([]entity.ExecutionResult, 0, len(req.Items))
	failed := 0

	for i, item := range req.Items {
		if err := ctx.Err(); err != nil {
			metrics.ObserveBatch(req.ContinueOnFail, "cancelled")
			return results, entity.NewTimeoutError("batch cancelled before item %d: %v", i, err)
		}

		fields, err := d.executeItem(ctx, b, entity.OperationRequest{
			Resource:  item.Resource,
			Operation: item.Operation,
			ItemIndex: i,
			Lookup:    lookup,
		})
		if err == nil {
			results = append(results, entity.NewExecutionResult(fields, d.opts.Now()))
			continue
		}

		failed++
		log.Warn("Operation failed",
			"item", i,
			"resource", item.Resource,
			"operation", item.Operation,
			"error_type", errorType(err),
			"error", err)

		if !req.ContinueOnFail {
			metrics.ObserveBatch(false, "failed")
			return results, &ItemError{Index: i, Resource: item.Resource, Operation: item.Operation, Err: err}
		}
		results = append(results, entity.NewExecutionResult(entity.Fields{
			"error":     err.Error(),
			"errorType": errorType(err),
			"resource":  item.Resource,
			"operation": item.Operation,
		}, d.opts.Now()))
	}

	outcome := "success"
	if failed > 0 {
		outcome = "partial"
	}
	metrics.ObserveBatch(req.ContinueOnFail, outcome)
	log.Info("Batch finished", "items", len(req.Items), "failed", failed)
	return results, nil
}

func (d *dispatcherImpl) executeItem(ctx context.Context, b *batchEnv, req entity.OperationRequest) (fields entity.Fields, err error) {
	start := time.Now()
	defer func() {
		outcome := "success"
		if err != nil {
			outcome = strings.TrimSuffix(errorType(err), "Error")
		}
		metrics.ObserveOperation(req.Resource, req.Operation, outcome, time.Since(start).Seconds())
	}()

	desc, err := executor.Lookup(req.Resource, req.Operation)
	if err != nil {
		return nil, err
	}
	env, err := b.envFor(ctx, desc.Needs)
	if err != nil {
		return nil, err
	}
	b.log.Debug("Running operation", "item", req.ItemIndex, "operation", desc.Key.String())
	return desc.Run(ctx, env, executor.ParamsFor(req))
}

// ItemError is returned in abort mode. It unwraps to the item's error.
type ItemError struct {
	Index     int
	Resource  string
	Operation string
	Err       error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d (%s.%s): %v", e.Index, e.Resource, e.Operation, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }

func errorType(err error) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return string(entity.KindTimeout)
	}
	return string(entity.KindOf(err))
}

// batchEnv builds transports lazily and at most once per batch.
type batchEnv struct {
	d     *dispatcherImpl
	creds entity.Credentials
	log   port.Logger

	network    *entity.NetworkDefinition
	networkErr error
	chain      port.ChainClient
	chainErr   error
	signer     *ecdsa.PrivateKey
	signerErr  error
	api        port.GameAPI
	apiErr     error
}

func (b *batchEnv) envFor(_ context.Context, needs executor.Need) (*executor.Env, error) {
	network, err := b.resolveNetwork()
	if err != nil {
		return nil, err
	}
	env := &executor.Env{
		Network:        network,
		Networks:       b.d.deps.Networks,
		Tokens:         b.d.deps.Tokens,
		Logger:         b.log,
		ConfirmTimeout: b.d.opts.ConfirmTimeout,
		IPFSGateway:    b.d.opts.IPFSGateway,
		Now:            b.d.opts.Now,
	}

	if needs.Has(executor.NeedSigner) {
		if env.Signer, err = b.resolveSigner(); err != nil {
			return nil, err
		}
	}
	if needs.Has(executor.NeedChain) {
		if env.Chain, err = b.resolveChain(network); err != nil {
			return nil, err
		}
	}
	if needs.Has(executor.NeedAPI) {
		if env.API, err = b.resolveAPI(); err != nil {
			return nil, err
		}
	}
	if needs.Has(executor.NeedPrices) {
		if b.d.deps.Prices == nil {
			return nil, entity.NewInvalidInputError("price feed is not configured")
		}
		env.Prices = b.d.deps.Prices
	}
	if needs.Has(executor.NeedMetadata) {
		if b.d.deps.Metadata == nil {
			return nil, entity.NewInvalidInputError("metadata fetcher is not configured")
		}
		env.Metadata = b.d.deps.Metadata
	}
	return env, nil
}

// resolveNetwork uses the chain credentials when present and mainnet
// otherwise, so pure helpers still know the native currency.
func (b *batchEnv) resolveNetwork() (entity.NetworkDefinition, error) {
	if b.network == nil && b.networkErr == nil {
		var def entity.NetworkDefinition
		if b.creds.Chain != nil {
			def, b.networkErr = b.d.deps.Networks.Resolve(*b.creds.Chain)
		} else {
			def, b.networkErr = b.d.deps.Networks.Network(entity.NetworkMainnet)
		}
		if b.networkErr == nil {
			b.network = &def
		}
	}
	if b.networkErr != nil {
		return entity.NetworkDefinition{}, b.networkErr
	}
	return *b.network, nil
}

func (b *batchEnv) resolveChain(network entity.NetworkDefinition) (port.ChainClient, error) {
	if b.chain != nil || b.chainErr != nil {
		return b.chain, b.chainErr
	}
	if network.RPCURL == "" {
		b.chainErr = entity.NewInvalidInputError("network %s has no rpcUrl", network.Identifier)
		return nil, b.chainErr
	}
	b.chain, b.chainErr = b.d.deps.Chains.GetClient(network)
	if b.chainErr != nil {
		b.chainErr = entity.NewTransportError("rpc", b.chainErr)
	}
	return b.chain, b.chainErr
}

// resolveSigner parses the private key. The key itself never appears in an
// error message.
func (b *batchEnv) resolveSigner() (*ecdsa.PrivateKey, error) {
	if b.signer != nil || b.signerErr != nil {
		return b.signer, b.signerErr
	}
	if b.creds.Chain == nil || !b.creds.Chain.HasSigner() {
		b.signerErr = entity.NewInvalidInputError("chain credentials do not include a private key")
		return nil, b.signerErr
	}
	raw := strings.TrimPrefix(strings.TrimSpace(b.creds.Chain.PrivateKey), "0x")
	key, err := crypto.HexToECDSA(raw)
	if err != nil {
		b.signerErr = entity.NewInvalidInputError("chain credentials: private key is malformed")
		return nil, b.signerErr
	}
	b.signer = key
	b.log.Debug("Signer loaded", "address", crypto.PubkeyToAddress(key.PublicKey).Hex())
	return key, nil
}

func (b *batchEnv) resolveAPI() (port.GameAPI, error) {
	if b.api != nil || b.apiErr != nil {
		return b.api, b.apiErr
	}
	if b.creds.API == nil {
		b.apiErr = entity.NewInvalidInputError("api credentials are not configured")
		return nil, b.apiErr
	}
	if err := b.creds.API.Validate(); err != nil {
		b.apiErr = err
		return nil, err
	}
	b.api, b.apiErr = b.d.deps.APIs.GetClient(*b.creds.API)
	return b.api, b.apiErr
}

var _ port.Dispatcher = (*dispatcherImpl)(nil)
