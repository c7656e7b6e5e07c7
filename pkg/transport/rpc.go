// Package transport reads record accounts over Solana JSON-RPC.
package transport

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/ssargent/snsrecords/pkg/records"
)

// MaxAccountsPerRequest is the getMultipleAccounts limit of public RPC nodes.
const MaxAccountsPerRequest = 100

// DefaultEndpoint is the public mainnet RPC.
const DefaultEndpoint = rpc.MainNetBeta_RPC

// rpcAPI is the subset of *rpc.Client the fetcher calls.
type rpcAPI interface {
	GetAccountInfoWithOpts(ctx context.Context, account solana.PublicKey, opts *rpc.GetAccountInfoOpts) (*rpc.GetAccountInfoResult, error)
	GetMultipleAccountsWithOpts(ctx context.Context, accounts []solana.PublicKey, opts *rpc.GetMultipleAccountsOpts) (*rpc.GetMultipleAccountsResult, error)
}

// Config holds configuration for an RPCFetcher.
type Config struct {
	Endpoint   string
	Timeout    time.Duration // per call, 0 disables
	Commitment rpc.CommitmentType
	Logger     *zap.Logger
	Metrics    *Metrics // optional
}

// RPCFetcher implements records.AccountFetcher against a JSON-RPC node.
type RPCFetcher struct {
	client     rpcAPI
	timeout    time.Duration
	commitment rpc.CommitmentType
	logger     *zap.Logger
	metrics    *Metrics
}

var _ records.AccountFetcher = (*RPCFetcher)(nil)

// NewRPCFetcher creates a fetcher for config.Endpoint.
func NewRPCFetcher(config Config) *RPCFetcher {
	if config.Endpoint == "" {
		config.Endpoint = DefaultEndpoint
	}
	return newFetcher(rpc.New(config.Endpoint), config)
}

func newFetcher(client rpcAPI, config Config) *RPCFetcher {
	if config.Commitment == "" {
		config.Commitment = rpc.CommitmentConfirmed
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	return &RPCFetcher{
		client:     client,
		timeout:    config.Timeout,
		commitment: config.Commitment,
		logger:     config.Logger,
		metrics:    config.Metrics,
	}
}

// GetAccountData returns the raw data of key, or records.ErrNotFound.
func (f *RPCFetcher) GetAccountData(ctx context.Context, key solana.PublicKey) ([]byte, error) {
	ctx, cancel := f.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	out, err := f.client.GetAccountInfoWithOpts(ctx, key, &rpc.GetAccountInfoOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: f.commitment,
	})
	f.metrics.recordCall("getAccountInfo", err, time.Since(start))

	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, records.ErrNotFound
		}
		return nil, fmt.Errorf("getAccountInfo %s: %w", key, err)
	}
	if out == nil || out.Value == nil || out.Value.Data == nil {
		return nil, records.ErrNotFound
	}
	data := out.Value.Data.GetBinary()
	f.metrics.recordAccounts(1, len(data))
	return data, nil
}

// GetMultipleAccountData returns the data of every key in order, nil for
// absent accounts. Keys beyond MaxAccountsPerRequest are split into several
// calls.
func (f *RPCFetcher) GetMultipleAccountData(ctx context.Context, keys []solana.PublicKey) ([][]byte, error) {
	out := make([][]byte, 0, len(keys))
	for lo := 0; lo < len(keys); lo += MaxAccountsPerRequest {
		hi := min(lo+MaxAccountsPerRequest, len(keys))
		chunk, err := f.getMultiple(ctx, keys[lo:hi])
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
	}
	return out, nil
}

func (f *RPCFetcher) getMultiple(ctx context.Context, keys []solana.PublicKey) ([][]byte, error) {
	ctx, cancel := f.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	res, err := f.client.GetMultipleAccountsWithOpts(ctx, keys, &rpc.GetMultipleAccountsOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: f.commitment,
	})
	f.metrics.recordCall("getMultipleAccounts", err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("getMultipleAccounts (%d keys): %w", len(keys), err)
	}
	if res == nil || len(res.Value) != len(keys) {
		got := 0
		if res != nil {
			got = len(res.Value)
		}
		return nil, fmt.Errorf("getMultipleAccounts: requested %d accounts, node returned %d", len(keys), got)
	}

	out := make([][]byte, len(keys))
	found, size := 0, 0
	for i, acct := range res.Value {
		if acct == nil || acct.Data == nil {
			continue
		}
		out[i] = acct.Data.GetBinary()
		found++
		size += len(out[i])
	}
	f.metrics.recordAccounts(found, size)
	f.logger.Debug("getMultipleAccounts",
		zap.Int("requested", len(keys)),
		zap.Int("found", found),
		zap.Duration("elapsed", time.Since(start)))
	return out, nil
}

func (f *RPCFetcher) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if f.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, f.timeout)
}
